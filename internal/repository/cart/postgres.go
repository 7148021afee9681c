package cart

import (
	"context"
	"errors"

	"osebo-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const cartColumns = `id::text, customer_id::text, guest_id, currency, state, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (customer_id, guest_id, currency, state)
VALUES ($1, $2, $3, 'active')
RETURNING ` + cartColumns + `
`
	currency := in.Currency
	if currency == "" {
		currency = "GHS"
	}
	row := r.pool.QueryRow(ctx, q, in.CustomerID, in.GuestID, currency)
	return scanCart(row)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE id = $1
`
	return r.fetchCart(ctx, q, id)
}

func (r *postgresRepo) GetActiveByCustomer(ctx context.Context, customerID string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE customer_id = $1 AND state = 'active'
ORDER BY created_at DESC
LIMIT 1
`
	return r.fetchCart(ctx, q, customerID)
}

func (r *postgresRepo) GetActiveByGuest(ctx context.Context, guestID string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE guest_id = $1 AND state = 'active'
ORDER BY created_at DESC
LIMIT 1
`
	return r.fetchCart(ctx, q, guestID)
}

func (r *postgresRepo) ReplaceLines(ctx context.Context, cartID string, lines []domain.CartLine) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	for _, line := range lines {
		const q = `
INSERT INTO cart_lines (id, cart_id, product_id, variant_id, title, size, color, unit_price_cents, quantity, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
		if _, err := tx.Exec(ctx, q,
			line.ID, cartID, line.ProductID, line.VariantID, line.Title,
			line.Size, line.Color, line.UnitPriceCents, line.Quantity, line.ImageURL,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) AssignCustomerToGuest(ctx context.Context, guestID, customerID string) (*domain.Cart, error) {
	const q = `
UPDATE carts
SET customer_id = $1,
    guest_id = NULL
WHERE guest_id = $2 AND state = 'active'
RETURNING id::text
`
	var cartID string
	if err := r.pool.QueryRow(ctx, q, customerID, guestID).Scan(&cartID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, cartID)
}

func (r *postgresRepo) SetState(ctx context.Context, cartID, state string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE carts SET state = $1 WHERE id = $2`, state, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchCart(ctx context.Context, q string, args ...interface{}) (*domain.Cart, error) {
	cart, err := scanCart(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, err
	}

	const linesQuery = `
SELECT id::text, cart_id::text, product_id::text, variant_id::text, title, size, color, unit_price_cents, quantity, image_url, created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.ProductID,
			&line.VariantID,
			&line.Title,
			&line.Size,
			&line.Color,
			&line.UnitPriceCents,
			&line.Quantity,
			&line.ImageURL,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cart, nil
}

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	var customerID *string
	var guestID *string
	if err := row.Scan(&cart.ID, &customerID, &guestID, &cart.Currency, &cart.State, &cart.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	cart.CustomerID = customerID
	cart.GuestID = guestID
	return &cart, nil
}
