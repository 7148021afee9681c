package order

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"osebo-storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `id::text, customer_id::text, customer_name, phone, email, delivery_date, time_window,
       street, city, region, directions, lat, lng,
       subtotal_cents, tax_cents, delivery_fee_cents, total_cents,
       payment_method, payment_reference, payment_url, status, created_at`

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Decrement stock first; collect every shortage before giving up so the
	// client can fix its whole cart in one round trip.
	var shortages []domain.StockShortage
	for _, item := range o.Items {
		cmd, err := tx.Exec(ctx, `
UPDATE product_variants
SET stock = stock - $1
WHERE id = $2 AND stock >= $1
`, item.Quantity, item.VariantID)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			var available int
			err := tx.QueryRow(ctx, `SELECT stock FROM product_variants WHERE id = $1`, item.VariantID).Scan(&available)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, err
			}
			shortages = append(shortages, domain.StockShortage{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Requested: item.Quantity,
				Available: available,
			})
		}
	}
	if len(shortages) > 0 {
		r.logger.Printf("order repo: create rejected, %d variant(s) short", len(shortages))
		return nil, &domain.InsufficientStockError{Shortages: shortages}
	}

	const q = `
INSERT INTO orders (
    id, customer_id, customer_name, phone, email, delivery_date, time_window,
    street, city, region, directions, lat, lng,
    subtotal_cents, tax_cents, delivery_fee_cents, total_cents,
    payment_method, payment_reference, payment_url, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
RETURNING created_at
`
	err = tx.QueryRow(ctx, q,
		o.ID, o.CustomerID, o.CustomerName, o.Phone, o.Email, o.DeliveryDate, o.TimeWindow,
		o.Address.Street, o.Address.City, o.Address.Region, o.Address.Directions, o.Address.Lat, o.Address.Lng,
		o.SubtotalCents, o.TaxCents, o.DeliveryFeeCents, o.TotalCents,
		o.PaymentMethod, o.PaymentReference, o.PaymentURL, o.Status,
	).Scan(&o.CreatedAt)
	if err != nil {
		r.logger.Printf("order repo: insert order id=%s error=%v", o.ID, err)
		return nil, err
	}

	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		if o.Items[i].ID == "" {
			o.Items[i].ID = uuid.NewString()
		}
		const iq = `
INSERT INTO order_items (id, order_id, product_id, variant_id, title, size, color, unit_price_cents, quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
		item := o.Items[i]
		if _, err := tx.Exec(ctx, iq, item.ID, item.OrderID, item.ProductID, item.VariantID, item.Title, item.Size, item.Color, item.UnitPriceCents, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s total_cents=%d", o.ID, o.TotalCents)
	return &o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, []*domain.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC
`
	return r.fetchOrders(ctx, q, customerID)
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]domain.Order, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if filter.Status != "" {
		const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE status = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`
		return r.fetchOrders(ctx, q, filter.Status, limit, filter.Offset)
	}
	const q = `
SELECT ` + orderColumns + `
FROM orders
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`
	return r.fetchOrders(ctx, q, limit, filter.Offset)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) RevenueByDay(ctx context.Context, since time.Time) ([]DailyStat, error) {
	const q = `
SELECT date_trunc('day', created_at) AS day, COUNT(*), COALESCE(SUM(total_cents), 0)
FROM orders
WHERE created_at >= $1 AND status <> 'cancelled'
GROUP BY day
ORDER BY day
`
	rows, err := r.pool.Query(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyStat
	for rows.Next() {
		var s DailyStat
		if err := rows.Scan(&s.Day, &s.OrderCount, &s.RevenueCents); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *postgresRepo) TopProducts(ctx context.Context, since time.Time, limit int) ([]ProductStat, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT oi.product_id::text, MIN(oi.title), SUM(oi.quantity)::int
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE o.created_at >= $1 AND o.status <> 'cancelled'
GROUP BY oi.product_id
ORDER BY SUM(oi.quantity) DESC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductStat
	for rows.Next() {
		var s ProductStat
		if err := rows.Scan(&s.ProductID, &s.Title, &s.Quantity); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *postgresRepo) fetchOrders(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.attachItems(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepo) attachItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	index := make(map[string]*domain.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		index[o.ID] = o
	}

	const q = `
SELECT id::text, order_id::text, product_id::text, variant_id::text, title, size, color, unit_price_cents, quantity
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY title
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VariantID, &item.Title, &item.Size, &item.Color, &item.UnitPriceCents, &item.Quantity); err != nil {
			return err
		}
		if o, ok := index[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var customerID *string
	err := row.Scan(
		&o.ID, &customerID, &o.CustomerName, &o.Phone, &o.Email, &o.DeliveryDate, &o.TimeWindow,
		&o.Address.Street, &o.Address.City, &o.Address.Region, &o.Address.Directions, &o.Address.Lat, &o.Address.Lng,
		&o.SubtotalCents, &o.TaxCents, &o.DeliveryFeeCents, &o.TotalCents,
		&o.PaymentMethod, &o.PaymentReference, &o.PaymentURL, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o.CustomerID = customerID
	return &o, nil
}
