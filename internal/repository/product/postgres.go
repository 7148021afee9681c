package product

import (
	"context"
	"errors"
	"io"
	"log"

	"osebo-storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const productColumns = `id::text, slug, name, COALESCE(description, ''), COALESCE(category, ''), price_cents, currency, image_urls, created_at`

func (r *postgresRepo) List(ctx context.Context, category string) ([]domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC
`
	args := []interface{}{}
	if category != "" {
		q = `
SELECT ` + productColumns + `
FROM products
WHERE category = $1
ORDER BY created_at DESC
`
		args = append(args, category)
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list category=%q error=%v", category, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.Category, &p.PriceCents, &p.Currency, &p.ImageURLs, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachVariants(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id::text, slug, name, COALESCE(description, ''), COALESCE(category, ''), price_cents, currency, image_urls, created_at
FROM products
WHERE id = $1
`
	return r.fetchOne(ctx, q, id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	const q = `
SELECT id::text, slug, name, COALESCE(description, ''), COALESCE(category, ''), price_cents, currency, image_urls, created_at
FROM products
WHERE slug = $1
`
	return r.fetchOne(ctx, q, slug)
}

func (r *postgresRepo) fetchOne(ctx context.Context, q string, arg interface{}) (*domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, arg).Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.Category, &p.PriceCents, &p.Currency, &p.ImageURLs, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	list := []domain.Product{p}
	if err := r.attachVariants(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *postgresRepo) attachVariants(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, 0, len(products))
	index := make(map[string]int, len(products))
	for i, p := range products {
		ids = append(ids, p.ID)
		index[p.ID] = i
	}

	const q = `
SELECT id::text, product_id::text, sku, size, color, stock
FROM product_variants
WHERE product_id = ANY($1::uuid[])
ORDER BY size, color
`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Size, &v.Color, &v.Stock); err != nil {
			return err
		}
		if i, ok := index[v.ProductID]; ok {
			products[i].Variants = append(products[i].Variants, v)
		}
	}
	return rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO products (id, slug, name, description, category, price_cents, currency, image_urls)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, COALESCE($8, '[]'::jsonb))
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    image_urls = EXCLUDED.image_urls
RETURNING id::text, created_at
`
	var res domain.Product
	err = tx.QueryRow(ctx, q,
		product.ID,
		product.Slug,
		product.Name,
		product.Description,
		product.Category,
		product.PriceCents,
		product.Currency,
		product.ImageURLs,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("product repo: upsert slug=%s error=%v", product.Slug, err)
		return nil, err
	}

	// Variants not present in the payload are removed; stock of surviving
	// variants is overwritten.
	keep := make([]string, 0, len(product.Variants))
	for _, v := range product.Variants {
		var variantID string
		const vq = `
INSERT INTO product_variants (product_id, sku, size, color, stock)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (product_id, size, color) DO UPDATE SET
    sku = EXCLUDED.sku,
    stock = EXCLUDED.stock
RETURNING id::text
`
		if err := tx.QueryRow(ctx, vq, res.ID, v.SKU, v.Size, v.Color, v.Stock).Scan(&variantID); err != nil {
			r.logger.Printf("product repo: upsert variant sku=%s error=%v", v.SKU, err)
			return nil, err
		}
		keep = append(keep, variantID)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM product_variants WHERE product_id = $1 AND NOT (id = ANY($2::uuid[]))`, res.ID, keep); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Printf("product repo: upserted slug=%s id=%s", product.Slug, res.ID)
	return r.GetByID(ctx, res.ID)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetVariantStock(ctx context.Context, variantID string, stock int) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE product_variants SET stock = $1 WHERE id = $2`, stock, variantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
