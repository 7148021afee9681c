package holiday

import (
	"context"
	"time"

	"osebo-storefront/internal/delivery"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]delivery.Holiday, error) {
	const q = `
SELECT name, month, day, year
FROM holidays
ORDER BY month, day
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []delivery.Holiday
	for rows.Next() {
		var h delivery.Holiday
		var month int
		if err := rows.Scan(&h.Name, &month, &h.Day, &h.Year); err != nil {
			return nil, err
		}
		h.Month = time.Month(month)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Upsert(ctx context.Context, h delivery.Holiday) error {
	const q = `
INSERT INTO holidays (name, month, day, year)
VALUES ($1, $2, $3, $4)
ON CONFLICT (month, day, year, name) DO NOTHING
`
	_, err := r.pool.Exec(ctx, q, h.Name, int(h.Month), h.Day, h.Year)
	return err
}
