package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"osebo-storefront/internal/delivery"
	holidayrepo "osebo-storefront/internal/repository/holiday"
	productrepo "osebo-storefront/internal/repository/product"
	productsvc "osebo-storefront/internal/service/product"
)

// Apply inserts catalog and holiday seed data for manual testing. Idempotent:
// products upsert on slug, holidays on their calendar date.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger) error {
	products := productsvc.New(productrepo.NewPostgres(pool, logger))
	for _, p := range catalog() {
		if _, err := products.Save(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Slug, err)
		}
	}

	holidays := holidayrepo.NewPostgres(pool)
	for _, h := range seedHolidays() {
		if err := holidays.Upsert(ctx, h); err != nil {
			return fmt.Errorf("seed holiday %s: %w", h.Name, err)
		}
	}

	return nil
}

func catalog() []productsvc.SaveInput {
	return []productsvc.SaveInput{
		{
			Slug:        "osu-oversize-tee",
			Name:        "Osu Oversize Tee",
			Description: "Heavyweight cotton tee with an Osu night-market print.",
			Category:    "tees",
			PriceCents:  15000,
			ImageURLs:   []string{"https://cdn.osebo.example/products/osu-oversize-tee.jpg"},
			Variants: []productsvc.VariantInput{
				{SKU: "OSU-TEE-M-BLK", Size: "M", Color: "black", Stock: 25},
				{SKU: "OSU-TEE-L-BLK", Size: "L", Color: "black", Stock: 25},
				{SKU: "OSU-TEE-XL-BLK", Size: "XL", Color: "black", Stock: 15},
			},
		},
		{
			Slug:        "kente-trim-hoodie",
			Name:        "Kente Trim Hoodie",
			Description: "Fleece hoodie with woven kente trim on the cuffs.",
			Category:    "hoodies",
			PriceCents:  38000,
			ImageURLs:   []string{"https://cdn.osebo.example/products/kente-trim-hoodie.jpg"},
			Variants: []productsvc.VariantInput{
				{SKU: "KTH-M-GRN", Size: "M", Color: "green", Stock: 12},
				{SKU: "KTH-L-GRN", Size: "L", Color: "green", Stock: 12},
				{SKU: "KTH-L-BLK", Size: "L", Color: "black", Stock: 8},
			},
		},
		{
			Slug:        "accra-cargo-pants",
			Name:        "Accra Cargo Pants",
			Description: "Relaxed-fit cargos in ripstop cotton.",
			Category:    "pants",
			PriceCents:  32000,
			ImageURLs:   []string{"https://cdn.osebo.example/products/accra-cargo-pants.jpg"},
			Variants: []productsvc.VariantInput{
				{SKU: "ACP-30-KHA", Size: "30", Color: "khaki", Stock: 10},
				{SKU: "ACP-32-KHA", Size: "32", Color: "khaki", Stock: 10},
				{SKU: "ACP-34-KHA", Size: "34", Color: "khaki", Stock: 6},
			},
		},
		{
			Slug:        "black-star-bucket-hat",
			Name:        "Black Star Bucket Hat",
			Description: "Embroidered bucket hat, one size.",
			Category:    "accessories",
			PriceCents:  9000,
			ImageURLs:   []string{"https://cdn.osebo.example/products/black-star-bucket-hat.jpg"},
			Variants: []productsvc.VariantInput{
				{SKU: "BSB-OS-BLK", Size: "OS", Color: "black", Stock: 40},
			},
		},
		{
			Slug:        "labadi-track-jacket",
			Name:        "Labadi Track Jacket",
			Description: "Retro track jacket with contrast piping.",
			Category:    "jackets",
			PriceCents:  45000,
			ImageURLs:   []string{"https://cdn.osebo.example/products/labadi-track-jacket.jpg"},
			Variants: []productsvc.VariantInput{
				{SKU: "LTJ-M-RED", Size: "M", Color: "red", Stock: 7},
				{SKU: "LTJ-L-RED", Size: "L", Color: "red", Stock: 7},
			},
		},
	}
}

// seedHolidays is the fixed national calendar plus this year's movable
// observances, which have to be pinned to a year.
func seedHolidays() []delivery.Holiday {
	out := delivery.GhanaHolidays()
	out = append(out,
		delivery.Holiday{Name: "Good Friday", Month: time.April, Day: 18, Year: 2025},
		delivery.Holiday{Name: "Easter Monday", Month: time.April, Day: 21, Year: 2025},
		delivery.Holiday{Name: "Eid al-Fitr", Month: time.March, Day: 31, Year: 2025},
		delivery.Holiday{Name: "Eid al-Adha", Month: time.June, Day: 6, Year: 2025},
	)
	return out
}
