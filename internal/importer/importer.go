// Package importer loads a JSON catalog export into the product tables.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"osebo-storefront/internal/domain"
	productsvc "osebo-storefront/internal/service/product"
)

type ProductWriter interface {
	Save(ctx context.Context, in productsvc.SaveInput) (*domain.Product, error)
}

// JSONImporter reads a catalog file: a JSON array of products, each with its
// variants inline.
type JSONImporter struct {
	reader   io.Reader
	products ProductWriter
}

func NewJSONImporter(r io.Reader, products ProductWriter) *JSONImporter {
	return &JSONImporter{reader: r, products: products}
}

// Run decodes and upserts every product in the file, stopping at the first
// bad entry so a partial import is visible in the count.
func (i *JSONImporter) Run(ctx context.Context) (int, error) {
	var entries []productsvc.SaveInput
	if err := json.NewDecoder(i.reader).Decode(&entries); err != nil {
		return 0, fmt.Errorf("decode catalog: %w", err)
	}

	imported := 0
	for n, entry := range entries {
		if _, err := i.products.Save(ctx, entry); err != nil {
			return imported, fmt.Errorf("import entry %d (%s): %w", n, entry.Slug, err)
		}
		imported++
	}
	return imported, nil
}
