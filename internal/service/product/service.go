package product

import (
	"context"
	"errors"
	"strings"

	"osebo-storefront/internal/domain"
	productrepo "osebo-storefront/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, category string) ([]domain.Product, error) {
	return s.repo.List(ctx, strings.TrimSpace(category))
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// SaveInput carries an admin product create/update payload.
type SaveInput struct {
	ID          string         `json:"id,omitempty"`
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	PriceCents  int64          `json:"priceCents"`
	ImageURLs   []string       `json:"imageUrls,omitempty"`
	Variants    []VariantInput `json:"variants"`
}

type VariantInput struct {
	SKU   string `json:"sku"`
	Size  string `json:"size"`
	Color string `json:"color"`
	Stock int    `json:"stock"`
}

// Save validates and upserts a product with its variants.
func (s *Service) Save(ctx context.Context, in SaveInput) (*domain.Product, error) {
	slug := strings.TrimSpace(strings.ToLower(in.Slug))
	if slug == "" {
		slug = slugify(in.Name)
	}
	if slug == "" {
		return nil, errors.New("slug or name required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("name required")
	}
	if in.PriceCents <= 0 {
		return nil, errors.New("price must be positive")
	}
	if len(in.Variants) == 0 {
		return nil, errors.New("at least one variant required")
	}

	p := domain.Product{
		ID:          in.ID,
		Slug:        slug,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(strings.ToLower(in.Category)),
		PriceCents:  in.PriceCents,
		Currency:    "GHS",
		ImageURLs:   in.ImageURLs,
	}
	for _, v := range in.Variants {
		if strings.TrimSpace(v.SKU) == "" {
			return nil, errors.New("variant sku required")
		}
		if v.Stock < 0 {
			return nil, errors.New("variant stock cannot be negative")
		}
		p.Variants = append(p.Variants, domain.ProductVariant{
			SKU:   strings.TrimSpace(v.SKU),
			Size:  strings.TrimSpace(v.Size),
			Color: strings.TrimSpace(strings.ToLower(v.Color)),
			Stock: v.Stock,
		})
	}

	return s.repo.Upsert(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) SetVariantStock(ctx context.Context, variantID string, stock int) error {
	if stock < 0 {
		return errors.New("stock cannot be negative")
	}
	return s.repo.SetVariantStock(ctx, variantID, stock)
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(name)), " ", "-")
}
