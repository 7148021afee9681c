package cart

import (
	"context"
	"errors"

	cartledger "osebo-storefront/internal/cart"
	"osebo-storefront/internal/domain"
	cartrepo "osebo-storefront/internal/repository/cart"
)

// Owner identifies the cart's single writer: a logged-in customer or a guest
// session. Exactly one field is set.
type Owner struct {
	CustomerID string
	GuestID    string
}

type Service struct {
	repo        cartRepo
	productRepo productRepo
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetActiveByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	GetActiveByGuest(ctx context.Context, guestID string) (*domain.Cart, error)
	ReplaceLines(ctx context.Context, cartID string, lines []domain.CartLine) error
	AssignCustomerToGuest(ctx context.Context, guestID, customerID string) (*domain.Cart, error)
	SetState(ctx context.Context, cartID, state string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

// Summary is the derived monetary view of a cart.
type Summary struct {
	ItemCount     int   `json:"itemCount"`
	SubtotalCents int64 `json:"subtotalCents"`
	TaxCents      int64 `json:"taxCents"`
	TotalCents    int64 `json:"totalCents"`
}

// Summarize recomputes aggregates from the cart's current lines. Aggregates
// are never stored; they are always derived.
func Summarize(c domain.Cart) Summary {
	ledger := ledgerFromCart(c)
	return Summary{
		ItemCount:     ledger.ItemCount(),
		SubtotalCents: ledger.SubtotalCents(),
		TaxCents:      ledger.TaxCents(),
		TotalCents:    ledger.TotalCents(),
	}
}

// GetOrCreate returns the owner's active cart, creating one if needed.
func (s *Service) GetOrCreate(ctx context.Context, owner Owner) (*domain.Cart, error) {
	cart, err := s.findActive(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	in := cartrepo.CreateCartInput{Currency: "GHS"}
	switch {
	case owner.CustomerID != "":
		in.CustomerID = &owner.CustomerID
	case owner.GuestID != "":
		in.GuestID = &owner.GuestID
	default:
		return nil, errors.New("cart owner required")
	}
	return s.repo.Create(ctx, in)
}

type AddItemInput struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// AddItem appends or merges a line. Title, price and image come from the
// catalog, never from the client.
func (s *Service) AddItem(ctx context.Context, owner Owner, in AddItemInput) (*domain.Cart, error) {
	if in.Quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, err
	}
	variant, ok := product.VariantByID(in.VariantID)
	if !ok {
		return nil, errors.New("variant not found")
	}

	cart, err := s.GetOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}

	ledger := ledgerFromCart(*cart)
	imageURL := ""
	if len(product.ImageURLs) > 0 {
		imageURL = product.ImageURLs[0]
	}
	ledger.AddItem(cartledger.LineItem{
		ProductID:      product.ID,
		VariantID:      variant.ID,
		Title:          product.Name,
		Size:           variant.Size,
		Color:          variant.Color,
		UnitPriceCents: product.PriceCents,
		Quantity:       in.Quantity,
		ImageURL:       imageURL,
	})

	return s.saveLedger(ctx, cart.ID, ledger)
}

// UpdateLine sets a line's quantity; zero or less removes the line.
func (s *Service) UpdateLine(ctx context.Context, owner Owner, lineID string, quantity int) (*domain.Cart, error) {
	cart, err := s.ownedCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	ledger := ledgerFromCart(*cart)
	ledger.UpdateQuantity(lineID, quantity)
	return s.saveLedger(ctx, cart.ID, ledger)
}

// RemoveLine deletes a line. Removing an absent line is not an error.
func (s *Service) RemoveLine(ctx context.Context, owner Owner, lineID string) (*domain.Cart, error) {
	cart, err := s.ownedCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	ledger := ledgerFromCart(*cart)
	ledger.RemoveItem(lineID)
	return s.saveLedger(ctx, cart.ID, ledger)
}

// Clear empties the owner's cart. Idempotent.
func (s *Service) Clear(ctx context.Context, owner Owner) (*domain.Cart, error) {
	cart, err := s.GetOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceLines(ctx, cart.ID, nil); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cart.ID)
}

// ClaimGuestCart attaches a guest's cart to a freshly logged-in customer.
// Missing guest cart is fine; an existing customer cart wins.
func (s *Service) ClaimGuestCart(ctx context.Context, guestID, customerID string) error {
	if _, err := s.repo.GetActiveByCustomer(ctx, customerID); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	_, err := s.repo.AssignCustomerToGuest(ctx, guestID, customerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// Close marks a cart ordered after successful checkout.
func (s *Service) Close(ctx context.Context, cartID string) error {
	return s.repo.SetState(ctx, cartID, "ordered")
}

func (s *Service) findActive(ctx context.Context, owner Owner) (*domain.Cart, error) {
	switch {
	case owner.CustomerID != "":
		return s.repo.GetActiveByCustomer(ctx, owner.CustomerID)
	case owner.GuestID != "":
		return s.repo.GetActiveByGuest(ctx, owner.GuestID)
	default:
		return nil, errors.New("cart owner required")
	}
}

func (s *Service) ownedCart(ctx context.Context, owner Owner) (*domain.Cart, error) {
	cart, err := s.findActive(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return cart, nil
}

func (s *Service) saveLedger(ctx context.Context, cartID string, ledger *cartledger.Ledger) (*domain.Cart, error) {
	lines := make([]domain.CartLine, 0, len(ledger.Lines()))
	for _, item := range ledger.Lines() {
		lines = append(lines, domain.CartLine{
			ID:             item.ID,
			CartID:         cartID,
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Title:          item.Title,
			Size:           item.Size,
			Color:          item.Color,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			ImageURL:       item.ImageURL,
		})
	}
	if err := s.repo.ReplaceLines(ctx, cartID, lines); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

func ledgerFromCart(c domain.Cart) *cartledger.Ledger {
	items := make([]cartledger.LineItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, cartledger.LineItem{
			ID:             line.ID,
			ProductID:      line.ProductID,
			VariantID:      line.VariantID,
			Title:          line.Title,
			Size:           line.Size,
			Color:          line.Color,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			ImageURL:       line.ImageURL,
		})
	}
	return cartledger.FromLines(items)
}
