package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	cartledger "osebo-storefront/internal/cart"
	"osebo-storefront/internal/checkout"
	"osebo-storefront/internal/delivery"
	"osebo-storefront/internal/domain"
	"osebo-storefront/internal/payment"
	"osebo-storefront/internal/region"
	orderrepo "osebo-storefront/internal/repository/order"
	cartsvc "osebo-storefront/internal/service/cart"
)

var ErrEmptyCart = errors.New("cart is empty")

type Service struct {
	repo      orderRepo
	carts     cartService
	payments  paymentClient
	scheduler *delivery.Scheduler
	logger    *log.Logger
	now       func() time.Time
}

type orderRepo interface {
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	List(ctx context.Context, filter orderrepo.ListFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
	RevenueByDay(ctx context.Context, since time.Time) ([]orderrepo.DailyStat, error)
	TopProducts(ctx context.Context, since time.Time, limit int) ([]orderrepo.ProductStat, error)
}

type cartService interface {
	GetOrCreate(ctx context.Context, owner cartsvc.Owner) (*domain.Cart, error)
	Close(ctx context.Context, cartID string) error
}

type paymentClient interface {
	Initialize(ctx context.Context, in payment.InitializeInput) (*payment.Authorization, error)
	Verify(ctx context.Context, reference string) (*payment.VerifyResult, error)
}

func New(repo orderRepo, carts cartService, payments paymentClient, scheduler *delivery.Scheduler, logger *log.Logger) *Service {
	return &Service{
		repo:      repo,
		carts:     carts,
		payments:  payments,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
}

// Place checks out the owner's active cart: the form is validated field by
// field, the delivery date is checked against the scheduling rules, totals
// are recomputed server-side, and stock is reserved when the order row is
// written. For paystack orders a hosted checkout is initialized and its URL
// returned on the order.
func (s *Service) Place(ctx context.Context, owner cartsvc.Owner, form checkout.Form) (*domain.Order, error) {
	form, fieldErrs := checkout.Validate(form)
	if fieldErrs == nil {
		fieldErrs = checkout.FieldErrors{}
	}
	if form.PaymentMethod == "paystack" && form.Email == "" {
		fieldErrs["email"] = "email is required for paystack payments"
	}
	var deliveryDate time.Time
	if _, ok := fieldErrs["deliveryDate"]; !ok {
		deliveryDate, _ = time.Parse(checkout.DateLayout, form.DeliveryDate)
		if check := s.scheduler.ValidateDate(deliveryDate, s.now()); !check.Valid {
			fieldErrs["deliveryDate"] = check.Reason
		}
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	cart, err := s.carts.GetOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	ledger := ledgerFromLines(cart.Lines)
	subtotal := ledger.SubtotalCents()
	tax := ledger.TaxCents()
	fee := region.FeeCents(form.Address.Region)

	order := domain.Order{
		ID:           uuid.NewString(),
		CustomerID:   cart.CustomerID,
		CustomerName: form.CustomerName,
		Phone:        form.Phone,
		Email:        form.Email,
		DeliveryDate: deliveryDate,
		TimeWindow:   form.TimeWindow,
		Address: domain.ShippingAddress{
			Street:     form.Address.Street,
			City:       form.Address.City,
			Region:     form.Address.Region,
			Directions: form.Address.Directions,
		},
		SubtotalCents:    subtotal,
		TaxCents:         tax,
		DeliveryFeeCents: fee,
		TotalCents:       subtotal + tax + fee,
		PaymentMethod:    form.PaymentMethod,
		Status:           domain.OrderStatusPending,
	}
	if c := form.Address.Coordinates; c != nil {
		lat, lng := c.Lat, c.Lng
		order.Address.Lat = &lat
		order.Address.Lng = &lng
	}
	for _, line := range cart.Lines {
		order.Items = append(order.Items, domain.OrderItem{
			OrderID:        order.ID,
			ProductID:      line.ProductID,
			VariantID:      line.VariantID,
			Title:          line.Title,
			Size:           line.Size,
			Color:          line.Color,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
		})
	}

	if form.PaymentMethod == "paystack" {
		auth, err := s.payments.Initialize(ctx, payment.InitializeInput{
			Email:       form.Email,
			AmountCents: order.TotalCents,
			Reference:   order.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize payment: %w", err)
		}
		order.PaymentReference = auth.Reference
		order.PaymentURL = auth.AuthorizationURL
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Close(ctx, cart.ID); err != nil {
		s.logger.Printf("close cart %s after order %s: %v", cart.ID, created.ID, err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// ConfirmPayment verifies a paystack reference and confirms the matching
// order when the provider reports it paid.
func (s *Service) ConfirmPayment(ctx context.Context, reference string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, reference)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPending {
		return order, nil
	}
	result, err := s.payments.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("payment not completed: %s", result.Status)
	}
	return s.repo.UpdateStatus(ctx, order.ID, domain.OrderStatusConfirmed)
}

// DeliveryDates returns the valid delivery dates from today's perspective.
func (s *Service) DeliveryDates() []time.Time {
	return s.scheduler.ValidDates(s.now())
}

// CheckDeliveryDate validates a single candidate date.
func (s *Service) CheckDeliveryDate(date time.Time) delivery.DateCheck {
	return s.scheduler.ValidateDate(date, s.now())
}

// admin operations

func (s *Service) List(ctx context.Context, filter orderrepo.ListFilter) ([]domain.Order, error) {
	if filter.Status != "" && !domain.ValidOrderStatus(filter.Status) {
		return nil, fmt.Errorf("unknown status %q", filter.Status)
	}
	return s.repo.List(ctx, filter)
}

// UpdateStatus moves an order to a new status. Delivered and cancelled are
// terminal.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.OrderStatusDelivered || current.Status == domain.OrderStatusCancelled {
		return nil, fmt.Errorf("order is already %s", current.Status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Analytics is the admin dashboard summary.
type Analytics struct {
	Revenue     []orderrepo.DailyStat   `json:"revenue"`
	TopProducts []orderrepo.ProductStat `json:"topProducts"`
}

func (s *Service) Summary(ctx context.Context, since time.Time) (*Analytics, error) {
	revenue, err := s.repo.RevenueByDay(ctx, since)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopProducts(ctx, since, 10)
	if err != nil {
		return nil, err
	}
	return &Analytics{Revenue: revenue, TopProducts: top}, nil
}

func ledgerFromLines(lines []domain.CartLine) *cartledger.Ledger {
	items := make([]cartledger.LineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, cartledger.LineItem{
			ID:             line.ID,
			ProductID:      line.ProductID,
			VariantID:      line.VariantID,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
		})
	}
	return cartledger.FromLines(items)
}
