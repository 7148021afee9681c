package order

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"osebo-storefront/internal/checkout"
	"osebo-storefront/internal/delivery"
	"osebo-storefront/internal/domain"
	"osebo-storefront/internal/payment"
	orderrepo "osebo-storefront/internal/repository/order"
	cartsvc "osebo-storefront/internal/service/cart"
)

type stubOrderRepo struct {
	created  *domain.Order
	orders   map[string]*domain.Order
	statuses []string
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[string]*domain.Order{}}
}

func (s *stubOrderRepo) Create(_ context.Context, order domain.Order) (*domain.Order, error) {
	s.created = &order
	s.orders[order.ID] = &order
	return &order, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *stubOrderRepo) ListByCustomer(_ context.Context, _ string) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) List(_ context.Context, _ orderrepo.ListFilter) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, id, status string) (*domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.Status = status
	s.statuses = append(s.statuses, status)
	return o, nil
}

func (s *stubOrderRepo) RevenueByDay(_ context.Context, _ time.Time) ([]orderrepo.DailyStat, error) {
	return nil, nil
}

func (s *stubOrderRepo) TopProducts(_ context.Context, _ time.Time, _ int) ([]orderrepo.ProductStat, error) {
	return nil, nil
}

type stubCartService struct {
	cart     *domain.Cart
	closedID string
}

func (s *stubCartService) GetOrCreate(_ context.Context, _ cartsvc.Owner) (*domain.Cart, error) {
	return s.cart, nil
}

func (s *stubCartService) Close(_ context.Context, cartID string) error {
	s.closedID = cartID
	return nil
}

type stubPayments struct {
	initialized  *payment.InitializeInput
	initErr      error
	verifyStatus string
}

func (s *stubPayments) Initialize(_ context.Context, in payment.InitializeInput) (*payment.Authorization, error) {
	if s.initErr != nil {
		return nil, s.initErr
	}
	s.initialized = &in
	return &payment.Authorization{
		AuthorizationURL: "https://checkout.paystack.com/xyz",
		AccessCode:       "xyz",
		Reference:        in.Reference,
	}, nil
}

func (s *stubPayments) Verify(_ context.Context, reference string) (*payment.VerifyResult, error) {
	return &payment.VerifyResult{Reference: reference, Status: s.verifyStatus, AmountCents: 1}, nil
}

func filledCart() *domain.Cart {
	return &domain.Cart{
		ID:       "cart-1",
		GuestID:  strPtr("guest-1"),
		Currency: "GHS",
		State:    "active",
		Lines: []domain.CartLine{
			{ID: "line-1", CartID: "cart-1", ProductID: "prod-1", VariantID: "var-1", Title: "Accra Oversize Tee", Size: "M", UnitPriceCents: 10000, Quantity: 3},
		},
	}
}

func strPtr(s string) *string { return &s }

func validForm() checkout.Form {
	return checkout.Form{
		CustomerName: "Ama Mensah",
		Phone:        "+233241234567",
		Email:        "ama@example.com",
		DeliveryDate: "2025-06-12",
		TimeWindow:   "12pm-3pm",
		Address: checkout.Address{
			Street: "12 Oxford Street",
			City:   "Accra",
			Region: "greater-accra",
		},
		PaymentMethod: "cash-on-delivery",
	}
}

func testService(carts *stubCartService, payments *stubPayments) (*Service, *stubOrderRepo) {
	repo := newStubOrderRepo()
	svc := New(repo, carts, payments, delivery.NewScheduler(delivery.GhanaHolidays()), log.New(io.Discard, "", 0))
	// Tuesday morning, well before cutoff.
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

func TestPlaceCashOnDelivery(t *testing.T) {
	carts := &stubCartService{cart: filledCart()}
	svc, repo := testService(carts, &stubPayments{})

	order, err := svc.Place(context.Background(), cartsvc.Owner{GuestID: "guest-1"}, validForm())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending, got %s", order.Status)
	}
	if order.SubtotalCents != 30000 || order.TaxCents != 2250 || order.DeliveryFeeCents != 2000 {
		t.Fatalf("unexpected totals: %+v", order)
	}
	if order.TotalCents != 34250 {
		t.Fatalf("expected total 34250, got %d", order.TotalCents)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 3 {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
	if order.PaymentURL != "" {
		t.Fatalf("cash order should have no payment url, got %s", order.PaymentURL)
	}
	if carts.closedID != "cart-1" {
		t.Fatalf("cart not closed, closedID=%q", carts.closedID)
	}
	if repo.created == nil {
		t.Fatal("order was not persisted")
	}
}

func TestPlaceRegionFeeFallback(t *testing.T) {
	carts := &stubCartService{cart: filledCart()}
	svc, _ := testService(carts, &stubPayments{})

	form := validForm()
	form.Address.Region = "upper-west"
	order, err := svc.Place(context.Background(), cartsvc.Owner{GuestID: "guest-1"}, form)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if order.DeliveryFeeCents != 7000 {
		t.Fatalf("expected upper-west fee 7000, got %d", order.DeliveryFeeCents)
	}
}

func TestPlaceRejectsPastDeliveryDate(t *testing.T) {
	carts := &stubCartService{cart: filledCart()}
	svc, _ := testService(carts, &stubPayments{})

	form := validForm()
	form.DeliveryDate = "2025-06-01"
	_, err := svc.Place(context.Background(), cartsvc.Owner{GuestID: "guest-1"}, form)
	var fieldErrs checkout.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected field errors, got %v", err)
	}
	if fieldErrs["deliveryDate"] == "" {
		t.Fatalf("expected deliveryDate error, got %v", fieldErrs)
	}
}

func TestPlaceReportsFormAndDateErrorsTogether(t *testing.T) {
	carts := &stubCartService{cart: filledCart()}
	svc, _ := testService(carts, &stubPayments{})

	form := validForm()
	form.Phone = "12345"
	form.DeliveryDate = "2025-06-15" // Sunday
	_, err := svc.Place(context.Background(), cartsvc.Owner{GuestID: "guest-1"}, form)
	var fieldErrs checkout.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected field errors, got %v", err)
	}
	if fieldErrs["phone"] == "" || fieldErrs["deliveryDate"] == "" {
		t.Fatalf("expected both phone and deliveryDate errors, got %v", fieldErrs)
	}
}

func TestPlacePaystackRequiresEmail(t *testing.T) {
	carts := &stubCartService{cart: filledCart()}
	svc, _ := testService(carts, &stubPayments{})

	form := validForm()
	form.PaymentMethod = "paystack"
	form.Email = ""
	_, err := svc.Place(context.Background(), cartsvc.Owner{GuestID: "guest-1"}, form)
	var fieldErrs checkout.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected field errors, got %v", err)
	}
	if fieldErrs["email"] == "" {
		t.Fatalf("expected email error, got %v", fieldErrs)
	}
}

func TestPlacePaystackInitializesCheckout(t *testing.T) {
	carts := &stubCartService{cart: filledCart()}
	payments := &stubPayments{}
	svc, _ := testService(carts, payments)

	form := validForm()
	form.PaymentMethod = "paystack"
	order, err := svc.Place(context.Background(), cartsvc.Owner{GuestID: "guest-1"}, form)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if order.PaymentURL != "https://checkout.paystack.com/xyz" {
		t.Fatalf("expected payment url on order, got %q", order.PaymentURL)
	}
	if payments.initialized == nil {
		t.Fatal("payment was not initialized")
	}
	if payments.initialized.AmountCents != order.TotalCents {
		t.Fatalf("charged %d, order total %d", payments.initialized.AmountCents, order.TotalCents)
	}
	if payments.initialized.Reference != order.ID {
		t.Fatalf("payment reference %q should be the order id %q", payments.initialized.Reference, order.ID)
	}
}

func TestPlacePaystackFailureLeavesNoOrder(t *testing.T) {
	carts := &stubCartService{cart: filledCart()}
	payments := &stubPayments{initErr: payment.ErrUnavailable}
	svc, repo := testService(carts, payments)

	form := validForm()
	form.PaymentMethod = "paystack"
	_, err := svc.Place(context.Background(), cartsvc.Owner{GuestID: "guest-1"}, form)
	if err == nil {
		t.Fatal("expected error when provider is down")
	}
	if repo.created != nil {
		t.Fatal("order must not be persisted when payment init fails")
	}
	if carts.closedID != "" {
		t.Fatal("cart must stay open when payment init fails")
	}
}

func TestPlaceEmptyCart(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{ID: "cart-1", State: "active"}}
	svc, _ := testService(carts, &stubPayments{})

	_, err := svc.Place(context.Background(), cartsvc.Owner{GuestID: "guest-1"}, validForm())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestConfirmPayment(t *testing.T) {
	carts := &stubCartService{cart: filledCart()}
	payments := &stubPayments{verifyStatus: "success"}
	svc, repo := testService(carts, payments)

	form := validForm()
	form.PaymentMethod = "paystack"
	order, err := svc.Place(context.Background(), cartsvc.Owner{GuestID: "guest-1"}, form)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	confirmed, err := svc.ConfirmPayment(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if confirmed.Status != domain.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", confirmed.Status)
	}
	// already-confirmed order is returned as-is
	again, err := svc.ConfirmPayment(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("second ConfirmPayment: %v", err)
	}
	if again.Status != domain.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", again.Status)
	}
	if len(repo.statuses) != 1 {
		t.Fatalf("status should be written once, got %v", repo.statuses)
	}
}

func TestConfirmPaymentNotPaid(t *testing.T) {
	carts := &stubCartService{cart: filledCart()}
	payments := &stubPayments{verifyStatus: "abandoned"}
	svc, _ := testService(carts, payments)

	form := validForm()
	form.PaymentMethod = "paystack"
	order, err := svc.Place(context.Background(), cartsvc.Owner{GuestID: "guest-1"}, form)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if _, err := svc.ConfirmPayment(context.Background(), order.ID); err == nil {
		t.Fatal("expected error for unpaid transaction")
	}
}

func TestUpdateStatus(t *testing.T) {
	carts := &stubCartService{cart: filledCart()}
	svc, _ := testService(carts, &stubPayments{})

	order, err := svc.Place(context.Background(), cartsvc.Owner{GuestID: "guest-1"}, validForm())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), order.ID, "shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	updated, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", updated.Status)
	}
	if _, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusCancelled); err == nil {
		t.Fatal("expected error moving out of a terminal status")
	}
}

func TestDeliveryDatesSkipBlackouts(t *testing.T) {
	carts := &stubCartService{cart: filledCart()}
	svc, _ := testService(carts, &stubPayments{})

	for _, d := range svc.DeliveryDates() {
		if d.Weekday() == time.Sunday {
			t.Fatalf("offered a Sunday: %s", d.Format("2006-01-02"))
		}
	}
}
