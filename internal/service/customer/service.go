package customer

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"osebo-storefront/internal/checkout"
	"osebo-storefront/internal/domain"
	customerrepo "osebo-storefront/internal/repository/customer"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service struct {
	repo   customerRepo
	tokens *TokenManager
	carts  cartClaimer
	logger *log.Logger
}

type customerRepo interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

type cartClaimer interface {
	ClaimGuestCart(ctx context.Context, guestID, customerID string) error
}

func New(repo customerrepo.Repository, tokens *TokenManager, carts cartClaimer, logger *log.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, carts: carts, logger: logger}
}

type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	// GuestID, when set, carries the pre-signup guest cart over.
	GuestID string `json:"-"`
}

// Session is the result of a successful signup or login.
type Session struct {
	Token    string          `json:"token"`
	Customer domain.Customer `json:"customer"`
}

// Signup registers a customer and opens a session. A guest cart, if any,
// follows the new account.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if !checkout.ValidEmail(in.Email) {
		return nil, errors.New("email address is not valid")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	in.FirstName = strings.TrimSpace(in.FirstName)
	if in.FirstName == "" {
		return nil, errors.New("first name required")
	}
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Phone != "" && !checkout.ValidPhone(in.Phone) {
		return nil, errors.New("phone must be a valid Ghana number")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, domain.Customer{
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        in.Phone,
	})
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, created, in.GuestID)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	GuestID  string `json:"-"`
}

// Login checks credentials and opens a session. The same error covers an
// unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.openSession(ctx, c, in.GuestID)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) openSession(ctx context.Context, c *domain.Customer, guestID string) (*Session, error) {
	token, err := s.tokens.IssueSession(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if guestID != "" {
		if err := s.carts.ClaimGuestCart(ctx, guestID, c.ID); err != nil {
			s.logger.Printf("claim guest cart %s for customer %s: %v", guestID, c.ID, err)
		}
	}
	out := *c
	out.PasswordHash = ""
	return &Session{Token: token, Customer: out}, nil
}

func validatePassword(p string) error {
	if len(p) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
