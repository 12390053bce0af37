package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"restaurant-ordering-api/models"
	"restaurant-ordering-api/repository"
)

// OTPProvider sends and checks one-time codes for a phone number.
type OTPProvider interface {
	SendCode(ctx context.Context, phone string) (string, error)
	VerifyCode(ctx context.Context, phone, code string) error
}

type otpEntry struct {
	hash    []byte
	expires time.Time
}

// MockOTPProvider keeps codes in memory instead of sending an SMS. Only the
// bcrypt hash of a code is stored and each code verifies at most once.
type MockOTPProvider struct {
	mu    sync.Mutex
	ttl   time.Duration
	codes map[string]otpEntry
	now   func() time.Time
}

func NewMockOTPProvider(ttl time.Duration) *MockOTPProvider {
	return &MockOTPProvider{ttl: ttl, codes: make(map[string]otpEntry), now: time.Now}
}

func (p *MockOTPProvider) SendCode(ctx context.Context, phone string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}

	p.mu.Lock()
	p.codes[phone] = otpEntry{hash: hash, expires: p.now().Add(p.ttl)}
	p.mu.Unlock()
	return code, nil
}

func (p *MockOTPProvider) VerifyCode(ctx context.Context, phone, code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.codes[phone]
	if !ok {
		return fmt.Errorf("no code issued for this phone: %w", ErrUnauthorized)
	}
	if p.now().After(entry.expires) {
		delete(p.codes, phone)
		return fmt.Errorf("code expired: %w", ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword(entry.hash, []byte(code)) != nil {
		return fmt.Errorf("invalid code: %w", ErrUnauthorized)
	}
	delete(p.codes, phone)
	return nil
}

type UserInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Phone    string `json:"phone" validate:"omitempty,min=6,max=20"`
	GoogleID string `json:"googleId" validate:"max=128"`
}

type IdentityService struct {
	repo *repository.Repository
	otp  OTPProvider
}

func NewIdentityService(repo *repository.Repository, otp OTPProvider) *IdentityService {
	return &IdentityService{repo: repo, otp: otp}
}

func normalizePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", invalid("phone", "is required")
	}
	digits := 0
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0, r == ' ', r == '-':
		default:
			return "", invalid("phone", "must contain only digits, spaces, '-' and a leading '+'")
		}
	}
	if digits < 6 || len(phone) > 20 {
		return "", invalid("phone", "must have 6 to 20 characters")
	}
	return phone, nil
}

// SendCode issues a code for phone. The code is returned so a mock
// deployment can show it; callers decide whether to expose it.
func (s *IdentityService) SendCode(ctx context.Context, phone string) (string, error) {
	phone, err := normalizePhone(phone)
	if err != nil {
		return "", err
	}
	code, err := s.otp.SendCode(ctx, phone)
	if err != nil {
		return "", err
	}
	log.WithField("phone", maskPhone(phone)).Info("otp issued")
	return code, nil
}

// VerifyCode checks the code and returns the user for phone, creating one on
// first login.
func (s *IdentityService) VerifyCode(ctx context.Context, phone, code string) (*models.User, error) {
	phone, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if len(code) != 6 {
		return nil, invalid("otp", "must be 6 digits")
	}
	if err := s.otp.VerifyCode(ctx, phone, code); err != nil {
		return nil, err
	}
	return s.ResolveUser(ctx, phone, "")
}

// ResolveUser finds a user by phone, then email, and creates one if neither
// matches.
func (s *IdentityService) ResolveUser(ctx context.Context, phone, email string) (*models.User, error) {
	user, err := s.repo.FindUserByContact(ctx, phone, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	user = &models.User{Name: "User " + phone, Phone: phone, Email: email}
	if phone == "" {
		user.Name = "User " + email
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.WithField("user_id", user.ID).Info("user created")
	return user, nil
}

func (s *IdentityService) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	user := &models.User{Name: in.Name, Email: in.Email, Phone: in.Phone, GoogleID: in.GoogleID}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *IdentityService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user "+id)
	}
	return user, nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
