// Package auth issues and verifies identity tokens for clients and
// business accounts. Passwords are bcrypt-hashed; tokens are HMAC-signed
// JWTs carrying the subject id, its role and, for business accounts, the
// business it acts for.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/localbook/localbook/internal/model"
	"github.com/localbook/localbook/internal/store"
)

var (
	// ErrInvalidCredentials covers both unknown emails and wrong
	// passwords; login never reveals which.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken flags a missing, malformed or expired token.
	ErrInvalidToken = errors.New("invalid token")
)

// Actor is the verified identity attached to a request.
type Actor struct {
	SubjectID  string
	Role       string
	BusinessID string
}

// tokenClaims is the JWT payload.
type tokenClaims struct {
	Role       string `json:"role"`
	BusinessID string `json:"biz,omitempty"`
	jwt.RegisteredClaims
}

// Service implements signup, login and token verification.
type Service struct {
	store  store.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService constructs an auth Service.
func NewService(st store.Store, secret string, ttl time.Duration) *Service {
	return &Service{store: st, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// SignupClient registers a client account and returns it with a fresh
// token.
func (s *Service) SignupClient(ctx context.Context, name, email, password string) (*model.User, string, error) {
	u, err := s.createUser(ctx, s.store, name, email, password, model.RoleClient, "")
	if err != nil {
		return nil, "", err
	}
	token, err := s.issueToken(u)
	return u, token, err
}

// BusinessSignup is the payload for registering a business account: the
// account holder plus the business's public and private profile.
type BusinessSignup struct {
	Name     string
	Email    string
	Password string

	BusinessName string
	Category     string
	Address      string
	Phone        string
	Zone         string
	// CommissionRate of zero means the marketplace default.
	CommissionRate float64
}

// SignupBusiness registers a business and its owning account atomically.
func (s *Service) SignupBusiness(ctx context.Context, req BusinessSignup) (*model.User, string, error) {
	if strings.TrimSpace(req.BusinessName) == "" {
		return nil, "", fmt.Errorf("business name is required")
	}
	rate := req.CommissionRate
	if rate == 0 {
		rate = model.DefaultCommissionRate
	}
	if rate < 0 || rate >= 1 {
		return nil, "", fmt.Errorf("commission rate must be a fraction in [0, 1)")
	}

	var u *model.User
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		biz := model.Business{
			ID:             uuid.New().String(),
			Name:           strings.TrimSpace(req.BusinessName),
			Category:       strings.TrimSpace(req.Category),
			Email:          strings.ToLower(strings.TrimSpace(req.Email)),
			Address:        req.Address,
			Phone:          req.Phone,
			Zone:           req.Zone,
			CommissionRate: rate,
			CreatedAt:      s.now(),
		}
		if err := tx.Businesses().Insert(ctx, &biz); err != nil {
			return err
		}
		var err error
		u, err = s.createUser(ctx, tx, req.Name, req.Email, req.Password, model.RoleBusiness, biz.ID)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	token, err := s.issueToken(u)
	return u, token, err
}

func (s *Service) createUser(ctx context.Context, st store.Store, name, email, password, role, businessID string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("name and a valid email are required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	if _, err := st.Users().GetByEmail(ctx, email); err == nil {
		return nil, model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		BusinessID:   businessID,
		CreatedAt:    s.now(),
	}
	if err := st.Users().Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := s.store.Users().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.issueToken(u)
	return u, token, err
}

func (s *Service) issueToken(u *model.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Role:       u.Role,
		BusinessID: u.BusinessID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning the actor it
// identifies.
func (s *Service) Verify(tokenStr string) (*Actor, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || (claims.Role != model.RoleClient && claims.Role != model.RoleBusiness) {
		return nil, ErrInvalidToken
	}
	return &Actor{SubjectID: claims.Subject, Role: claims.Role, BusinessID: claims.BusinessID}, nil
}
