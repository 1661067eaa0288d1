package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/localbook/localbook/internal/model"
	"github.com/localbook/localbook/internal/store/memory"
)

func newTestService() (*Service, *memory.Memory) {
	st := memory.New()
	return NewService(st, "test-secret", time.Hour), st
}

func TestClientSignupLoginRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, token, err := svc.SignupClient(ctx, "Ada", "Ada@Example.Test", "correcthorse")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.Email != "ada@example.test" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
	if u.Role != model.RoleClient {
		t.Errorf("role = %q, want client", u.Role)
	}
	if u.PasswordHash == "correcthorse" || u.PasswordHash == "" {
		t.Error("password stored unhashed")
	}

	actor, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify signup token: %v", err)
	}
	if actor.SubjectID != u.ID || actor.Role != model.RoleClient || actor.BusinessID != "" {
		t.Errorf("actor = %+v, want subject %q role client", actor, u.ID)
	}

	// Login again, with a differently-cased email.
	u2, token2, err := svc.Login(ctx, "ADA@example.test", "correcthorse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u2.ID != u.ID {
		t.Errorf("login returned user %q, want %q", u2.ID, u.ID)
	}
	if _, err := svc.Verify(token2); err != nil {
		t.Errorf("verify login token: %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	if _, _, err := svc.SignupClient(ctx, "Ada", "ada@example.test", "correcthorse"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, err := svc.Login(ctx, "ada@example.test", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.test", "correcthorse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.SignupClient(ctx, "Ada", "ada@example.test", "short"); err == nil {
		t.Error("short password accepted")
	}
	if _, _, err := svc.SignupClient(ctx, "Ada", "not-an-email", "correcthorse"); err == nil {
		t.Error("invalid email accepted")
	}
	if _, _, err := svc.SignupClient(ctx, "", "ada@example.test", "correcthorse"); err == nil {
		t.Error("empty name accepted")
	}

	if _, _, err := svc.SignupClient(ctx, "Ada", "ada@example.test", "correcthorse"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, _, err := svc.SignupClient(ctx, "Other", "ada@example.test", "correcthorse"); !errors.Is(err, model.ErrEmailTaken) {
		t.Errorf("duplicate email: err = %v, want ErrEmailTaken", err)
	}
}

func TestBusinessSignupCreatesBusinessWithDefaultRate(t *testing.T) {
	svc, st := newTestService()
	ctx := context.Background()

	u, token, err := svc.SignupBusiness(ctx, BusinessSignup{
		Name:         "Bea",
		Email:        "bea@sheargenius.test",
		Password:     "correcthorse",
		BusinessName: "Shear Genius",
		Category:     "barber",
		Address:      "12 Clipper Lane",
		Phone:        "555-0147",
		Zone:         "north",
	})
	if err != nil {
		t.Fatalf("signup business: %v", err)
	}
	if u.Role != model.RoleBusiness || u.BusinessID == "" {
		t.Fatalf("user = %+v, want business role with business id", u)
	}

	biz, err := st.Businesses().Get(ctx, u.BusinessID)
	if err != nil {
		t.Fatalf("get business: %v", err)
	}
	if biz.CommissionRate != model.DefaultCommissionRate {
		t.Errorf("commission rate = %v, want default %v", biz.CommissionRate, model.DefaultCommissionRate)
	}
	if biz.Name != "Shear Genius" || biz.Category != "barber" {
		t.Errorf("business profile = %+v", biz)
	}

	actor, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if actor.BusinessID != u.BusinessID {
		t.Errorf("actor business = %q, want %q", actor.BusinessID, u.BusinessID)
	}
}

func TestBusinessSignupRejectsBadRate(t *testing.T) {
	svc, _ := newTestService()
	req := BusinessSignup{
		Name: "Bea", Email: "bea@example.test", Password: "correcthorse",
		BusinessName: "Shear Genius",
	}

	req.CommissionRate = -0.1
	if _, _, err := svc.SignupBusiness(context.Background(), req); err == nil {
		t.Error("negative rate accepted")
	}
	req.CommissionRate = 1.0
	if _, _, err := svc.SignupBusiness(context.Background(), req); err == nil {
		t.Error("rate of 1.0 accepted")
	}
}

func TestVerifyRejectsTamperedAndExpiredTokens(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, token, err := svc.SignupClient(ctx, "Ada", "ada@example.test", "correcthorse")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.Verify(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("tampered token: err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: err = %v, want ErrInvalidToken", err)
	}

	// A token signed with someone else's secret fails.
	other := NewService(memory.New(), "other-secret", time.Hour)
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign secret: err = %v, want ErrInvalidToken", err)
	}

	// Move the clock past expiry.
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: err = %v, want ErrInvalidToken", err)
	}
}
