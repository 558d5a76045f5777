package user

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	dbc "chatrelay/internal/app/db/sqlc"
	"chatrelay/internal/pkg/auth/jwt"
	"chatrelay/internal/pkg/errs"
)

const testSecret = "test-secret"

type memoryStore struct {
	mu          sync.Mutex
	users       map[string]dbc.User
	emailsTaken map[string]bool
	calls       int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[string]dbc.User), emailsTaken: make(map[string]bool)}
}

func (s *memoryStore) UpsertUser(_ context.Context, arg dbc.UpsertUserParams) (dbc.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if arg.Email.Valid && s.emailsTaken[arg.Email.String] {
		return dbc.User{}, &pgconn.PgError{Code: "23505"}
	}

	if existing, ok := s.users[arg.ID]; ok {
		if arg.Email.Valid {
			existing.Email = arg.Email
		}
		s.users[arg.ID] = existing
		return existing, nil
	}

	row := dbc.User{
		ID:          arg.ID,
		Email:       arg.Email,
		DisplayName: arg.DisplayName,
		CreatedAt:   pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	s.users[arg.ID] = row
	return row, nil
}

func mint(t *testing.T, sub, email, name string) string {
	t.Helper()

	claims := &jwt.Claims{Email: email, Name: name}
	claims.Subject = sub

	token, err := jwt.GenerateToken(claims, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	return token
}

func TestVerifyProvisionsOnFirstSight(t *testing.T) {
	store := newMemoryStore()
	p := NewProvisioner(jwt.NewVerifier(testSecret, ""), store)

	identity, err := p.Verify(context.Background(), mint(t, "u1", "u1@example.com", "Alice"))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if identity != "u1" {
		t.Fatalf("Expected identity u1, got %q", identity)
	}

	row := store.users["u1"]
	if row.DisplayName.String != "Alice" || row.Email.String != "u1@example.com" {
		t.Errorf("Unexpected provisioned row %+v", row)
	}
}

func TestProvisionKeepsExistingDisplayName(t *testing.T) {
	store := newMemoryStore()
	p := NewProvisioner(jwt.NewVerifier(testSecret, ""), store)

	first, err := p.Authenticate(context.Background(), mint(t, "u1", "", "Alice"))
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	second, err := p.Authenticate(context.Background(), mint(t, "u1", "", "Someone Else"))
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	if second.DisplayName != first.DisplayName {
		t.Errorf("Display name changed from %q to %q", first.DisplayName, second.DisplayName)
	}
}

func TestProvisionGeneratesDisplayName(t *testing.T) {
	p := NewProvisioner(jwt.NewVerifier(testSecret, ""), newMemoryStore())

	u, err := p.Authenticate(context.Background(), mint(t, "u2", "", ""))
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if !strings.HasPrefix(u.DisplayName, "User_") {
		t.Errorf("Expected generated display name, got %q", u.DisplayName)
	}
}

func TestProvisionDropsClaimedEmail(t *testing.T) {
	store := newMemoryStore()
	store.emailsTaken["shared@example.com"] = true
	p := NewProvisioner(jwt.NewVerifier(testSecret, ""), store)

	u, err := p.Authenticate(context.Background(), mint(t, "u3", "shared@example.com", "Carol"))
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if u.Email != "" || store.calls != 2 {
		t.Errorf("Expected a retry without email, got email=%q calls=%d", u.Email, store.calls)
	}
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	store := newMemoryStore()
	p := NewProvisioner(jwt.NewVerifier(testSecret, ""), store)

	claims := &jwt.Claims{}
	claims.Subject = "u1"
	forged, _ := jwt.GenerateToken(claims, "other-secret", time.Hour)

	if _, err := p.Verify(context.Background(), forged); err == nil {
		t.Fatal("Expected forged token to be rejected")
	}
	if store.calls != 0 {
		t.Error("Rejected tokens must not provision users")
	}
}

type failingStore struct{ err error }

func (s failingStore) UpsertUser(context.Context, dbc.UpsertUserParams) (dbc.User, error) {
	return dbc.User{}, s.err
}

func TestVerifyDistinguishesRejectionFromStoreFailure(t *testing.T) {
	outage := errors.New("connection refused")
	p := NewProvisioner(jwt.NewVerifier(testSecret, ""), failingStore{err: outage})

	_, err := p.Verify(context.Background(), mint(t, "u1", "", "Alice"))
	if err == nil || errs.CodeOf(err) == errs.ErrUnauthorized {
		t.Fatalf("A store failure must not look like a rejected token, got %v", err)
	}
	if !errors.Is(err, outage) {
		t.Errorf("Expected the store error to be wrapped, got %v", err)
	}

	_, err = p.Verify(context.Background(), "not-a-token")
	if errs.CodeOf(err) != errs.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized for a malformed token, got %v", err)
	}
}

func TestValidateDisplayName(t *testing.T) {
	if err := ValidateDisplayName("Alice"); err != nil {
		t.Errorf("Expected valid name, got %v", err)
	}
	if err := ValidateDisplayName(""); err == nil || err.Code != errs.ErrInvalidDisplayName {
		t.Error("Expected empty name to be rejected")
	}
	if err := ValidateDisplayName(strings.Repeat("名", MaxDisplayNameLength+1)); err == nil {
		t.Error("Expected long name to be rejected")
	}
	if err := ValidateDisplayName(strings.Repeat("名", MaxDisplayNameLength)); err != nil {
		t.Errorf("Expected name at the limit to pass, got %v", err)
	}
}
