package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskdeck/apiserver/internal/store"
	"github.com/taskdeck/apiserver/types"
)

type stubUserRepository struct {
	users map[string]types.User // keyed by email
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{users: make(map[string]types.User)}
}

func (s *stubUserRepository) GetByID(ctx context.Context, id uuid.UUID) (types.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (s *stubUserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	if user, ok := s.users[email]; ok {
		return user, nil
	}
	return types.User{}, store.ErrNotFound
}

func (s *stubUserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	if _, ok := s.users[user.Email]; ok {
		return types.User{}, store.ErrConflict
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.Email] = user
	return user, nil
}

func newTestAuthService(repo UserRepository) *AuthService {
	return NewAuthService(repo, "test-secret", time.Hour)
}

func TestRegisterLoginVerifyRoundtrip(t *testing.T) {
	svc := newTestAuthService(newStubUserRepository())

	user, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Fatalf("expected store-assigned id")
	}
	if user.PasswordHash == "hunter22" {
		t.Fatalf("password stored in plaintext")
	}

	loggedIn, token, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login returned user %s, want %s", loggedIn.ID, user.ID)
	}

	verified, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified != user.ID {
		t.Fatalf("verify returned %s, want %s", verified, user.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepository())

	cases := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "   ", "a@example.com", "hunter22"},
		{"bad email", "Ada", "not-an-email", "hunter22"},
		{"short password", "Ada", "a@example.com", "pw"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.userName, tc.email, tc.password)
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(newStubUserRepository())

	if _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(context.Background(), "Other Ada", "ada@example.com", "hunter33")
	if !IsValidation(err) {
		t.Fatalf("expected validation error for duplicate email, got %v", err)
	}
}

func TestLoginDoesNotRevealWhichCredentialFailed(t *testing.T) {
	svc := newTestAuthService(newStubUserRepository())

	if _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, wrongPassword := svc.Login(context.Background(), "ada@example.com", "wrong")
	_, _, unknownEmail := svc.Login(context.Background(), "nobody@example.com", "hunter22")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("error messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := newTestAuthService(newStubUserRepository())

	token, err := svc.IssueToken(uuid.New())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}

	otherSecret := NewAuthService(newStubUserRepository(), "other-secret", time.Hour)
	foreign, err := otherSecret.IssueToken(uuid.New())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := svc.Verify(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := newTestAuthService(newStubUserRepository())

	claims := jwt.RegisteredClaims{
		Subject:   uuid.New().String(),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.Verify(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	svc := newTestAuthService(newStubUserRepository())

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}
