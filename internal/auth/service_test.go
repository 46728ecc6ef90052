package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gmcandra/mebel-api/internal/logging"
	"github.com/gmcandra/mebel-api/internal/user"
)

var testPasetoKey = []byte("0123456789abcdef0123456789abcdef")

type memoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[uuid.UUID]*user.User)}
}

func (s *memoryUserStore) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == params.Email {
			return nil, user.ErrDuplicateEmail
		}
	}

	role := params.Role
	if role == "" {
		role = user.RoleUser
	}
	u := &user.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         role,
		IsVerified:   params.Verified,
	}
	if params.VerificationToken != "" {
		now := time.Now()
		token := params.VerificationToken
		u.VerificationToken = &token
		u.VerificationSentAt = &now
	}
	s.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (s *memoryUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *memoryUserStore) GetByVerificationToken(ctx context.Context, token string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.VerificationToken != nil && *u.VerificationToken == token && !u.IsVerified {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *memoryUserStore) CheckIfTokenAlreadyUsed(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.VerificationToken != nil && *u.VerificationToken == token && u.IsVerified {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryUserStore) MarkVerified(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.IsVerified = true
	return nil
}

func (s *memoryUserStore) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *memoryUserStore) UpdateVerificationToken(ctx context.Context, userID uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	now := time.Now()
	u.VerificationToken = &token
	u.VerificationSentAt = &now
	return nil
}

// setVerificationSentAt backdates a token for expiry tests.
func (s *memoryUserStore) setVerificationSentAt(userID uuid.UUID, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID].VerificationSentAt = &at
}

type memoryResetStore struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
}

func newMemoryResetStore() *memoryResetStore {
	return &memoryResetStore{tokens: make(map[string]uuid.UUID)}
}

func (s *memoryResetStore) StorePasswordResetToken(ctx context.Context, userID uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
	return nil
}

func (s *memoryResetStore) GetPasswordResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.tokens[token]
	if !ok {
		return uuid.Nil, ErrPasswordResetTokenNotFound
	}
	return userID, nil
}

func (s *memoryResetStore) DeletePasswordResetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *memoryResetStore) onlyToken(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tokens) != 1 {
		t.Fatalf("expected exactly 1 stored reset token, got %d", len(s.tokens))
	}
	for token := range s.tokens {
		return token
	}
	return ""
}

type noopEmailService struct{}

func (noopEmailService) SendVerificationEmail(ctx context.Context, toEmail, token string) error {
	return nil
}

func (noopEmailService) SendPasswordResetEmail(ctx context.Context, toEmail, token string) error {
	return nil
}

func newTestAuthService(t *testing.T, store *memoryUserStore, resets *memoryResetStore) *Service {
	t.Helper()
	tokenService, err := NewPasetoService(testPasetoKey)
	if err != nil {
		t.Fatalf("NewPasetoService: %v", err)
	}
	return NewService(store, resets, tokenService, noopEmailService{}, logging.NewLogger(true), time.Hour)
}

func registerVerifiedUser(t *testing.T, svc *Service, store *memoryUserStore, email, password string) *user.User {
	t.Helper()
	u, err := svc.Register(context.Background(), "Test User", email, password)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := store.MarkVerified(context.Background(), u.ID); err != nil {
		t.Fatalf("MarkVerified: %v", err)
	}
	return u
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestAuthService(t, newMemoryUserStore(), newMemoryResetStore())
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{"empty name", "", "a@example.com", "password123", ErrNameRequired},
		{"whitespace name", "   ", "a@example.com", "password123", ErrNameRequired},
		{"empty email", "Budi", "", "password123", ErrEmailRequired},
		{"malformed email", "Budi", "not-an-email", "password123", ErrInvalidEmailFormat},
		{"empty password", "Budi", "a@example.com", "", ErrPasswordRequired},
		{"short password", "Budi", "a@example.com", "short", ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.userName, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegister_CreatesUnverifiedUser(t *testing.T) {
	store := newMemoryUserStore()
	svc := newTestAuthService(t, store, newMemoryResetStore())

	u, err := svc.Register(context.Background(), "Budi", "budi@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.IsVerified {
		t.Error("self-registered user must start unverified")
	}
	if u.Role != user.RoleUser {
		t.Errorf("role = %s, want USER", u.Role)
	}
	if u.PasswordHash == "password123" {
		t.Error("password must not be stored in plaintext")
	}

	stored, err := store.GetByEmail(context.Background(), "budi@example.com")
	if err != nil {
		t.Fatalf("user was not persisted: %v", err)
	}
	if stored.VerificationToken == nil || *stored.VerificationToken == "" {
		t.Error("a verification token must be issued")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newMemoryUserStore()
	svc := newTestAuthService(t, store, newMemoryResetStore())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Budi", "budi@example.com", "password123"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(ctx, "Impostor", "budi@example.com", "password456")
	if !errors.Is(err, user.ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestLogin(t *testing.T) {
	store := newMemoryUserStore()
	svc := newTestAuthService(t, store, newMemoryResetStore())
	ctx := context.Background()
	registerVerifiedUser(t, svc, store, "budi@example.com", "password123")

	t.Run("success", func(t *testing.T) {
		token, u, err := svc.Login(ctx, "budi@example.com", "password123")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if token == "" {
			t.Error("expected a session token")
		}
		if u.Email != "budi@example.com" {
			t.Errorf("email = %q", u.Email)
		}

		tokenService, _ := NewPasetoService(testPasetoKey)
		claims, err := tokenService.VerifyToken(token)
		if err != nil {
			t.Fatalf("VerifyToken: %v", err)
		}
		if claims.UserID != u.ID.String() {
			t.Errorf("claims user id = %q, want %q", claims.UserID, u.ID)
		}
		if claims.Role != user.RoleUser {
			t.Errorf("claims role = %s, want USER", claims.Role)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "budi@example.com", "wrong-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email fails identically", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "password123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unverified account", func(t *testing.T) {
		if _, err := svc.Register(ctx, "Sari", "sari@example.com", "password123"); err != nil {
			t.Fatalf("Register: %v", err)
		}
		_, _, err := svc.Login(ctx, "sari@example.com", "password123")
		if !errors.Is(err, ErrEmailNotVerified) {
			t.Errorf("err = %v, want ErrEmailNotVerified", err)
		}
	})
}

func TestVerifyEmail(t *testing.T) {
	store := newMemoryUserStore()
	svc := newTestAuthService(t, store, newMemoryResetStore())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Budi", "budi@example.com", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	stored, _ := store.GetByEmail(ctx, "budi@example.com")
	token := *stored.VerificationToken

	t.Run("unknown token", func(t *testing.T) {
		if err := svc.VerifyEmail(ctx, "bogus"); !errors.Is(err, ErrInvalidVerificationToken) {
			t.Errorf("err = %v, want ErrInvalidVerificationToken", err)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		if err := svc.VerifyEmail(ctx, token); err != nil {
			t.Fatalf("VerifyEmail: %v", err)
		}
		verified, _ := store.GetByEmail(ctx, "budi@example.com")
		if !verified.IsVerified {
			t.Error("user should be verified")
		}
	})

	t.Run("token reuse", func(t *testing.T) {
		if err := svc.VerifyEmail(ctx, token); !errors.Is(err, ErrEmailAlreadyVerified) {
			t.Errorf("err = %v, want ErrEmailAlreadyVerified", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		u2, err := svc.Register(ctx, "Sari", "sari@example.com", "password123")
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		store.setVerificationSentAt(u2.ID, time.Now().Add(-25*time.Hour))

		stored2, _ := store.GetByEmail(ctx, "sari@example.com")
		if err := svc.VerifyEmail(ctx, *stored2.VerificationToken); !errors.Is(err, ErrTokenExpired) {
			t.Errorf("err = %v, want ErrTokenExpired", err)
		}
	})
}

func TestRequestPasswordReset(t *testing.T) {
	store := newMemoryUserStore()
	resets := newMemoryResetStore()
	svc := newTestAuthService(t, store, resets)
	ctx := context.Background()

	t.Run("unknown email is silent", func(t *testing.T) {
		if err := svc.RequestPasswordReset(ctx, "nobody@example.com"); err != nil {
			t.Errorf("err = %v, want nil", err)
		}
		if len(resets.tokens) != 0 {
			t.Error("no token should be stored for an unknown email")
		}
	})

	t.Run("unverified account is silent", func(t *testing.T) {
		if _, err := svc.Register(ctx, "Sari", "sari@example.com", "password123"); err != nil {
			t.Fatalf("Register: %v", err)
		}
		if err := svc.RequestPasswordReset(ctx, "sari@example.com"); err != nil {
			t.Errorf("err = %v, want nil", err)
		}
		if len(resets.tokens) != 0 {
			t.Error("no token should be stored for an unverified account")
		}
	})

	t.Run("verified account gets a token", func(t *testing.T) {
		registerVerifiedUser(t, svc, store, "budi@example.com", "password123")
		if err := svc.RequestPasswordReset(ctx, "budi@example.com"); err != nil {
			t.Fatalf("RequestPasswordReset: %v", err)
		}
		resets.onlyToken(t)
	})
}

func TestResetPassword(t *testing.T) {
	store := newMemoryUserStore()
	resets := newMemoryResetStore()
	svc := newTestAuthService(t, store, resets)
	ctx := context.Background()

	registerVerifiedUser(t, svc, store, "budi@example.com", "old-password")
	if err := svc.RequestPasswordReset(ctx, "budi@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	token := resets.onlyToken(t)

	t.Run("short password", func(t *testing.T) {
		if err := svc.ResetPassword(ctx, token, "short"); !errors.Is(err, ErrPasswordTooShort) {
			t.Errorf("err = %v, want ErrPasswordTooShort", err)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		if err := svc.ResetPassword(ctx, token, "new-password"); err != nil {
			t.Fatalf("ResetPassword: %v", err)
		}
		if _, _, err := svc.Login(ctx, "budi@example.com", "new-password"); err != nil {
			t.Errorf("login with new password: %v", err)
		}
		if _, _, err := svc.Login(ctx, "budi@example.com", "old-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("login with old password: err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("token is single use", func(t *testing.T) {
		if err := svc.ResetPassword(ctx, token, "another-password"); !errors.Is(err, ErrPasswordResetTokenNotFound) {
			t.Errorf("err = %v, want ErrPasswordResetTokenNotFound", err)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		if err := svc.ResetPassword(ctx, "bogus", "new-password"); !errors.Is(err, ErrPasswordResetTokenNotFound) {
			t.Errorf("err = %v, want ErrPasswordResetTokenNotFound", err)
		}
	})
}

func TestResendVerificationEmail(t *testing.T) {
	store := newMemoryUserStore()
	svc := newTestAuthService(t, store, newMemoryResetStore())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Budi", "budi@example.com", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	before, _ := store.GetByEmail(ctx, "budi@example.com")

	if err := svc.ResendVerificationEmail(ctx, "budi@example.com"); err != nil {
		t.Fatalf("ResendVerificationEmail: %v", err)
	}
	after, _ := store.GetByEmail(ctx, "budi@example.com")
	if *before.VerificationToken == *after.VerificationToken {
		t.Error("resending must rotate the verification token")
	}

	if err := svc.ResendVerificationEmail(ctx, "nobody@example.com"); err != nil {
		t.Errorf("unknown email must be silent, got %v", err)
	}
}
