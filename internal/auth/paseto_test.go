package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gmcandra/mebel-api/internal/user"
)

func TestNewPasetoService_RejectsShortKey(t *testing.T) {
	if _, err := NewPasetoService([]byte("too-short")); err == nil {
		t.Fatal("expected error for a key that is not 32 bytes")
	}
}

func TestPasetoService_RoundTrip(t *testing.T) {
	svc, err := NewPasetoService(testPasetoKey)
	if err != nil {
		t.Fatalf("NewPasetoService: %v", err)
	}

	u := &user.User{
		ID:    uuid.New(),
		Name:  "Budi",
		Email: "budi@example.com",
		Role:  user.RoleAdmin,
	}

	token, err := svc.CreateToken(u, time.Hour)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != u.ID.String() {
		t.Errorf("user id = %q, want %q", claims.UserID, u.ID)
	}
	if claims.Email != u.Email {
		t.Errorf("email = %q, want %q", claims.Email, u.Email)
	}
	if claims.Role != user.RoleAdmin {
		t.Errorf("role = %s, want ADMIN", claims.Role)
	}
	if claims.Name != u.Name {
		t.Errorf("name = %q, want %q", claims.Name, u.Name)
	}
}

func TestPasetoService_RejectsTamperedToken(t *testing.T) {
	svc, _ := NewPasetoService(testPasetoKey)
	u := &user.User{ID: uuid.New(), Email: "budi@example.com", Role: user.RoleUser}

	token, err := svc.CreateToken(u, time.Hour)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	tampered := token[:len(token)-4] + "AAAA"
	if _, err := svc.VerifyToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestPasetoService_RejectsWrongKey(t *testing.T) {
	svc, _ := NewPasetoService(testPasetoKey)
	other, _ := NewPasetoService([]byte("ffffffffffffffffffffffffffffffff"))
	u := &user.User{ID: uuid.New(), Email: "budi@example.com", Role: user.RoleUser}

	token, err := svc.CreateToken(u, time.Hour)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	if _, err := other.VerifyToken(token); err == nil {
		t.Error("a token must not verify under a different key")
	}
}
