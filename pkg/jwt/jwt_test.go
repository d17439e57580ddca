package jwt

import (
	"testing"
	"time"

	"doctor-appointment-api/config"

	"github.com/google/uuid"
)

func newTestService(accessExpiry time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  accessExpiry,
		RefreshExpiry: time.Hour,
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestService(time.Minute)
	userID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "jane@example.com", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID || claims.Email != "jane@example.com" || claims.RoleID != 3 {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.TokenType != AccessToken || claims.TokenID != tokenID {
		t.Errorf("expected access token %s, got %s %s", tokenID, claims.TokenType, claims.TokenID)
	}
}

func TestRefreshTokenType(t *testing.T) {
	svc := newTestService(time.Minute)
	token, _, err := svc.GenerateRefreshToken(uuid.New(), "a@b.c", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.TokenType != RefreshToken {
		t.Errorf("expected refresh token, got %s", claims.TokenType)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestService(-time.Minute)
	token, _, err := svc.GenerateAccessToken(uuid.New(), "a@b.c", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := newTestService(time.Minute).GenerateAccessToken(uuid.New(), "a@b.c", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := NewJWTService(config.JWTConfig{Secret: "other", AccessExpiry: time.Minute})
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}
