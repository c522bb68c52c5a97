package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	tok, err := GenerateToken(secret, "42", RoleRespondent, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := VerifyToken(secret, tok, RoleRespondent)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != "42" {
		t.Errorf("expected user 42, got %q", claims.UserID)
	}
}

func TestVerifyTokenRejects(t *testing.T) {
	secret := []byte("test-secret")
	valid, _ := GenerateToken(secret, "1", RoleAdmin, time.Minute)
	expired, _ := GenerateToken(secret, "1", RoleAdmin, -time.Minute)

	tests := []struct {
		name   string
		secret []byte
		token  string
		role   string
	}{
		{"wrong secret", []byte("other"), valid, RoleAdmin},
		{"wrong role", secret, valid, RoleRespondent},
		{"expired", secret, expired, RoleAdmin},
		{"garbage", secret, "not-a-token", RoleAdmin},
		{"empty secret", nil, valid, RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyToken(tt.secret, tt.token, tt.role); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
