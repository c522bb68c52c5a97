package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vnkhanh/pesquisa-clima/testutil"
)

func TestAdminLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateAdmin(t, db, "rh", "senha123")
	svc := NewAdminService(db)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "rh", "senha123", false},
		{"trimmed", "  rh ", " senha123 ", false},
		{"wrong password", "rh", "senha", true},
		{"unknown user", "ti", "senha123", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if a.ID != admin.ID {
				t.Errorf("Expected admin %d, got %d", admin.ID, a.ID)
			}
		})
	}
}
