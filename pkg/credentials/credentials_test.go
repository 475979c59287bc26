package credentials

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	digest, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if digest == "password123" {
		t.Fatal("digest must never equal the plaintext")
	}
	if !strings.HasPrefix(digest, "$2a$12$") {
		t.Errorf("digest %q does not carry the expected bcrypt cost prefix", digest)
	}
}

func TestVerifyPassword(t *testing.T) {
	digest, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name      string
		digest    string
		candidate string
		want      bool
		wantErr   bool
	}{
		{
			name:      "correct password verifies",
			digest:    digest,
			candidate: "password123",
			want:      true,
		},
		{
			name:      "wrong password is a clean mismatch",
			digest:    digest,
			candidate: "wrong",
			want:      false,
		},
		{
			name:      "malformed digest is an error",
			digest:    "not-a-bcrypt-digest",
			candidate: "password123",
			want:      false,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyPassword(tt.digest, tt.candidate)
			if (err != nil) != tt.wantErr {
				t.Errorf("VerifyPassword() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}
