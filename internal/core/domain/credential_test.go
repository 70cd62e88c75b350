// Package domain defines the core domain models for RelayMesh.
package domain

import (
	"strings"
	"testing"
)

func TestNewCredential(t *testing.T) {
	cred, err := NewCredential("alice", "correct horse battery", ScopeUser)
	if err != nil {
		t.Fatalf("NewCredential() error = %v", err)
	}

	if cred.Identity != "alice" {
		t.Errorf("Identity = %q, want %q", cred.Identity, "alice")
	}
	if cred.Scope != ScopeUser {
		t.Errorf("Scope = %q, want %q", cred.Scope, ScopeUser)
	}
	if !strings.HasPrefix(cred.SecretHash, "$argon2id$") {
		t.Errorf("SecretHash should be argon2id format, got %q", cred.SecretHash)
	}
	if strings.Contains(cred.SecretHash, "correct horse battery") {
		t.Error("SecretHash must not contain the plaintext secret")
	}
}

func TestCredentialVerifySecret(t *testing.T) {
	cred, err := NewCredential("alice", "s3cret", ScopeUser)
	if err != nil {
		t.Fatalf("NewCredential() error = %v", err)
	}

	if !cred.VerifySecret("s3cret") {
		t.Error("VerifySecret should accept the correct secret")
	}
	if cred.VerifySecret("wrong") {
		t.Error("VerifySecret should reject a wrong secret")
	}
	if cred.VerifySecret("") {
		t.Error("VerifySecret should reject an empty secret")
	}
}

func TestHashSecret_Salted(t *testing.T) {
	h1, err := HashSecret("same secret")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}
	h2, err := HashSecret("same secret")
	if err != nil {
		t.Fatalf("HashSecret() error = %v", err)
	}

	if h1 == h2 {
		t.Error("hashing the same secret twice should produce different salted hashes")
	}
	if !VerifySecretHash("same secret", h1) || !VerifySecretHash("same secret", h2) {
		t.Error("both hashes should verify the original secret")
	}
}

func TestHashSecret_Invalid(t *testing.T) {
	if _, err := HashSecret(""); err == nil {
		t.Error("empty secret should be rejected")
	}
	if _, err := HashSecret(strings.Repeat("x", MaxSecretLength+1)); err == nil {
		t.Error("oversized secret should be rejected")
	}
}

func TestVerifySecretHash_Garbage(t *testing.T) {
	tests := []string{
		"",
		"not a hash",
		"$argon2i$v=19$m=16384,t=2,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=16384,t=2,p=2$!!!$aGFzaA",
	}
	for _, h := range tests {
		if VerifySecretHash("secret", h) {
			t.Errorf("VerifySecretHash should reject %q", h)
		}
	}
}

func TestCredentialValidate(t *testing.T) {
	valid, err := NewCredential("alice", "secret", ScopeAdmin)
	if err != nil {
		t.Fatalf("NewCredential() error = %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Credential)
		wantErr bool
	}{
		{"valid", func(c *Credential) {}, false},
		{"empty identity", func(c *Credential) { c.Identity = "" }, true},
		{"oversized identity", func(c *Credential) { c.Identity = strings.Repeat("a", MaxIdentityLength+1) }, true},
		{"empty hash", func(c *Credential) { c.SecretHash = "" }, true},
		{"bad scope", func(c *Credential) { c.Scope = "root" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr && !IsDomainError(err, ErrCredentialValidation.Code) {
				t.Errorf("Validate() = %v, want ErrCredentialValidation", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{"user", ScopeUser, false},
		{"admin", ScopeAdmin, false},
		{"ADMIN", ScopeAdmin, false},
		{"root", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseScope(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseScope(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseScope(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}
