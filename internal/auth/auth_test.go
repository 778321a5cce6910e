package auth

import (
	"testing"
)

func TestPassphraseList(t *testing.T) {
	hash, err := HashPassphrase("shepherd-2026")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	list, err := NewPassphraseList([]string{hash}, []string{"dev-passphrase"})
	if err != nil {
		t.Fatalf("build list: %v", err)
	}
	if list.Empty() {
		t.Fatal("list should not be empty")
	}

	if !list.Verify("shepherd-2026") {
		t.Error("hashed entry should verify")
	}
	if !list.Verify("dev-passphrase") {
		t.Error("plaintext dev entry should verify after startup hashing")
	}
	if list.Verify("wrong") {
		t.Error("unknown passphrase must not verify")
	}
}

func TestPassphraseListEmpty(t *testing.T) {
	list, err := NewPassphraseList(nil, nil)
	if err != nil {
		t.Fatalf("build list: %v", err)
	}
	if !list.Empty() {
		t.Error("expected empty list")
	}
	if list.Verify("anything") {
		t.Error("empty list must reject everything")
	}
}

func TestJWTRoundtrip(t *testing.T) {
	svc := NewJWTService("test-secret", 1)

	token, err := svc.Generate("Pastor John")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Name != "Pastor John" {
		t.Errorf("name = %q, want Pastor John", claims.Name)
	}
	if claims.Role != RolePastor {
		t.Errorf("role = %q, want %q", claims.Role, RolePastor)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", 1).Generate("Pastor John")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewJWTService("secret-b", 1).Validate(token); err == nil {
		t.Error("token signed with another secret must not validate")
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	if _, err := svc.Validate("not-a-token"); err == nil {
		t.Error("garbage must not validate")
	}
}
