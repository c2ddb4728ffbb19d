package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestRoundTripWithKey(t *testing.T) {
	key := hex.EncodeToString(bytes.Repeat([]byte{0x42}, 32))
	svc, err := New(key)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("expected service to be configured")
	}

	enc, err := svc.EncryptString("+1 555 0100")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if string(enc) == "+1 555 0100" {
		t.Fatal("ciphertext should not equal plaintext")
	}

	plain, err := svc.DecryptString(enc)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if plain != "+1 555 0100" {
		t.Fatalf("round trip mismatch: %q", plain)
	}
}

func TestPassthroughWithoutKey(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if svc.Configured() {
		t.Fatal("expected unconfigured service")
	}
	enc, err := svc.EncryptString("plain")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if string(enc) != "plain" {
		t.Fatalf("expected passthrough, got %q", enc)
	}
}

func TestRejectsShortKey(t *testing.T) {
	if _, err := New(hex.EncodeToString([]byte("short"))); err == nil {
		t.Fatal("expected error for short key")
	}
}
