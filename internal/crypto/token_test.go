package crypto

import (
	"strings"
	"testing"
	"time"
)

func TestIssueAndValidate(t *testing.T) {
	codec := NewTokenCodec("test-secret")

	token, err := codec.Issue(Claims{"user_id": int64(42)}, time.Hour)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty string")
	}

	claims, err := codec.Validate(token)
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	uid, ok := claims.UserID()
	if !ok || uid != 42 {
		t.Errorf("Validate() user_id = %d, want 42", uid)
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("Validate() claims missing exp")
	}
}

func TestValidateWireFormat(t *testing.T) {
	codec := NewTokenCodec("test-secret")

	token, err := codec.Issue(Claims{"user_id": int64(7)}, time.Hour)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	if strings.Count(token, ".") != 1 {
		t.Errorf("token = %q, want exactly one '.' separator", token)
	}
}

func TestValidateMalformed(t *testing.T) {
	codec := NewTokenCodec("test-secret")

	for _, token := range []string{"", "not-a-token", "a.b.c", "!!!.???", "onlyonesegment"} {
		if _, err := codec.Validate(token); err != ErrInvalidToken {
			t.Errorf("Validate(%q) = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewTokenCodec("correct-secret").Issue(Claims{"user_id": int64(1)}, time.Hour)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	if _, err := NewTokenCodec("wrong-secret").Validate(token); err != ErrInvalidToken {
		t.Errorf("Validate() = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTampered(t *testing.T) {
	codec := NewTokenCodec("test-secret")

	token, err := codec.Issue(Claims{"user_id": int64(9)}, time.Hour)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	// Flip one character in each segment and expect rejection.
	for _, i := range []int{0, len(token) - 1} {
		b := []byte(token)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		if _, err := codec.Validate(string(b)); err != ErrInvalidToken {
			t.Errorf("Validate(tampered at %d) = %v, want ErrInvalidToken", i, err)
		}
	}
}

func TestValidateExpired(t *testing.T) {
	codec := NewTokenCodec("test-secret")

	token, err := codec.Issue(Claims{"user_id": int64(3)}, 0)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	if _, err := codec.Validate(token); err != ErrInvalidToken {
		t.Errorf("Validate() = %v, want ErrInvalidToken for zero ttl", err)
	}
}

func TestClaimsUserIDMissing(t *testing.T) {
	if _, ok := (Claims{}).UserID(); ok {
		t.Error("UserID() = ok for empty claims, want missing")
	}
	if _, ok := (Claims{"user_id": "abc"}).UserID(); ok {
		t.Error("UserID() = ok for non-numeric claim, want missing")
	}
}
