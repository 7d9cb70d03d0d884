package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrInvalidToken covers every validation failure: forged, tampered,
// malformed and expired tokens are indistinguishable to the caller.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload carried inside a token.
type Claims map[string]any

// UserID extracts the user identifier claim. JSON numbers decode as
// float64, so the value is converted back to an integer here.
func (c Claims) UserID() (int64, bool) {
	v, ok := c["user_id"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// TokenCodec signs and verifies compact expiring credential blobs.
// The wire format is base64url(claims JSON) + "." + base64url(HMAC-SHA256),
// with claim keys serialized in canonical (sorted) order.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a codec bound to the given signing secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Issue signs the claims with an absolute expiry ttl from now.
func (c *TokenCodec) Issue(claims Claims, ttl time.Duration) (string, error) {
	data := make(Claims, len(claims)+1)
	for k, v := range claims {
		data[k] = v
	}
	data["exp"] = time.Now().Add(ttl).Unix()

	// encoding/json marshals map keys in sorted order, which keeps the
	// serialized bytes canonical for signing.
	raw, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, c.secret)
	mac.Write(raw)
	sig := mac.Sum(nil)

	return base64.URLEncoding.EncodeToString(raw) + "." + base64.URLEncoding.EncodeToString(sig), nil
}

// Validate verifies the signature and expiry of a token and returns its
// claims. All failures collapse into ErrInvalidToken.
func (c *TokenCodec) Validate(token string) (Claims, error) {
	rawB64, sigB64, found := strings.Cut(token, ".")
	if !found {
		return nil, ErrInvalidToken
	}

	raw, err := base64.URLEncoding.DecodeString(rawB64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	sig, err := base64.URLEncoding.DecodeString(sigB64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	mac := hmac.New(sha256.New, c.secret)
	mac.Write(raw)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok || int64(exp) <= time.Now().Unix() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
