package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hash produces and verifies keyed digests.
type Hash interface {
	// Hash returns the hex encoded digest of str.
	Hash(str string) ([]byte, error)
	// Verify reports whether hashed is the digest of str.
	Verify(hashed, str string) bool
}

// HMACSHA256 implements Hash with HMAC-SHA256.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 creates a new hasher keyed with secret.
func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{secret: []byte(secret)}
}

// Hash returns the hex encoded HMAC-SHA256 of str.
func (s *HMACSHA256) Hash(str string) ([]byte, error) {
	return s.sum(str), nil
}

// Verify checks whether str hashes to hashed, in constant time.
func (s *HMACSHA256) Verify(hashed, str string) bool {
	return subtle.ConstantTimeCompare([]byte(hashed), s.sum(str)) == 1
}

func (s *HMACSHA256) sum(str string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(str))
	raw := h.Sum(nil)

	out := make([]byte, hex.EncodedLen(len(raw)))
	hex.Encode(out, raw)
	return out
}
