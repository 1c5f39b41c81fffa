package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretBytes is the smallest HMAC secret we accept. Anything shorter is
// trivially brute-forceable regardless of the hash size.
const MinSecretBytes = 32

// HMACSigner implements the Signer interface using HMAC-SHA2.
type HMACSigner struct {
	method *jwt.SigningMethodHMAC
	secret []byte
}

// newHMACSigner validates the algorithm name and secret length.
func newHMACSigner(alg string, secret []byte) (*HMACSigner, error) {
	method, err := hmacMethod(alg)
	if err != nil {
		return nil, err
	}

	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("jwtx: secret too short, need at least %d bytes", MinSecretBytes)
	}

	return &HMACSigner{method: method, secret: secret}, nil
}

func (s *HMACSigner) Alg() string { return s.method.Alg() }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HMACSigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(s.method, claims)
	return t.SignedString(s.secret)
}

// hmacMethod maps a configured algorithm name to its signing method.
// Only the HS family is supported; anything else (including "none") is a
// configuration error.
func hmacMethod(alg string) (*jwt.SigningMethodHMAC, error) {
	switch alg {
	case jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, errors.New("jwtx: unsupported HMAC algorithm " + alg)
	}
}
