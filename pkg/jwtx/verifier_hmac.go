package jwtx

import (
	"errors"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier validates JWTs signed with HMAC-SHA2.
//
// The set of acceptable algorithms is fixed at construction from server
// configuration. The algorithm identifier a token declares in its own header
// is untrusted input and is never used to select the verification behavior:
// a token declaring "none", an asymmetric algorithm, or any HS variant
// outside the configured list fails with ErrAlgNotAllowed before its claims
// are considered.
type HMACVerifier struct {
	secret   []byte
	allowed  []string
	issuer   string
	audience []string
}

// NewVerifierHMAC creates a verifier pinned to the given algorithm list.
// An empty list is a configuration error, not "allow everything".
func NewVerifierHMAC(secret []byte, allowed []string, issuer string, audience []string) (*HMACVerifier, error) {
	if len(allowed) == 0 {
		return nil, errors.New("jwtx: empty allowed algorithm list")
	}
	for _, alg := range allowed {
		if _, err := hmacMethod(alg); err != nil {
			return nil, err
		}
	}
	if len(secret) < MinSecretBytes {
		return nil, errors.New("jwtx: secret too short")
	}

	return &HMACVerifier{
		secret:   secret,
		allowed:  slices.Clone(allowed),
		issuer:   issuer,
		audience: slices.Clone(audience),
	}, nil
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *HMACVerifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods(v.allowed))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		// WithValidMethods already rejected anything outside the allow-list;
		// this guards against a non-HMAC method sneaking through.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgNotAllowed
		}
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, v.classify(tokenStr, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.audience); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

// classify maps golang-jwt parse failures onto our error taxonomy.
func (v *HMACVerifier) classify(tokenStr string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, ErrAlgNotAllowed):
		return ErrAlgNotAllowed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		// The parser reports a disallowed algorithm as a signature failure.
		// Peek at the declared header to report it distinctly; the peek never
		// influences verification, only the error returned.
		if hdr, _, decodeErr := DecodeUnverified(tokenStr); decodeErr == nil {
			if alg, _ := hdr["alg"].(string); alg != "" && !slices.Contains(v.allowed, alg) {
				return ErrAlgNotAllowed
			}
		}
		return ErrInvalidSig
	default:
		return ErrInvalidSig
	}
}
