package jwtx

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// NewSignerHMAC creates an HMAC signer for one of HS256, HS384 or HS512.
// The algorithm is fixed at construction from server configuration and is
// never derived from token input.
func NewSignerHMAC(alg string, secret []byte) (Signer, error) {
	return newHMACSigner(alg, secret)
}
