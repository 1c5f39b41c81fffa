package jwtx

import "github.com/golang-jwt/jwt/v5"

// DecodeUnverified splits a token into its header and claims WITHOUT
// validating the signature or expiry. It exists for diagnostics and error
// classification only.
//
// Never make a trust decision based on what this returns: the header
// (including its algorithm identifier) is attacker-controlled until a
// Verifier has checked the signature against the server-configured
// algorithm list.
func DecodeUnverified(tokenStr string) (map[string]any, Claims, error) {
	parser := jwt.NewParser()

	token, _, err := parser.ParseUnverified(tokenStr, &Claims{})
	if err != nil {
		return nil, Claims{}, ErrMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, Claims{}, ErrMalformed
	}

	return token.Header, *claims, nil
}
