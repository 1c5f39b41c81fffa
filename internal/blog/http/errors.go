package http

import (
	"errors"
	"net/http"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/jwtx"
)

// writeServiceError maps service and store errors onto the API's error
// envelope. Token failures collapse onto two responses only: expiry gets its
// own code so clients know to refresh, every other failure mode (revoked,
// tampered, malformed, wrong algorithm) is indistinguishable.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "resource not found")

	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, httpx.CodeConflict, "resource already exists")

	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeAuthentication, "invalid email or password")

	case errors.Is(err, jwtx.ErrExpired):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeTokenExpired, "token expired")

	case errors.Is(err, service.ErrTokenRevoked),
		errors.Is(err, jwtx.ErrMalformed),
		errors.Is(err, jwtx.ErrAlgNotAllowed),
		errors.Is(err, jwtx.ErrInvalidSig),
		errors.Is(err, jwtx.ErrIssuer),
		errors.Is(err, jwtx.ErrAudience),
		errors.Is(err, jwtx.ErrNotYetValid),
		errors.Is(err, jwtx.ErrInvalidClaim):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeAuthentication, "invalid refresh token")

	case errors.Is(err, service.ErrInvalidStatus):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "status must be draft or published")

	default:
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeServerError, "internal server error")
	}
}
