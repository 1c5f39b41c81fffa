package http

import (
	"net/http"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
)

// UsersHandler serves account lookup and deletion. The /current endpoints act
// on the authenticated subject; the /{userId} variants are admin-only and
// wired behind a role gate in the router.
type UsersHandler struct {
	UserService *service.UserService
}

func (h *UsersHandler) HandleGetCurrent(w http.ResponseWriter, r *http.Request) {
	subject := httpx.SubjectFromContext(r.Context())

	u, err := h.UserService.GetByID(r.Context(), subject)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *UsersHandler) HandleDeleteCurrent(w http.ResponseWriter, r *http.Request) {
	subject := httpx.SubjectFromContext(r.Context())

	if _, err := h.UserService.Delete(r.Context(), subject); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.GetByID(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *UsersHandler) HandleDeleteByID(w http.ResponseWriter, r *http.Request) {
	n, err := h.UserService.Delete(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if n == 0 {
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
