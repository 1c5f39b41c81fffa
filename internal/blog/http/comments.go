package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
)

// CommentsHandler serves comment creation, listing and deletion. Any
// authenticated user may comment; deletion is owner-or-admin.
type CommentsHandler struct {
	CommentService *service.CommentService
}

type createCommentRequest struct {
	Content string `json:"content"`
}

func (h *CommentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "content is required")
		return
	}

	subject := httpx.SubjectFromContext(r.Context())
	c, err := h.CommentService.Create(r.Context(), r.PathValue("blogId"), subject, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCommentResponse(c))
}

func (h *CommentsHandler) HandleListByBlog(w http.ResponseWriter, r *http.Request) {
	comments, err := h.CommentService.ListByBlog(r.Context(), r.PathValue("blogId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCommentResponses(comments))
}

func (h *CommentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	c, err := h.CommentService.GetByID(r.Context(), r.PathValue("commentId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if !isOwnerOrAdmin(r, c.UserID) {
		httpx.WriteError(w, http.StatusForbidden, httpx.CodeAuthorization,
			"access denied, insufficient permission")
		return
	}

	if _, err := h.CommentService.Delete(r.Context(), c.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
