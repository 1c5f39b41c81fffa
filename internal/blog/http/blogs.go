package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
)

// BlogsHandler serves post CRUD. Creation sits behind an admin gate in the
// router; update and delete enforce owner-or-admin here, where the resource
// is in hand.
type BlogsHandler struct {
	BlogService *service.BlogService
}

type createBlogRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	BannerURL string `json:"bannerUrl"`
	Status    string `json:"status"`
}

func (h *BlogsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "title and content are required")
		return
	}

	subject := httpx.SubjectFromContext(r.Context())
	b, err := h.BlogService.Create(r.Context(), subject, req.Title, req.Content, req.BannerURL, domain.BlogStatus(req.Status))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toBlogResponse(b))
}

func (h *BlogsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)

	// Non-admins never see drafts in listings.
	publishedOnly := httpx.RoleFromContext(r.Context()) != string(domain.RoleAdmin)

	blogs, err := h.BlogService.List(r.Context(), publishedOnly, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBlogResponses(blogs))
}

func (h *BlogsHandler) HandleListByAuthor(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationParams(r)
	authorID := r.PathValue("userId")

	// Authors see their own drafts, admins see everything.
	subject := httpx.SubjectFromContext(r.Context())
	role := httpx.RoleFromContext(r.Context())
	publishedOnly := subject != authorID && role != string(domain.RoleAdmin)

	blogs, err := h.BlogService.ListByAuthor(r.Context(), authorID, publishedOnly, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBlogResponses(blogs))
}

func (h *BlogsHandler) HandleGetBySlug(w http.ResponseWriter, r *http.Request) {
	b, err := h.BlogService.ReadBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if b.Status == domain.BlogStatusDraft && !isOwnerOrAdmin(r, b.AuthorID) {
		httpx.WriteError(w, http.StatusForbidden, httpx.CodeAuthorization,
			"access denied, insufficient permission")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toBlogResponse(b))
}

type updateBlogRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	BannerURL *string `json:"bannerUrl"`
	Status    *string `json:"status"`
}

func (h *BlogsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	b, err := h.BlogService.GetByID(r.Context(), r.PathValue("blogId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if !isOwnerOrAdmin(r, b.AuthorID) {
		httpx.WriteError(w, http.StatusForbidden, httpx.CodeAuthorization,
			"access denied, insufficient permission")
		return
	}

	var req updateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "invalid JSON body")
		return
	}

	upd := service.BlogUpdate{
		Title:     req.Title,
		Content:   req.Content,
		BannerURL: req.BannerURL,
	}
	if req.Status != nil {
		status := domain.BlogStatus(*req.Status)
		upd.Status = &status
	}

	updated, err := h.BlogService.Update(r.Context(), b.ID, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBlogResponse(updated))
}

func (h *BlogsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	b, err := h.BlogService.GetByID(r.Context(), r.PathValue("blogId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if !isOwnerOrAdmin(r, b.AuthorID) {
		httpx.WriteError(w, http.StatusForbidden, httpx.CodeAuthorization,
			"access denied, insufficient permission")
		return
	}

	if _, err := h.BlogService.Delete(r.Context(), b.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// isOwnerOrAdmin is the resource-level authorization rule: the owner of the
// resource or any admin may act on it.
func isOwnerOrAdmin(r *http.Request, ownerID string) bool {
	subject := httpx.SubjectFromContext(r.Context())
	role := httpx.RoleFromContext(r.Context())
	return subject == ownerID || role == string(domain.RoleAdmin)
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
