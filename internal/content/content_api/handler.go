package content_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"club-site/internal/auth"
	"club-site/internal/cache"
	content "club-site/internal/content/service"
	"club-site/internal/events/media"
	"club-site/internal/logger"
	"club-site/internal/models"
	"club-site/internal/utils"
)

const maxPhotoBytes = 8 << 20

type Handler struct {
	Service *content.ContentService
	Auth    *auth.Service
	Cache   *cache.Cache
	Logger  *logger.Logger
}

func NewHandler(svc *content.ContentService, authSvc *auth.Service, c *cache.Cache, log *logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Auth:    authSvc,
		Cache:   c,
		Logger:  log,
	}
}

// ---------------- PUBLIC ----------------

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	data, err := h.Cache.GetOrFetch(r.Context(), "team", func(ctx context.Context) (interface{}, error) {
		return h.Service.GetTeam(ctx)
	})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load team", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Team", data))
}

func (h *Handler) GetFAQs(w http.ResponseWriter, r *http.Request) {
	data, err := h.Cache.GetOrFetch(r.Context(), "faqs", func(ctx context.Context) (interface{}, error) {
		return h.Service.GetFAQs(ctx)
	})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load FAQs", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("FAQs", data))
}

func (h *Handler) GetAbout(w http.ResponseWriter, r *http.Request) {
	data, err := h.Cache.GetOrFetch(r.Context(), "about", func(ctx context.Context) (interface{}, error) {
		return h.Service.GetAbout(ctx)
	})
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load about info", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("About", data))
}

// SubmitInquiry takes a contact form submission from the public site.
func (h *Handler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var inquiry models.Inquiry
	if err := json.NewDecoder(r.Body).Decode(&inquiry); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	saved, err := h.Service.SubmitInquiry(r.Context(), inquiry)
	if err != nil {
		utils.WriteJSON(w, http.StatusUnprocessableEntity, utils.ErrorResponse("Invalid inquiry", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Inquiry received", saved))
}

// ---------------- AUTH ----------------

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	resp, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Invalid credentials", err.Error()))
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Login failed", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Logged in", resp))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := auth.ExtractTokenFromRequest(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Authentication required", err.Error()))
		return
	}
	if err := h.Auth.Logout(r.Context(), token); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Logout failed", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Logged out", nil))
}

// ---------------- ADMIN: TEAM ----------------

func (h *Handler) SaveTeamMember(w http.ResponseWriter, r *http.Request) {
	var member models.TeamMember
	if err := json.NewDecoder(r.Body).Decode(&member); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	saved, err := h.Service.SaveTeamMember(r.Context(), member)
	if err != nil {
		utils.WriteJSON(w, http.StatusUnprocessableEntity, utils.ErrorResponse("Failed to save team member", err.Error()))
		return
	}

	h.Cache.Invalidate("team")
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Team member saved", saved))
}

// UploadMemberPhoto stores a photo and returns the public URL for the
// dashboard to attach to a member.
func (h *Handler) UploadMemberPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid upload", err.Error()))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Missing image file", err.Error()))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Failed to read upload", err.Error()))
		return
	}

	url, err := h.Service.UploadMemberPhoto(r.Context(), media.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Photo upload failed: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Upload failed", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Photo uploaded", map[string]string{"url": url}))
}

func (h *Handler) DeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")
	if err := h.Service.DeleteTeamMember(r.Context(), memberID); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to delete team member", err.Error()))
		return
	}

	h.Cache.Invalidate("team")
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Team member deleted", nil))
}

// ---------------- ADMIN: FAQS ----------------

func (h *Handler) SaveFAQ(w http.ResponseWriter, r *http.Request) {
	var faq models.FAQ
	if err := json.NewDecoder(r.Body).Decode(&faq); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	saved, err := h.Service.SaveFAQ(r.Context(), faq)
	if err != nil {
		utils.WriteJSON(w, http.StatusUnprocessableEntity, utils.ErrorResponse("Failed to save FAQ", err.Error()))
		return
	}

	h.Cache.Invalidate("faqs")
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("FAQ saved", saved))
}

func (h *Handler) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	faqID := chi.URLParam(r, "faqID")
	if err := h.Service.DeleteFAQ(r.Context(), faqID); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to delete FAQ", err.Error()))
		return
	}

	h.Cache.Invalidate("faqs")
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("FAQ deleted", nil))
}

// ---------------- ADMIN: ABOUT ----------------

func (h *Handler) SaveAbout(w http.ResponseWriter, r *http.Request) {
	var about models.AboutInfo
	if err := json.NewDecoder(r.Body).Decode(&about); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	if err := h.Service.SaveAbout(r.Context(), about); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to save about info", err.Error()))
		return
	}

	h.Cache.Invalidate("about")
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("About info saved", nil))
}

// ---------------- ADMIN: INQUIRIES ----------------

func (h *Handler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	inquiries, err := h.Service.Inquiries(r.Context())
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load inquiries", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Inquiries", inquiries))
}
