package event_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"club-site/internal/cache"
	eventdb "club-site/internal/events/db"
	"club-site/internal/events/editor"
	"club-site/internal/events/media"
	"club-site/internal/events/sections"
	"club-site/internal/logger"
	"club-site/internal/models"
	"club-site/internal/qr"
	"club-site/internal/utils"
)

const maxUploadBytes = 32 << 20

type Handler struct {
	Editor *editor.Editor
	DB     *eventdb.DB
	Cache  *cache.Cache
	Logger *logger.Logger
}

func NewHandler(ed *editor.Editor, db *eventdb.DB, c *cache.Cache, log *logger.Logger) *Handler {
	return &Handler{
		Editor: ed,
		DB:     db,
		Cache:  c,
		Logger: log,
	}
}

// ---------------- PUBLIC ----------------

// ListEvents serves the public listing through the read-side cache.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	data, err := h.Cache.GetOrFetch(r.Context(), "events", func(ctx context.Context) (interface{}, error) {
		return h.DB.ListEvents(ctx)
	})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to load events: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load events", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Events", data))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	event, err := h.DB.GetEventByID(r.Context(), eventID)
	if err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event", event))
}

// GetFeaturedEvent serves the homepage hero event.
func (h *Handler) GetFeaturedEvent(w http.ResponseWriter, r *http.Request) {
	data, err := h.Cache.GetOrFetch(r.Context(), "featured_event", func(ctx context.Context) (interface{}, error) {
		return h.DB.GetFeaturedEvent(ctx)
	})
	if err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("No featured event", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Featured event", data))
}

// RegisterQR renders the event's registration link as a QR PNG.
func (h *Handler) RegisterQR(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	event, err := h.DB.GetEventByID(r.Context(), eventID)
	if err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", err.Error()))
		return
	}

	png, err := qr.GenerateRegisterQR(event.RegisterLink)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Cannot generate QR", err.Error()))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// ---------------- ADMIN: LISTING ----------------

func (h *Handler) AdminListEvents(w http.ResponseWriter, r *http.Request) {
	if err := h.Editor.Refresh(r.Context()); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load events", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Events", h.Editor.Listing()))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if err := h.Editor.Delete(r.Context(), eventID); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to delete event", err.Error()))
		return
	}

	h.invalidateEventCaches()
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event deleted", nil))
}

// ---------------- ADMIN: EDITOR ----------------

// draftView is the editor state returned to the dashboard: the record
// draft plus the form-facing date and time values.
type draftView struct {
	Event        models.Event       `json:"event"`
	PickerValue  string             `json:"pickerValue"`
	EditableTime string             `json:"editableTime"`
	Sections     []sections.Section `json:"sections"`
}

func (h *Handler) NewDraft(w http.ResponseWriter, r *http.Request) {
	h.Editor.NewDraft()
	h.writeDraft(w)
}

func (h *Handler) EditEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if err := h.Editor.Edit(r.Context(), eventID); err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", err.Error()))
		return
	}
	h.writeDraft(w)
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	h.writeDraft(w)
}

func (h *Handler) CancelDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.Editor.Cancel(); err != nil {
		h.writeEditorError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Draft discarded", nil))
}

type draftUpdate struct {
	Title        *string `json:"title"`
	Date         *string `json:"date"` // yyyy-mm-dd from the calendar input
	Time         *string `json:"time"` // HH:MM from the time input
	Location     *string `json:"location"`
	RegisterLink *string `json:"registerLink"`
	GalleryLink  *string `json:"galleryLink"`
	IsFeatured   *bool   `json:"isFeatured"`
}

// UpdateDraft applies the submitted form fields to the open draft.
// The date goes through the transcoder; everything else is verbatim.
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var update draftUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	err := firstError(
		applyIf(update.Title, h.Editor.SetTitle),
		applyIf(update.Date, h.Editor.SetDate),
		applyIf(update.Time, h.Editor.SetTime),
		applyIf(update.Location, h.Editor.SetLocation),
		applyIf(update.RegisterLink, h.Editor.SetRegisterLink),
		applyIf(update.GalleryLink, h.Editor.SetGalleryLink),
	)
	if err == nil && update.IsFeatured != nil {
		err = h.Editor.SetFeatured(*update.IsFeatured)
	}
	if err != nil {
		h.writeEditorError(w, err)
		return
	}

	h.writeDraft(w)
}

func (h *Handler) AddSection(w http.ResponseWriter, r *http.Request) {
	if err := h.Editor.AddSection(); err != nil {
		h.writeEditorError(w, err)
		return
	}
	h.writeDraft(w)
}

func (h *Handler) RemoveSection(w http.ResponseWriter, r *http.Request) {
	index, err := sectionIndex(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid section index", err.Error()))
		return
	}
	if err := h.Editor.RemoveSection(index); err != nil {
		h.writeEditorError(w, err)
		return
	}
	h.writeDraft(w)
}

func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	index, err := sectionIndex(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid section index", err.Error()))
		return
	}

	var update struct {
		Heading *string `json:"heading"`
		Content *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	if update.Heading != nil {
		if err := h.Editor.SetSectionHeading(index, *update.Heading); err != nil {
			h.writeEditorError(w, err)
			return
		}
	}
	if update.Content != nil {
		if err := h.Editor.SetSectionContent(index, *update.Content); err != nil {
			h.writeEditorError(w, err)
			return
		}
	}
	h.writeDraft(w)
}

// UploadCover replaces the draft cover from a multipart "image" field.
func (h *Handler) UploadCover(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid upload", err.Error()))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Missing image file", err.Error()))
		return
	}
	defer file.Close()

	f, err := readUpload(file, header)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Failed to read upload", err.Error()))
		return
	}

	if err := h.Editor.UploadCover(r.Context(), f); err != nil {
		h.writeEditorError(w, err)
		return
	}
	h.writeDraft(w)
}

// UploadGallery appends multipart "images" files to the draft gallery.
// The whole batch is refused when it would exceed the image cap.
func (h *Handler) UploadGallery(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid upload", err.Error()))
		return
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("No image files supplied", ""))
		return
	}

	files := make([]media.File, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Failed to read upload", err.Error()))
			return
		}
		f, err := readUpload(file, header)
		file.Close()
		if err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Failed to read upload", err.Error()))
			return
		}
		files = append(files, f)
	}

	result, err := h.Editor.UploadGallery(r.Context(), files)
	if err != nil {
		h.writeEditorError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Gallery updated", result))
}

func (h *Handler) RemoveGalleryImage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid gallery index", err.Error()))
		return
	}
	if err := h.Editor.RemoveGalleryImage(index); err != nil {
		h.writeEditorError(w, err)
		return
	}
	h.writeDraft(w)
}

// SaveDraft validates, writes and closes the editor.
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.Editor.Save(r.Context()); err != nil {
		h.writeEditorError(w, err)
		return
	}

	h.invalidateEventCaches()
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event saved", h.Editor.Listing()))
}

// ---------------- helpers ----------------

func (h *Handler) writeDraft(w http.ResponseWriter) {
	draft, err := h.Editor.Draft()
	if err != nil {
		h.writeEditorError(w, err)
		return
	}
	secs, _ := h.Editor.Sections()

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Draft", draftView{
		Event:        draft,
		PickerValue:  h.Editor.PickerValue(),
		EditableTime: h.Editor.EditableTime(),
		Sections:     secs,
	}))
}

func (h *Handler) writeEditorError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, editor.ErrTitleRequired),
		errors.Is(err, editor.ErrDateRequired),
		errors.Is(err, editor.ErrCoverRequired),
		errors.Is(err, media.ErrGalleryFull):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, editor.ErrNotEditing):
		status = http.StatusConflict
	case errors.Is(err, editor.ErrBusy):
		status = http.StatusTooManyRequests
	}
	utils.WriteJSON(w, status, utils.ErrorResponse("Editor operation failed", err.Error()))
}

func (h *Handler) invalidateEventCaches() {
	h.Cache.Invalidate("events")
	h.Cache.Invalidate("featured_event")
}

func sectionIndex(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "index"))
}

func readUpload(file multipart.File, header *multipart.FileHeader) (media.File, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return media.File{}, err
	}
	return media.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func applyIf(value *string, set func(string) error) error {
	if value == nil {
		return nil
	}
	return set(*value)
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
