package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"VisionTalk/internal/app/session"
	"VisionTalk/internal/service/conversation"
	"VisionTalk/internal/service/image"
	"VisionTalk/internal/service/turn"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler HTTP-обработчик единственной сессии чата.
type Handler struct {
	session        *session.Session
	uploadMaxBytes int64
	logger         *zap.SugaredLogger
}

func New(s *session.Session, uploadMaxBytes int64, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{session: s, uploadMaxBytes: uploadMaxBytes, logger: logger}
}

// RegisterRoutes регистрирует маршруты чата и картинки сессии.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/messages", h.handleListMessages)
	r.Post("/messages", h.handleSendMessage)
	r.Delete("/messages", h.handleClearMessages)

	r.Get("/image", h.handleGetImage)
	r.Put("/image", h.handleUploadImage)
	r.Delete("/image", h.handleRemoveImage)
}

type turnResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Image     string    `json:"image,omitempty"` // data URL
	CreatedAt time.Time `json:"createdAt"`
}

type imageResponse struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	SizeBytes int    `json:"sizeBytes"`
	MimeType  string `json:"mimeType"`
}

func toTurnResponse(t conversation.Turn) turnResponse {
	out := turnResponse{ID: t.ID, Role: string(t.Role), Text: t.Text, CreatedAt: t.CreatedAt}
	if t.Image != nil {
		out.Image = t.Image.DataURL()
	}
	return out
}

func toImageResponse(img image.ProcessedImage) imageResponse {
	return imageResponse{Width: img.Width, Height: img.Height, SizeBytes: img.SizeBytes, MimeType: img.MimeType}
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	turns := make([]turnResponse, 0)
	for t := range h.session.History() {
		turns = append(turns, toTurnResponse(t))
	}
	respondJSON(w, http.StatusOK, turns)
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	answer, err := h.session.Send(r.Context(), payload.Text)
	if err != nil {
		var report *turn.ErrorReport
		switch {
		case errors.Is(err, session.ErrBusy):
			respondError(w, http.StatusConflict, err.Error(), "")
		case errors.As(err, &report) && report.Kind == turn.KindNoInput:
			respondError(w, http.StatusBadRequest, report.Message, string(report.Kind))
		case errors.As(err, &report):
			respondError(w, http.StatusBadGateway, report.Message, string(report.Kind))
		default:
			h.logger.Errorw("Неожиданная ошибка хода", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error", "")
		}
		return
	}

	respondJSON(w, http.StatusOK, toTurnResponse(answer))
}

func (h *Handler) handleClearMessages(w http.ResponseWriter, r *http.Request) {
	h.session.ClearHistory()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetImage(w http.ResponseWriter, r *http.Request) {
	img := h.session.Image()
	if img == nil {
		respondError(w, http.StatusNotFound, "no image uploaded", "")
		return
	}
	respondJSON(w, http.StatusOK, toImageResponse(*img))
}

func (h *Handler) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes)
	if err := r.ParseMultipartForm(h.uploadMaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "image is too large", "")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid multipart form", "")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image field is required", "")
		return
	}
	defer file.Close()

	img, err := h.session.UploadImage(file)
	if err != nil {
		h.logger.Warnw("Не удалось принять картинку", "error", err)
		respondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	respondJSON(w, http.StatusOK, toImageResponse(img))
}

func (h *Handler) handleRemoveImage(w http.ResponseWriter, r *http.Request) {
	h.session.RemoveImage()
	w.WriteHeader(http.StatusNoContent)
}

// respondJSON отправляет JSON-ответ
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError отправляет ошибку; kind заполняется для ошибок хода.
func respondError(w http.ResponseWriter, status int, message string, kind string) {
	body := map[string]string{"error": message}
	if kind != "" {
		body["kind"] = kind
	}
	respondJSON(w, status, body)
}
