package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	domain "loanbook/internal/domain/document"
	"loanbook/internal/usecase/document"
)

// maxBodyBytes bounds a POSTed document.
const maxBodyBytes = 8 << 20

// DocumentService is what the gateway needs from the document usecase.
type DocumentService interface {
	Read(ctx context.Context) ([]byte, document.Source, error)
	Write(ctx context.Context, body []byte) error
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Handler struct {
	docs    DocumentService
	metrics *Metrics
}

func NewHandler(docs DocumentService, m *Metrics) *Handler {
	if m == nil {
		m = NewMetrics()
	}
	return &Handler{docs: docs, metrics: m}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Document serves GET (whole document) and POST (replace document) on one
// route. Any other verb is 405.
func (h *Handler) Document(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodGet:
		return h.get(c)
	case http.MethodPost:
		return h.post(c)
	default:
		return c.JSON(http.StatusMethodNotAllowed, response{Success: false, Message: "method not allowed"})
	}
}

func (h *Handler) get(c echo.Context) error {
	body, src, err := h.docs.Read(c.Request().Context())
	if err != nil {
		slog.Error("document read failed", "error", err)
		h.metrics.read("error")
		return c.JSON(http.StatusInternalServerError, response{Success: false, Message: "could not read document"})
	}
	h.metrics.read(string(src))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
}

func (h *Handler) post(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if err != nil {
		h.metrics.write("invalid")
		return c.JSON(http.StatusBadRequest, response{Success: false, Message: "could not read body"})
	}
	if len(body) > maxBodyBytes {
		h.metrics.write("invalid")
		return c.JSON(http.StatusRequestEntityTooLarge, response{Success: false, Message: "document too large"})
	}

	err = h.docs.Write(c.Request().Context(), body)
	switch {
	case errors.Is(err, domain.ErrInvalidBody), errors.Is(err, domain.ErrNotArray):
		h.metrics.write("invalid")
		return c.JSON(http.StatusBadRequest, response{Success: false, Message: err.Error()})
	case err != nil:
		slog.Error("document write failed", "error", err)
		h.metrics.write("error")
		return c.JSON(http.StatusInternalServerError, response{Success: false, Message: "could not save document"})
	}
	h.metrics.write("saved")
	return c.JSON(http.StatusOK, response{Success: true, Message: "saved"})
}
