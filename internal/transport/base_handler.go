package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/pkg/logger"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Envelope is the body of every API response.
type Envelope struct {
	Code    int         `json:"code"`
	Success bool        `json:"success"`
	Error   *string     `json:"error"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess writes a 200 envelope with code 0.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, message string, data interface{}) {
	h.WriteJSON(w, http.StatusOK, Envelope{
		Code:    0,
		Success: true,
		Error:   nil,
		Message: message,
		Data:    data,
	})
}

// WriteError writes an error envelope
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, code internal.ErrorCode, message string, data interface{}) {
	errCode := string(code)
	h.WriteJSON(w, status, Envelope{
		Code:    status,
		Success: false,
		Error:   &errCode,
		Message: message,
		Data:    data,
	})
}

// WriteAppError renders err as an envelope. Errors outside the AppError taxonomy
// become a 500 whose cause is logged but never exposed.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	lg := h.Logger
	if r != nil {
		lg = logger.FromOr(r.Context(), h.Logger)
	}

	appErr, ok := internal.IsAppError(err)
	if !ok || appErr.StatusCode >= http.StatusInternalServerError {
		lg.Error("request failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, internal.ErrCodeInternal, "Internal server error", nil)
		return
	}

	lg.Warn("request rejected", "status", appErr.StatusCode, "code", appErr.Code, "message", appErr.Message)

	var data interface{}
	if details, ok := appErr.Details.(internal.ValidationErrors); ok {
		data = details
	}

	h.WriteError(w, appErr.StatusCode, appErr.Code, appErr.GetDetailedMessage(), data)
}

// DecodeJSON decodes the request body into dst. A malformed body is a 400.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return internal.ErrInvalidRequestBody
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return internal.ErrInvalidRequestBody.WithCause(errors.New("empty body"))
		}
		return internal.ErrInvalidRequestBody.WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	return BearerToken(r)
}

func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
