package response

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"wasata/internal/common"
	"wasata/internal/i18n"
	"wasata/internal/observability"
)

type ErrorCollector interface {
	IncError(code string)
}

var (
	mu        sync.RWMutex
	collector ErrorCollector
	logger    logrus.FieldLogger = logrus.StandardLogger()
)

// SetErrorCollector registers where error responses are counted.
func SetErrorCollector(c ErrorCollector) {
	mu.Lock()
	defer mu.Unlock()
	collector = c
}

// SetLogger sets the logger used for internal error causes.
func SetLogger(l logrus.FieldLogger) {
	mu.Lock()
	defer mu.Unlock()
	if l != nil {
		logger = l
	}
}

type ErrorBody struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type ListBody[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// List writes a paginated collection; a nil slice is rendered as [].
func List[T any](w http.ResponseWriter, items []T, page common.Page) {
	if items == nil {
		items = []T{}
	}
	JSON(w, http.StatusOK, ListBody[T]{Items: items, Limit: page.Limit, Offset: page.Offset})
}

// Error renders err in the caller's language. Causes of internal errors are
// logged and never written to the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := common.AsError(err)
	mu.RLock()
	c, l := collector, logger
	mu.RUnlock()

	requestID := observability.RequestIDFromContext(r.Context())
	if appErr.Code == common.CodeInternal {
		l.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		}).WithError(err).Error("request failed")
	}
	if c != nil {
		c.IncError(string(appErr.Code))
	}

	lang := i18n.LanguageFromContext(r.Context())
	message := appErr.Message
	if appErr.Code == common.CodeInternal {
		message = "internal error"
	}
	if appErr.Code == common.CodeRateLimited {
		w.Header().Set("Retry-After", "60")
	}
	JSON(w, StatusFor(appErr.Code), ErrorBody{
		Error:     string(appErr.Code),
		Message:   i18n.Translate(lang, message),
		Fields:    i18n.TranslateFields(lang, appErr.Fields),
		RequestID: requestID,
	})
}

func StatusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	case common.CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case common.CodeUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
