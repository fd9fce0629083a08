package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wasata/internal/common"
	"wasata/internal/i18n"
	"wasata/internal/observability"
)

type countingCollector struct {
	codes []string
}

func (c *countingCollector) IncError(code string) {
	c.codes = append(c.codes, code)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorLocalizesMessageAndFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/companies", nil)
	req = req.WithContext(i18n.WithLanguage(req.Context(), i18n.Arabic))
	rec := httptest.NewRecorder()

	Error(rec, req, common.NewValidationError("invalid company", map[string]string{"city": "city is required"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "validation", body.Error)
	assert.Equal(t, "بيانات الشركة غير صالحة", body.Message)
	assert.Equal(t, "المدينة مطلوبة", body.Fields["city"])
}

func TestErrorInEnglish(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/x", nil)
	req = req.WithContext(i18n.WithLanguage(req.Context(), i18n.English))
	rec := httptest.NewRecorder()

	Error(rec, req, common.NewError(common.CodeNotFound, "job not found", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "job not found", decodeError(t, rec).Message)
}

func TestErrorHidesInternalCause(t *testing.T) {
	collector := &countingCollector{}
	SetErrorCollector(collector)
	defer SetErrorCollector(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	req = req.WithContext(observability.WithRequestID(i18n.WithLanguage(req.Context(), i18n.English), "req-9"))
	rec := httptest.NewRecorder()

	Error(rec, req, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "internal error", body.Message)
	assert.Equal(t, "req-9", body.RequestID)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Equal(t, []string{"internal"}, collector.codes)
}

func TestStatusFor(t *testing.T) {
	cases := map[common.Code]int{
		common.CodeUnauthorized:     http.StatusUnauthorized,
		common.CodeForbidden:        http.StatusForbidden,
		common.CodeConflict:         http.StatusConflict,
		common.CodeRateLimited:      http.StatusTooManyRequests,
		common.CodePayloadTooLarge:  http.StatusRequestEntityTooLarge,
		common.CodeUnsupportedMedia: http.StatusUnsupportedMediaType,
		common.Code("unknown"):      http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, StatusFor(code), string(code))
	}
}

func TestListRendersEmptySlice(t *testing.T) {
	rec := httptest.NewRecorder()
	var items []string
	List(rec, items, common.Page{Limit: 20, Offset: 40})

	assert.JSONEq(t, `{"items":[],"limit":20,"offset":40}`, rec.Body.String())
}
