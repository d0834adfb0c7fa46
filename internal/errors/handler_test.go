package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storereport/internal/shared/testutil"
)

func TestErrorHandler_ErrorToProblem(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantDetail string
	}{
		{
			name:       "parsing error",
			err:        NewParsingError("找不到日期欄位", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeReportParse,
			wantDetail: "檔案解析失敗：找不到日期欄位",
		},
		{
			name:       "empty result",
			err:        NewEmptyResultError(3),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeReportEmpty,
			wantDetail: "清理後沒有可用的班別資料",
		},
		{
			name:       "app validation error",
			err:        NewAppValidationError("不支援的檔案格式"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantDetail: "不支援的檔案格式",
		},
		{
			name:       "render error",
			err:        NewRenderError("無法寫入工作表", fmt.Errorf("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeReportRender,
			wantDetail: "報表產生失敗：無法寫入工作表",
		},
		{
			name:       "wrapped api error",
			err:        fmt.Errorf("submit: %w", ErrMissingUpload),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantDetail: "請先上傳 POS 原始檔",
		},
		{
			name:       "expired download",
			err:        ErrDownloadExpired,
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "rate limited",
			err:        ErrRateLimitExceeded,
			wantStatus: http.StatusTooManyRequests,
			wantType:   TypeRateLimit,
		},
		{
			name:       "max bytes",
			err:        &http.MaxBytesError{Limit: 1024},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
			wantDetail: "The upload exceeds the maximum allowed size of 1024 bytes",
		},
		{
			name:       "cancelled",
			err:        fmt.Errorf("generate: %w", context.Canceled),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/v1/reports", nil)

			problem := h.ErrorToProblem(tt.err, r)

			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/v1/reports", problem.Instance)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, problem.Detail)
			}
		})
	}
}

func TestErrorHandler_HandleError(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/reports", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, "req-42"))
	w := httptest.NewRecorder()

	err := NewParsingError("找不到日期欄位", nil).WithContext("file", "pos.csv")
	h.HandleError(w, r, err)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "json")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "req-42", body["trace_id"])
	assert.Equal(t, string(ErrTypeParsing), body["error_code"])
	assert.Equal(t, map[string]interface{}{"file": "pos.csv"}, body["context"])
	assert.NotContains(t, body, "stack")

	assert.True(t, logs.ContainsAttr("request_id", "req-42"))
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	w := httptest.NewRecorder()
	h.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Zero(t, w.Body.Len())
	assert.Empty(t, logs.Records())
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	w := httptest.NewRecorder()
	h.HandlePanic(w, httptest.NewRequest(http.MethodGet, "/reports", nil), "nil map")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, TypeInternal, body["type"])
	assert.Equal(t, "nil map", body["panic"])
	assert.Contains(t, body, "stack")
	assert.True(t, logs.ContainsMessage("panic recovered"))
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	h.NotFound(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), TypeNotFound)

	w = httptest.NewRecorder()
	h.MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/reports", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "Method DELETE is not allowed")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"parsing", NewParsingError("無法讀取檔案", nil), "檔案解析失敗：無法讀取檔案"},
		{"empty", NewEmptyResultError(0), "清理後沒有可用的班別資料"},
		{"validation", NewAppValidationError("檔案過大"), "檔案過大"},
		{"render", NewRenderError("無法儲存", nil), "報表產生失敗：無法儲存"},
		{"wrapped app error", fmt.Errorf("run: %w", NewAppValidationError("檔案過大")), "檔案過大"},
		{"api error", ErrMissingUpload, "請先上傳 POS 原始檔"},
		{"other", fmt.Errorf("boom"), "發生未預期的錯誤，請重新上傳"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestAppError(t *testing.T) {
	cause := fmt.Errorf("unexpected EOF")
	err := NewParsingError("無法讀取檔案", cause)

	assert.Equal(t, "[PARSING] 無法讀取檔案: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(err, ErrTypeEmpty))
	assert.False(t, IsType(cause, ErrTypeParsing))

	empty := NewEmptyResultError(7)
	assert.ErrorIs(t, empty, ErrEmptyResult)
	assert.Equal(t, 7, empty.Context["source_rows"])
	assert.Equal(t, "[VALIDATION] 檔案過大", NewAppValidationError("檔案過大").Error())
}
