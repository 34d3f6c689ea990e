package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/errors"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/middleware"
	"github.com/eledoranda/sagemaker-nemo-asr-parakeet/internal/api/v1/dto"
)

type mockInvocationService struct {
	mock.Mock
}

func (m *mockInvocationService) Invoke(ctx context.Context, endpointName, requestID string, req *dto.InvocationRequest) (*dto.InvocationResponse, error) {
	args := m.Called(ctx, endpointName, requestID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InvocationResponse), args.Error(1)
}

func (m *mockInvocationService) ListInvocations(ctx context.Context, endpointName string, limit int) ([]dto.InvocationRecordResponse, error) {
	args := m.Called(ctx, endpointName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.InvocationRecordResponse), args.Error(1)
}

func setupInvocationRouter(svc *mockInvocationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(testLogger()))

	h := NewInvocationHandler(svc)
	router.POST("/api/v1/endpoints/:name/invocations", h.Invoke)
	router.GET("/api/v1/endpoints/:name/invocations", h.History)
	return router
}

func TestInvocationHandler_Invoke(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*mockInvocationService)
		wantStatus int
		wantText   string
	}{
		{
			name: "successful transcription",
			body: `{"audio_b64":"UklGRg=="}`,
			setup: func(svc *mockInvocationService) {
				svc.On("Invoke", mock.Anything, "asr-demo", mock.Anything, mock.Anything).
					Return(&dto.InvocationResponse{Text: "hello world"}, nil)
			},
			wantStatus: http.StatusOK,
			wantText:   "hello world",
		},
		{
			name:       "missing audio field",
			body:       `{}`,
			setup:      func(svc *mockInvocationService) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "endpoint not in service",
			body: `{"audio_b64":"UklGRg=="}`,
			setup: func(svc *mockInvocationService) {
				svc.On("Invoke", mock.Anything, "asr-demo", mock.Anything, mock.Anything).
					Return(nil, errors.NewServiceUnavailableError("Endpoint is not in service (status: Creating)"))
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "bad audio payload",
			body: `{"audio_b64":"not-base64!!"}`,
			setup: func(svc *mockInvocationService) {
				svc.On("Invoke", mock.Anything, "asr-demo", mock.Anything, mock.Anything).
					Return(nil, errors.NewBadRequestError("Field 'audio_b64' is not valid base64"))
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockInvocationService)
			tt.setup(svc)
			router := setupInvocationRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/endpoints/asr-demo/invocations", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantText != "" {
				var resp dto.InvocationResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantText, resp.Text)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestInvocationHandler_History(t *testing.T) {
	svc := new(mockInvocationService)
	svc.On("ListInvocations", mock.Anything, "asr-demo", 10).
		Return([]dto.InvocationRecordResponse{{ID: 1, EndpointName: "asr-demo", Transcript: "hi"}}, nil)
	router := setupInvocationRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/endpoints/asr-demo/invocations?limit=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestInvocationHandler_History_BadLimit(t *testing.T) {
	svc := new(mockInvocationService)
	router := setupInvocationRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/endpoints/asr-demo/invocations?limit=zero", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ListInvocations")
}
