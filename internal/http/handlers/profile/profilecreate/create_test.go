package profilecreate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sharebill/sharebill/internal/models"
	"github.com/sharebill/sharebill/internal/services"
	"github.com/sharebill/sharebill/internal/storage/repository"
)

type ProfileServiceMock struct {
	mock.Mock
}

func (m *ProfileServiceMock) Create(ctx context.Context, req models.DummyProfile) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	validReq := models.DummyProfile{
		SubscriptionID: "2fa85f64-5717-4562-b3fc-2c963f66afa6",
		UserID:         "3fa85f64-5717-4562-b3fc-2c963f66afa6",
	}

	tests := []struct {
		name           string
		requestBody    any
		mockID         string
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "valid request",
			requestBody:    validReq,
			mockID:         "p1",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - bad uuid",
			requestBody:    models.DummyProfile{SubscriptionID: "abc", UserID: "def"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field SubscriptionID can contain only uuid, field UserID can contain only uuid",
		},
		{
			name:           "profile limit reached",
			requestBody:    validReq,
			mockErr:        services.ErrProfileLimitReached,
			wantStatusCode: http.StatusConflict,
			wantError:      "profile limit reached",
		},
		{
			name:           "unknown subscription",
			requestBody:    validReq,
			mockErr:        repository.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "subscription or user not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ProfileServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockID != "" || tt.mockErr != nil {
				serviceMock.On("Create", mock.Anything, tt.requestBody.(models.DummyProfile)).
					Return(tt.mockID, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/profiles", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data := got["data"].(map[string]any)
				assert.Equal(t, tt.mockID, data["id"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
