package usercreate

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
	"github.com/sharebill/sharebill/internal/storage/repository"
)

type UserServiceMock struct {
	mock.Mock
}

func (m *UserServiceMock) Create(ctx context.Context, req models.DummyUser) (string, string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	validReq := models.DummyUser{Email: "bob@example.com", Name: "Bob", Role: "USER"}

	tests := []struct {
		name           string
		requestBody    any
		mockID         string
		mockPassword   string
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "valid request",
			requestBody:    validReq,
			mockID:         "u1",
			mockPassword:   "aB3dEf6hIj9k",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "user without email",
			requestBody:    models.DummyUser{Name: "Kid", Role: "USER"},
			mockID:         "u2",
			mockPassword:   "aB3dEf6hIj9k",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing name",
			requestBody:    models.DummyUser{Email: "bob@example.com", Role: "USER"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Name is a required field",
		},
		{
			name:           "validation error - unknown role",
			requestBody:    models.DummyUser{Name: "Bob", Role: "SUPERADMIN"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Role has an unsupported value",
		},
		{
			name:           "duplicate email",
			requestBody:    validReq,
			mockErr:        repository.ErrAlreadyExists,
			wantStatusCode: http.StatusConflict,
			wantError:      "email already taken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(UserServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.mockID != "" || tt.mockErr != nil {
				serviceMock.On("Create", mock.Anything, tt.requestBody.(models.DummyUser)).
					Return(tt.mockID, tt.mockPassword, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users", bytes.NewReader(bodyBytes))
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
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.mockID, data["id"])
				assert.Equal(t, tt.mockPassword, data["temp_password"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
