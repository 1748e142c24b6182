package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easm/dashboard/internal/domain/identity"
	"github.com/easm/dashboard/internal/domain/shared"
	"github.com/easm/dashboard/internal/infrastructure/apiclient"
	"github.com/easm/dashboard/internal/interfaces/http/dto"
	"github.com/easm/dashboard/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.RequestIDKey, "req-1")
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	c, w := newContext(http.MethodGet, "/", "")

	h.SuccessWithMeta(c, []string{"a"}, 25, 2, 10)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(25), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandler_BindError(t *testing.T) {
	t.Run("validation failures list json field names", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newContext(http.MethodPost, "/", `{"email":"nope"}`)

		var creds identity.Credentials
		err := c.ShouldBindJSON(&creds)
		require.Error(t, err)
		h.BindError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-1", resp.Error.RequestID)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "must be a valid email address", fields["email"])
		assert.Equal(t, "is required", fields["password"])
	})

	t.Run("malformed body", func(t *testing.T) {
		h := &BaseHandler{}
		c, w := newContext(http.MethodPost, "/", `{"email":`)

		var creds identity.Credentials
		h.BindError(c, c.ShouldBindJSON(&creds))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decode(t, w).Error.Code)
	})
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"session expired", apiclient.ErrSessionExpired, http.StatusUnauthorized, dto.ErrCodeSessionExpired, apiclient.MsgSessionExpired},
		{"not found", apiclient.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound, apiclient.MsgNotFound},
		{"upstream down", apiclient.ErrNetwork, http.StatusBadGateway, dto.ErrCodeUpstreamUnavailable, apiclient.MsgNetwork},
		{"invalid input", shared.ErrInvalidInput.WithMessage("bad period"), http.StatusBadRequest, dto.ErrCodeInvalidInput, "bad period"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newContext(http.MethodGet, "/", "")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.Len(t, c.Errors, 1)
		})
	}
}

func TestSessionResponse_RedirectsAnonymousToLogin(t *testing.T) {
	assert.Equal(t, "/login", sessionResponse(identity.Session{State: identity.StateAnonymous}).Redirect)
	assert.Empty(t, sessionResponse(identity.Session{State: identity.StateAuthenticated}).Redirect)
	assert.Empty(t, sessionResponse(identity.Session{State: identity.StateVerifying}).Redirect)
}
