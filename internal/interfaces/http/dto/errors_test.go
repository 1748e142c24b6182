package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/easm/dashboard/internal/domain/shared"
	"github.com/easm/dashboard/internal/infrastructure/apiclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeSessionExpired, http.StatusUnauthorized},
		{ErrCodeSessionVerifying, http.StatusServiceUnavailable},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeUpstream, http.StatusBadGateway},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"ERR_SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_INPUT"))
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeUpstream, NormalizeErrorCode(ErrCodeUpstream))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    string
		status  int
		message string
	}{
		{"session expired", apiclient.ErrSessionExpired, ErrCodeSessionExpired, http.StatusUnauthorized, apiclient.MsgSessionExpired},
		{"forbidden", apiclient.ErrForbidden, ErrCodeForbidden, http.StatusForbidden, apiclient.MsgForbidden},
		{"not found", apiclient.ErrNotFound, ErrCodeNotFound, http.StatusNotFound, apiclient.MsgNotFound},
		{"server", apiclient.ErrServer, ErrCodeUpstream, http.StatusBadGateway, apiclient.MsgServer},
		{"network", apiclient.ErrNetwork, ErrCodeUpstreamUnavailable, http.StatusBadGateway, apiclient.MsgNetwork},
		{
			"upstream validation",
			&apiclient.APIError{Kind: apiclient.KindValidation, Status: 422, Message: "Domain already added"},
			ErrCodeValidation, http.StatusBadRequest, "Domain already added",
		},
		{
			"wrapped domain error",
			fmt.Errorf("load: %w", shared.ErrInvalidInput.WithMessage("bad page")),
			ErrCodeInvalidInput, http.StatusBadRequest, "bad page",
		},
		{"unknown", errors.New("boom"), ErrCodeInternal, http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, status, message := ClassifyError(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponseWithRequestID("NOT_FOUND", "Asset not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.False(t, resp.Error.Timestamp.Before(before))
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "email", Message: "must be a valid email"},
	})

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
}

func TestNewUnauthorizedResponse(t *testing.T) {
	resp := NewUnauthorizedResponse("Authentication required", "req-2", "/login")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	errInfo := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeUnauthorized, errInfo["code"])
	assert.Equal(t, "/login", errInfo["redirect"])
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 25, 3, 10)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, 3, resp.Meta.Page)

	resp = NewSuccessResponseWithMeta(nil, 5, 1, 0)
	assert.Zero(t, resp.Meta.TotalPages)
}
