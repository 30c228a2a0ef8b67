// Package testutils provides custom assertions and testing utilities
package testutils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/macrotrack/api/pkg/errors"
)

// AssertAppError asserts that err is an AppError with the given code and status
func AssertAppError(t *testing.T, err error, code apperrors.ErrorCode, status int) {
	t.Helper()
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr, "expected an AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, status, appErr.StatusCode())
}

// DecodeJSON decodes a recorded response body into a generic map
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

// AssertJSONResponse asserts the status code and JSON content type of a response
func AssertJSONResponse(t *testing.T, rec *httptest.ResponseRecorder, status int) map[string]interface{} {
	t.Helper()
	assert.Equal(t, status, rec.Code, "body: %s", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	return DecodeJSON(t, rec)
}

// AssertErrorResponse asserts an error envelope with the given code
func AssertErrorResponse(t *testing.T, rec *httptest.ResponseRecorder, status int, code apperrors.ErrorCode) {
	t.Helper()
	body := AssertJSONResponse(t, rec, status)
	assert.Equal(t, false, body["success"])

	errBody, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "missing error object: %v", body)
	assert.Equal(t, string(code), errBody["code"])
}
