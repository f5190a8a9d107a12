package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"taskflow-backend/internal/api/handlers"

	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
