package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DutsAndrew/ck-api-sub000/internal/services"
	"github.com/DutsAndrew/ck-api-sub000/tests/testutil"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testToken = "test-access-token"

func testAuthenticator(userID primitive.ObjectID) testutil.StaticAuthenticator {
	return testutil.StaticAuthenticator{
		testToken: services.Principal{UserID: userID, Email: "test@example.com"},
	}
}

// testRouter builds the full route table with cfg's handlers; the rest stay nil.
func testRouter(cfg RouterConfig) http.Handler {
	cfg.Release = true
	cfg.Logger = zap.NewNop()
	return NewRouter(cfg)
}

// do sends a JSON request to app, authenticated with testToken when token is
// set.
func do(t *testing.T, app http.Handler, method, path string, body any, token bool) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
