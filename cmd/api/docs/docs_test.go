package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerInfo_ListsRoutes(t *testing.T) {
	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Equal(t, "/api", doc.BasePath)
	for _, path := range []string{
		"/health", "/home", "/themes", "/topics",
		"/auth/google/login", "/auth/google/callback", "/auth/refresh", "/auth/logout",
		"/users/me", "/users/me/theme",
		"/quiz/sessions", "/quiz/sessions/{id}", "/quiz/sessions/{id}/answer",
		"/quiz/sessions/{id}/hint", "/quiz/sessions/{id}/advance",
	} {
		assert.Contains(t, doc.Paths, path)
	}
}
