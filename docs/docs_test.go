package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDocIsValidJSON(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		BasePath string                            `json:"basePath"`
		Info     struct{ Title string }            `json:"info"`
		Paths    map[string]map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "/api", doc.BasePath)
	assert.Equal(t, "Flowvera API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/projects/{id}/tasks/{taskId}")
	assert.Contains(t, doc.Paths["/subscriptions"], "put")
}
