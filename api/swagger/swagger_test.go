package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDocCoversRoutes(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Contains(t, doc.Paths, "/teachers/{teacher_id}/courses/{course_id}")
	assert.Contains(t, doc.Paths["/teachers"], "post")
	assert.Contains(t, doc.Paths["/teachers/{teacher_id}/courses/export"], "get")
}
