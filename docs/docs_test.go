package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDocHasPaths(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var spec struct {
		BasePath    string                     `json:"basePath"`
		Paths       map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &spec))

	assert.Equal(t, "/api", spec.BasePath)
	assert.NotEmpty(t, spec.Paths)
	for _, path := range []string{
		"/auth/login", "/accounts", "/transactions",
		"/reports/yearly", "/reports/statistics", "/reports/export-pdf",
	} {
		assert.Contains(t, spec.Paths, path)
	}
	assert.Contains(t, spec.Definitions, "handlers.Response")
	assert.Contains(t, spec.Definitions, "report.YearlyReport")
}
