package loader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/pkg/flowerr"
)

const startEndDoc = `{
  "schemaVersion": "1.0.0",
  "flow": {
    "id": "f1",
    "name": "start-end",
    "version": "1.0.0",
    "components": [
      {"id": "s", "type": "START", "name": "Start"},
      {"id": "e", "type": "END", "name": "End"}
    ],
    "connections": [
      {"id": "c1", "source": {"componentId": "s", "portId": "out"}, "target": {"componentId": "e", "portId": "in"}}
    ]
  }
}`

func TestLoadStartEndSucceeds(t *testing.T) {
	result, multi := Load([]byte(startEndDoc))
	require.Nil(t, multi)
	require.Equal(t, "f1", result.Flow.ID)
	require.Len(t, result.Flow.Components, 2)
}

func TestLoadInvalidJSON(t *testing.T) {
	_, multi := Load([]byte("{not json"))
	require.NotNil(t, multi)
	require.Equal(t, flowerr.CodeInvalidJSON, multi.Errors[0].Code)
}

func TestLoadMissingSchemaVersion(t *testing.T) {
	_, multi := Load([]byte(`{"flow": {}}`))
	require.NotNil(t, multi)
	found := false
	for _, e := range multi.Errors {
		if e.Code == flowerr.CodeMissingSchemaVersion {
			found = true
		}
	}
	require.True(t, found)
}

func TestLoadUnsupportedSchemaVersion(t *testing.T) {
	_, multi := Load([]byte(`{"schemaVersion": "2.0.0", "flow": {}}`))
	require.NotNil(t, multi)
	require.Equal(t, flowerr.CodeUnsupportedSchemaVersion, multi.Errors[0].Code)
}

func TestLoadUnknownComponentType(t *testing.T) {
	doc := `{
	  "schemaVersion": "1.0.0",
	  "flow": {
	    "id": "f1", "name": "n", "version": "1.0.0",
	    "components": [{"id": "x", "type": "BOGUS", "name": "X"}],
	    "connections": []
	  }
	}`
	_, multi := Load([]byte(doc))
	require.NotNil(t, multi)
	require.Equal(t, flowerr.CodeUnknownComponentType, multi.Errors[0].Code)
}

func TestLoadMigratesDeprecatedSchema(t *testing.T) {
	doc := `{
	  "schemaVersion": "0.9.2",
	  "flow": {
	    "id": "f1", "name": "legacy", "version": "0.9.2",
	    "nodes": [
	      {"id": "s", "type": "START", "name": "Start"},
	      {"id": "e", "type": "END", "name": "End"}
	    ],
	    "edges": [
	      {"id": "c1", "from": {"componentId": "s", "portId": "out"}, "to": {"componentId": "e", "portId": "in"}}
	    ]
	  }
	}`
	result, multi := Load([]byte(doc))
	require.Nil(t, multi)
	require.Len(t, result.Flow.Components, 2)
	require.Len(t, result.Flow.Connections, 1)
	require.NotEmpty(t, result.Warnings)
}

func TestLoadExpressionProperty(t *testing.T) {
	doc := `{
	  "schemaVersion": "1.0.0",
	  "flow": {
	    "id": "f1", "name": "n", "version": "1.0.0",
	    "components": [
	      {"id": "s", "type": "START", "name": "Start"},
	      {"id": "a", "type": "ACTION", "name": "A", "properties": {"service": "svc", "method": "m", "body": "${vars.x}"}},
	      {"id": "e", "type": "END", "name": "End"}
	    ],
	    "connections": [
	      {"id": "c1", "source": {"componentId": "s", "portId": "out"}, "target": {"componentId": "a", "portId": "in"}},
	      {"id": "c2", "source": {"componentId": "a", "portId": "success"}, "target": {"componentId": "e", "portId": "in"}}
	    ]
	  }
	}`
	result, multi := Load([]byte(doc))
	require.Nil(t, multi)
	a, ok := result.Flow.Component("a")
	require.True(t, ok)
	prop := a.Properties["body"]
	require.True(t, prop.IsExpression())
}

func TestSchemaVersionExtraction(t *testing.T) {
	v, ok := SchemaVersion([]byte(startEndDoc))
	require.True(t, ok)
	require.Equal(t, "1.0.0", v)
}
