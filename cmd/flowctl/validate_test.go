package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const startEndFlowDoc = `{
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

func writeFlow(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flow.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunValidateAcceptsWellFormedFlow(t *testing.T) {
	path := writeFlow(t, startEndFlowDoc)
	err := runValidate(&AppContext{}, path)
	require.NoError(t, err)
}

func TestRunValidateRejectsMalformedFlow(t *testing.T) {
	path := writeFlow(t, `{"flow": {}}`)
	err := runValidate(&AppContext{}, path)
	require.Error(t, err)
}

func TestRunValidateRejectsMissingFile(t *testing.T) {
	err := runValidate(&AppContext{}, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
