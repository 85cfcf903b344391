package hostconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const validDoc = `
log_level: info
log_format: text
host_services:
  - name: shell
    kind: command
  - name: render
    kind: template
observers:
  logging: true
  metrics: false
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hostconfig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidDocument(t *testing.T) {
	path := writeConfig(t, validDoc)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "info", cfg.LogLevel)
	require.Len(t, cfg.HostServices, 2)
	require.True(t, cfg.Observers.Logging)
	require.False(t, cfg.Observers.Metrics)
}

func TestLoadRejectsDuplicateServiceNames(t *testing.T) {
	path := writeConfig(t, `
host_services:
  - name: shell
    kind: command
  - name: shell
    kind: template
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsUnknownServiceKind(t *testing.T) {
	path := writeConfig(t, `
host_services:
  - name: shell
    kind: not-a-kind
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMissingHostServices(t *testing.T) {
	path := writeConfig(t, `log_level: info`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `
log_level: verbose
host_services:
  - name: shell
    kind: command
`)

	_, err := Load(path)
	require.Error(t, err)
}
