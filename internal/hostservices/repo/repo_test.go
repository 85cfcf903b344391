package repo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/pkg/value"
)

func TestExecuteUnsupportedMethodFails(t *testing.T) {
	svc := Service{}
	res, err := svc.Execute(context.Background(), "nope", map[string]value.VariableValue{})
	require.NoError(t, err)
	require.False(t, res.Success)
}

func TestExecuteCloneMissingURLFails(t *testing.T) {
	svc := Service{}
	res, err := svc.Execute(context.Background(), "clone", map[string]value.VariableValue{
		"destination": value.String(filepath.Join(t.TempDir(), "repo")),
	})
	require.NoError(t, err)
	require.False(t, res.Success)
}

func TestExecuteCloneMissingDestinationFails(t *testing.T) {
	svc := Service{}
	res, err := svc.Execute(context.Background(), "clone", map[string]value.VariableValue{
		"url": value.String("https://example.invalid/repo.git"),
	})
	require.NoError(t, err)
	require.False(t, res.Success)
}

func TestExecuteCloneUnreachableURLFails(t *testing.T) {
	svc := Service{}
	dest := filepath.Join(t.TempDir(), "repo")
	res, err := svc.Execute(context.Background(), "clone", map[string]value.VariableValue{
		"url":         value.String("https://example.invalid/repo.git"),
		"destination": value.String(dest),
	})
	require.NoError(t, err)
	require.False(t, res.Success)

	_, statErr := os.Stat(filepath.Join(dest, ".git"))
	require.Error(t, statErr)
}
