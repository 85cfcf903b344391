package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/pkg/value"
)

func TestExecuteCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	svc := Service{}
	res, err := svc.Execute(context.Background(), "copy", map[string]value.VariableValue{
		"source":      value.String(src),
		"destination": value.String(dst),
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestExecuteCopyRefusesOverwriteByDefault(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("existing"), 0o644))

	svc := Service{}
	res, err := svc.Execute(context.Background(), "copy", map[string]value.VariableValue{
		"source":      value.String(src),
		"destination": value.String(dst),
	})
	require.NoError(t, err)
	require.False(t, res.Success)
}

func TestExecuteSymlinkCreates(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	target := filepath.Join(dir, "link")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	svc := Service{}
	res, err := svc.Execute(context.Background(), "symlink", map[string]value.VariableValue{
		"source": value.String(src),
		"target": value.String(target),
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	resolved, err := os.Readlink(target)
	require.NoError(t, err)
	require.Equal(t, src, resolved)
}

func TestExecuteSymlinkRefusesExistingWithoutForce(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "link")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	svc := Service{}
	res, err := svc.Execute(context.Background(), "symlink", map[string]value.VariableValue{
		"source": value.String("/anything"),
		"target": value.String(target),
	})
	require.NoError(t, err)
	require.False(t, res.Success)
}

func TestExecuteLineInFileAppendsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\n"), 0o644))

	svc := Service{}
	res, err := svc.Execute(context.Background(), "line_in_file", map[string]value.VariableValue{
		"path": value.String(path),
		"line": value.String("two"),
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "one\ntwo\n", string(data))
}

func TestExecuteLineInFileIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\n"), 0o644))

	svc := Service{}
	params := map[string]value.VariableValue{
		"path": value.String(path),
		"line": value.String("one"),
	}
	res, err := svc.Execute(context.Background(), "line_in_file", params)
	require.NoError(t, err)
	require.True(t, res.Success)

	changed, ok := res.Result.Member("changed")
	require.True(t, ok)
	b, ok := changed.BoolValue()
	require.True(t, ok)
	require.False(t, b)
}

func TestExecuteLineInFileAbsentRemovesLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

	svc := Service{}
	res, err := svc.Execute(context.Background(), "line_in_file", map[string]value.VariableValue{
		"path":  value.String(path),
		"state": value.String("absent"),
		"line":  value.String("one"),
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "two\n", string(data))
}

func TestExecuteUnsupportedMethodFails(t *testing.T) {
	svc := Service{}
	res, err := svc.Execute(context.Background(), "nope", map[string]value.VariableValue{})
	require.NoError(t, err)
	require.False(t, res.Success)
}
