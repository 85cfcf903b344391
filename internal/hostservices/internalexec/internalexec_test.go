package internalexec

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStreaming_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell assumptions do not hold on Windows")
	}

	cmd := exec.Command("echo", "hello world")

	result, err := RunStreaming(cmd)
	require.NoError(t, err)
	assert.Equal(t, "hello world", result.Stdout)
	assert.Equal(t, "", result.Stderr)
}

func TestRunStreaming_WithError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell assumptions do not hold on Windows")
	}

	cmd := exec.Command("sh", "-c", "echo 'error message' >&2; exit 1")

	result, err := RunStreaming(cmd)
	require.Error(t, err)
	assert.Equal(t, "", result.Stdout)
	assert.Equal(t, "error message", result.Stderr)
}

func TestRunStreaming_WithStdoutPipe(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell assumptions do not hold on Windows")
	}

	var stdoutBuf bytes.Buffer
	cmd := exec.Command("echo", "piped output")
	cmd.Stdout = &stdoutBuf

	result, err := RunStreaming(cmd)
	require.NoError(t, err)
	assert.Equal(t, "piped output", result.Stdout)
	assert.Equal(t, "piped output\n", stdoutBuf.String())
	assert.Equal(t, "", result.Stderr)
}

func TestRunStreaming_WithStderrPipe(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell assumptions do not hold on Windows")
	}

	var stderrBuf bytes.Buffer
	cmd := exec.Command("sh", "-c", "echo 'error message' >&2; exit 1")
	cmd.Stderr = &stderrBuf

	result, err := RunStreaming(cmd)
	require.Error(t, err)
	assert.Equal(t, "", result.Stdout)
	assert.Equal(t, "error message", result.Stderr)
	assert.Equal(t, "error message\n", stderrBuf.String())
}

func TestRunStreaming_WithBothPipes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell assumptions do not hold on Windows")
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd := exec.Command("sh", "-c", "echo 'normal output'; echo 'error message' >&2; exit 1")
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	result, err := RunStreaming(cmd)
	require.Error(t, err)
	assert.Equal(t, "normal output", result.Stdout)
	assert.Equal(t, "error message", result.Stderr)
	assert.Equal(t, "normal output\n", stdoutBuf.String())
	assert.Equal(t, "error message\n", stderrBuf.String())
}

func TestRunStreaming_WithContext(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell assumptions do not hold on Windows")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sleep", "1")

	result, err := RunStreaming(cmd)
	require.Error(t, err)
	if runtime.GOOS == "linux" {
		assert.Contains(t, err.Error(), "signal: killed")
	} else {
		assert.Contains(t, err.Error(), "context")
	}
	assert.Empty(t, result.Stdout)
}

func TestRunStreaming_OutputTrimming(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell assumptions do not hold on Windows")
	}

	cmd := exec.Command("printf", "hello\nworld\n\t")

	result, err := RunStreaming(cmd)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", result.Stdout)
}

func TestPrimaryOutput(t *testing.T) {
	t.Run("returns stderr when present", func(t *testing.T) {
		result := Result{Stdout: "normal output", Stderr: "error message"}
		assert.Equal(t, "error message", PrimaryOutput(result))
	})

	t.Run("returns stdout when no stderr", func(t *testing.T) {
		result := Result{Stdout: "normal output", Stderr: ""}
		assert.Equal(t, "normal output", PrimaryOutput(result))
	})

	t.Run("returns empty string when both are empty", func(t *testing.T) {
		result := Result{Stdout: "", Stderr: ""}
		assert.Equal(t, "", PrimaryOutput(result))
	})

	t.Run("handles whitespace", func(t *testing.T) {
		result := Result{Stdout: "   ", Stderr: ""}
		assert.Equal(t, "   ", PrimaryOutput(result))
	})
}

func TestRunStreaming_CommandNotFound(t *testing.T) {
	cmd := exec.Command("this-command-does-not-exist")

	result, err := RunStreaming(cmd)
	require.Error(t, err)
	assert.Empty(t, result.Stdout)
}

func TestRunStreaming_NoOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell assumptions do not hold on Windows")
	}

	cmd := exec.Command("true")

	result, err := RunStreaming(cmd)
	require.NoError(t, err)
	assert.Equal(t, "", result.Stdout)
	assert.Equal(t, "", result.Stderr)
}
