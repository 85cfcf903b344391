package hostservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/pkg/value"
)

type echoService struct{}

func (echoService) Execute(_ context.Context, method string, params map[string]value.VariableValue) (ServiceResult, error) {
	if method == "fail" {
		return Failure("intentional"), nil
	}
	return Ok(value.String(method)), nil
}

func TestRegistryRegisterAndExecute(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("echo", echoService{}))

	result := r.Execute(context.Background(), "echo", "hello", nil)
	require.True(t, result.Success)
	s, _ := result.Result.StringValue()
	require.Equal(t, "hello", s)
}

func TestRegistryUnknownService(t *testing.T) {
	r := NewRegistry()
	result := r.Execute(context.Background(), "ghost", "x", nil)
	require.False(t, result.Success)
	require.Contains(t, result.Error, "not found")
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("echo", echoService{}))
	require.Error(t, r.Register("echo", echoService{}))
}

type panicService struct{}

func (panicService) Execute(context.Context, string, map[string]value.VariableValue) (ServiceResult, error) {
	panic("boom")
}

func TestRegistryRecoversFromPanickingService(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("bad", panicService{}))

	result := r.Execute(context.Background(), "bad", "x", nil)
	require.False(t, result.Success)
	require.Contains(t, result.Error, "panicked")
}
