package template

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/pkg/value"
)

func TestExecuteRenderSubstitutesVars(t *testing.T) {
	svc := Service{}
	params := map[string]value.VariableValue{
		"template": value.String("hello {{.name}}"),
		"vars":     value.Object(value.Entry("name", value.String("world"))),
	}

	res, err := svc.Execute(context.Background(), "render", params)
	require.NoError(t, err)
	require.True(t, res.Success)

	out, ok := res.Result.StringValue()
	require.True(t, ok)
	require.Equal(t, "hello world", out)
}

func TestExecuteRenderMissingKeyErrorsByDefault(t *testing.T) {
	svc := Service{}
	params := map[string]value.VariableValue{
		"template": value.String("hello {{.name}}"),
	}

	res, err := svc.Execute(context.Background(), "render", params)
	require.NoError(t, err)
	require.False(t, res.Success)
}

func TestExecuteRenderAllowMissingZerosOut(t *testing.T) {
	svc := Service{}
	params := map[string]value.VariableValue{
		"template":     value.String("hello {{.name}}"),
		"allowMissing": value.Bool(true),
	}

	res, err := svc.Execute(context.Background(), "render", params)
	require.NoError(t, err)
	require.True(t, res.Success)

	out, ok := res.Result.StringValue()
	require.True(t, ok)
	require.Equal(t, "hello ", out)
}

func TestExecuteRenderMissingTemplateFails(t *testing.T) {
	svc := Service{}
	res, err := svc.Execute(context.Background(), "render", map[string]value.VariableValue{})
	require.NoError(t, err)
	require.False(t, res.Success)
}

func TestExecuteUnsupportedMethodFails(t *testing.T) {
	svc := Service{}
	res, err := svc.Execute(context.Background(), "nope", map[string]value.VariableValue{})
	require.NoError(t, err)
	require.False(t, res.Success)
}
