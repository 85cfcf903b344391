package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowcore/flowcore/internal/domain/execctx"
	"github.com/flowcore/flowcore/internal/domain/flow"
	"github.com/flowcore/flowcore/pkg/value"
)

func linearFlow() flow.Flow {
	return flow.Flow{
		ID:   "f1",
		Name: "linear",
		Components: []flow.Component{
			{ID: "start", Kind: flow.KindStart, Name: "Start"},
			{ID: "end", Kind: flow.KindEnd, Name: "End"},
		},
		Connections: []flow.Connection{
			{ID: "c1", Source: flow.Endpoint{ComponentID: "start", PortID: "out"}, Target: flow.Endpoint{ComponentID: "end", PortID: "in"}},
		},
	}
}

func TestResolveNextFollowsFirstConnection(t *testing.T) {
	f := linearFlow()
	ctx := execctx.New(f.ID, "e1", "start")
	next, ok := ResolveNext(f, ctx)
	require.True(t, ok)
	require.Equal(t, "end", next.ID)
}

func TestResolveNextEndIsTerminal(t *testing.T) {
	f := linearFlow()
	ctx := execctx.New(f.ID, "e1", "end")
	_, ok := ResolveNext(f, ctx)
	require.False(t, ok)
}

func TestResolveNextDecisionFalseOnMissingVariable(t *testing.T) {
	f := flow.Flow{
		ID: "f1",
		Components: []flow.Component{
			{ID: "start", Kind: flow.KindStart, Name: "Start"},
			{ID: "dec", Kind: flow.KindDecision, Name: "Decision", Properties: map[string]value.ComponentProperty{
				"condition": value.String("isActive"),
			}},
			{ID: "endT", Kind: flow.KindEnd, Name: "EndT"},
			{ID: "endF", Kind: flow.KindEnd, Name: "EndF"},
		},
		Connections: []flow.Connection{
			{ID: "c1", Source: flow.Endpoint{"start", "out"}, Target: flow.Endpoint{"dec", "in"}},
			{ID: "c2", Source: flow.Endpoint{"dec", "true"}, Target: flow.Endpoint{"endT", "in"}},
			{ID: "c3", Source: flow.Endpoint{"dec", "false"}, Target: flow.Endpoint{"endF", "in"}},
		},
	}

	ctx := execctx.New(f.ID, "e1", "dec")
	next, ok := ResolveNext(f, ctx)
	require.True(t, ok)
	require.Equal(t, "endF", next.ID)

	ctx = ctx.WithVariable("isActive", value.Bool(true))
	next, ok = ResolveNext(f, ctx)
	require.True(t, ok)
	require.Equal(t, "endT", next.ID)
}

func TestDetectCyclesFindsBackEdge(t *testing.T) {
	f := flow.Flow{
		ID: "f1",
		Components: []flow.Component{
			{ID: "start", Kind: flow.KindStart, Name: "Start"},
			{ID: "a", Kind: flow.KindAction, Name: "A", Properties: map[string]value.ComponentProperty{
				"service": value.String("s"), "method": value.String("m"),
			}},
			{ID: "b", Kind: flow.KindAction, Name: "B", Properties: map[string]value.ComponentProperty{
				"service": value.String("s"), "method": value.String("m"),
			}},
		},
		Connections: []flow.Connection{
			{ID: "c1", Source: flow.Endpoint{"start", "out"}, Target: flow.Endpoint{"a", "in"}},
			{ID: "c2", Source: flow.Endpoint{"a", "success"}, Target: flow.Endpoint{"b", "in"}},
			{ID: "c3", Source: flow.Endpoint{"b", "success"}, Target: flow.Endpoint{"a", "in"}},
		},
	}

	cycles := DetectCycles(f)
	require.NotEmpty(t, cycles)
	require.Error(t, ValidateDAG(f))
}

func TestFindPathBFS(t *testing.T) {
	f := linearFlow()
	path, ok := FindPath(f, "start", "end")
	require.True(t, ok)
	require.Len(t, path, 2)
	require.Equal(t, "start", path[0].ID)
	require.Equal(t, "end", path[1].ID)
}

func TestFindPathSameNode(t *testing.T) {
	f := linearFlow()
	path, ok := FindPath(f, "start", "start")
	require.True(t, ok)
	require.Len(t, path, 1)
}

func TestFindPathUnreachable(t *testing.T) {
	f := linearFlow()
	f.Components = append(f.Components, flow.Component{ID: "isolated", Kind: flow.KindEnd, Name: "Isolated"})
	_, ok := FindPath(f, "start", "isolated")
	require.False(t, ok)
}
