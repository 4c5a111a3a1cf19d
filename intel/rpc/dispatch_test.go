package rpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ohenrik/dotnet-intel-server/intel/config"
)

func newTestCore() *Core {
	return NewCore(config.Config{EnableSemanticCache: true, MaxDiagnostics: 100, TimeoutSeconds: 30}, zap.NewNop())
}

func TestDispatch_Initialize(t *testing.T) {
	core := newTestCore()
	result, rpcErr := Dispatch(core, "initialize", nil)
	require.Nil(t, rpcErr)
	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, protocolVersion, m["protocolVersion"])
}

func TestDispatch_ToolsList(t *testing.T) {
	core := newTestCore()
	result, rpcErr := Dispatch(core, "tools/list", nil)
	require.Nil(t, rpcErr)
	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, m["tools"])
}

func TestDispatch_UnknownMethod(t *testing.T) {
	core := newTestCore()
	_, rpcErr := Dispatch(core, "bogus/method", nil)
	require.NotNil(t, rpcErr)
	assert.Equal(t, codeMethodNotFound, rpcErr.Code)
}

func callTool(t *testing.T, core *Core, name string, args any) map[string]any {
	t.Helper()
	argBytes, err := json.Marshal(args)
	require.NoError(t, err)
	params, err := json.Marshal(toolCallParams{Name: name, Arguments: argBytes})
	require.NoError(t, err)

	result, rpcErr := Dispatch(core, "tools/call", params)
	require.Nil(t, rpcErr)
	envelope, ok := result.(map[string]any)
	require.True(t, ok)
	content := envelope["content"].([]map[string]any)
	require.Len(t, content, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(content[0]["text"].(string)), &payload))
	return payload
}

func TestDispatch_ToolsCall_HealthCheck_NoSolutionLoaded(t *testing.T) {
	core := newTestCore()
	payload := callTool(t, core, "health_check", map[string]any{})
	assert.Equal(t, "Not Ready", payload["status"])
}

func TestDispatch_ToolsCall_UnknownTool(t *testing.T) {
	core := newTestCore()
	params, err := json.Marshal(toolCallParams{Name: "not_a_real_tool", Arguments: json.RawMessage("{}")})
	require.NoError(t, err)
	_, rpcErr := Dispatch(core, "tools/call", params)
	require.NotNil(t, rpcErr)
	assert.Equal(t, codeInvalidParams, rpcErr.Code)
}

func TestDispatch_ToolsCall_LoadSolution(t *testing.T) {
	core := newTestCore()
	sol := writeLoadableSolution(t)
	payload := callTool(t, core, "load_solution", map[string]any{"solutionPath": sol})
	assert.Equal(t, true, payload["success"])

	health := callTool(t, core, "health_check", map[string]any{})
	assert.Equal(t, "Ready", health["status"])
}
