package rpc

import (
	"encoding/json"
	"fmt"
)

const protocolVersion = "2024-11-05"

// Dispatch routes one JSON-RPC method to its handler (spec §4.9): only
// initialize, tools/list, and tools/call are recognized at the protocol
// layer; every domain operation is a named tool invoked through tools/call.
func Dispatch(core *Core, method string, params json.RawMessage) (any, *ResponseError) {
	switch method {
	case "initialize":
		return initializeResult(), nil
	case "tools/list":
		return toolListResult(), nil
	case "tools/call":
		return dispatchToolCall(core, params)
	default:
		return nil, &ResponseError{Code: codeMethodNotFound, Message: fmt.Sprintf("unknown method %q", method)}
	}
}

func initializeResult() map[string]any {
	return map[string]any{
		"protocolVersion": protocolVersion,
		"serverInfo":      map[string]any{"name": "dotnet-intel-server", "version": "1.0.0"},
		"capabilities":    map[string]any{"tools": map[string]any{}},
	}
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func dispatchToolCall(core *Core, params json.RawMessage) (any, *ResponseError) {
	var call toolCallParams
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, &ResponseError{Code: codeInvalidParams, Message: err.Error()}
	}
	handler, ok := handlers[call.Name]
	if !ok {
		return nil, &ResponseError{Code: codeInvalidParams, Message: fmt.Sprintf("unknown tool %q", call.Name)}
	}

	args := call.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	result, err := handler(core, args)
	if err != nil {
		return nil, &ResponseError{Code: codeInternalError, Message: err.Error()}
	}

	text, err := json.Marshal(result)
	if err != nil {
		return nil, &ResponseError{Code: codeInternalError, Message: err.Error()}
	}
	return map[string]any{
		"content": []map[string]any{{"type": "text", "text": string(text)}},
	}, nil
}
