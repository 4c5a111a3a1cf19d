package rpc

import (
	"bufio"
	"encoding/json"
	"io"

	"go.uber.org/zap"
)

// JSON-RPC 2.0 standard error codes (spec §6.4, §7).
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// Request is one inbound JSON-RPC line.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is one outbound JSON-RPC line. Exactly one of Result/Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// ResponseError is the JSON-RPC error object.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Serve runs the read-handle-respond loop: one request read, handled, and
// responded to strictly in order (spec §5), until stdin returns EOF. Nothing
// other than protocol response lines is ever written to w (spec §4.9); all
// diagnostics go through core.Logger, which writes to stderr exclusively.
func Serve(r io.Reader, w io.Writer, core *Core) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		resp := handleLine(core, line)
		if err := enc.Encode(resp); err != nil {
			core.Logger.Error("failed writing response", zap.Error(err))
		}
	}
	return scanner.Err()
}

func handleLine(core *Core, line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Response{JSONRPC: "2.0", ID: json.RawMessage("null"), Error: &ResponseError{Code: codeParseError, Message: err.Error()}}
	}
	if req.JSONRPC == "" || req.Method == "" {
		return Response{JSONRPC: "2.0", ID: req.ID, Error: &ResponseError{Code: codeInvalidRequest, Message: "missing jsonrpc or method"}}
	}

	result, rpcErr := Dispatch(core, req.Method, req.Params)
	if rpcErr != nil {
		return Response{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
	}
	return Response{JSONRPC: "2.0", ID: req.ID, Result: result}
}
