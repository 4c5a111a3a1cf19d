package rpc

import (
	"errors"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/refactor"
	"github.com/ohenrik/dotnet-intel-server/intel/symbols"
)

// preconditionPayload converts the "expected" failure modes (spec §7:
// no-solution-loaded, file-not-in-solution, invalid-position, wrong symbol
// kind) into a structured success payload instead of a JSON-RPC error --
// deliberate, because AI clients recover better from a hint than an error
// code. Anything else is returned unchanged so the caller surfaces it as a
// genuine protocol/compiler error (-32603).
func preconditionPayload(err error) (map[string]any, bool) {
	switch {
	case errors.Is(err, intel.ErrNoSolutionLoaded):
		return map[string]any{"error": "no solution loaded", "hint": "call load_solution first"}, true
	case errors.Is(err, intel.ErrFileNotInSolution):
		return map[string]any{"error": "file not in solution", "hint": "check filePath against the loaded solution's documents"}, true
	case errors.Is(err, intel.ErrInvalidPosition):
		return map[string]any{"error": "invalid position", "hint": "line/column is outside the document's text range"}, true
	case errors.Is(err, intel.ErrSolutionNotFound), errors.Is(err, intel.ErrAmbiguousSolution), errors.Is(err, intel.ErrProjectNotFound):
		return map[string]any{"error": err.Error()}, true
	case errors.Is(err, refactor.ErrMetadataSymbol):
		return map[string]any{"error": "symbol has no source location", "hint": "rename/extract requires a symbol declared in source"}, true
	case errors.Is(err, refactor.ErrEmptyName):
		return map[string]any{"error": "newName must not be empty"}, true
	case errors.Is(err, refactor.ErrNoMatchingDiagnostic):
		return map[string]any{"error": "no matching diagnostic", "hint": "call get_code_fixes first to discover the nearest diagnostics"}, true
	case errors.Is(err, refactor.ErrFixIndexOutOfRange):
		return map[string]any{"error": "fixIndex out of range"}, true
	default:
		var wrongKind symbols.WrongKindError
		if errors.As(err, &wrongKind) {
			return map[string]any{"error": wrongKind.Error(), "hint": "check the resolved symbol's kind before calling this operation"}, true
		}
		return nil, false
	}
}
