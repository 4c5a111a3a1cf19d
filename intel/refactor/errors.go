package refactor

import "errors"

// Errors returned by the code-fix workflow (spec §4.6.4, §4.6.5).
var (
	ErrNoMatchingDiagnostic = errors.New("refactor: no diagnostic matched the given id/position")
	ErrFixIndexOutOfRange   = errors.New("refactor: fixIndex out of range")
)
