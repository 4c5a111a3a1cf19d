package intel

import "errors"

// Sentinel errors for the preconditions spec §7 requires handlers to
// recognize and convert into structured payloads rather than protocol
// errors.
var (
	ErrNoSolutionLoaded  = errors.New("intel: no solution loaded")
	ErrFileNotInSolution = errors.New("intel: file not in solution")
	ErrInvalidPosition   = errors.New("intel: position out of range")
	ErrSolutionNotFound  = errors.New("intel: no .sln or .csproj found at path")
	ErrAmbiguousSolution = errors.New("intel: multiple .sln or .csproj files found, specify one explicitly")
	ErrProjectNotFound   = errors.New("intel: project not found")
)
