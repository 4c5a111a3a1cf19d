// Package intel defines the domain model shared by every other intel/*
// package: symbols, locations, diagnostics, and edit plans (spec §3). It
// deliberately carries no behavior beyond small predicates on these types --
// parsing, binding, and querying live in the packages that use this model.
package intel

// SymbolKind enumerates the declaration kinds the system understands
// (spec §3's Symbol).
type SymbolKind string

const (
	KindClass     SymbolKind = "Class"
	KindInterface SymbolKind = "Interface"
	KindStruct    SymbolKind = "Struct"
	KindEnum      SymbolKind = "Enum"
	KindDelegate  SymbolKind = "Delegate"
	KindMethod    SymbolKind = "Method"
	KindProperty  SymbolKind = "Property"
	KindField     SymbolKind = "Field"
	KindEvent     SymbolKind = "Event"
	KindParameter SymbolKind = "Parameter"
)

// IsNamedType reports whether k denotes a type declaration (as opposed to a
// member or parameter) -- the distinction find_implementations,
// get_type_hierarchy, and extract_interface all gate on.
func (k SymbolKind) IsNamedType() bool {
	switch k {
	case KindClass, KindInterface, KindStruct, KindEnum, KindDelegate:
		return true
	default:
		return false
	}
}

// Accessibility mirrors C#'s declared-accessibility set.
type Accessibility string

const (
	Public            Accessibility = "public"
	Private           Accessibility = "private"
	Protected         Accessibility = "protected"
	Internal          Accessibility = "internal"
	ProtectedInternal Accessibility = "protected internal"
	PrivateProtected  Accessibility = "private protected"
)

// Position is a 0-based line/column within a document (spec §3).
type Position struct {
	Line   int
	Column int
}

// Location is a span within a document, or an opaque metadata indicator when
// FilePath is empty and InMetadata is true (spec §3).
type Location struct {
	FilePath   string
	Start      Position
	End        Position
	InMetadata bool
}

// Parameter is one formal parameter of a method (spec §3).
type Parameter struct {
	Name string
	Type string
}

// MethodAttrs holds the attributes specific to callable/typed members:
// methods carry their full signature; properties/fields/events reuse this
// struct with only ReturnType (the declared type) and IsStatic populated
// (see intel/csharp/binder.go).
type MethodAttrs struct {
	ReturnType    string
	Parameters    []Parameter
	IsAsync       bool
	IsStatic      bool
	IsOverride    bool
	IsVirtual     bool
	IsConstructor bool
}

// TypeAttrs holds the attributes specific to type declarations.
type TypeAttrs struct {
	BaseType   string
	Interfaces []string
	IsStatic   bool
	Attributes []string
}

// Symbol is the unit every query and refactoring operation works against
// (spec §3). Exactly one of Method/Type is non-nil, depending on Kind.
type Symbol struct {
	ID             string
	Kind           SymbolKind
	Name           string
	FullyQualified string
	Namespace      string
	ContainingType string
	Accessibility  Accessibility
	Locations      []Location

	Method *MethodAttrs // set for Method/Property/Field/Event
	Type   *TypeAttrs   // set when Kind.IsNamedType()
}

// HasSourceLocation reports whether sym was declared in a loaded document
// (as opposed to referenced only in metadata -- e.g. a BCL type).
func (s *Symbol) HasSourceLocation() bool {
	return len(s.Locations) > 0 && s.Locations[0].FilePath != "" && !s.Locations[0].InMetadata
}

// Severity is a compiler diagnostic's severity level.
type Severity string

const (
	SeverityError   Severity = "Error"
	SeverityWarning Severity = "Warning"
	SeverityInfo    Severity = "Info"
	SeverityHidden  Severity = "Hidden"
)

// Diagnostic is one compiler/parser finding (spec §4.5).
type Diagnostic struct {
	ID       string
	Severity Severity
	Message  string
	Location Location
}

// DiagnosticScope selects how wide a get_diagnostics query reaches (spec §4.5).
type DiagnosticScope string

const (
	ScopeFile     DiagnosticScope = "file"
	ScopeProject  DiagnosticScope = "project"
	ScopeSolution DiagnosticScope = "solution"
)

// Verbosity controls how much detail rename_symbol's hunks carry (spec §4.6.1).
type Verbosity string

const (
	VerbositySummary Verbosity = "summary"
	VerbosityCompact Verbosity = "compact"
	VerbosityFull    Verbosity = "full"
)

// ChangeType classifies one DocumentEdit within an EditPlan.
type ChangeType string

const (
	ChangeModified ChangeType = "modified"
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
)

// Hunk is one located text replacement within a DocumentEdit (spec §4.6.1).
// Which fields are populated depends on the requested Verbosity.
type Hunk struct {
	OldStart Position
	OldEnd   Position
	OldText  string
	NewText  string
}

// DocumentEdit is one changed document within an EditPlan.
type DocumentEdit struct {
	Path        string
	ChangeType  ChangeType
	ChangeCount int
	NewText     string
	Hunks       []Hunk
}

// EditPlan is the common preview/apply envelope every refactoring operation
// returns (spec §4.6): Preview true means NewText/Hunks describe the change
// but nothing has been written to disk. FailedPath/FailedError are set when
// an apply-time write fails partway through (see intel/refactor's commit).
type EditPlan struct {
	Edits       []DocumentEdit
	Preview     bool
	FailedPath  string
	FailedError string
}

// NewEditPlan builds an EditPlan from a set of computed edits.
func NewEditPlan(edits []DocumentEdit, preview bool) *EditPlan {
	return &EditPlan{Edits: edits, Preview: preview}
}
