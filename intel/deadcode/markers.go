package deadcode

import (
	"strings"

	"github.com/ohenrik/dotnet-intel-server/intel"
)

// frameworkBaseMarkers is the interface/base-type marker list (spec §4.7):
// a type transitively implementing or inheriting any of these is excluded
// from dead-code findings, regardless of its own reference count. Matches
// are substring, case-insensitive, against the fully qualified base/interface
// name. Kept as a single data structure per spec §9's framework-marker-list
// design note, and kept as a package-level var so RegisterMarkers (and
// in-package tests) can append to it.
var frameworkBaseMarkers = []string{
	"IHostedService",
	"BackgroundService",
	"IActionFilter",
	"IAsyncActionFilter",
	"IExceptionFilter",
	"IMiddleware",
	"DbContext",
	"IRequestHandler",
	"INotificationHandler",
	"AbstractValidator",
	"Profile", // AutoMapper mapping profile base class
	"IDisposable",
	"IAsyncDisposable",
}

// frameworkAttributeMarkers is the attribute marker list (spec §4.7): a type
// decorated with an attribute whose short name contains any of these is
// excluded. Case-insensitive substring match.
var frameworkAttributeMarkers = []string{
	"Controller",
	"Route",
	"Authorize",
	"ApiController",
	"TestFixture",
	"TestClass",
	"Fact",
	"Theory",
	"DataContract",
	"DataMember",
	"Export",
	"Import",
}

// IsFrameworkType reports whether sym (a named-type symbol) matches either
// framework-marker heuristic and should be excluded from dead-code findings.
func IsFrameworkType(sym *intel.Symbol) bool {
	if sym.Type == nil {
		return false
	}
	for _, base := range append([]string{sym.Type.BaseType}, sym.Type.Interfaces...) {
		if matchesAny(base, frameworkBaseMarkers) {
			return true
		}
	}
	for _, attr := range sym.Type.Attributes {
		if matchesAny(attr, frameworkAttributeMarkers) {
			return true
		}
	}
	return false
}

// RegisterMarkers appends additional base/attribute markers to the fixed
// lists, the injection seam named in spec §9 ("allow the test suite to
// inject additions") and used by intel/config to load DOTNET_INTEL_CONFIG.
func RegisterMarkers(baseMarkers, attributeMarkers []string) {
	frameworkBaseMarkers = append(frameworkBaseMarkers, baseMarkers...)
	frameworkAttributeMarkers = append(frameworkAttributeMarkers, attributeMarkers...)
}

func matchesAny(value string, markers []string) bool {
	if value == "" {
		return false
	}
	lower := strings.ToLower(value)
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
