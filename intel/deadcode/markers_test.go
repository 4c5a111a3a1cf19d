package deadcode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ohenrik/dotnet-intel-server/intel"
)

func TestIsFrameworkType_BaseMarker(t *testing.T) {
	sym := &intel.Symbol{Type: &intel.TypeAttrs{Interfaces: []string{"IHostedService"}}}
	assert.True(t, IsFrameworkType(sym))
}

func TestIsFrameworkType_AttributeMarker_CaseInsensitive(t *testing.T) {
	sym := &intel.Symbol{Type: &intel.TypeAttrs{Attributes: []string{"apicontroller"}}}
	assert.True(t, IsFrameworkType(sym))
}

func TestIsFrameworkType_NoMatch(t *testing.T) {
	sym := &intel.Symbol{Type: &intel.TypeAttrs{BaseType: "SomePlainBase"}}
	assert.False(t, IsFrameworkType(sym))
}

func TestIsFrameworkType_NilType(t *testing.T) {
	sym := &intel.Symbol{}
	assert.False(t, IsFrameworkType(sym))
}

func TestRegisterMarkers_Additive(t *testing.T) {
	origBase := append([]string(nil), frameworkBaseMarkers...)
	origAttr := append([]string(nil), frameworkAttributeMarkers...)
	t.Cleanup(func() {
		frameworkBaseMarkers = origBase
		frameworkAttributeMarkers = origAttr
	})

	sym := &intel.Symbol{Type: &intel.TypeAttrs{BaseType: "MyCustomFrameworkBase"}}
	assert.False(t, IsFrameworkType(sym))

	RegisterMarkers([]string{"MyCustomFrameworkBase"}, nil)
	assert.True(t, IsFrameworkType(sym))
}
