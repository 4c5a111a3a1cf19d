package refactor

import (
	"fmt"
	"strings"

	"github.com/ohenrik/dotnet-intel-server/intel"
	"github.com/ohenrik/dotnet-intel-server/intel/symbols"
)

// ExtractInterfaceResult is the extract_interface response (spec §4.6.6).
// The operation never writes to disk; the client saves the suggested file.
type ExtractInterfaceResult struct {
	InterfaceName    string
	SuggestedFile    string
	Text             string
	IncludedMembers  []string
}

// ExtractInterface collects sym's public, non-static instance methods,
// properties, and events (optionally intersected by includeMemberNames) and
// synthesizes an interface declaration textually.
func ExtractInterface(idx *symbols.Index, sym *intel.Symbol, interfaceName string, includeMemberNames []string) (ExtractInterfaceResult, error) {
	if !sym.Kind.IsNamedType() || (sym.Kind != intel.KindClass && sym.Kind != intel.KindStruct) {
		return ExtractInterfaceResult{}, fmt.Errorf("extract interface requires a class or struct symbol, got %s", sym.Kind)
	}
	if interfaceName == "" {
		interfaceName = "I" + sym.Name
	}

	var members []*intel.Symbol
	for _, e := range idx.AllEntries() {
		m := e.Decl.Symbol
		if m.ContainingType != sym.FullyQualified {
			continue
		}
		if m.Accessibility != intel.Public {
			continue
		}
		switch m.Kind {
		case intel.KindMethod:
			if m.Method != nil && (m.Method.IsStatic || m.Method.IsConstructor) {
				continue
			}
		case intel.KindProperty, intel.KindEvent:
			// instance accessor members included as-is; static ones are skipped
			if m.Method != nil && m.Method.IsStatic {
				continue
			}
		default:
			continue
		}
		if len(includeMemberNames) > 0 && !containsString(includeMemberNames, m.Name) {
			continue
		}
		members = append(members, m)
	}

	var b strings.Builder
	if sym.Namespace != "" {
		fmt.Fprintf(&b, "namespace %s\n{\n", sym.Namespace)
	}
	fmt.Fprintf(&b, "public interface %s\n{\n", interfaceName)
	var names []string
	for _, m := range members {
		names = append(names, m.Name)
		switch m.Kind {
		case intel.KindMethod:
			fmt.Fprintf(&b, "    %s %s(%s);\n", m.Method.ReturnType, m.Name, joinParams(m.Method.Parameters))
		case intel.KindProperty:
			fmt.Fprintf(&b, "    %s %s { get; set; }\n", propertyType(m), m.Name)
		case intel.KindEvent:
			fmt.Fprintf(&b, "    event %s %s;\n", propertyType(m), m.Name)
		}
	}
	b.WriteString("}\n")
	if sym.Namespace != "" {
		b.WriteString("}\n")
	}

	return ExtractInterfaceResult{
		InterfaceName:   interfaceName,
		SuggestedFile:   interfaceName + ".cs",
		Text:            b.String(),
		IncludedMembers: names,
	}, nil
}

func joinParams(params []intel.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Type + " " + p.Name
	}
	return strings.Join(parts, ", ")
}

func propertyType(m *intel.Symbol) string {
	if m.Method != nil {
		return m.Method.ReturnType
	}
	return "object"
}
