package csharp

import "strings"

// Format re-emits a canonical, whitespace-normalized rendering of a token
// stream: one statement/declaration per line, brace-depth indentation with
// tabs, a single space around binary punctuation, and no trailing
// whitespace. This mirrors the teacher's own format.go writer (write/
// writeLine/writeIndent) adapted from the scaf DSL to a token-stream
// formatter, since our syntax tree does not retain full statement fidelity
// (see DESIGN.md).
func Format(tokens []Token) string {
	var b strings.Builder
	indent := 0
	atLineStart := true

	writeIndent := func() {
		for range indent {
			b.WriteByte('\t')
		}
	}

	noSpaceBefore := map[string]bool{")": true, "]": true, ";": true, ",": true, ".": true, "(": false}
	noSpaceAfter := map[string]bool{"(": true, ".": true, "!": true}

	var prev string
	for _, t := range tokens {
		if t.EOF() {
			continue
		}
		v := t.Value

		switch v {
		case "}":
			indent--
			if indent < 0 {
				indent = 0
			}
			if !atLineStart {
				b.WriteByte('\n')
			}
			writeIndent()
			b.WriteString(v)
			b.WriteByte('\n')
			atLineStart = true
			prev = v
			continue
		}

		if atLineStart {
			writeIndent()
			atLineStart = false
		} else if prev != "" && !noSpaceBefore[v] && !noSpaceAfter[prev] {
			b.WriteByte(' ')
		}
		b.WriteString(v)
		prev = v

		switch v {
		case "{":
			indent++
			b.WriteByte('\n')
			atLineStart = true
		case ";":
			b.WriteByte('\n')
			atLineStart = true
		}
	}

	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}
