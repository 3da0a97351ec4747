package decode

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Into decodes raw generation output into v, which must be a pointer
// to a struct or map describing the expected record shape. The backend
// gives no format guarantee, so parsing runs through a strictly
// ordered chain of repairs, stopping at the first that yields valid
// JSON:
//
//  1. strip markdown code fences
//  2. strict parse
//  3. strict parse of the first balanced top-level object span, which
//     tolerates commentary appended after valid output
//  4. character-level sanitization (control chars, raw newlines inside
//     string literals, smart quotes, trailing commas), then strict parse
//  5. per-field regex extraction assembling a partial object from
//     whatever fields can still be recognized
//
// fieldNames lists the JSON field names of v used by step 5. Into
// reports whether any of the steps succeeded. On false the fields of v
// are unspecified: a failed strict parse may have partially populated
// them before erroring, so the caller must discard v and supply its
// fallback record. Into never returns an error and never panics on
// arbitrary input.
func Into(raw string, fieldNames []string, v interface{}) bool {
	text := stripFences(raw)

	if tryUnmarshal(text, v) {
		return true
	}

	if span, ok := balancedObject(text); ok && tryUnmarshal(span, v) {
		return true
	}

	cleaned := sanitize(text)
	if tryUnmarshal(cleaned, v) {
		return true
	}
	if span, ok := balancedObject(cleaned); ok && tryUnmarshal(span, v) {
		return true
	}

	if partial, ok := extractFields(text, fieldNames); ok && tryUnmarshal(partial, v) {
		return true
	}

	return false
}

func tryUnmarshal(text string, v interface{}) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	return json.Unmarshal([]byte(text), v) == nil
}

// stripFences removes a wrapping markdown code fence if present.
func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Drop an optional language tag on the opening fence line.
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(text[:idx])
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{}[]") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// balancedObject returns the first balanced top-level {...} span,
// counting brace depth while respecting string literals and escapes.
func balancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case !inString && ch == '{':
			depth++
		case !inString && ch == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

var smartQuoteReplacer = strings.NewReplacer(
	"“", `"`, // left double
	"”", `"`, // right double
	"‘", "'", // left single
	"’", "'", // right single
)

// sanitize repairs the character-level damage the backend most often
// inflicts: smart quotes, raw control characters, unescaped line
// breaks and tabs inside string literals, trailing commas. String
// boundaries are tracked heuristically by quote position, the same
// best-effort stance the rest of the decoder takes.
func sanitize(text string) string {
	text = smartQuoteReplacer.Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	inString := false
	escaped := false
	for _, r := range text {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch {
		case r == '\\' && inString:
			b.WriteRune(r)
			escaped = true
		case r == '"':
			inString = !inString
			b.WriteRune(r)
		case r == '\n':
			if inString {
				b.WriteString(`\n`)
			} else {
				b.WriteRune(r)
			}
		case r == '\t':
			if inString {
				b.WriteString(`\t`)
			} else {
				b.WriteRune(r)
			}
		case r == '\r':
			// dropped in both positions
		case r < 0x20:
			// other control characters are never legal JSON
		default:
			b.WriteRune(r)
		}
	}

	return trailingCommaRe.ReplaceAllString(b.String(), "$1")
}

// extractFields is the last-resort tier: independently search for each
// expected field and assemble whatever was found into a partial object.
func extractFields(text string, fieldNames []string) (string, bool) {
	found := map[string]json.RawMessage{}

	for _, name := range fieldNames {
		quoted := regexp.QuoteMeta(name)

		// Quoted string value, honoring escapes.
		strRe := regexp.MustCompile(`"` + quoted + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
		if m := strRe.FindStringSubmatch(text); m != nil {
			candidate := `"` + m[1] + `"`
			if json.Valid([]byte(candidate)) {
				found[name] = json.RawMessage(candidate)
				continue
			}
		}

		// Flat array value (no nested brackets).
		arrRe := regexp.MustCompile(`"` + quoted + `"\s*:\s*(\[[^\[\]]*\])`)
		if m := arrRe.FindStringSubmatch(text); m != nil {
			candidate := trailingCommaRe.ReplaceAllString(m[1], "$1")
			if json.Valid([]byte(candidate)) {
				found[name] = json.RawMessage(candidate)
				continue
			}
		}

		// Bare number or boolean.
		numRe := regexp.MustCompile(`"` + quoted + `"\s*:\s*(-?\d+(?:\.\d+)?|true|false)`)
		if m := numRe.FindStringSubmatch(text); m != nil {
			found[name] = json.RawMessage(m[1])
		}
	}

	if len(found) == 0 {
		return "", false
	}

	assembled, err := json.Marshal(found)
	if err != nil {
		return "", false
	}
	return string(assembled), true
}
