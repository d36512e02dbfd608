package service

import (
	"encoding/json"
	"net/url"
	"slices"
	"strings"
)

// URLParam is the only parameter CreateOrRefresh reads.
const URLParam = "url"

// Params is a decoded request body. Form bodies map each key to
// []string; JSON bodies map to whatever encoding/json produced (with
// json.Number for numbers).
type Params map[string]any

// URL returns the url parameter when it is a non-empty string after
// trimming. For repeated form keys the last value wins.
func (p Params) URL() (string, bool) {
	var raw string
	switch v := p[URLParam].(type) {
	case string:
		raw = v
	case []string:
		if len(v) == 0 {
			return "", false
		}
		raw = v[len(v)-1]
	default:
		return "", false
	}

	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// validURL accepts absolute http and https URLs with a host.
func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Hostname() != ""
}

// String renders p the way a Python dict literal prints, with keys sorted
// so the output is stable.
func (p Params) String() string {
	var b strings.Builder
	writeMap(&b, p)
	return b.String()
}

func writeMap(b *strings.Builder, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		writeString(b, k)
		b.WriteString(": ")
		writeValue(b, m[k])
	}
	b.WriteByte('}')
}

func writeValue(b *strings.Builder, v any) {
	switch v := v.(type) {
	case nil:
		b.WriteString("None")
	case bool:
		if v {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case string:
		writeString(b, v)
	case json.Number:
		b.WriteString(v.String())
	case []string:
		b.WriteByte('[')
		for i, s := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			writeString(b, s)
		}
		b.WriteByte(']')
	case []any:
		b.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, e)
		}
		b.WriteByte(']')
	case map[string]any:
		writeMap(b, v)
	case Params:
		writeMap(b, v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			b.WriteString("?")
			return
		}
		b.Write(data)
	}
}

// writeString quotes s with single quotes, switching to double quotes
// when s contains a single quote and no double quote.
func writeString(b *strings.Builder, s string) {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteByte(quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
}
