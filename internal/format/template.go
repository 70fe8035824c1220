// Package format implements gp's placeholder templates and the two-stage
// rendering of field values into output strings.
//
// A template is literal text with {name} placeholders. "{{" and "}}" stand
// for literal braces. Values are inserted verbatim and never re-scanned, so
// a branch named "x{dirty}" renders as exactly that.
package format

import (
	"fmt"
	"strings"
)

type token struct {
	text        string // literal text, or the placeholder name
	placeholder bool
}

// Template is a compiled placeholder template.
type Template struct {
	src    string
	tokens []token
}

// Parse compiles src. An unterminated or empty placeholder is an error.
func Parse(src string) (*Template, error) {
	t := &Template{src: src}

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.tokens = append(t.tokens, token{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '{':
			if i+1 < len(src) && src[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(src[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unterminated placeholder at offset %d in %q", i, src)
			}
			name := strings.TrimSpace(src[i+1 : i+1+end])
			if name == "" {
				return nil, fmt.Errorf("empty placeholder at offset %d in %q", i, src)
			}
			flush()
			t.tokens = append(t.tokens, token{text: name, placeholder: true})
			i += end + 1
		case '}':
			if i+1 < len(src) && src[i+1] == '}' {
				i++
			}
			lit.WriteByte('}')
		default:
			lit.WriteByte(c)
		}
	}
	flush()

	return t, nil
}

// MustParse is like Parse but panics on error. For tests and defaults.
func MustParse(src string) *Template {
	t, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return t
}

// Execute substitutes values into the template. Placeholders with no entry
// contribute nothing.
func (t *Template) Execute(values map[string]string) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, tok := range t.tokens {
		if tok.placeholder {
			b.WriteString(values[tok.text])
			continue
		}
		b.WriteString(tok.text)
	}
	return b.String()
}

// Placeholders returns the placeholder names in order of appearance.
func (t *Template) Placeholders() []string {
	if t == nil {
		return nil
	}
	var names []string
	for _, tok := range t.tokens {
		if tok.placeholder {
			names = append(names, tok.text)
		}
	}
	return names
}

// IsEmpty reports whether the template renders nothing for any input.
func (t *Template) IsEmpty() bool {
	return t == nil || len(t.tokens) == 0
}

func (t *Template) String() string {
	if t == nil {
		return ""
	}
	return t.src
}
