// Package scanner recognizes AGEA_ar_* markers in header text and extracts
// their attribute lists and the declaration header that follows them.
package scanner

import (
	"errors"
	"strings"
)

var (
	ErrUnclosedAttributes = errors.New("unclosed attribute list")
	ErrMissingAttributes  = errors.New("missing attribute list")
)

type Marker int

const (
	MarkerNone Marker = iota
	MarkerModelOverrides
	MarkerRenderOverrides
	MarkerClass
	MarkerStruct
	MarkerFunction
	MarkerProperty
	MarkerCtor
	MarkerExternalType
	MarkerPackage
)

var markerNames = []struct {
	text   string
	marker Marker
}{
	{"AGEA_ar_model_overrides", MarkerModelOverrides},
	{"AGEA_ar_render_overrides", MarkerRenderOverrides},
	{"AGEA_ar_class", MarkerClass},
	{"AGEA_ar_struct", MarkerStruct},
	{"AGEA_ar_function", MarkerFunction},
	{"AGEA_ar_property", MarkerProperty},
	{"AGEA_ar_ctor", MarkerCtor},
	{"AGEA_ar_external_type", MarkerExternalType},
	{"AGEA_ar_package", MarkerPackage},
}

func (m Marker) String() string {
	for _, n := range markerNames {
		if n.marker == m {
			return n.text
		}
	}
	return "none"
}

// Match reports the marker a trimmed source line opens. The marker name must
// be followed by "(", blank space or the end of the line, so longer macro
// names sharing the prefix are not mistaken for it.
func Match(line string) Marker {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "AGEA_ar_") {
		return MarkerNone
	}
	for _, n := range markerNames {
		if !strings.HasPrefix(line, n.text) {
			continue
		}
		rest := line[len(n.text):]
		if rest == "" || rest[0] == '(' || rest[0] == ' ' || rest[0] == '\t' {
			return n.marker
		}
	}
	return MarkerNone
}

// Lines is the line list of one header file.
type Lines struct {
	lines []string
}

// Split breaks text into lines, dropping carriage returns.
func Split(text string) *Lines {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return &Lines{}
	}
	return &Lines{lines: strings.Split(text, "\n")}
}

func (l *Lines) Len() int { return len(l.lines) }

func (l *Lines) At(i int) string { return l.lines[i] }

// Attributes extracts the parenthesized attribute list opened on line start.
// The list may span lines; it is closed by the matching ")" with quoted text
// ignored for balancing. It returns the index of the closing line and the
// split attribute tokens.
func (l *Lines) Attributes(start int) (int, []string, error) {
	open := strings.IndexByte(l.lines[start], '(')
	if open < 0 {
		return start, nil, ErrMissingAttributes
	}

	var (
		body    strings.Builder
		depth   = 0
		inQuote = false
	)
	for i := start; i < len(l.lines); i++ {
		line := l.lines[i]
		from := 0
		if i == start {
			from = open
		} else {
			body.WriteByte(' ')
		}
		for j := from; j < len(line); j++ {
			c := line[j]
			switch {
			case inQuote:
				if c == '\\' && j+1 < len(line) {
					body.WriteByte(c)
					j++
					c = line[j]
				} else if c == '"' {
					inQuote = false
				}
			case c == '"':
				inQuote = true
			case c == '(':
				depth++
				if depth == 1 {
					continue
				}
			case c == ')':
				depth--
				if depth == 0 {
					return i, SplitAttributes(body.String()), nil
				}
			}
			body.WriteByte(c)
		}
	}
	return len(l.lines) - 1, nil, ErrUnclosedAttributes
}

// SplitAttributes splits an attribute list on top-level commas. Commas inside
// quotes, angle brackets or parentheses belong to the token. Tokens are
// trimmed of surrounding whitespace and quotes; empty tokens are dropped.
func SplitAttributes(s string) []string {
	var (
		out     []string
		cur     strings.Builder
		angle   int
		paren   int
		inQuote bool
	)
	flush := func() {
		if tok := Unquote(cur.String()); tok != "" {
			out = append(out, tok)
		}
		cur.Reset()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case c == '"':
			inQuote = true
		case c == '<':
			angle++
		case c == '>' && angle > 0:
			angle--
		case c == '(':
			paren++
		case c == ')' && paren > 0:
			paren--
		case c == ',' && angle == 0 && paren == 0:
			flush()
			continue
		}
		cur.WriteByte(c)
	}
	flush()
	return out
}

// Unquote trims surrounding whitespace and double quotes.
func Unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\" \t")
}

// KeyValue splits a key=value attribute on its first "=".
func KeyValue(tok string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(Unquote(tok), "=")
	if !ok {
		return "", "", false
	}
	return Unquote(key), Unquote(value), true
}

// List splits a comma separated attribute value ("render,transform").
func List(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = Unquote(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
