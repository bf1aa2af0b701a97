package scanner

import "strings"

// stopWords never name a declaration in a header line.
var stopWords = map[string]bool{
	"class":                   true,
	"struct":                  true,
	"public":                  true,
	"private":                 true,
	"protected":               true,
	"virtual":                 true,
	"final":                   true,
	"AGEA_ar_external_define": true,
}

// Tokenize splits a class, struct or external-type header into name tokens.
// Single colons, commas, braces, semicolons and parentheses separate tokens;
// "::" stays part of qualified names.
func Tokenize(header string) []string {
	var b strings.Builder
	for i := 0; i < len(header); i++ {
		c := header[i]
		switch c {
		case ':':
			if i+1 < len(header) && header[i+1] == ':' {
				b.WriteString("::")
				i++
				continue
			}
			b.WriteByte(' ')
		case ',', '{', '}', ';', '(', ')', '\t', '\n':
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}

	var out []string
	for _, tok := range strings.Fields(b.String()) {
		if stopWords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Field is a parsed member declaration line.
type Field struct {
	Type       string
	Name       string
	HasDefault bool
}

// ParseField reads "TYPE NAME [= init | {init}];". Pointer and reference
// sigils written against the name move to the type.
func ParseField(line string) (Field, bool) {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, ";")

	var f Field
	decl := line
	if i := strings.IndexAny(line, "={"); i >= 0 {
		decl = line[:i]
		f.HasDefault = strings.TrimSpace(line[i+1:]) != "" || line[i] == '{'
	}

	toks := strings.Fields(decl)
	if len(toks) < 2 {
		return f, false
	}
	name := toks[len(toks)-1]
	typ := strings.Join(toks[:len(toks)-1], " ")
	for len(name) > 0 && (name[0] == '*' || name[0] == '&') {
		typ += name[:1]
		name = name[1:]
	}
	if name == "" {
		return f, false
	}
	f.Type, f.Name = typ, name
	return f, true
}

// FunctionName returns the identifier immediately before the first "(".
func FunctionName(line string) (string, bool) {
	i := strings.IndexByte(line, '(')
	if i < 0 {
		return "", false
	}
	toks := strings.Fields(line[:i])
	if len(toks) == 0 {
		return "", false
	}
	name := strings.TrimLeft(toks[len(toks)-1], "*&")
	return name, name != ""
}

// Signature collects lines from start until the parenthesis opened on them is
// balanced and returns the text up to and including the closing ")".
func (l *Lines) Signature(start int) (int, string, bool) {
	var (
		b     strings.Builder
		depth int
		seen  bool
	)
	for i := start; i < len(l.lines); i++ {
		line := strings.TrimSpace(l.lines[i])
		if i > start {
			b.WriteByte(' ')
		}
		for j := 0; j < len(line); j++ {
			c := line[j]
			b.WriteByte(c)
			switch c {
			case '(':
				depth++
				seen = true
			case ')':
				depth--
				if seen && depth == 0 {
					return i, b.String(), true
				}
			}
		}
	}
	return len(l.lines) - 1, "", false
}
