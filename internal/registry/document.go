// Package registry maintains generated files shared by every module of a
// build. Such a file is a sequence of named blocks delimited by
//
//	// block start NAME
//	...
//	// block end NAME
//
// and each module owns the blocks named after it.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	startMarker = "// block start "
	endMarker   = "// block end "
)

var (
	ErrUnterminatedBlock = errors.New("unterminated block")
	ErrMismatchedBlock   = errors.New("mismatched block end")
)

// Block is one named region. Start and End keep the marker lines as read so
// untouched blocks round-trip byte for byte.
type Block struct {
	Name   string
	Indent string
	Start  string
	End    string
	Body   []string
}

func newBlock(name, indent string) *Block {
	return &Block{
		Name:   name,
		Indent: indent,
		Start:  indent + startMarker + name,
		End:    indent + endMarker + name,
	}
}

// Text returns the body with the block indentation removed.
func (b *Block) Text() string {
	lines := make([]string, len(b.Body))
	for i, l := range b.Body {
		lines[i] = strings.TrimPrefix(l, b.Indent)
	}
	return strings.Join(lines, "\n")
}

// SetText replaces the body, indenting every non-empty line to the block.
func (b *Block) SetText(text string) {
	b.Body = b.Body[:0]
	if text == "" {
		return
	}
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if strings.TrimSpace(l) == "" {
			b.Body = append(b.Body, "")
			continue
		}
		b.Body = append(b.Body, b.Indent+l)
	}
}

// node is either a plain line or a block.
type node struct {
	line  string
	block *Block
}

// Document is a parsed block file.
type Document struct {
	nodes []node
	eol   bool // text ended with a newline
}

func marker(line, prefix string) (name, indent string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, prefix) {
		return "", "", false
	}
	indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	return strings.TrimSpace(trimmed[len(prefix):]), indent, true
}

// Parse reads a block file. Blocks do not nest.
func Parse(text string) (*Document, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	d := &Document{eol: strings.HasSuffix(text, "\n")}
	text = strings.TrimSuffix(text, "\n")
	if text == "" && !d.eol {
		return d, nil
	}

	var open *Block
	for i, line := range strings.Split(text, "\n") {
		if open != nil {
			if name, _, ok := marker(line, endMarker); ok {
				if name != open.Name {
					return nil, fmt.Errorf("line %d: %w: %q closes %q", i+1, ErrMismatchedBlock, name, open.Name)
				}
				open.End = line
				d.nodes = append(d.nodes, node{block: open})
				open = nil
				continue
			}
			if _, _, ok := marker(line, startMarker); ok {
				return nil, fmt.Errorf("line %d: %w: %q", i+1, ErrUnterminatedBlock, open.Name)
			}
			open.Body = append(open.Body, line)
			continue
		}

		if name, indent, ok := marker(line, startMarker); ok {
			open = newBlock(name, indent)
			open.Start = line
			continue
		}
		if name, _, ok := marker(line, endMarker); ok {
			return nil, fmt.Errorf("line %d: %w: %q was never opened", i+1, ErrMismatchedBlock, name)
		}
		d.nodes = append(d.nodes, node{line: line})
	}
	if open != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnterminatedBlock, open.Name)
	}
	return d, nil
}

// Blocks returns the blocks in document order.
func (d *Document) Blocks() []*Block {
	var out []*Block
	for _, n := range d.nodes {
		if n.block != nil {
			out = append(out, n.block)
		}
	}
	return out
}

// Block returns the block named name or nil.
func (d *Document) Block(name string) *Block {
	for _, n := range d.nodes {
		if n.block != nil && n.block.Name == name {
			return n.block
		}
	}
	return nil
}

// Bodies returns the text of every block keyed by name.
func (d *Document) Bodies() map[string]string {
	out := make(map[string]string)
	for _, b := range d.Blocks() {
		out[b.Name] = b.Text()
	}
	return out
}

// Apply merges bodies into the document:
//   - blocks named in bodies get the new text,
//   - other blocks are emptied, except the block named last,
//   - names without a block become new blocks, sorted by name and inserted
//     right before the block named last (appended when there is none).
func (d *Document) Apply(bodies map[string]string, last string) {
	seen := make(map[string]bool, len(bodies))
	for _, b := range d.Blocks() {
		seen[b.Name] = true
		text, ok := bodies[b.Name]
		switch {
		case ok:
			b.SetText(text)
		case b.Name != last:
			b.SetText("")
		}
	}

	var missing []string
	for name := range bodies {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return
	}
	sort.Strings(missing)

	at := len(d.nodes)
	indent := "    "
	for i, n := range d.nodes {
		if n.block != nil && n.block.Name == last {
			at, indent = i, n.block.Indent
			break
		}
	}

	added := make([]node, 0, len(missing))
	for _, name := range missing {
		b := newBlock(name, indent)
		b.SetText(bodies[name])
		added = append(added, node{block: b})
	}
	nodes := make([]node, 0, len(d.nodes)+len(added))
	nodes = append(nodes, d.nodes[:at]...)
	nodes = append(nodes, added...)
	nodes = append(nodes, d.nodes[at:]...)
	d.nodes = nodes
}

func (d *Document) String() string {
	var b strings.Builder
	for i, n := range d.nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		if n.block == nil {
			b.WriteString(n.line)
			continue
		}
		b.WriteString(n.block.Start)
		for _, l := range n.block.Body {
			b.WriteByte('\n')
			b.WriteString(l)
		}
		b.WriteByte('\n')
		b.WriteString(n.block.End)
	}
	if d.eol && len(d.nodes) > 0 {
		b.WriteByte('\n')
	}
	return b.String()
}
