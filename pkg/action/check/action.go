package check

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmmoran/argen/internal/output"
	"github.com/cmmoran/argen/pkg/action/generate"
	"github.com/cmmoran/argen/pkg/generator"
)

// ErrOutOfDate is returned when generated files differ from a fresh run.
var ErrOutOfDate = errors.New("generated files are out of date")

// Report lists the artifacts a generate run would change.
type Report struct {
	Changes []output.Change
}

// Clean reports whether the generated tree is up to date.
func (r *Report) Clean() bool {
	return len(r.Changes) == 0
}

// Diff renders every change as a per-file diff (-old +new).
func (r *Report) Diff() string {
	var b strings.Builder
	for _, c := range r.Changes {
		fmt.Fprintf(&b, "%s %s\n", c.Op, c.Path)
		if d := output.Diff(c); d != "" {
			b.WriteString(d)
			if !strings.HasSuffix(d, "\n") {
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

// Run builds the module in memory and compares it with the output tree.
// The returned error wraps ErrOutOfDate when anything would change.
func Run(opts *generator.Options, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	set, _, err := generate.Build(opts, logger)
	if err != nil {
		return nil, err
	}
	changes, err := set.Changes()
	if err != nil {
		return nil, err
	}
	r := &Report{Changes: changes}
	for _, c := range changes {
		logger.Warn("Out of date", "op", c.Op.String(), "file", c.Path)
	}
	if !r.Clean() {
		return r, fmt.Errorf("%w: %d file(s)", ErrOutOfDate, len(changes))
	}
	return r, nil
}
