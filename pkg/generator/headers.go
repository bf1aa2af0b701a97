package generator

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Headers reads the config list: one header path per line, relative to
// SourceDir. Blank lines and lines starting with "#" are skipped, as are
// paths matching an exclude pattern. Order is preserved.
func (o *Options) Headers() ([]string, error) {
	f, err := os.Open(o.ConfigList)
	if err != nil {
		return nil, fmt.Errorf("open config list: %w", err)
	}
	defer f.Close()

	var (
		out  []string
		seen = map[string]bool{}
		sc   = bufio.NewScanner(f)
	)
	for sc.Scan() {
		line := strings.Trim(sc.Text(), " \t\r\n\"")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rel := filepath.ToSlash(filepath.Clean(line))
		if seen[rel] || o.Excluded(rel) {
			continue
		}
		seen[rel] = true
		out = append(out, rel)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read config list: %w", err)
	}
	return out, nil
}
