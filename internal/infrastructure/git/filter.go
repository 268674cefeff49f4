package git

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DiffFilter removes per-file sections of a unified diff whose path matches
// one of the exclude globs (for example "**/*.lock" or "vendor/**").
type DiffFilter struct {
	patterns []string
}

// NewDiffFilter validates patterns and returns a filter. Invalid globs are
// reported so a typo in the config does not silently disable filtering.
func NewDiffFilter(patterns []string) (*DiffFilter, error) {
	var valid []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: p}
		}
		valid = append(valid, p)
	}
	return &DiffFilter{patterns: valid}, nil
}

// PatternError reports an invalid exclude glob.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return "invalid exclude pattern: " + e.Pattern
}

// Excluded reports whether path matches any pattern.
func (f *DiffFilter) Excluded(path string) bool {
	if f == nil {
		return false
	}
	for _, p := range f.patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

// Apply returns diff without the sections of excluded files.
func (f *DiffFilter) Apply(diff string) string {
	if f == nil || len(f.patterns) == 0 || diff == "" {
		return diff
	}
	var out strings.Builder
	keep := true
	for _, line := range strings.SplitAfter(diff, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			keep = !f.Excluded(diffPath(line))
		}
		if keep {
			out.WriteString(line)
		}
	}
	return out.String()
}

// diffPath extracts the post-image path from a "diff --git a/x b/x" header.
func diffPath(header string) string {
	header = strings.TrimRight(header, "\r\n")
	if i := strings.LastIndex(header, " b/"); i >= 0 {
		return header[i+3:]
	}
	fields := strings.Fields(header)
	return strings.TrimPrefix(fields[len(fields)-1], "b/")
}
