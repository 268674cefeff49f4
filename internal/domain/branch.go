package domain

import "strings"

// BranchPrefix is the durable prefix setting. An empty Value with Set true
// means "explicitly no prefix", which differs from never configured.
type BranchPrefix struct {
	Value string
	Set   bool
}

// Apply prepends the prefix to name.
func (p BranchPrefix) Apply(name string) string {
	return ApplyBranchPrefix(p.Value, name)
}

// ApplyBranchPrefix joins prefix and name with the separator; an empty
// prefix leaves name unchanged.
func ApplyBranchPrefix(prefix, name string) string {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), BranchPrefixSeparator)
	if prefix == "" {
		return name
	}
	if strings.HasPrefix(name, prefix+BranchPrefixSeparator) {
		return name
	}
	return prefix + BranchPrefixSeparator + name
}
