package ir

import "fmt"

// AlphaTable maps a name prefix to the largest numeric suffix ever used
// with it.
type AlphaTable map[string]int

// splitAlphaName splits a name into prefix and numeric suffix. The suffix
// is accepted only if it follows an underscore, is non-empty, and has no
// leading zero unless it is a single digit; otherwise the whole name is
// the prefix and the suffix is -1.
func splitAlphaName(name string) (string, int) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) || i == 0 || name[i-1] != '_' {
		return name, -1
	}
	digits := name[i:]
	if len(digits) > 1 && digits[0] == '0' {
		return name, -1
	}
	n := 0
	for j := 0; j < len(digits); j++ {
		n = n*10 + int(digits[j]-'0')
	}
	return name[:i-1], n
}

// NewAlphaName returns a name guaranteed fresh with respect to the table,
// bumping the suffix when the requested name was seen before, and records
// the choice. A never-seen name is returned unchanged.
func NewAlphaName(tbl AlphaTable, name string) string {
	prefix, suffix := splitAlphaName(name)
	if max, ok := tbl[prefix]; ok {
		n := max + 1
		if suffix > n {
			n = suffix
		}
		tbl[prefix] = n
		out := fmt.Sprintf("%s_%d", prefix, n)
		debugf(DebugAlpha, "alpha %q -> %q", name, out)
		return out
	}
	if suffix < 0 {
		tbl[prefix] = 0
	} else {
		tbl[prefix] = suffix
	}
	debugf(DebugAlpha, "alpha %q fresh", name)
	return name
}
