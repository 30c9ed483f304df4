package stubindex

import "strings"

// IsProbablyNothing reports whether a written type reference probably
// resolves to the bottom type. It is a syntactic pre-filter: a false
// positive only costs a redundant index entry, while call-site
// analyses use it to skip resolution for the common case. A type
// "probably" is Nothing when its terminal user-type name is Nothing,
// regardless of qualification or nullability.
func IsProbablyNothing(typeRef string) bool {
	s := strings.TrimSpace(typeRef)
	if s == "" {
		return false
	}
	s = strings.TrimSuffix(s, "?")
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return s == "Nothing"
}
