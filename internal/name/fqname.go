package name

import "strings"

// FqName is a dot-separated fully qualified name, such as
// "com.example.Util". The zero value is the root (default) package.
type FqName struct {
	value string
}

// Root returns the root package name.
func Root() FqName {
	return FqName{}
}

// New creates an FqName from its dotted string form.
// The empty string denotes the root package.
func New(s string) FqName {
	return FqName{value: s}
}

// IsRoot reports whether the name is the root package.
func (f FqName) IsRoot() bool {
	return f.value == ""
}

// String returns the dotted string form. The root package is "".
func (f FqName) String() string {
	return f.value
}

// ShortName returns the last segment of the name, or "" for the root.
func (f FqName) ShortName() string {
	if i := strings.LastIndexByte(f.value, '.'); i >= 0 {
		return f.value[i+1:]
	}
	return f.value
}

// Parent returns the name with its last segment removed.
// The parent of a single-segment name is the root package.
func (f FqName) Parent() FqName {
	if i := strings.LastIndexByte(f.value, '.'); i >= 0 {
		return FqName{value: f.value[:i]}
	}
	return FqName{}
}

// Child appends one segment to the name.
func (f FqName) Child(segment string) FqName {
	if f.IsRoot() {
		return FqName{value: segment}
	}
	return FqName{value: f.value + "." + segment}
}

// Segments splits the name into its individual segments.
// The root package has no segments.
func (f FqName) Segments() []string {
	if f.IsRoot() {
		return nil
	}
	return strings.Split(f.value, ".")
}
