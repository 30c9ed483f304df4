// Package fileclass derives the synthetic container class names for
// files holding top-level callables. The derivation is purely
// syntactic ("no resolve"): it looks only at the file name, its
// package and its file-level annotations, never at resolved types.
package fileclass

import (
	"path/filepath"
	"strings"
	"unicode"

	"stubdex/internal/name"
	"stubdex/internal/stub"
)

// Info is the resolved container identity of one physical file.
type Info struct {
	// FacadeFqName is the class under which the file's top-level
	// callables are exposed, possibly shared with other files.
	FacadeFqName name.FqName
	// FileClassFqName is the per-physical-file part class. Equal to
	// FacadeFqName unless the file opts into a multifile facade.
	FileClassFqName name.FqName
	// Multifile is true when the file declares a multifile facade.
	Multifile bool
}

// InfoNoResolve computes the facade and part class names for a live
// source file. A file-level JvmName annotation overrides the facade
// short name; a file-level JvmMultifileClass annotation makes the
// physical file contribute a distinct part class to the shared facade.
func InfoNoResolve(src *stub.SourceFile) Info {
	defaultName := DefaultFileClassName(src.Path)

	facadeShort := defaultName
	if src.JvmName != "" && isValidJavaIdentifier(src.JvmName) {
		facadeShort = src.JvmName
	}

	fileClassShort := facadeShort
	if src.MultifileClass {
		fileClassShort = facadeShort + "__" + defaultName
	}

	return Info{
		FacadeFqName:    src.PackageFqName.Child(facadeShort),
		FileClassFqName: src.PackageFqName.Child(fileClassShort),
		Multifile:       src.MultifileClass,
	}
}

// HasTopLevelCallables reports whether the file declares at least one
// function or property directly at file level.
func HasTopLevelCallables(f *stub.FileStub) bool {
	for _, c := range f.Children() {
		switch c.StubKind() {
		case stub.KindFunction, stub.KindProperty:
			return true
		}
	}
	return false
}

// DefaultFileClassName maps a file path to its default container class
// short name: the capitalized, identifier-sanitized base name with a
// "Kt" suffix. "util.kt" and "Util.kt" both map to "UtilKt".
func DefaultFileClassName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return capitalizeIdentifier(sanitizeIdentifier(base)) + "Kt"
}

// sanitizeIdentifier replaces every character that cannot appear in a
// Java identifier with an underscore, prefixing one more when the
// first character cannot start an identifier.
func sanitizeIdentifier(s string) string {
	if s == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func capitalizeIdentifier(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func isValidJavaIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if unicode.IsDigit(r) && i > 0 {
			continue
		}
		return false
	}
	return true
}
