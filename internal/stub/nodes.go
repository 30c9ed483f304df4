package stub

import "stubdex/internal/name"

// SourceFile carries the syntactic facts of a live source file that
// indexing needs beyond the stub fields themselves. A file stub built
// from a parse tree holds one; a file stub reconstructed from storage
// does not, which is how consumers tell the two apart.
type SourceFile struct {
	Path              string
	PackageFqName     name.FqName
	Script            bool
	JvmName           string // value of a file-level JvmName annotation, "" if absent
	MultifileClass    bool   // file-level JvmMultifileClass annotation present
	TopLevelCallables bool   // at least one top-level function or property
}

// FileStub is the root of a declaration tree for one source file.
type FileStub struct {
	base
	PackageFqName    name.FqName
	Script           bool
	FacadeSimpleName *string
	PartSimpleName   *string

	// Source is the live-file back-reference. Nil when the stub was
	// deserialized from storage rather than built from a parse tree.
	Source *SourceFile
}

// NewFileStub constructs a file stub root. Facade and part simple
// names must be both set or both nil.
func NewFileStub(pkg name.FqName, script bool, facadeSimpleName, partSimpleName *string, src *SourceFile) *FileStub {
	return &FileStub{
		PackageFqName:    pkg,
		Script:           script,
		FacadeSimpleName: facadeSimpleName,
		PartSimpleName:   partSimpleName,
		Source:           src,
	}
}

func (f *FileStub) StubKind() Kind { return KindFile }

// FacadeFqName returns <package>.<facadeSimpleName>, or nil when the
// file has no facade.
func (f *FileStub) FacadeFqName() *name.FqName {
	if f.FacadeSimpleName == nil {
		return nil
	}
	fq := f.PackageFqName.Child(*f.FacadeSimpleName)
	return &fq
}

// PartFqName returns <package>.<partSimpleName>, or nil when the file
// has no part class.
func (f *FileStub) PartFqName() *name.FqName {
	if f.PartSimpleName == nil {
		return nil
	}
	fq := f.PackageFqName.Child(*f.PartSimpleName)
	return &fq
}

// FindImportsByAlias returns the import directives of this file whose
// alias equals the given name.
func (f *FileStub) FindImportsByAlias(alias string) []*ImportDirectiveStub {
	var out []*ImportDirectiveStub
	for _, c := range f.Children() {
		imp, ok := c.(*ImportDirectiveStub)
		if ok && imp.AliasName != nil && *imp.AliasName == alias {
			out = append(out, imp)
		}
	}
	return out
}

// ClassFlavor distinguishes the class-like declaration forms that all
// share one stub shape.
type ClassFlavor int

const (
	FlavorClass ClassFlavor = iota
	FlavorInterface
	FlavorObject
	FlavorEnumClass
	FlavorAnnotationClass
)

// ClassOrObjectStub represents a class, interface, object, enum class
// or annotation class declaration.
type ClassOrObjectStub struct {
	base
	Flavor ClassFlavor
	// Name is "" for anonymous declarations.
	Name string
	// FqName is absent for anonymous and local declarations.
	FqName   *name.FqName
	TopLevel bool
	// SuperNames are the supertype short names exactly as written,
	// in declaration order, unresolved.
	SuperNames []string
}

func NewClassOrObjectStub(parent Stub, flavor ClassFlavor, n string, fq *name.FqName, superNames []string) *ClassOrObjectStub {
	s := &ClassOrObjectStub{
		Flavor:     flavor,
		Name:       n,
		FqName:     fq,
		TopLevel:   isTopLevel(parent),
		SuperNames: superNames,
	}
	s.parent = parent
	attach(parent, s)
	return s
}

func (s *ClassOrObjectStub) StubKind() Kind { return KindClassOrObject }

// FunctionStub represents a function declaration. FqName is present
// only for top-level functions; it is synthesized by the builder even
// when a syntactically broken function has no written name, in which
// case it may still be absent if no name could be made up at all.
type FunctionStub struct {
	base
	Name     string
	FqName   *name.FqName
	TopLevel bool
	// ReturnTypeRef is the declared return type exactly as written,
	// "" when no return type is declared.
	ReturnTypeRef string
	// HasReceiver marks extension functions.
	HasReceiver bool
}

func NewFunctionStub(parent Stub, n string, fq *name.FqName, returnTypeRef string, hasReceiver bool) *FunctionStub {
	s := &FunctionStub{
		Name:          n,
		FqName:        fq,
		TopLevel:      isTopLevel(parent),
		ReturnTypeRef: returnTypeRef,
		HasReceiver:   hasReceiver,
	}
	s.parent = parent
	attach(parent, s)
	return s
}

func (s *FunctionStub) StubKind() Kind { return KindFunction }

// PropertyStub represents a val/var declaration. Shape mirrors
// FunctionStub; HasReceiver marks extension properties.
type PropertyStub struct {
	base
	Name          string
	FqName        *name.FqName
	TopLevel      bool
	ReturnTypeRef string
	HasReceiver   bool
}

func NewPropertyStub(parent Stub, n string, fq *name.FqName, returnTypeRef string, hasReceiver bool) *PropertyStub {
	s := &PropertyStub{
		Name:          n,
		FqName:        fq,
		TopLevel:      isTopLevel(parent),
		ReturnTypeRef: returnTypeRef,
		HasReceiver:   hasReceiver,
	}
	s.parent = parent
	attach(parent, s)
	return s
}

func (s *PropertyStub) StubKind() Kind { return KindProperty }

// AnnotationEntryStub records one annotation use site by the short
// name as written, which may be an import alias rather than the
// annotation's true simple name.
type AnnotationEntryStub struct {
	base
	ShortName string
}

func NewAnnotationEntryStub(parent Stub, shortName string) *AnnotationEntryStub {
	s := &AnnotationEntryStub{ShortName: shortName}
	s.parent = parent
	attach(parent, s)
	return s
}

func (s *AnnotationEntryStub) StubKind() Kind { return KindAnnotationEntry }

// ImportDirectiveStub records one import. ImportedFqName is absent for
// malformed imports; AliasName is absent when no alias is declared.
type ImportDirectiveStub struct {
	base
	ImportedFqName *name.FqName
	AliasName      *string
}

func NewImportDirectiveStub(parent Stub, imported *name.FqName, alias *string) *ImportDirectiveStub {
	s := &ImportDirectiveStub{ImportedFqName: imported, AliasName: alias}
	s.parent = parent
	attach(parent, s)
	return s
}

func (s *ImportDirectiveStub) StubKind() Kind { return KindImportDirective }
