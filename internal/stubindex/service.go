// Package stubindex walks a file's stub tree and emits reverse-index
// occurrences for every declaration it contains. Emission is a
// stateless, single-pass function of the stub fields; the sink owns
// deduplication and persistence.
package stubindex

import (
	"stubdex/internal/fileclass"
	"stubdex/internal/name"
	"stubdex/internal/stub"
)

// Sink receives one occurrence of value under the given index for the
// file currently being indexed. Duplicate emissions for the same
// (key, value, file) are expected and must be idempotent.
type Sink interface {
	Occurrence(key IndexKey, value string)
}

// ExtensionContributor indexes receiver-typed top-level callables.
type ExtensionContributor interface {
	IndexTopLevelExtension(shortName string, fq name.FqName, sink Sink)
}

type defaultExtensions struct{}

func (defaultExtensions) IndexTopLevelExtension(shortName string, _ name.FqName, sink Sink) {
	sink.Occurrence(KeyTopLevelExtension, shortName)
}

// Service emits index occurrences for stub trees. The zero value is
// ready to use with the default extension contributor.
type Service struct {
	Extensions ExtensionContributor
}

func (s *Service) extensions() ExtensionContributor {
	if s.Extensions != nil {
		return s.Extensions
	}
	return defaultExtensions{}
}

// IndexTree indexes a stub node and, recursively, every stub below it.
func (s *Service) IndexTree(st stub.Stub, sink Sink) {
	s.IndexStub(st, sink)
	for _, c := range st.Children() {
		s.IndexTree(c, sink)
	}
}

// IndexStub dispatches one stub node to its kind-specific indexer.
func (s *Service) IndexStub(st stub.Stub, sink Sink) {
	switch n := st.(type) {
	case *stub.FileStub:
		s.IndexFile(n, sink)
	case *stub.ClassOrObjectStub:
		s.IndexClassOrObject(n, sink)
	case *stub.FunctionStub:
		s.IndexFunction(n, sink)
	case *stub.PropertyStub:
		s.IndexProperty(n, sink)
	case *stub.AnnotationEntryStub:
		s.IndexAnnotation(n, sink)
	case *stub.ImportDirectiveStub:
		// imports are only queried through their file stub
	}
}

// IndexFile registers the file's package and, when present, its facade
// and part class identities. For live files the facade and part names
// are additionally recomputed from the source facts and registered
// again: both the merged-facade identity and the physical file's own
// part identity must stay discoverable, and the sink deduplicates.
func (s *Service) IndexFile(fs *stub.FileStub, sink Sink) {
	sink.Occurrence(KeyExactPackages, fs.PackageFqName.String())

	if facade := fs.FacadeFqName(); facade != nil {
		sink.Occurrence(KeyFileFacadeFqName, facade.String())
		sink.Occurrence(KeyFileFacadeShortName, facade.ShortName())
		sink.Occurrence(KeyFileFacadeClassByPackage, fs.PackageFqName.String())
	}

	if part := fs.PartFqName(); part != nil {
		sink.Occurrence(KeyFilePartClass, part.String())
	}

	if fs.Source != nil && fs.Source.TopLevelCallables {
		info := fileclass.InfoNoResolve(fs.Source)
		sink.Occurrence(KeyFileFacadeFqName, info.FacadeFqName.String())
		sink.Occurrence(KeyFilePartClass, info.FileClassFqName.String())
	}
}

// IndexClassOrObject registers a class-like declaration under its
// short name, full name, package (when top-level) and every written
// supertype name.
func (s *Service) IndexClassOrObject(cs *stub.ClassOrObjectStub, sink Sink) {
	if cs.Name != "" {
		sink.Occurrence(KeyClassShortName, cs.Name)
	}

	if cs.FqName != nil {
		sink.Occurrence(KeyFullClassName, cs.FqName.String())

		if cs.TopLevel {
			sink.Occurrence(KeyTopLevelClassByPackage, cs.FqName.Parent().String())
		}
	}

	for _, super := range cs.SuperNames {
		sink.Occurrence(KeySuperClassName, super)
	}
}

// IndexFunction registers a function under its short name, flags
// probably-Nothing return types, and for top-level functions also
// registers the fully qualified identity and any extension receiver.
func (s *Service) IndexFunction(f *stub.FunctionStub, sink Sink) {
	if f.Name != "" {
		sink.Occurrence(KeyFunctionShortName, f.Name)

		if IsProbablyNothing(f.ReturnTypeRef) {
			sink.Occurrence(KeyProbablyNothingFunction, f.Name)
		}
	}

	if f.TopLevel {
		// fqName can be absent for a syntactically broken function
		// with no name at all
		if f.FqName != nil {
			sink.Occurrence(KeyTopLevelFunctionFqName, f.FqName.String())
			sink.Occurrence(KeyTopLevelFunctionByPackage, f.FqName.Parent().String())
			if f.HasReceiver {
				s.extensions().IndexTopLevelExtension(f.Name, *f.FqName, sink)
			}
		}
	}
}

// IndexProperty mirrors IndexFunction for val/var declarations.
func (s *Service) IndexProperty(p *stub.PropertyStub, sink Sink) {
	if p.Name != "" {
		sink.Occurrence(KeyPropertyShortName, p.Name)

		if IsProbablyNothing(p.ReturnTypeRef) {
			sink.Occurrence(KeyProbablyNothingProperty, p.Name)
		}
	}

	if p.TopLevel {
		if p.FqName != nil {
			sink.Occurrence(KeyTopLevelPropertyFqName, p.FqName.String())
			sink.Occurrence(KeyTopLevelPropertyByPackage, p.FqName.Parent().String())
			if p.HasReceiver {
				s.extensions().IndexTopLevelExtension(p.Name, *p.FqName, sink)
			}
		}
	}
}

// IndexAnnotation registers the annotation's written short name and,
// when that name is an import alias in the enclosing file, the aliased
// annotation's true simple name as well, so both spellings resolve.
func (s *Service) IndexAnnotation(a *stub.AnnotationEntryStub, sink Sink) {
	sink.Occurrence(KeyAnnotationShortName, a.ShortName)

	fileStub := stub.ContainingFile(a)
	if fileStub == nil {
		return
	}
	for _, imp := range fileStub.FindImportsByAlias(a.ShortName) {
		if imp.ImportedFqName != nil {
			sink.Occurrence(KeyAnnotationShortName, imp.ImportedFqName.ShortName())
		}
	}
}
