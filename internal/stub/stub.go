package stub

// Kind identifies the declaration kind a stub node represents.
type Kind int

const (
	KindFile Kind = iota
	KindClassOrObject
	KindFunction
	KindProperty
	KindAnnotationEntry
	KindImportDirective
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindClassOrObject:
		return "class_or_object"
	case KindFunction:
		return "function"
	case KindProperty:
		return "property"
	case KindAnnotationEntry:
		return "annotation_entry"
	case KindImportDirective:
		return "import_directive"
	}
	return "unknown"
}

// Stub is one node in a per-file declaration tree. A stub tree is
// assembled once, by passing the parent into each child's constructor,
// and is never mutated afterwards. The parent link is a non-owning
// back-pointer; the children slice is the owning edge.
type Stub interface {
	StubKind() Kind
	Parent() Stub
	Children() []Stub
}

// container is the internal attachment point used by constructors.
type container interface {
	appendChild(Stub)
}

type base struct {
	parent   Stub
	children []Stub
}

func (b *base) Parent() Stub     { return b.parent }
func (b *base) Children() []Stub { return b.children }

func (b *base) appendChild(c Stub) {
	b.children = append(b.children, c)
}

// attach links a freshly constructed child under its parent.
func attach(parent Stub, child Stub) {
	if parent == nil {
		return
	}
	parent.(container).appendChild(child)
}

// ContainingFile walks parent links upward until it finds the
// enclosing file stub. It returns nil when the node is not rooted in a
// file tree; callers treat that as "no file context", not an error.
func ContainingFile(s Stub) *FileStub {
	for p := s.Parent(); p != nil; p = p.Parent() {
		if f, ok := p.(*FileStub); ok {
			return f
		}
	}
	return nil
}

// isTopLevel reports whether the parent is the file stub itself.
func isTopLevel(parent Stub) bool {
	_, ok := parent.(*FileStub)
	return ok
}
