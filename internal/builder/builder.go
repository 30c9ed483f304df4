// Package builder turns parsed Kotlin source into stub trees. It
// records declarations only: bodies, expressions and statements are
// never descended into, so malformed code degrades to absent fields
// instead of failing the build.
package builder

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"

	"stubdex/internal/fileclass"
	"stubdex/internal/name"
	"stubdex/internal/stub"
)

// Builder parses Kotlin files and constructs their stub trees.
type Builder struct {
	parser *sitter.Parser
}

// NewBuilder creates a builder with a Kotlin grammar parser.
func NewBuilder() *Builder {
	p := sitter.NewParser()
	p.SetLanguage(kotlin.GetLanguage())
	return &Builder{parser: p}
}

// BuildFile reads and parses one source file into a stub tree.
func (b *Builder) BuildFile(path string) (*stub.FileStub, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return b.Build(path, source)
}

// Build parses source into a stub tree. The path contributes the
// script flag (.kts) and the default file class name.
func (b *Builder) Build(path string, source []byte) (*stub.FileStub, error) {
	tree, err := b.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()

	src := &stub.SourceFile{
		Path:          path,
		PackageFqName: packageFqName(root, source),
		Script:        strings.HasSuffix(path, ".kts"),
	}
	collectFileAnnotationFacts(root, source, src)

	fileStub := stub.NewFileStub(src.PackageFqName, src.Script, nil, nil, src)

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "import_list":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if imp := child.NamedChild(j); imp.Type() == "import_header" {
					buildImport(fileStub, imp, source)
				}
			}
		case "import_header":
			// older grammar revisions put imports directly at file level
			buildImport(fileStub, child, source)
		case "file_annotation":
			if short := annotationShortName(child, source); short != "" {
				stub.NewAnnotationEntryStub(fileStub, short)
			}
		default:
			containerFq := src.PackageFqName
			buildDeclaration(fileStub, &containerFq, child, source)
		}
	}

	src.TopLevelCallables = fileclass.HasTopLevelCallables(fileStub)
	if src.TopLevelCallables {
		info := fileclass.InfoNoResolve(src)
		facade := info.FacadeFqName.ShortName()
		part := info.FileClassFqName.ShortName()
		fileStub.FacadeSimpleName = &facade
		fileStub.PartSimpleName = &part
	}

	return fileStub, nil
}

// buildDeclaration dispatches a declaration node into its stub,
// attached under parent. containerFq is the qualified name of the
// enclosing container, or nil below an anonymous declaration.
func buildDeclaration(parent stub.Stub, containerFq *name.FqName, node *sitter.Node, source []byte) {
	switch node.Type() {
	case "class_declaration":
		buildClassOrObject(parent, containerFq, node, source, classFlavor(node, source))
	case "object_declaration":
		buildClassOrObject(parent, containerFq, node, source, stub.FlavorObject)
	case "companion_object":
		buildClassOrObject(parent, containerFq, node, source, stub.FlavorObject)
	case "function_declaration":
		buildFunction(parent, containerFq, node, source)
	case "property_declaration":
		buildProperty(parent, containerFq, node, source)
	}
}

func buildClassOrObject(parent stub.Stub, containerFq *name.FqName, node *sitter.Node, source []byte, flavor stub.ClassFlavor) {
	n := childTextOfType(node, "type_identifier", source)
	if n == "" && node.Type() == "companion_object" {
		n = "Companion"
	}

	var fq *name.FqName
	if n != "" && containerFq != nil {
		v := containerFq.Child(n)
		fq = &v
	}

	cs := stub.NewClassOrObjectStub(parent, flavor, n, fq, superNames(node, source))
	buildAnnotations(cs, node, source)

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "class_body" && child.Type() != "enum_class_body" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			buildDeclaration(cs, fq, child.NamedChild(j), source)
		}
	}
}

func buildFunction(parent stub.Stub, containerFq *name.FqName, node *sitter.Node, source []byte) {
	n := childTextOfType(node, "simple_identifier", source)

	var fq *name.FqName
	if _, top := parent.(*stub.FileStub); top && n != "" && containerFq != nil {
		v := containerFq.Child(n)
		fq = &v
	}

	fs := stub.NewFunctionStub(parent, n, fq, functionReturnType(node, source), hasReceiver(node, "simple_identifier"))
	buildAnnotations(fs, node, source)
}

func buildProperty(parent stub.Stub, containerFq *name.FqName, node *sitter.Node, source []byte) {
	varDecl := childOfType(node, "variable_declaration")
	n := ""
	typeRef := ""
	if varDecl != nil {
		n = childTextOfType(varDecl, "simple_identifier", source)
		if t := firstTypeChild(varDecl, 0); t != nil {
			typeRef = t.Content(source)
		}
	}

	var fq *name.FqName
	if _, top := parent.(*stub.FileStub); top && n != "" && containerFq != nil {
		v := containerFq.Child(n)
		fq = &v
	}

	ps := stub.NewPropertyStub(parent, n, fq, typeRef, hasReceiver(node, "variable_declaration"))
	buildAnnotations(ps, node, source)
}

// buildAnnotations attaches annotation-entry stubs for every
// annotation in the declaration's modifier list.
func buildAnnotations(owner stub.Stub, node *sitter.Node, source []byte) {
	mods := childOfType(node, "modifiers")
	if mods == nil {
		return
	}
	for i := 0; i < int(mods.NamedChildCount()); i++ {
		c := mods.NamedChild(i)
		if c.Type() != "annotation" {
			continue
		}
		if short := annotationShortName(c, source); short != "" {
			stub.NewAnnotationEntryStub(owner, short)
		}
	}
}

func buildImport(parent *stub.FileStub, node *sitter.Node, source []byte) {
	var imported *name.FqName
	if id := childOfType(node, "identifier"); id != nil {
		v := name.New(id.Content(source))
		imported = &v
	}

	var alias *string
	if a := childOfType(node, "import_alias"); a != nil {
		for i := 0; i < int(a.NamedChildCount()); i++ {
			v := a.NamedChild(i).Content(source)
			alias = &v
		}
	}

	stub.NewImportDirectiveStub(parent, imported, alias)
}

func packageFqName(root *sitter.Node, source []byte) name.FqName {
	header := childOfType(root, "package_header")
	if header == nil {
		return name.Root()
	}
	id := childOfType(header, "identifier")
	if id == nil {
		return name.Root()
	}
	return name.New(id.Content(source))
}

// collectFileAnnotationFacts records the file-level JvmName and
// JvmMultifileClass annotations used by facade name resolution.
func collectFileAnnotationFacts(root *sitter.Node, source []byte, src *stub.SourceFile) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		fa := root.NamedChild(i)
		if fa.Type() != "file_annotation" {
			continue
		}
		switch annotationShortName(fa, source) {
		case "JvmName":
			src.JvmName = annotationStringArgument(fa, source)
		case "JvmMultifileClass":
			src.MultifileClass = true
		}
	}
}

// typeNodeKinds are the node types that can spell a type reference.
var typeNodeKinds = map[string]bool{
	"user_type":          true,
	"nullable_type":      true,
	"parenthesized_type": true,
	"function_type":      true,
	"not_nullable_type":  true,
}

// hasReceiver reports whether a type node precedes the declaration's
// name-bearing child, which is how an extension receiver is written.
func hasReceiver(node *sitter.Node, nameType string) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		if c.Type() == nameType {
			return false
		}
		if typeNodeKinds[c.Type()] {
			return true
		}
	}
	return false
}

// functionReturnType returns the declared return type text, which is
// the first type node after the parameter list.
func functionReturnType(node *sitter.Node, source []byte) string {
	seenParams := false
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		if c.Type() == "function_value_parameters" {
			seenParams = true
			continue
		}
		if seenParams && typeNodeKinds[c.Type()] {
			return c.Content(source)
		}
	}
	return ""
}

func firstTypeChild(node *sitter.Node, from int) *sitter.Node {
	for i := from; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		if typeNodeKinds[c.Type()] {
			return c
		}
	}
	return nil
}

// superNames collects the supertype short names as written, in order.
func superNames(node *sitter.Node, source []byte) []string {
	var out []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		if c.Type() != "delegation_specifier" {
			continue
		}
		if short := writtenTypeShortName(c, source); short != "" {
			out = append(out, short)
		}
	}
	return out
}

// writtenTypeShortName digs the referenced short name out of a
// delegation specifier or annotation body: the last type_identifier of
// the first user_type found.
func writtenTypeShortName(node *sitter.Node, source []byte) string {
	ut := findUserType(node)
	if ut == nil {
		return ""
	}
	short := ""
	for i := 0; i < int(ut.NamedChildCount()); i++ {
		c := ut.NamedChild(i)
		if c.Type() == "type_identifier" {
			short = c.Content(source)
		}
	}
	return short
}

func findUserType(node *sitter.Node) *sitter.Node {
	if node.Type() == "user_type" {
		return node
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if ut := findUserType(node.NamedChild(i)); ut != nil {
			return ut
		}
	}
	return nil
}

// annotationShortName extracts the written short name of an annotation
// or file_annotation node.
func annotationShortName(node *sitter.Node, source []byte) string {
	return writtenTypeShortName(node, source)
}

// annotationStringArgument returns the first constructor argument of
// an annotation with surrounding quotes removed, "" when there is
// none.
func annotationStringArgument(node *sitter.Node, source []byte) string {
	args := findDescendant(node, "value_arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return ""
	}
	raw := args.NamedChild(0).Content(source)
	return strings.Trim(raw, "\"")
}

func findDescendant(node *sitter.Node, nodeType string) *sitter.Node {
	if node.Type() == nodeType {
		return node
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if d := findDescendant(node.NamedChild(i), nodeType); d != nil {
			return d
		}
	}
	return nil
}

func childOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c := node.NamedChild(i)
		if c.Type() == nodeType {
			return c
		}
	}
	return nil
}

func childTextOfType(node *sitter.Node, nodeType string, source []byte) string {
	if c := childOfType(node, nodeType); c != nil {
		return c.Content(source)
	}
	return ""
}

// classFlavor inspects the keyword and modifiers of a
// class_declaration to pick the declaration form.
func classFlavor(node *sitter.Node, source []byte) stub.ClassFlavor {
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		switch c.Type() {
		case "interface":
			return stub.FlavorInterface
		case "modifiers":
			for j := 0; j < int(c.ChildCount()); j++ {
				switch c.Child(j).Content(source) {
				case "enum":
					return stub.FlavorEnumClass
				case "annotation":
					return stub.FlavorAnnotationClass
				}
			}
		}
	}
	return stub.FlavorClass
}
