package builder

import (
	"fmt"
	"path/filepath"
	"testing"

	"stubdex/internal/stub"
	"stubdex/internal/stubindex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect flattens a stub tree by kind for easier lookup.
func collect(root stub.Stub) (classes map[string]*stub.ClassOrObjectStub, functions map[string]*stub.FunctionStub, properties map[string]*stub.PropertyStub, annotations []string, imports []*stub.ImportDirectiveStub) {
	classes = make(map[string]*stub.ClassOrObjectStub)
	functions = make(map[string]*stub.FunctionStub)
	properties = make(map[string]*stub.PropertyStub)

	var walk func(s stub.Stub)
	walk = func(s stub.Stub) {
		switch n := s.(type) {
		case *stub.ClassOrObjectStub:
			classes[n.Name] = n
		case *stub.FunctionStub:
			functions[n.Name] = n
		case *stub.PropertyStub:
			properties[n.Name] = n
		case *stub.AnnotationEntryStub:
			annotations = append(annotations, n.ShortName)
		case *stub.ImportDirectiveStub:
			imports = append(imports, n)
		}
		for _, c := range s.Children() {
			walk(c)
		}
	}
	walk(root)
	return
}

func TestBuildFile_Sample(t *testing.T) {
	b := NewBuilder()

	fileStub, err := b.BuildFile(filepath.Join("testdata", "sample.kt"))
	require.NoError(t, err)

	classes, functions, properties, annotations, imports := collect(fileStub)

	t.Run("FileStub", func(t *testing.T) {
		assert.Equal(t, "com.example", fileStub.PackageFqName.String())
		assert.False(t, fileStub.Script)
		require.NotNil(t, fileStub.Source)
		assert.True(t, fileStub.Source.TopLevelCallables)
		require.NotNil(t, fileStub.FacadeSimpleName)
		assert.Equal(t, "SampleKt", *fileStub.FacadeSimpleName)
		require.NotNil(t, fileStub.PartSimpleName)
		assert.Equal(t, "SampleKt", *fileStub.PartSimpleName)
	})

	t.Run("Imports", func(t *testing.T) {
		require.Len(t, imports, 2)
		aliased := fileStub.FindImportsByAlias("Spec")
		require.Len(t, aliased, 1)
		require.NotNil(t, aliased[0].ImportedFqName)
		assert.Equal(t, "com.lib.Special", aliased[0].ImportedFqName.String())
	})

	t.Run("Class", func(t *testing.T) {
		foo, ok := classes["Foo"]
		require.True(t, ok)
		assert.True(t, foo.TopLevel)
		require.NotNil(t, foo.FqName)
		assert.Equal(t, "com.example.Foo", foo.FqName.String())
		assert.Equal(t, []string{"Base", "Runnable"}, foo.SuperNames)
		assert.Equal(t, stub.FlavorClass, foo.Flavor)
	})

	t.Run("Object", func(t *testing.T) {
		obj, ok := classes["Singleton"]
		require.True(t, ok)
		assert.Equal(t, stub.FlavorObject, obj.Flavor)
		require.NotNil(t, obj.FqName)
		assert.Equal(t, "com.example.Singleton", obj.FqName.String())
	})

	t.Run("MemberDeclarations", func(t *testing.T) {
		member, ok := functions["member"]
		require.True(t, ok)
		assert.False(t, member.TopLevel)
		assert.Nil(t, member.FqName)

		count, ok := properties["count"]
		require.True(t, ok)
		assert.False(t, count.TopLevel)
	})

	t.Run("TopLevelFunctions", func(t *testing.T) {
		helper, ok := functions["helper"]
		require.True(t, ok)
		assert.True(t, helper.TopLevel)
		require.NotNil(t, helper.FqName)
		assert.Equal(t, "com.example.helper", helper.FqName.String())
		assert.Equal(t, "String", helper.ReturnTypeRef)
		assert.False(t, helper.HasReceiver)

		fail, ok := functions["fail"]
		require.True(t, ok)
		assert.Equal(t, "Nothing", fail.ReturnTypeRef)

		words, ok := functions["words"]
		require.True(t, ok)
		assert.True(t, words.HasReceiver)
	})

	t.Run("TopLevelProperty", func(t *testing.T) {
		answer, ok := properties["answer"]
		require.True(t, ok)
		assert.True(t, answer.TopLevel)
		require.NotNil(t, answer.FqName)
		assert.Equal(t, "com.example.answer", answer.FqName.String())
		assert.Equal(t, "Int", answer.ReturnTypeRef)
	})

	t.Run("Annotation", func(t *testing.T) {
		assert.Contains(t, annotations, "Spec")
	})
}

func TestBuild_NoTopLevelCallables(t *testing.T) {
	b := NewBuilder()

	source := []byte(`
package com.example

class OnlyAClass {
    fun member(): Int = 1
}
`)
	fileStub, err := b.Build("OnlyAClass.kt", source)
	require.NoError(t, err)

	assert.Nil(t, fileStub.FacadeSimpleName)
	assert.Nil(t, fileStub.PartSimpleName)
	require.NotNil(t, fileStub.Source)
	assert.False(t, fileStub.Source.TopLevelCallables)
}

func TestBuild_FileAnnotations(t *testing.T) {
	b := NewBuilder()

	source := []byte(`@file:JvmName("Helpers")
@file:JvmMultifileClass

package com.example

fun one(): Int = 1
`)
	fileStub, err := b.Build("util.kt", source)
	require.NoError(t, err)

	require.NotNil(t, fileStub.Source)
	assert.Equal(t, "Helpers", fileStub.Source.JvmName)
	assert.True(t, fileStub.Source.MultifileClass)

	require.NotNil(t, fileStub.FacadeSimpleName)
	assert.Equal(t, "Helpers", *fileStub.FacadeSimpleName)
	require.NotNil(t, fileStub.PartSimpleName)
	assert.Equal(t, "Helpers__UtilKt", *fileStub.PartSimpleName)
}

func TestBuild_NoPackageHeader(t *testing.T) {
	b := NewBuilder()

	fileStub, err := b.Build("main.kt", []byte("fun main() {}\n"))
	require.NoError(t, err)

	assert.True(t, fileStub.PackageFqName.IsRoot())
	require.NotNil(t, fileStub.FacadeSimpleName)
	assert.Equal(t, "MainKt", *fileStub.FacadeSimpleName)

	_, functions, _, _, _ := collect(fileStub)
	main, ok := functions["main"]
	require.True(t, ok)
	require.NotNil(t, main.FqName)
	assert.Equal(t, "main", main.FqName.String())
}

func TestBuild_Script(t *testing.T) {
	b := NewBuilder()

	fileStub, err := b.Build("deploy.kts", []byte("fun run(): Unit {}\n"))
	require.NoError(t, err)
	assert.True(t, fileStub.Script)
}

func TestBuild_NestedClasses(t *testing.T) {
	b := NewBuilder()

	source := []byte(`
package com.example

class Outer {
    class Inner {
        fun deep(): Int = 0
    }
}
`)
	fileStub, err := b.Build("Outer.kt", source)
	require.NoError(t, err)

	classes, functions, _, _, _ := collect(fileStub)

	outer := classes["Outer"]
	require.NotNil(t, outer)
	assert.True(t, outer.TopLevel)

	inner := classes["Inner"]
	require.NotNil(t, inner)
	assert.False(t, inner.TopLevel)
	require.NotNil(t, inner.FqName)
	assert.Equal(t, "com.example.Outer.Inner", inner.FqName.String())

	deep := functions["deep"]
	require.NotNil(t, deep)
	assert.False(t, deep.TopLevel)
	assert.Nil(t, deep.FqName)
}

func TestBuild_InterfaceFlavor(t *testing.T) {
	b := NewBuilder()

	source := []byte(`
package com.example

interface Marker
`)
	fileStub, err := b.Build("Marker.kt", source)
	require.NoError(t, err)

	classes, _, _, _, _ := collect(fileStub)
	m := classes["Marker"]
	require.NotNil(t, m)
	assert.Equal(t, stub.FlavorInterface, m.Flavor)
}

func TestBuild_ExtensionProperty(t *testing.T) {
	b := NewBuilder()

	source := []byte(`
package com.example

val String.lastWord: String
    get() = split(" ").last()
`)
	fileStub, err := b.Build("StringExt.kt", source)
	require.NoError(t, err)

	_, _, properties, _, _ := collect(fileStub)
	p := properties["lastWord"]
	require.NotNil(t, p)
	assert.True(t, p.TopLevel)
	assert.True(t, p.HasReceiver)
	assert.Equal(t, "String", p.ReturnTypeRef)
	require.NotNil(t, p.FqName)
	assert.Equal(t, "com.example.lastWord", p.FqName.String())
}

// setSink records emissions as a set, like a deduplicating store.
type setSink map[string]bool

func (s setSink) Occurrence(key stubindex.IndexKey, value string) {
	s[fmt.Sprintf("%s=%s", key, value)] = true
}

func TestBuild_AliasedImportResolvesAnnotations(t *testing.T) {
	b := NewBuilder()

	source := []byte(`
package com.example

import com.lib.Special as Spec
import com.lib.Base

@Spec
class Foo
`)
	fileStub, err := b.Build("Foo.kt", source)
	require.NoError(t, err)

	_, _, _, _, imports := collect(fileStub)
	require.Len(t, imports, 2, "both imports must survive the parse")

	aliased := fileStub.FindImportsByAlias("Spec")
	require.Len(t, aliased, 1)
	require.NotNil(t, aliased[0].ImportedFqName)
	assert.Equal(t, "com.lib.Special", aliased[0].ImportedFqName.String())

	// The annotation written through the alias must be discoverable
	// under both spellings once the parsed tree is indexed.
	sink := setSink{}
	(&stubindex.Service{}).IndexTree(fileStub, sink)
	assert.True(t, sink["kt.annotationShortName=Spec"])
	assert.True(t, sink["kt.annotationShortName=Special"])
}

func TestBuild_MalformedSource(t *testing.T) {
	b := NewBuilder()

	// A broken file must still produce a stub tree, with absent
	// fields where the syntax gave us nothing.
	fileStub, err := b.Build("broken.kt", []byte("package com.example\n\nfun (x: Int)\nclass {\n"))
	require.NoError(t, err)
	assert.Equal(t, "com.example", fileStub.PackageFqName.String())
}
