package stub

import (
	"testing"

	"stubdex/internal/name"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func fqPtr(s string) *name.FqName {
	fq := name.New(s)
	return &fq
}

func TestStubTree_ParentChildLinks(t *testing.T) {
	file := NewFileStub(name.New("com.example"), false, nil, nil, nil)
	cls := NewClassOrObjectStub(file, FlavorClass, "Foo", fqPtr("com.example.Foo"), []string{"Bar"})
	fn := NewFunctionStub(cls, "member", nil, "", false)

	assert.Nil(t, file.Parent())
	assert.Same(t, file, cls.Parent().(*FileStub))
	assert.Same(t, cls, fn.Parent().(*ClassOrObjectStub))

	require.Len(t, file.Children(), 1)
	assert.Same(t, cls, file.Children()[0].(*ClassOrObjectStub))
	require.Len(t, cls.Children(), 1)
	assert.Same(t, fn, cls.Children()[0].(*FunctionStub))
}

func TestStubTree_TopLevelFlag(t *testing.T) {
	file := NewFileStub(name.New("com.example"), false, nil, nil, nil)
	topFn := NewFunctionStub(file, "helper", fqPtr("com.example.helper"), "", false)
	cls := NewClassOrObjectStub(file, FlavorClass, "Foo", fqPtr("com.example.Foo"), nil)
	member := NewFunctionStub(cls, "member", nil, "", false)

	assert.True(t, topFn.TopLevel)
	assert.True(t, cls.TopLevel)
	assert.False(t, member.TopLevel)
}

func TestContainingFile(t *testing.T) {
	file := NewFileStub(name.Root(), false, nil, nil, nil)
	cls := NewClassOrObjectStub(file, FlavorClass, "Foo", nil, nil)
	ann := NewAnnotationEntryStub(cls, "Spec")

	assert.Same(t, file, ContainingFile(ann))
	assert.Same(t, file, ContainingFile(cls))

	// A detached annotation has no file context
	orphan := NewAnnotationEntryStub(nil, "Spec")
	assert.Nil(t, ContainingFile(orphan))
}

func TestFileStub_FacadeAndPartFqNames(t *testing.T) {
	t.Run("Present", func(t *testing.T) {
		file := NewFileStub(name.New("com.example"), false, strPtr("UtilKt"), strPtr("UtilKt"), nil)
		require.NotNil(t, file.FacadeFqName())
		assert.Equal(t, "com.example.UtilKt", file.FacadeFqName().String())
		require.NotNil(t, file.PartFqName())
		assert.Equal(t, "com.example.UtilKt", file.PartFqName().String())
	})

	t.Run("Absent", func(t *testing.T) {
		file := NewFileStub(name.New("com.example"), false, nil, nil, nil)
		assert.Nil(t, file.FacadeFqName())
		assert.Nil(t, file.PartFqName())
	})

	t.Run("RootPackage", func(t *testing.T) {
		file := NewFileStub(name.Root(), false, strPtr("MainKt"), strPtr("MainKt"), nil)
		assert.Equal(t, "MainKt", file.FacadeFqName().String())
	})
}

func TestFileStub_FindImportsByAlias(t *testing.T) {
	file := NewFileStub(name.New("com.example"), false, nil, nil, nil)
	NewImportDirectiveStub(file, fqPtr("com.lib.Special"), strPtr("Spec"))
	NewImportDirectiveStub(file, fqPtr("com.lib.Other"), nil)
	NewImportDirectiveStub(file, fqPtr("com.another.Special"), strPtr("Spec"))

	matches := file.FindImportsByAlias("Spec")
	require.Len(t, matches, 2)
	assert.Equal(t, "com.lib.Special", matches[0].ImportedFqName.String())
	assert.Equal(t, "com.another.Special", matches[1].ImportedFqName.String())

	assert.Empty(t, file.FindImportsByAlias("Other"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "file", KindFile.String())
	assert.Equal(t, "class_or_object", KindClassOrObject.String())
	assert.Equal(t, "import_directive", KindImportDirective.String())
}
