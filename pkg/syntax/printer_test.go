package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codemod/pkg/syntax"
)

func TestPrint_UnmodifiedIsIdentity(t *testing.T) {
	t.Parallel()

	sources := []string{
		"",
		"\n\n// leading comment\nimport x from 'y'\n",
		"import { Icon } from \"@benefex/components\";\n\nexport const A = () => <Icon name='a' />; // trailing\n",
		"   const  weird =   spacing ;\t\n",
	}

	for _, src := range sources {
		tree := parse(t, "f.tsx", src)
		assert.False(t, tree.Modified())
		assert.Equal(t, src, tree.String())
	}
}

func TestTree_ReplacePreservesSurroundings(t *testing.T) {
	t.Parallel()

	src := "const a = <Old  title=\"t\"   />; // keep me\n"
	tree := parse(t, "f.tsx", src)

	element := syntax.FindAll(tree.Root, syntax.KindJSXSelfClosingElement)[0]
	name := element.Children[0]

	require.NoError(t, tree.Replace(name, syntax.Identifier("New")))

	assert.True(t, tree.Modified())
	assert.Equal(t, "const a = <New  title=\"t\"   />; // keep me\n", tree.String())
	assert.Nil(t, name.Parent)
}

func TestTree_ReplaceRejectsOriginalNodes(t *testing.T) {
	t.Parallel()

	tree := parse(t, "f.tsx", "a; b;")
	first, second := tree.Root.Children[0], tree.Root.Children[1]

	require.ErrorIs(t, tree.Replace(first, second), syntax.ErrNotSynthetic)
	require.ErrorIs(t, tree.Replace(tree.Root, syntax.Identifier("x")), syntax.ErrDetached)
}

func TestTree_InsertAfter(t *testing.T) {
	t.Parallel()

	src := "import a from 'a';\n\nrun();\n"
	tree := parse(t, "f.ts", src)

	anchor := tree.Root.ChildrenOf(syntax.KindImportStatement)[0]
	stmt := syntax.ImportStatement(
		[]syntax.ImportSpec{{Imported: "B"}, {Imported: "C", Local: "D"}},
		"b", syntax.StyleOf(anchor),
	)

	require.NoError(t, tree.InsertAfter(anchor, stmt, "\n"))

	assert.Equal(t, "import a from 'a';\nimport { B, C as D } from 'b';\n\nrun();\n", tree.String())
	assert.Equal(t, 1, stmt.Index())
}

func TestTrailingComment(t *testing.T) {
	t.Parallel()

	tree := parse(t, "f.ts", "import a from 'a'; // keep\nimport b from 'b';\n// own line\nrun();\n")

	imports := tree.Root.ChildrenOf(syntax.KindImportStatement)
	require.Len(t, imports, 2)

	comment := syntax.TrailingComment(imports[0])
	require.NotNil(t, comment)
	assert.Equal(t, "// keep", comment.Text())

	assert.Nil(t, syntax.TrailingComment(imports[1]))
}

func TestBuild_OpeningElements(t *testing.T) {
	t.Parallel()

	attr := syntax.JSXAttribute("component", syntax.JSXExpression(syntax.Identifier("HelloIcon")))

	selfClosing := syntax.JSXOpeningElement(syntax.Identifier("Icon"), nil,
		[]*syntax.Node{attr, syntax.Leaf(syntax.KindJSXAttribute, `size="sm"`)}, true)
	assert.Equal(t, `<Icon component={HelloIcon} size="sm" />`, selfClosing.Text())
	assert.Equal(t, syntax.KindJSXSelfClosingElement, selfClosing.Kind)

	opening := syntax.JSXOpeningElement(syntax.Identifier("Icon"), nil, nil, false)
	assert.Equal(t, "<Icon>", opening.Text())
	assert.Equal(t, syntax.KindJSXOpeningElement, opening.Kind)
}

func TestStyleOf(t *testing.T) {
	t.Parallel()

	tree := parse(t, "f.js", "import a from 'a'\nimport b from \"b\";\n")
	imports := tree.Root.ChildrenOf(syntax.KindImportStatement)
	require.Len(t, imports, 2)

	assert.Equal(t, syntax.ImportStyle{Quote: '\'', Semicolon: false}, syntax.StyleOf(imports[0]))
	assert.Equal(t, syntax.ImportStyle{Quote: '"', Semicolon: true}, syntax.StyleOf(imports[1]))
}
