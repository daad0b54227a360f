package syntax_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codemod/pkg/syntax"
)

func parse(t *testing.T, filename, source string) *syntax.Tree {
	t.Helper()

	tree, err := syntax.NewParser().Parse(context.Background(), filename, []byte(source))
	require.NoError(t, err)

	return tree
}

func TestParser_GrammarSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     string
	}{
		{"App.tsx", syntax.LangTSX},
		{"App.jsx", syntax.LangTSX},
		{"index.js", syntax.LangTSX},
		{"lib.mjs", syntax.LangTSX},
		{"util.ts", syntax.LangTypeScript},
		{"UTIL.TS", syntax.LangTypeScript},
		{"style.css", ""},
		{"Makefile", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, syntax.GrammarFor(tt.filename))
			assert.Equal(t, tt.want != "", syntax.IsSupported(tt.filename))
		})
	}
}

func TestParser_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	_, err := syntax.NewParser().Parse(context.Background(), "main.go", []byte("package main"))
	require.ErrorIs(t, err, syntax.ErrUnsupportedFile)
}

func TestParser_SyntaxError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
	}{
		{"stray braces", "const a = 1;\n}}}\n"},
		{"unclosed paren", "const x = (1 + 2;\n"},
		{"broken closing tag", "const a = <div>hello</div;\n"},
		{"unclosed function", "function f() {\n  return 1;\n"},
	}

	parser := syntax.NewParser()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parser.Parse(context.Background(), "broken.tsx", []byte(tt.source))
			require.ErrorIs(t, err, syntax.ErrSyntax)
		})
	}
}

func TestParser_ParseAsJavaScript(t *testing.T) {
	t.Parallel()

	source := "import Icon from './Icon';\nexport const A = () => <Icon name=\"hello\" />;\n"

	tree, err := syntax.NewParser().ParseAs(context.Background(), syntax.LangJavaScript, "stdin", []byte(source))
	require.NoError(t, err)

	assert.Equal(t, syntax.LangJavaScript, tree.Grammar)
	assert.Len(t, syntax.FindAll(tree.Root, syntax.KindJSXSelfClosingElement), 1)
	assert.Equal(t, source, tree.String())
}

func TestParser_ParseAsUnknownGrammar(t *testing.T) {
	t.Parallel()

	_, err := syntax.NewParser().ParseAs(context.Background(), "cobol", "a.cbl", []byte("x"))
	require.ErrorIs(t, err, syntax.ErrLanguageNotAvailable)
}

func TestGrammars(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{syntax.LangJavaScript, syntax.LangTSX, syntax.LangTypeScript}, syntax.Grammars())
}

func TestParser_ImportAndJSXShape(t *testing.T) {
	t.Parallel()

	tree := parse(t, "App.tsx", `import { Icon as Glyph } from '@benefex/components';
const App = () => <Glyph name="hello" size="sm" {...rest} />;
`)

	require.Equal(t, syntax.KindProgram, tree.Root.Kind)

	imports := tree.Root.ChildrenOf(syntax.KindImportStatement)
	require.Len(t, imports, 1)

	source := imports[0].FirstChild(syntax.KindString)
	require.NotNil(t, source)

	value, ok := source.StringValue()
	require.True(t, ok)
	assert.Equal(t, "@benefex/components", value)
	assert.Equal(t, byte('\''), source.Quote())

	specs := syntax.FindAll(imports[0], syntax.KindImportSpecifier)
	require.Len(t, specs, 1)
	require.Len(t, specs[0].Children, 2)
	assert.Equal(t, "Icon", specs[0].Children[0].Text())
	assert.Equal(t, "Glyph", specs[0].Children[1].Text())

	elements := syntax.FindAll(tree.Root, syntax.KindJSXSelfClosingElement)
	require.Len(t, elements, 1)
	assert.Equal(t, "Glyph", elements[0].Children[0].Text())

	attrs := elements[0].ChildrenOf(syntax.KindJSXAttribute, syntax.KindJSXExpression)
	require.Len(t, attrs, 3)
	assert.Equal(t, syntax.KindJSXAttribute, attrs[0].Kind)
	assert.Equal(t, syntax.KindJSXExpression, attrs[2].Kind)
}

func TestParser_ConcurrentUse(t *testing.T) {
	t.Parallel()

	parser := syntax.NewParser()
	done := make(chan error, 8)

	for range 8 {
		go func() {
			_, err := parser.Parse(context.Background(), "a.tsx", []byte(`const a = <div className="x" />;`))
			done <- err
		}()
	}

	for range 8 {
		require.NoError(t, <-done)
	}
}
