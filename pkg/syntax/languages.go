package syntax

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/alexaandru/go-sitter-forest/javascript"
	"github.com/alexaandru/go-sitter-forest/tsx"
	"github.com/alexaandru/go-sitter-forest/typescript"
)

// Grammar names understood by the parser.
const (
	LangTSX        = "tsx"
	LangTypeScript = "typescript"
	LangJavaScript = "javascript"
)

// languageFuncs maps grammar names to their tree-sitter GetLanguage functions.
var languageFuncs = map[string]func() unsafe.Pointer{
	LangJavaScript: javascript.GetLanguage,
	LangTSX:        tsx.GetLanguage,
	LangTypeScript: typescript.GetLanguage,
}

// extensionGrammars picks the grammar per file extension. JSX is accepted in
// every JavaScript flavour, so those go through the TSX grammar; plain
// TypeScript keeps its own grammar because `<T>expr` casts are not JSX there.
var extensionGrammars = map[string]string{
	".tsx": LangTSX,
	".jsx": LangTSX,
	".js":  LangTSX,
	".mjs": LangTSX,
	".cjs": LangTSX,
	".ts":  LangTypeScript,
	".mts": LangTypeScript,
	".cts": LangTypeScript,
}

var languageCache sync.Map

// GetLanguage returns the tree-sitter Language for the given name, or nil if not supported.
func GetLanguage(name string) *sitter.Language {
	if cached, ok := languageCache.Load(name); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang
		}
	}

	fn, ok := languageFuncs[name]
	if !ok {
		return nil
	}

	var lang *sitter.Language

	func() {
		defer func() {
			_ = recover() //nolint:errcheck // recover() returns any, not error
		}()

		lang = sitter.NewLanguage(fn())
	}()

	if lang == nil {
		return nil
	}

	languageCache.Store(name, lang)

	return lang
}

// GrammarFor returns the grammar name used for filename, or "" when the
// extension is not a JavaScript or TypeScript source.
func GrammarFor(filename string) string {
	return extensionGrammars[strings.ToLower(filepath.Ext(filename))]
}

// IsSupported reports whether filename has a parseable extension.
func IsSupported(filename string) bool {
	return GrammarFor(filename) != ""
}

// Grammars returns the grammar names accepted by Parser.ParseAs.
func Grammars() []string {
	return slices.Sorted(maps.Keys(languageFuncs))
}

// Extensions returns the recognised source extensions in sorted order.
func Extensions() []string {
	return slices.Sorted(maps.Keys(extensionGrammars))
}
