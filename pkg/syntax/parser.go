package syntax

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Sentinel errors for parser operations.
var (
	ErrUnsupportedFile      = errors.New("unsupported file extension")
	ErrLanguageNotAvailable = errors.New("tree-sitter language not available")
	ErrNoRootNode           = errors.New("no root node")
	ErrSyntax               = errors.New("syntax error")
	errPoolType             = errors.New("parser pool returned unexpected type")
)

// Parser parses JavaScript and TypeScript sources into owned trees.
// It is safe for concurrent use; tree-sitter parsers are pooled per grammar.
type Parser struct {
	pools sync.Map // grammar name -> *sync.Pool
}

// NewParser creates a Parser. Grammars are initialized on first use.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses content using the grammar selected by the filename extension.
func (p *Parser) Parse(ctx context.Context, filename string, content []byte) (*Tree, error) {
	grammar := GrammarFor(filename)
	if grammar == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}

	return p.ParseAs(ctx, grammar, filename, content)
}

// ParseAs parses content with the named grammar regardless of extension.
func (p *Parser) ParseAs(ctx context.Context, grammar, filename string, content []byte) (*Tree, error) {
	pool, err := p.pool(grammar)
	if err != nil {
		return nil, err
	}

	tsParser, ok := pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer pool.Put(tsParser)

	tsTree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	defer tsTree.Close()

	tsRoot := tsTree.RootNode()
	if tsRoot.IsNull() {
		return nil, ErrNoRootNode
	}

	root, errNode := convertNode(tsRoot, content, nil)

	// Error recovery may only insert zero-width MISSING tokens, leaving no ERROR node.
	if tsRoot.HasError() {
		offset := 0
		if errNode != nil {
			offset = errNode.start
		}

		return nil, fmt.Errorf("%w in %s at byte %d", ErrSyntax, filename, offset)
	}

	return &Tree{
		Root:     root,
		Filename: filename,
		Grammar:  grammar,
		Source:   content,
	}, nil
}

func (p *Parser) pool(grammar string) (*sync.Pool, error) {
	if cached, ok := p.pools.Load(grammar); ok {
		pool, castOK := cached.(*sync.Pool)
		if castOK {
			return pool, nil
		}
	}

	lang := GetLanguage(grammar)
	if lang == nil {
		return nil, fmt.Errorf("%w: %s", ErrLanguageNotAvailable, grammar)
	}

	pool := &sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(lang)

			return tsParser
		},
	}

	actual, _ := p.pools.LoadOrStore(grammar, pool)

	stored, ok := actual.(*sync.Pool)
	if !ok {
		return nil, errPoolType
	}

	return stored, nil
}

// convertNode copies the named-node structure of a tree-sitter subtree.
// The first ERROR node encountered is returned alongside the tree to locate
// the failure.
func convertNode(tsNode sitter.Node, src []byte, parent *Node) (*Node, *Node) {
	current := &Node{
		Parent: parent,
		Kind:   tsNode.Type(),
		src:    src,
		start:  int(tsNode.StartByte()), //nolint:gosec // tree-sitter byte offsets fit in int
		end:    int(tsNode.EndByte()),   //nolint:gosec // tree-sitter byte offsets fit in int
	}

	var firstErr *Node
	if current.Kind == KindError {
		firstErr = current
	}

	childCount := tsNode.NamedChildCount()
	if childCount > 0 {
		current.Children = make([]*Node, 0, childCount)
	}

	for idx := range childCount {
		child := tsNode.NamedChild(idx)
		if child.IsNull() {
			continue
		}

		converted, childErr := convertNode(child, src, current)
		if firstErr == nil {
			firstErr = childErr
		}

		current.Children = append(current.Children, converted)
	}

	return current, firstErr
}
