package xenon

import (
	"github.com/xenon-xml/xenon/internal/debug"
	"github.com/xenon-xml/xenon/internal/stack"
)

// TreeBuilder consumes the lexer's token stream and builds the
// document tree, enforcing the well-formedness rules the lexer cannot
// see: matching end tags, a single root, no stray content outside it,
// no duplicate attributes. Nesting is tracked on an explicit
// array-backed stack so that depth is bounded by configuration, not by
// the native call stack.
type TreeBuilder struct {
	doc      *Document
	resolver *nsResolver
	nodes    stack.Stack[*Element]
	maxDepth int
}

func newTreeBuilder(version, encoding string, standalone DocumentStandaloneType, lenientNS bool, maxDepth int) *TreeBuilder {
	return &TreeBuilder{
		doc:      newDocument(version, encoding, standalone),
		resolver: newNsResolver(lenientNS),
		maxDepth: maxDepth,
	}
}

// handle routes one token. EOF is not handled here; the caller ends
// the stream and calls finish.
func (t *TreeBuilder) handle(tok Token) error {
	switch tok.Kind {
	case TokenStartTag:
		return t.startElement(tok, false)
	case TokenEmptyTag:
		return t.startElement(tok, true)
	case TokenEndTag:
		return t.endElement(tok)
	case TokenText:
		return t.text(tok)
	case TokenCData:
		return t.cdata(tok)
	case TokenComment:
		return t.comment(tok)
	case TokenPI:
		return t.pi(tok)
	}
	return nil
}

// startElement resolves the tag's names and pushes a new frame.
// Namespace attributes are declared before the element's own name and
// its remaining attributes are resolved, so a declaration applies to
// the very tag that carries it.
func (t *TreeBuilder) startElement(tok Token, empty bool) error {
	if t.nodes.Len() >= t.maxDepth {
		return ErrDepthExceeded{Limit: t.maxDepth}
	}

	t.resolver.pushFrame()

	type nsDecl struct {
		prefix string
		uri    string
	}
	var decls []nsDecl
	var plain []TokenAttr
	for _, attr := range tok.Attr {
		switch {
		case attr.Name.Prefix == "" && attr.Name.Local == "xmlns":
			decls = append(decls, nsDecl{prefix: "", uri: attr.Value})
		case attr.Name.Prefix == "xmlns":
			decls = append(decls, nsDecl{prefix: attr.Name.Local, uri: attr.Value})
		default:
			plain = append(plain, attr)
		}
	}
	for _, d := range decls {
		if err := t.resolver.declare(d.prefix, d.uri); err != nil {
			return err
		}
	}

	name, err := t.resolver.resolveElement(tok.Name)
	if err != nil {
		return err
	}

	e := newElement(name)
	for _, d := range decls {
		e.declareNamespace(d.prefix, d.uri)
	}
	for _, attr := range plain {
		rname, err := t.resolver.resolveAttribute(attr.Name)
		if err != nil {
			return err
		}
		if err := e.setAttribute(rname, attr.Value); err != nil {
			return err
		}
	}

	if parent, ok := t.nodes.Peek(); ok {
		parent.addChild(e)
	} else {
		if t.doc.root != nil {
			return ErrMultipleRoots
		}
		t.doc.root = e
		appendChild(t.doc, e)
	}

	if debug.Enabled {
		debug.Printf(" --> push node %s", e.Name())
	}

	if empty {
		t.resolver.popFrame()
		return nil
	}
	t.nodes.Push(e)
	return nil
}

// endElement checks that the closing tag's resolved name matches the
// innermost open element, then pops it.
func (t *TreeBuilder) endElement(tok Token) error {
	top, ok := t.nodes.Peek()
	if !ok {
		return ErrDocumentEnd
	}

	// resolve before popping: the matching start tag's declarations
	// are still in scope for its own end tag
	name, err := t.resolver.resolveElement(tok.Name)
	if err != nil {
		return err
	}
	if name != top.Name() {
		return ErrTagNameMismatch{Expected: top.Name(), Actual: name}
	}

	if debug.Enabled {
		debug.Printf(" <-- pop node %s", top.Name())
	}

	t.nodes.Pop()
	t.resolver.popFrame()
	return nil
}

func (t *TreeBuilder) text(tok Token) error {
	top, ok := t.nodes.Peek()
	if !ok {
		// whitespace between top-level constructs is ignorable
		if isBlankStr(tok.Data) {
			return nil
		}
		return ErrContentOutsideRoot
	}
	if tok.Data == "" {
		return nil
	}
	top.addChild(newText([]byte(tok.Data)))
	return nil
}

func (t *TreeBuilder) cdata(tok Token) error {
	top, ok := t.nodes.Peek()
	if !ok {
		return ErrContentOutsideRoot
	}
	top.addChild(newCDATASection([]byte(tok.Data)))
	return nil
}

func (t *TreeBuilder) comment(tok Token) error {
	n := newComment([]byte(tok.Data))
	if top, ok := t.nodes.Peek(); ok {
		top.addChild(n)
	} else {
		// prolog or epilogue comment, owned by the document
		appendChild(t.doc, n)
	}
	return nil
}

func (t *TreeBuilder) pi(tok Token) error {
	n := newProcessingInstruction(tok.Target, tok.Data)
	if top, ok := t.nodes.Peek(); ok {
		top.addChild(n)
	} else {
		appendChild(t.doc, n)
	}
	return nil
}

// finish validates the end-of-input state and hands over the document.
func (t *TreeBuilder) finish() (*Document, error) {
	if top, ok := t.nodes.Peek(); ok {
		return nil, ErrUnclosedElement{Name: top.Name()}
	}
	if t.doc.root == nil {
		return nil, ErrNoRoot
	}
	doc := t.doc
	t.doc = nil
	return doc, nil
}

func isBlankStr(s string) bool {
	for _, c := range s {
		if !isBlankCh(c) {
			return false
		}
	}
	return true
}
