package xenon

import "github.com/xenon-xml/xenon/internal/orderedmap"

// Element is a single element node. Its attributes are stored in
// source order; duplicates were rejected during parsing.
type Element struct {
	docnode
	name  ResolvedName
	attrs *orderedmap.Map[ResolvedName, string]
	// namespace bindings declared on this very element, source order
	nsDefs []Namespace
}

func newElement(name ResolvedName) *Element {
	e := &Element{
		name:  name,
		attrs: orderedmap.New[ResolvedName, string](),
	}
	e.typ = ElementNode
	return e
}

// Name returns the element's resolved name.
func (n *Element) Name() ResolvedName {
	return n.name
}

// LocalName returns the local part of the element's name.
func (n *Element) LocalName() string {
	return n.name.Local
}

// URI returns the namespace URI of the element's name, or "".
func (n *Element) URI() string {
	return n.name.URI
}

// Attributes returns the element's attributes in source order.
func (n *Element) Attributes() []Attribute {
	list := make([]Attribute, 0, n.attrs.Len())
	for name, value := range n.attrs.Range() {
		list = append(list, Attribute{name: name, value: value})
	}
	return list
}

// AttributeValue looks up an attribute by resolved name. Pass uri ""
// for namespace-less (unprefixed) attributes.
func (n *Element) AttributeValue(uri, local string) (string, bool) {
	return n.attrs.Get(ResolvedName{Local: local, URI: uri})
}

// Namespaces returns the bindings declared on this element, in source
// order. The default namespace appears with an empty prefix.
func (n *Element) Namespaces() []Namespace {
	return n.nsDefs
}

func (n *Element) setAttribute(name ResolvedName, value string) error {
	if err := n.attrs.Set(name, value); err != nil {
		return ErrDuplicateAttribute{Name: name}
	}
	return nil
}

func (n *Element) declareNamespace(prefix, uri string) {
	n.nsDefs = append(n.nsDefs, Namespace{prefix: prefix, uri: uri})
}

// addChild appends cur to the element, merging consecutive text runs
// into a single Text node. CDATA sections stay distinct nodes so the
// literal-vs-parsed distinction survives in the tree.
func (n *Element) addChild(cur Node) {
	if cur.Type() == TextNode {
		if lc := n.LastChild(); lc != nil && lc.Type() == TextNode {
			lc.(*Text).append(cur.Content())
			return
		}
	}
	appendChild(n, cur)
}

// Elements returns the element children, skipping text and other node
// types, in document order.
func (n *Element) Elements() []*Element {
	var list []*Element
	for chld := n.FirstChild(); chld != nil; chld = chld.NextSibling() {
		if e, ok := chld.(*Element); ok {
			list = append(list, e)
		}
	}
	return list
}
