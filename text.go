package xenon

// Text is a run of character data. Adjacent runs produced by entity
// expansion are coalesced into one node while the tree is built.
type Text struct {
	docnode
	content []byte
}

func newText(b []byte) *Text {
	t := &Text{content: b}
	t.typ = TextNode
	return t
}

func (n *Text) Content() []byte {
	return n.content
}

func (n *Text) append(b []byte) {
	n.content = append(n.content, b...)
}
