package xenon

// CDATASection holds the verbatim content of a <![CDATA[...]]> block.
// The content is never scanned for markup and never merged into a
// surrounding Text node.
type CDATASection struct {
	docnode
	content []byte
}

func newCDATASection(b []byte) *CDATASection {
	t := &CDATASection{content: b}
	t.typ = CDATASectionNode
	return t
}

func (n *CDATASection) Content() []byte {
	return n.content
}
