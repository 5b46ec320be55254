package xenon

// Comment is a <!-- ... --> node. Its content does not take part in
// an element's text content.
type Comment struct {
	docnode
	content []byte
}

func newComment(b []byte) *Comment {
	t := &Comment{content: b}
	t.typ = CommentNode
	return t
}

func (n *Comment) Content() []byte {
	return n.content
}
