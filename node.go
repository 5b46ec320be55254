package xenon

import (
	"bytes"
	"errors"
)

// docnode carries the links every node in the tree shares. Because it
// holds pointers to other nodes, methods that mutate both the current
// node AND an operand node must not be implemented on docnode itself:
// a method receiving the embedded docnode would hand out a pointer to
// the embedded struct, not to the container node (Element, Text, ...).
// Only methods that touch the current node's own pointers live here.
type docnode struct {
	typ        NodeType
	parent     Node
	next       Node
	prev       Node
	firstChild Node
	lastChild  Node
}

func (n *docnode) Type() NodeType {
	return n.typ
}

func (n *docnode) Parent() Node {
	return n.parent
}

func (n *docnode) FirstChild() Node {
	return n.firstChild
}

func (n *docnode) LastChild() Node {
	return n.lastChild
}

func (n *docnode) NextSibling() Node {
	return n.next
}

func (n *docnode) PrevSibling() Node {
	return n.prev
}

func (n *docnode) setParent(cur Node) {
	n.parent = cur
}

func (n *docnode) setNextSibling(cur Node) {
	n.next = cur
}

func (n *docnode) setPrevSibling(cur Node) {
	n.prev = cur
}

func (n *docnode) setFirstChild(cur Node) {
	n.firstChild = cur
}

func (n *docnode) setLastChild(cur Node) {
	n.lastChild = cur
}

// Content of a container node is the concatenation of all descendant
// Text and CDATA content in document order. CDATA contributes its
// literal bytes; comments and processing instructions contribute
// nothing.
func (n *docnode) Content() []byte {
	var b bytes.Buffer
	for e := n.firstChild; e != nil; e = e.NextSibling() {
		switch e.Type() {
		case CommentNode, ProcessingInstructionNode:
			continue
		}
		b.Write(e.Content())
	}
	return b.Bytes()
}

// appendChild links cur as the last child of n.
func appendChild(n Node, cur Node) {
	if l := n.LastChild(); l == nil {
		n.setFirstChild(cur)
	} else {
		l.setNextSibling(cur)
		cur.setPrevSibling(l)
	}
	n.setLastChild(cur)
	cur.setParent(n)
}

// WalkFunc visits a single node. Returning an error stops the walk.
type WalkFunc func(Node) error

// Walk visits n and all of its descendants in document order.
func Walk(n Node, f WalkFunc) error {
	if n == nil {
		return errors.New("nil node")
	}

	if err := f(n); err != nil {
		return err
	}
	for chld := n.FirstChild(); chld != nil; chld = chld.NextSibling() {
		if err := Walk(chld, f); err != nil {
			return err
		}
	}
	return nil
}
