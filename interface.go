package xenon

// Version is the version of this library
const Version = "0.1.0"

// NodeType describes the concrete type of a Node in the document tree.
type NodeType int

const (
	ElementNode NodeType = iota + 1
	TextNode
	CDATASectionNode
	CommentNode
	ProcessingInstructionNode
	DocumentNode
)

// QName is the raw lexical form of a name, before namespace resolution.
type QName struct {
	Prefix string
	Local  string
}

func (n QName) String() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

// ResolvedName is a name whose prefix has been substituted with the
// namespace URI bound to it. Unprefixed attributes always resolve to
// an empty URI.
type ResolvedName struct {
	Local string
	URI   string
}

func (n ResolvedName) String() string {
	if n.URI == "" {
		return n.Local
	}
	return "{" + n.URI + "}" + n.Local
}

// Attribute is a single resolved attribute of an element.
type Attribute struct {
	name  ResolvedName
	value string
}

func (a Attribute) Name() ResolvedName {
	return a.name
}

func (a Attribute) Value() string {
	return a.value
}

// Namespace is a prefix to URI binding declared on an element.
type Namespace struct {
	prefix string
	uri    string
}

func (ns Namespace) Prefix() string {
	return ns.prefix
}

func (ns Namespace) URI() string {
	return ns.uri
}

// Node is the read-only view of a single node in the document tree.
// The tree is built once by Parse and never mutated afterwards; all
// construction happens through unexported methods.
type Node interface {
	Type() NodeType
	Content() []byte
	Parent() Node
	FirstChild() Node
	LastChild() Node
	NextSibling() Node
	PrevSibling() Node

	setParent(Node)
	setNextSibling(Node)
	setPrevSibling(Node)
	setFirstChild(Node)
	setLastChild(Node)
}

// DocumentStandaloneType is the value of the standalone pseudo-attribute
// of the XML declaration.
type DocumentStandaloneType int

const (
	StandaloneInvalidValue DocumentStandaloneType = -99
	StandaloneExplicitYes  DocumentStandaloneType = 1
	StandaloneExplicitNo   DocumentStandaloneType = 0
	StandaloneNoXMLDecl    DocumentStandaloneType = -1
	StandaloneImplicitNo   DocumentStandaloneType = -2
)

// Parser parses complete in-memory XML documents into Documents.
// A Parser holds no per-parse state and may be shared between goroutines;
// every Parse call owns its lexer, resolver and tree builder exclusively.
type Parser struct {
	options []Option
}
