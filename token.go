package xenon

// TokenKind discriminates the variants of Token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenStartTag
	TokenEndTag
	TokenEmptyTag
	TokenText
	TokenCData
	TokenComment
	TokenPI
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenStartTag:
		return "StartTag"
	case TokenEndTag:
		return "EndTag"
	case TokenEmptyTag:
		return "EmptyTag"
	case TokenText:
		return "Text"
	case TokenCData:
		return "CData"
	case TokenComment:
		return "Comment"
	case TokenPI:
		return "PI"
	}
	return "Unknown"
}

// TokenAttr is a single name="value" pair scanned inside a start or
// empty tag. The value has already had entities and character
// references expanded.
type TokenAttr struct {
	Name  QName
	Value string
}

// Token is the union of everything the lexer can produce. Which fields
// are meaningful depends on Kind:
//
//	StartTag, EmptyTag: Name, Attr
//	EndTag:             Name
//	Text, CData:        Data
//	Comment:            Data
//	PI:                 Target, Data
//	EOF:                nothing
//
// A Token is immutable once returned by the lexer.
type Token struct {
	Kind   TokenKind
	Name   QName
	Attr   []TokenAttr
	Data   string
	Target string
}
