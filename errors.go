package xenon

import (
	"errors"
	"fmt"
)

// ErrorKind is the coarse classification of a parse failure.
type ErrorKind int

const (
	// LexicalError covers malformed tag syntax, unterminated quotes,
	// unterminated CDATA/comment sections, unknown entities and invalid
	// character references.
	LexicalError ErrorKind = iota + 1
	// NamespaceError covers use of a prefix with no binding in scope.
	NamespaceError
	// StructuralError covers well-formedness violations detected while
	// building the tree: mismatched end tags, duplicate attributes,
	// content outside the root, multiple or zero roots, unclosed
	// elements at EOF.
	StructuralError
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "lexical error"
	case NamespaceError:
		return "namespace error"
	case StructuralError:
		return "structural error"
	}
	return "unknown error"
}

var (
	ErrAttrValueRequired   = errors.New("attribute value required")
	ErrCDATANotFinished    = errors.New("invalid CDATA section (premature end)")
	ErrCommentNotFinished  = errors.New("comment not terminated")
	ErrContentOutsideRoot  = errors.New("content is not allowed outside of the root element")
	ErrDocumentEnd         = errors.New("extra content at document end")
	ErrEqualSignRequired   = errors.New("'=' was required here")
	ErrGtRequired          = errors.New("'>' was required here")
	ErrHyphenInComment     = errors.New("'--' not allowed in comment")
	ErrInvalidCharRef      = errors.New("invalid character reference")
	ErrInvalidChar         = errors.New("invalid char")
	ErrInvalidComment      = errors.New("invalid comment section")
	ErrInvalidCDSect       = errors.New("invalid CDATA section")
	ErrInvalidEncodingName = errors.New("invalid encoding name")
	ErrInvalidPI           = errors.New("invalid processing instruction")
	ErrInvalidVersionNum   = errors.New("invalid version")
	ErrInvalidXMLDecl      = errors.New("invalid XML declaration")
	ErrLtSlashRequired     = errors.New("'</' is required")
	ErrMisplacedCDATAEnd   = errors.New("misplaced CDATA end ']]>'")
	ErrMultipleRoots       = errors.New("document has more than one root element")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name is too long")
	ErrNoRoot              = errors.New("document has no root element")
	ErrPrematureEOF        = errors.New("end of document reached")
	ErrSemicolonRequired   = errors.New("';' is required")
	ErrSpaceRequired       = errors.New("space required")
	ErrStartTagRequired    = errors.New("start tag expected, '<' not found")
)

// ErrUnknownEntity is returned when a named entity other than the five
// predefined ones is referenced. DTD-declared entities are not supported.
type ErrUnknownEntity struct {
	Name string
}

func (e ErrUnknownEntity) Error() string {
	return "unknown entity '&" + e.Name + ";'"
}

// ErrUndeclaredPrefix is returned when a qualified name uses a prefix
// with no binding in any enclosing scope.
type ErrUndeclaredPrefix struct {
	Prefix string
}

func (e ErrUndeclaredPrefix) Error() string {
	return "undeclared namespace prefix '" + e.Prefix + "'"
}

// ErrTagNameMismatch is returned when a closing tag does not match the
// element it is supposed to close.
type ErrTagNameMismatch struct {
	Expected ResolvedName
	Actual   ResolvedName
}

func (e ErrTagNameMismatch) Error() string {
	return "closing tag does not match ('" + e.Expected.String() + "' != '" + e.Actual.String() + "')"
}

// ErrDuplicateAttribute is returned when two attributes on one element
// resolve to the same name.
type ErrDuplicateAttribute struct {
	Name ResolvedName
}

func (e ErrDuplicateAttribute) Error() string {
	return "duplicate attribute '" + e.Name.String() + "'"
}

// ErrUnclosedElement is returned when the input ends while elements are
// still open. Name is the innermost unclosed element.
type ErrUnclosedElement struct {
	Name ResolvedName
}

func (e ErrUnclosedElement) Error() string {
	return "unclosed element '" + e.Name.String() + "' at end of input"
}

// ErrDepthExceeded is returned when element nesting exceeds the
// configured maximum.
type ErrDepthExceeded struct {
	Limit int
}

func (e ErrDepthExceeded) Error() string {
	return fmt.Sprintf("element nesting exceeds the maximum depth of %d", e.Limit)
}

// ErrParseError decorates the underlying cause with the kind of the
// failure and the position in the input where it was detected.
type ErrParseError struct {
	Kind       ErrorKind
	Err        error
	Byte       int
	Column     int
	Line       string
	LineNumber int
}

func (e ErrParseError) Error() string {
	return fmt.Sprintf(
		"%s: %s at line %d, column %d\n -> '%s' <-- around here",
		e.Kind,
		e.Err,
		e.LineNumber,
		e.Column,
		e.Line,
	)
}

func (e ErrParseError) Unwrap() error {
	return e.Err
}

// kindOf classifies a raw cause. Anything not recognizably a namespace
// or structural violation came out of the lexer.
func kindOf(err error) ErrorKind {
	var undeclared ErrUndeclaredPrefix
	if errors.As(err, &undeclared) {
		return NamespaceError
	}

	var (
		mismatch ErrTagNameMismatch
		dup      ErrDuplicateAttribute
		unclosed ErrUnclosedElement
		depth    ErrDepthExceeded
	)
	switch {
	case errors.As(err, &mismatch),
		errors.As(err, &dup),
		errors.As(err, &unclosed),
		errors.As(err, &depth),
		errors.Is(err, ErrContentOutsideRoot),
		errors.Is(err, ErrMultipleRoots),
		errors.Is(err, ErrNoRoot),
		errors.Is(err, ErrDocumentEnd):
		return StructuralError
	}
	return LexicalError
}
