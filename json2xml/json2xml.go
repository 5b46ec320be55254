// Package json2xml converts JSON documents to XML. The input is lexed
// and parsed as a stream of events, so arbitrarily large documents can
// be converted without building an in-memory tree. Object members become
// elements named after their keys, array items become "li" elements, and
// scalar values carry their JSON type in a type attribute.
package json2xml

import (
	"fmt"
	"io"
)

// EventKind describes the kind of an Event emitted by Parse.
type EventKind int

const (
	BeginFile EventKind = iota
	EndFile
	BeginObject
	EndObject
	BeginArray
	EndArray
	Key
	BooleanValue
	NullValue
	StringValue
	IntValue
	FloatValue
)

func (k EventKind) String() string {
	switch k {
	case BeginFile:
		return "BeginFile"
	case EndFile:
		return "EndFile"
	case BeginObject:
		return "BeginObject"
	case EndObject:
		return "EndObject"
	case BeginArray:
		return "BeginArray"
	case EndArray:
		return "EndArray"
	case Key:
		return "Key"
	case BooleanValue:
		return "BooleanValue"
	case NullValue:
		return "NullValue"
	case StringValue:
		return "StringValue"
	case IntValue:
		return "IntValue"
	case FloatValue:
		return "FloatValue"
	default:
		return "(unknown)"
	}
}

// Event is a single parse event. Str holds the key name for Key events,
// the decoded string for StringValue events, and the literal text for
// IntValue and FloatValue events. Bool is set for BooleanValue events.
type Event struct {
	Kind EventKind
	Str  string
	Bool bool
}

// Handler receives parse events from Parse.
type Handler interface {
	HandleEvent(ev Event) error
}

// HandlerFunc is an adapter that allows ordinary functions to be used
// as event handlers.
type HandlerFunc func(ev Event) error

func (f HandlerFunc) HandleEvent(ev Event) error {
	return f(ev)
}

// SyntaxError is returned when the input is not well-formed JSON.
// Line and Column are zero based and point at the offending byte.
type SyntaxError struct {
	Msg    string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Msg, e.Line, e.Column)
}

// Convert reads a JSON document from r and writes the equivalent XML
// document to w.
func Convert(w io.Writer, r io.Reader, options ...ConvertOption) error {
	return Parse(r, NewConverter(w, options...))
}
