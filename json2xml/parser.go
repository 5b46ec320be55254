package json2xml

import (
	"io"

	"github.com/lestrrat-go/pdebug"

	"github.com/xenon-xml/xenon/internal/stack"
)

type parserState int

const (
	stateValue parserState = iota
	stateEnd
	stateInObject
	stateInObjectMember
	stateInObjectMemberValue
	stateInObjectSep
	stateInArray
	stateInArraySep
)

type parser struct {
	h      Handler
	state  parserState
	states stack.Stack[parserState]
}

// Parse reads a JSON document from r and reports it to h as a stream of
// events, starting with BeginFile and ending with EndFile. Parsing
// stops at the first syntax error or the first error returned by h.
func Parse(r io.Reader, h Handler) error {
	if pdebug.Enabled {
		pdebug.Printf("START json2xml.Parse")
		defer pdebug.Printf("END   json2xml.Parse")
	}

	if err := h.HandleEvent(Event{Kind: BeginFile}); err != nil {
		return err
	}

	p := parser{h: h}
	l := newLexer(r)
	if err := l.lex(p.feed); err != nil {
		return err
	}
	if p.state != stateEnd {
		return l.errorf("unexpected end of input")
	}
	return h.HandleEvent(Event{Kind: EndFile})
}

func (p *parser) feed(tok lexToken, line, column int) error {
	fail := func(msg string) error {
		return &SyntaxError{Msg: msg, Line: line, Column: column}
	}
	emit := func(ev Event) error {
		return p.h.HandleEvent(ev)
	}
	// begin enters a container. The state to resume once the container
	// closes is saved on the stack.
	begin := func(resume parserState) error {
		p.states.Push(resume)
		if tok.kind == tokBeginObject {
			p.state = stateInObject
			return emit(Event{Kind: BeginObject})
		}
		p.state = stateInArray
		return emit(Event{Kind: BeginArray})
	}

	switch p.state {
	case stateValue:
		switch tok.kind {
		case tokBeginObject, tokBeginArray:
			return begin(stateEnd)
		case tokBoolean, tokNull, tokString, tokInt, tokFloat:
			p.state = stateEnd
			return emit(valueEvent(tok))
		default:
			return fail("expected value")
		}
	case stateEnd:
		return fail("unexpected content after top level value")
	case stateInObject:
		switch tok.kind {
		case tokString:
			p.state = stateInObjectMember
			return emit(Event{Kind: Key, Str: tok.str})
		case tokEndObject:
			p.state = p.popState()
			return emit(Event{Kind: EndObject})
		default:
			return fail("expected object key or '}'")
		}
	case stateInObjectMember:
		if tok.kind != tokNameSep {
			return fail("expected ':'")
		}
		p.state = stateInObjectMemberValue
		return nil
	case stateInObjectMemberValue:
		switch tok.kind {
		case tokBeginObject, tokBeginArray:
			return begin(stateInObjectSep)
		case tokBoolean, tokNull, tokString, tokInt, tokFloat:
			p.state = stateInObjectSep
			return emit(valueEvent(tok))
		default:
			return fail("expected member value")
		}
	case stateInObjectSep:
		switch tok.kind {
		case tokValueSep:
			p.state = stateInObject
			return nil
		case tokEndObject:
			p.state = p.popState()
			return emit(Event{Kind: EndObject})
		default:
			return fail("expected ',' or '}'")
		}
	case stateInArray:
		switch tok.kind {
		case tokBeginObject, tokBeginArray:
			return begin(stateInArraySep)
		case tokBoolean, tokNull, tokString, tokInt, tokFloat:
			p.state = stateInArraySep
			return emit(valueEvent(tok))
		case tokEndArray:
			p.state = p.popState()
			return emit(Event{Kind: EndArray})
		default:
			return fail("expected array item or ']'")
		}
	case stateInArraySep:
		switch tok.kind {
		case tokValueSep:
			p.state = stateInArray
			return nil
		case tokEndArray:
			p.state = p.popState()
			return emit(Event{Kind: EndArray})
		default:
			return fail("expected ',' or ']'")
		}
	}
	return fail("unexpected state")
}

func (p *parser) popState() parserState {
	st, ok := p.states.Pop()
	if !ok {
		return stateEnd
	}
	return st
}

func valueEvent(tok lexToken) Event {
	switch tok.kind {
	case tokBoolean:
		return Event{Kind: BooleanValue, Bool: tok.b}
	case tokNull:
		return Event{Kind: NullValue}
	case tokString:
		return Event{Kind: StringValue, Str: tok.str}
	case tokInt:
		return Event{Kind: IntValue, Str: tok.str}
	default:
		return Event{Kind: FloatValue, Str: tok.str}
	}
}
