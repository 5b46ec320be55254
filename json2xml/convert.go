package json2xml

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xenon-xml/xenon/internal/stack"
)

// ErrNoEnclosingElement is returned when the top level JSON value is a
// scalar. Scalars can only be rendered inside an object or an array.
var ErrNoEnclosingElement = errors.New("scalar value without enclosing object or array")

// ConvertOption configures a Converter.
type ConvertOption func(*Converter)

// WithIndent makes the converter write each element on its own line,
// indented four spaces per nesting level.
func WithIndent(v bool) ConvertOption {
	return func(c *Converter) {
		c.formatted = v
	}
}

// WithTypeAttributes controls whether scalar elements carry a type
// attribute recording the JSON type of the value. Enabled by default.
func WithTypeAttributes(v bool) ConvertOption {
	return func(c *Converter) {
		c.typed = v
	}
}

// Converter is a Handler that renders parse events as XML. The whole
// document is wrapped in a synthetic root element, object members
// become elements named after their keys, and array items become "li"
// elements.
type Converter struct {
	w         io.Writer
	formatted bool
	typed     bool
	states    stack.Stack[EventKind]
	keys      stack.Stack[string]
}

func NewConverter(w io.Writer, options ...ConvertOption) *Converter {
	c := &Converter{w: w, typed: true}
	for _, o := range options {
		o(c)
	}
	return c
}

func (c *Converter) HandleEvent(ev Event) error {
	switch ev.Kind {
	case BeginFile:
		_, err := fmt.Fprintf(c.w, "%s\n<%s>\n", `<?xml version="1.0" encoding="utf-8"?>`, rootName)
		return err
	case EndFile:
		_, err := fmt.Fprintf(c.w, "</%s>\n", rootName)
		return err
	case BeginObject, BeginArray:
		if c.states.Len() > 0 {
			key, err := c.containerKey()
			if err != nil {
				return err
			}
			if err := c.writeOpen(key); err != nil {
				return err
			}
		}
		c.states.Push(ev.Kind)
		return nil
	case EndObject, EndArray:
		if _, ok := c.states.Pop(); !ok {
			return errors.New("unbalanced document")
		}
		if c.states.Len() == 0 {
			return nil
		}
		key, ok := c.keys.Pop()
		if !ok {
			return errors.New("unbalanced document")
		}
		return c.writeClose(key)
	case Key:
		c.keys.Push(ev.Str)
		return nil
	case BooleanValue:
		if ev.Bool {
			return c.writeValue("boolean", "true")
		}
		return c.writeValue("boolean", "false")
	case NullValue:
		return c.writeValue("null", "null")
	case StringValue:
		if ev.Str == "" {
			return c.writeEmptyString()
		}
		return c.writeValue("string", escapeValue(ev.Str))
	case IntValue:
		return c.writeValue("int", ev.Str)
	case FloatValue:
		return c.writeValue("float", ev.Str)
	default:
		return fmt.Errorf("unexpected event %s", ev.Kind)
	}
}

const rootName = "root"

// containerKey returns the element name for a nested object or array.
// Keys of object members stay on the stack until the member's closing
// tag has been written.
func (c *Converter) containerKey() (string, error) {
	if st, _ := c.states.Peek(); st == BeginArray {
		key := "li"
		c.keys.Push(key)
		return key, nil
	}
	key, ok := c.keys.Peek()
	if !ok {
		return "", errors.New("object member without key")
	}
	return key, nil
}

// scalarKey is like containerKey except that object member keys are
// consumed immediately, since scalars open and close in one write.
func (c *Converter) scalarKey() (string, error) {
	st, ok := c.states.Peek()
	if !ok {
		return "", ErrNoEnclosingElement
	}
	if st == BeginArray {
		return "li", nil
	}
	key, ok := c.keys.Pop()
	if !ok {
		return "", errors.New("object member without key")
	}
	return key, nil
}

func (c *Converter) indent() string {
	return strings.Repeat(" ", c.states.Len()*4)
}

func (c *Converter) writeOpen(key string) error {
	var err error
	if c.formatted {
		_, err = fmt.Fprintf(c.w, "%s<%s>\n", c.indent(), key)
	} else {
		_, err = fmt.Fprintf(c.w, "<%s>", key)
	}
	return err
}

func (c *Converter) writeClose(key string) error {
	var err error
	if c.formatted {
		_, err = fmt.Fprintf(c.w, "%s</%s>\n", c.indent(), key)
	} else {
		_, err = fmt.Fprintf(c.w, "</%s>", key)
	}
	return err
}

func (c *Converter) writeValue(typ, value string) error {
	key, err := c.scalarKey()
	if err != nil {
		return err
	}
	switch {
	case c.formatted && c.typed:
		_, err = fmt.Fprintf(c.w, "%s<%s type=%q>%s</%s>\n", c.indent(), key, typ, value, key)
	case c.formatted:
		_, err = fmt.Fprintf(c.w, "%s<%s>%s</%s>\n", c.indent(), key, value, key)
	case c.typed:
		_, err = fmt.Fprintf(c.w, "<%s type=%q>%s</%s>", key, typ, value, key)
	default:
		_, err = fmt.Fprintf(c.w, "<%s>%s</%s>", key, value, key)
	}
	return err
}

func (c *Converter) writeEmptyString() error {
	key, err := c.scalarKey()
	if err != nil {
		return err
	}
	switch {
	case c.formatted && c.typed:
		_, err = fmt.Fprintf(c.w, "%s<%s type=\"string\"/>\n", c.indent(), key)
	case c.formatted:
		_, err = fmt.Fprintf(c.w, "%s<%s/>\n", c.indent(), key)
	case c.typed:
		_, err = fmt.Fprintf(c.w, "<%s type=\"string\"/>", key)
	default:
		_, err = fmt.Fprintf(c.w, "<%s/>", key)
	}
	return err
}

// escapeValue wraps strings containing markup characters in a CDATA
// section. A literal "]]>" inside the value is split across two
// sections so the content survives a round trip through an XML parser.
func escapeValue(s string) string {
	if !strings.ContainsAny(s, `<>&"'`) {
		return s
	}
	if strings.Contains(s, "]]>") {
		s = strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
	}
	return "<![CDATA[" + s + "]]>"
}
