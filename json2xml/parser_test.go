package json2xml

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseEvents(t *testing.T, src string) ([]Event, error) {
	t.Helper()
	var evs []Event
	err := Parse(strings.NewReader(src), HandlerFunc(func(ev Event) error {
		evs = append(evs, ev)
		return nil
	}))
	return evs, err
}

func TestParseObject(t *testing.T) {
	evs, err := parseEvents(t, `{"a": 1, "b": [true, null, "x"], "c": {"d": 2.5}}`)
	if !assert.NoError(t, err, "parse should succeed") {
		return
	}
	expected := []Event{
		{Kind: BeginFile},
		{Kind: BeginObject},
		{Kind: Key, Str: "a"},
		{Kind: IntValue, Str: "1"},
		{Kind: Key, Str: "b"},
		{Kind: BeginArray},
		{Kind: BooleanValue, Bool: true},
		{Kind: NullValue},
		{Kind: StringValue, Str: "x"},
		{Kind: EndArray},
		{Kind: Key, Str: "c"},
		{Kind: BeginObject},
		{Kind: Key, Str: "d"},
		{Kind: FloatValue, Str: "2.5"},
		{Kind: EndObject},
		{Kind: EndObject},
		{Kind: EndFile},
	}
	if !assert.Equal(t, expected, evs, "events should match") {
		return
	}
}

func TestParseEmptyContainers(t *testing.T) {
	evs, err := parseEvents(t, `[{}, []]`)
	if !assert.NoError(t, err, "parse should succeed") {
		return
	}
	expected := []Event{
		{Kind: BeginFile},
		{Kind: BeginArray},
		{Kind: BeginObject},
		{Kind: EndObject},
		{Kind: BeginArray},
		{Kind: EndArray},
		{Kind: EndArray},
		{Kind: EndFile},
	}
	if !assert.Equal(t, expected, evs, "events should match") {
		return
	}
}

func TestParseTopLevelScalar(t *testing.T) {
	evs, err := parseEvents(t, `42`)
	if !assert.NoError(t, err, "parse should succeed") {
		return
	}
	expected := []Event{
		{Kind: BeginFile},
		{Kind: IntValue, Str: "42"},
		{Kind: EndFile},
	}
	if !assert.Equal(t, expected, evs, "events should match") {
		return
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{"missing colon", `{"a" 1}`, "expected ':'"},
		{"missing comma in array", `[1 2]`, "expected ',' or ']'"},
		{"missing comma in object", `{"a": 1 "b": 2}`, "expected ',' or '}'"},
		{"bare key", `{a: 1}`, "unexpected character"},
		{"unclosed object", `{"a": 1`, "unexpected end of input"},
		{"unclosed array", `[1, 2`, "unexpected end of input"},
		{"empty input", ``, "unexpected end of input"},
		{"trailing garbage", `1 2`, "unexpected content after top level value"},
		{"stray close", `}`, "expected value"},
		{"colon in array", `[1: 2]`, "expected ',' or ']'"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := parseEvents(t, c.src)
			if !assert.Error(t, err, "parse should fail") {
				return
			}
			if !assert.Contains(t, err.Error(), c.msg, "error should match") {
				return
			}
		})
	}
}

func TestParseHandlerError(t *testing.T) {
	sentinel := errors.New("stop")
	err := Parse(strings.NewReader(`{"a": 1}`), HandlerFunc(func(ev Event) error {
		if ev.Kind == Key {
			return sentinel
		}
		return nil
	}))
	if !assert.True(t, errors.Is(err, sentinel), "handler error should propagate") {
		return
	}
}
