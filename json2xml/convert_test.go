package json2xml

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertFormatted(t *testing.T) {
	src := `{
  "name": "test",
  "count": 3,
  "enabled": true,
  "ratio": 1.5,
  "note": null,
  "tags": ["a", "b"],
  "empty": "",
  "markup": "<b>]]> ok",
  "child": {"x": 1}
}`
	expected := strings.Join([]string{
		`<?xml version="1.0" encoding="utf-8"?>`,
		`<root>`,
		`    <name type="string">test</name>`,
		`    <count type="int">3</count>`,
		`    <enabled type="boolean">true</enabled>`,
		`    <ratio type="float">1.5</ratio>`,
		`    <note type="null">null</note>`,
		`    <tags>`,
		`        <li type="string">a</li>`,
		`        <li type="string">b</li>`,
		`    </tags>`,
		`    <empty type="string"/>`,
		`    <markup type="string"><![CDATA[<b>]]]]><![CDATA[> ok]]></markup>`,
		`    <child>`,
		`        <x type="int">1</x>`,
		`    </child>`,
		`</root>`,
		``,
	}, "\n")

	var buf bytes.Buffer
	err := Convert(&buf, strings.NewReader(src), WithIndent(true))
	if !assert.NoError(t, err, "convert should succeed") {
		return
	}
	if !assert.Equal(t, expected, buf.String(), "output should match") {
		return
	}
}

func TestConvertCompact(t *testing.T) {
	var buf bytes.Buffer
	err := Convert(&buf, strings.NewReader(`{"a":[1,"x"],"b":""}`))
	if !assert.NoError(t, err, "convert should succeed") {
		return
	}
	expected := `<?xml version="1.0" encoding="utf-8"?>` + "\n<root>\n" +
		`<a><li type="int">1</li><li type="string">x</li></a><b type="string"/>` +
		"</root>\n"
	if !assert.Equal(t, expected, buf.String(), "output should match") {
		return
	}
}

func TestConvertUntyped(t *testing.T) {
	var buf bytes.Buffer
	err := Convert(&buf, strings.NewReader(`{"a":[1,"x"],"b":""}`), WithTypeAttributes(false))
	if !assert.NoError(t, err, "convert should succeed") {
		return
	}
	expected := `<?xml version="1.0" encoding="utf-8"?>` + "\n<root>\n" +
		`<a><li>1</li><li>x</li></a><b/>` +
		"</root>\n"
	if !assert.Equal(t, expected, buf.String(), "output should match") {
		return
	}
}

func TestConvertTopLevelScalar(t *testing.T) {
	var buf bytes.Buffer
	err := Convert(&buf, strings.NewReader(`42`))
	if !assert.True(t, errors.Is(err, ErrNoEnclosingElement), "scalar root should be rejected") {
		return
	}
}

func TestEscapeValue(t *testing.T) {
	cases := []struct {
		src      string
		expected string
	}{
		{"plain", "plain"},
		{"a < b", "<![CDATA[a < b]]>"},
		{"x & y", "<![CDATA[x & y]]>"},
		{`say "hi"`, `<![CDATA[say "hi"]]>`},
		{"a ]]> b <i>", "<![CDATA[a ]]]]><![CDATA[> b <i>]]>"},
	}
	for _, c := range cases {
		if !assert.Equal(t, c.expected, escapeValue(c.src), "escape of %q", c.src) {
			return
		}
	}
}
