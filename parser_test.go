package xenon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configSrc = `<?xml version="1.0" encoding="UTF-8"?>
<!-- deployment descriptor -->
<configuration xmlns:configGlossary="urn:example:glossary">
    <configGlossary:installationAt type="string">Philadelphia, PA</configGlossary:installationAt>
    <cachePagesTrack type="int">200</cachePagesTrack>
    <useJSP type="boolean">false</useJSP>
    <templateOverridePath type="string"/>
    <dataStoreTestQuery><![CDATA[SET NOCOUNT ON;select test='test';]]></dataStoreTestQuery>
</configuration>
`

func TestParseConfigDocument(t *testing.T) {
	doc, err := parseString(t, configSrc)
	if !assert.NoError(t, err, "parse should succeed") {
		return
	}
	if !assert.Equal(t, "1.0", doc.Version(), "version from the declaration") {
		return
	}
	if !assert.Equal(t, "UTF-8", doc.Encoding(), "encoding from the declaration") {
		return
	}

	root := doc.Root()
	require.NotNil(t, root, "document must have a root")
	if !assert.Equal(t, "configuration", root.LocalName(), "root name") {
		return
	}

	children := root.Elements()
	require.Len(t, children, 5, "five child elements")

	install := children[0]
	if !assert.Equal(t, ResolvedName{Local: "installationAt", URI: "urn:example:glossary"}, install.Name(), "prefixed name should resolve") {
		return
	}
	if !assert.Equal(t, "Philadelphia, PA", string(install.Content()), "text content") {
		return
	}

	track := children[1]
	attrs := track.Attributes()
	require.Len(t, attrs, 1, "exactly one attribute")
	if !assert.Equal(t, ResolvedName{Local: "type"}, attrs[0].Name(), "attribute name") {
		return
	}
	if !assert.Equal(t, "int", attrs[0].Value(), "attribute value") {
		return
	}
	if !assert.Equal(t, "200", string(track.Content()), "text child content") {
		return
	}
	tn := track.FirstChild()
	require.NotNil(t, tn, "one text child")
	if !assert.Equal(t, TextNode, tn.Type(), "child is a text node") {
		return
	}
	if !assert.Nil(t, tn.NextSibling(), "no further children") {
		return
	}

	query := children[4]
	cd := query.FirstChild()
	require.NotNil(t, cd, "one CDATA child")
	if !assert.Equal(t, CDATASectionNode, cd.Type(), "child is a CDATA node") {
		return
	}
	if !assert.Equal(t, `SET NOCOUNT ON;select test='test';`, string(cd.Content()), "CDATA content is literal") {
		return
	}
}

func TestParseEmptyElementEquivalence(t *testing.T) {
	short, err := parseString(t, `<r><templateOverridePath type="string"/></r>`)
	if !assert.NoError(t, err, "parse should succeed") {
		return
	}
	long, err := parseString(t, `<r><templateOverridePath type="string"></templateOverridePath></r>`)
	if !assert.NoError(t, err, "parse should succeed") {
		return
	}

	for _, doc := range []*Document{short, long} {
		e := doc.Root().Elements()[0]
		if !assert.Nil(t, e.FirstChild(), "no children") {
			return
		}
		v, ok := e.AttributeValue("", "type")
		if !assert.True(t, ok, "attribute present") {
			return
		}
		if !assert.Equal(t, "string", v, "attribute value") {
			return
		}
	}
}

func TestParseAttributeOrder(t *testing.T) {
	doc, err := parseString(t, `<r c="3" a="1" b="2"/>`)
	if !assert.NoError(t, err, "parse should succeed") {
		return
	}
	var names []string
	for _, a := range doc.Root().Attributes() {
		names = append(names, a.Name().Local)
	}
	if !assert.Equal(t, []string{"c", "a", "b"}, names, "iteration order is source order") {
		return
	}
}

func TestParseDuplicateAttribute(t *testing.T) {
	_, err := parseString(t, `<r a="1" a="2"/>`)
	var dup ErrDuplicateAttribute
	if !assert.True(t, errors.As(err, &dup), "duplicate attribute should be fatal") {
		return
	}
	if !assert.Equal(t, "a", dup.Name.Local, "offending name should be reported") {
		return
	}
}

func TestParseMultipleRoots(t *testing.T) {
	_, err := parseString(t, `<a/><b/>`)
	if !assert.True(t, errors.Is(err, ErrMultipleRoots), "two top-level elements should be fatal") {
		return
	}
	var pe ErrParseError
	if !assert.True(t, errors.As(err, &pe), "error should carry a position") {
		return
	}
	if !assert.Equal(t, StructuralError, pe.Kind, "kind should be structural") {
		return
	}
}

func TestParseTagNameMismatch(t *testing.T) {
	_, err := parseString(t, `<a></b>`)
	var mm ErrTagNameMismatch
	if !assert.True(t, errors.As(err, &mm), "mismatched end tag should be fatal") {
		return
	}
	if !assert.Equal(t, "a", mm.Expected.Local, "open element should be named") {
		return
	}
	if !assert.Equal(t, "b", mm.Actual.Local, "closing tag should be named") {
		return
	}
}

func TestParseUnclosedElement(t *testing.T) {
	_, err := parseString(t, `<a><b>`)
	var ue ErrUnclosedElement
	if !assert.True(t, errors.As(err, &ue), "EOF with open elements should be fatal") {
		return
	}
	if !assert.Equal(t, "b", ue.Name.Local, "innermost unclosed element should be named") {
		return
	}
}

func TestParseStrayEndTag(t *testing.T) {
	_, err := parseString(t, `<a/></a>`)
	if !assert.True(t, errors.Is(err, ErrDocumentEnd), "end tag with nothing open should be fatal") {
		return
	}
}

func TestParseContentOutsideRoot(t *testing.T) {
	_, err := parseString(t, `<a/>junk`)
	if !assert.True(t, errors.Is(err, ErrContentOutsideRoot), "text after the root should be fatal") {
		return
	}

	_, err = parseString(t, `junk<a/>`)
	if !assert.True(t, errors.Is(err, ErrContentOutsideRoot), "text before the root should be fatal") {
		return
	}

	_, err = parseString(t, `<a/><![CDATA[x]]>`)
	if !assert.True(t, errors.Is(err, ErrContentOutsideRoot), "CDATA outside the root should be fatal even if blank") {
		return
	}

	// Whitespace, comments and PIs around the root are fine.
	doc, err := parseString(t, "\n<!-- before -->\n<?pi data?>\n<a/>\n<!-- after -->\n")
	if !assert.NoError(t, err, "misc content around the root is allowed") {
		return
	}
	if !assert.Equal(t, "a", doc.Root().LocalName(), "root should be found") {
		return
	}
}

func TestParseNoRoot(t *testing.T) {
	for _, src := range []string{"", "   \n  ", "<!-- only a comment -->"} {
		_, err := parseString(t, src)
		if !assert.True(t, errors.Is(err, ErrNoRoot), "%q has no root element", src) {
			return
		}
	}
}

func TestParseTextCoalescing(t *testing.T) {
	doc, err := parseString(t, `<r>a&amp;b</r>`)
	if !assert.NoError(t, err, "parse should succeed") {
		return
	}
	root := doc.Root()
	first := root.FirstChild()
	require.NotNil(t, first, "one child")
	if !assert.Nil(t, first.NextSibling(), "entity expansion must not split the text run") {
		return
	}
	if !assert.Equal(t, "a&b", string(first.Content()), "text content") {
		return
	}
}

func TestParseCDATANotMerged(t *testing.T) {
	doc, err := parseString(t, `<r>a<![CDATA[b]]>c</r>`)
	if !assert.NoError(t, err, "parse should succeed") {
		return
	}
	root := doc.Root()

	var types []NodeType
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		types = append(types, n.Type())
	}
	if !assert.Equal(t, []NodeType{TextNode, CDATASectionNode, TextNode}, types, "CDATA stays a distinct node") {
		return
	}
	if !assert.Equal(t, "abc", string(root.Content()), "content concatenates in document order") {
		return
	}
}

func TestParseContentSkipsCommentsAndPIs(t *testing.T) {
	doc, err := parseString(t, `<r>a<!-- x -->b<?pi y?>c</r>`)
	if !assert.NoError(t, err, "parse should succeed") {
		return
	}
	if !assert.Equal(t, "abc", string(doc.Root().Content()), "comments and PIs contribute no content") {
		return
	}
}

func TestParseDepthLimit(t *testing.T) {
	deep := ""
	for i := 0; i < 10; i++ {
		deep += "<d>"
	}
	for i := 0; i < 10; i++ {
		deep += "</d>"
	}

	_, err := parseString(t, deep, WithMaxDepth(5))
	var de ErrDepthExceeded
	if !assert.True(t, errors.As(err, &de), "nesting past the limit should be fatal") {
		return
	}
	if !assert.Equal(t, 5, de.Limit, "limit should be reported") {
		return
	}

	_, err = parseString(t, deep, WithMaxDepth(10))
	if !assert.NoError(t, err, "nesting at the limit is fine") {
		return
	}
}

func TestParseContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, []byte(`<r/>`))
	if !assert.True(t, errors.Is(err, context.Canceled), "canceled context should abort the parse") {
		return
	}
}

func TestParserReuse(t *testing.T) {
	p := NewParser(WithLenientNamespaces(true))

	doc, err := p.Parse(context.Background(), []byte(`<foo:r/>`))
	if !assert.NoError(t, err, "constructor options apply to every parse") {
		return
	}
	if !assert.Equal(t, "foo:r", doc.Root().LocalName(), "lenient fallback") {
		return
	}

	_, err = p.Parse(context.Background(), []byte(`<foo:r/>`), WithLenientNamespaces(false))
	if !assert.Error(t, err, "per-call options override the defaults") {
		return
	}
}

func TestParseUTF16(t *testing.T) {
	src := `<r a="1">x</r>`
	b := []byte{0xFF, 0xFE}
	for _, c := range []byte(src) {
		b = append(b, c, 0x00)
	}

	doc, err := Parse(context.Background(), b)
	if !assert.NoError(t, err, "UTF-16LE input with BOM should be decoded") {
		return
	}
	if !assert.Equal(t, "x", string(doc.Root().Content()), "content should survive transcoding") {
		return
	}
}

func TestParseDeclaredEncoding(t *testing.T) {
	src := []byte(`<?xml version="1.0" encoding="ISO-8859-1"?><r a="`)
	src = append(src, 0xE9) // é in latin-1
	src = append(src, []byte(`"/>`)...)

	doc, err := Parse(context.Background(), src)
	if !assert.NoError(t, err, "declared encoding should drive transcoding") {
		return
	}
	v, ok := doc.Root().AttributeValue("", "a")
	if !assert.True(t, ok, "attribute present") {
		return
	}
	if !assert.Equal(t, "é", v, "byte 0xE9 should decode to U+00E9") {
		return
	}
}

func TestParsePIOutsideRoot(t *testing.T) {
	doc, err := parseString(t, `<?target some data?><r/>`)
	if !assert.NoError(t, err, "parse should succeed") {
		return
	}
	pi := doc.FirstChild()
	require.NotNil(t, pi, "PI should be attached to the document")
	if !assert.Equal(t, ProcessingInstructionNode, pi.Type(), "first document child is the PI") {
		return
	}
	if !assert.Equal(t, "target", pi.(*ProcessingInstruction).Target(), "PI target") {
		return
	}
	if !assert.Equal(t, "some data", pi.(*ProcessingInstruction).Data(), "PI data") {
		return
	}
}

func TestWalk(t *testing.T) {
	doc, err := parseString(t, `<r><a>x</a><b/></r>`)
	if !assert.NoError(t, err, "parse should succeed") {
		return
	}

	var count int
	err = Walk(doc, func(n Node) error {
		count++
		return nil
	})
	if !assert.NoError(t, err, "walk should succeed") {
		return
	}
	// document, r, a, text, b
	if !assert.Equal(t, 5, count, "all nodes visited once") {
		return
	}

	stop := errors.New("stop")
	err = Walk(doc, func(n Node) error {
		if n.Type() == TextNode {
			return stop
		}
		return nil
	})
	if !assert.True(t, errors.Is(err, stop), "walk stops on the first error") {
		return
	}
}

func TestParseStrictVsLenientFixture(t *testing.T) {
	src := `<configGlossary:installationAt type="string">Philadelphia, PA</configGlossary:installationAt>`

	_, err := parseString(t, src)
	var up ErrUndeclaredPrefix
	if !assert.True(t, errors.As(err, &up), "strict mode rejects the undeclared prefix") {
		return
	}

	doc, err := parseString(t, src, WithLenientNamespaces(true))
	if !assert.NoError(t, err, "lenient mode accepts it") {
		return
	}
	if !assert.Equal(t, "configGlossary:installationAt", doc.Root().LocalName(), "raw form kept as local name") {
		return
	}
}
