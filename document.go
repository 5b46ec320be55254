package xenon

// Document is the finished result of a parse: the root element plus
// any prolog and epilogue comments and processing instructions. It
// owns its whole node tree by strict containment and is immutable once
// Parse has returned it.
type Document struct {
	docnode
	version    string
	encoding   string
	standalone DocumentStandaloneType
	root       *Element
}

func newDocument(version, encoding string, standalone DocumentStandaloneType) *Document {
	doc := &Document{
		version:    version,
		encoding:   encoding,
		standalone: standalone,
	}
	doc.typ = DocumentNode
	return doc
}

// Root returns the document's single root element.
func (d *Document) Root() *Element {
	return d.root
}

// Version returns the version from the XML declaration, or "1.0" if
// the document had none.
func (d *Document) Version() string {
	return d.version
}

// Encoding returns the encoding named in the XML declaration, or "".
func (d *Document) Encoding() string {
	return d.encoding
}

// Standalone reports the standalone pseudo-attribute of the XML
// declaration.
func (d *Document) Standalone() DocumentStandaloneType {
	return d.standalone
}
