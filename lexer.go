package xenon

import (
	"bytes"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lestrrat-go/strcursor"
	"github.com/xenon-xml/xenon/encoding"
	"github.com/xenon-xml/xenon/internal/debug"
)

// MaxNameLength bounds a single XML name.
const MaxNameLength = 50000

const (
	encNone    = ""
	encUTF8    = "utf8"
	encUTF16LE = "utf16le"
	encUTF16BE = "utf16be"
)

var (
	patUTF16LE4B    = []byte{0x3C, 0x00, 0x3F, 0x00}
	patUTF16BE4B    = []byte{0x00, 0x3C, 0x00, 0x3F}
	patUTF8         = []byte{0xEF, 0xBB, 0xBF}
	patUTF16LE2B    = []byte{0xFF, 0xFE}
	patUTF16BE2B    = []byte{0xFE, 0xFF}
	patMaybeXMLDecl = []byte{0x3C, 0x3F, 0x78, 0x6D}
)

var ErrDTDUnsupported = errors.New("DTD markup is not supported")

// Lexer converts one in-memory XML document into a stream of Tokens.
// It makes a single forward pass over the input; call NextToken until
// it returns a TokenEOF token. A Lexer belongs to exactly one parse.
type Lexer struct {
	cursor     *strcursor.Cursor
	version    string
	encoding   string
	standalone DocumentStandaloneType
}

// NewLexer prepares a lexer over b. Encoding is detected from the BOM
// or the XML declaration, the input is transcoded to UTF-8 if needed,
// and the XML declaration (if present) is consumed here so that the
// first NextToken call already yields document content.
func NewLexer(b []byte) (*Lexer, error) {
	l := &Lexer{
		version:    "1.0",
		standalone: StandaloneNoXMLDecl,
	}

	enc, rest := sniffEncoding(b)
	if enc != encNone && enc != encUTF8 {
		decoded, err := decodeAll(enc, rest)
		if err != nil {
			return nil, err
		}
		rest = decoded
	}
	l.cursor = strcursor.New(rest)

	if l.curHasPrefix("<?xml") && isBlankCh(l.curPeek(6)) {
		declEncoding, err := l.parseXMLDecl()
		if err != nil {
			return nil, err
		}
		// A declared encoding only matters when the BOM did not
		// already force a transcode.
		if declEncoding != "" && enc == encNone {
			l.encoding = declEncoding
			if !strings.EqualFold(declEncoding, "utf-8") {
				decoded, err := decodeAll(declEncoding, l.cursor.Bytes())
				if err != nil {
					return nil, err
				}
				l.cursor = strcursor.New(decoded)
			}
		}
	}
	return l, nil
}

// Version reports the version from the XML declaration, or "1.0".
func (l *Lexer) Version() string {
	return l.version
}

// Encoding reports the encoding named in the XML declaration, if any.
func (l *Lexer) Encoding() string {
	return l.encoding
}

// Standalone reports the standalone pseudo-attribute of the XML
// declaration.
func (l *Lexer) Standalone() DocumentStandaloneType {
	return l.standalone
}

// sniffEncoding recognizes the byte order marks and first-byte
// patterns the library can actually decode. The returned slice has the
// BOM stripped.
func sniffEncoding(b []byte) (string, []byte) {
	if len(b) >= 4 {
		switch {
		case bytes.Equal(b[:4], patMaybeXMLDecl):
			// no BOM, plain "<?xm": leave the bytes alone and let the
			// declaration name the encoding
			return encNone, b
		case bytes.Equal(b[:4], patUTF16LE4B):
			return encUTF16LE, b
		case bytes.Equal(b[:4], patUTF16BE4B):
			return encUTF16BE, b
		}
	}
	if len(b) >= 3 && bytes.Equal(b[:3], patUTF8) {
		return encUTF8, b[3:]
	}
	if len(b) >= 2 {
		switch {
		case bytes.Equal(b[:2], patUTF16BE2B):
			return encUTF16BE, b[2:]
		case bytes.Equal(b[:2], patUTF16LE2B):
			return encUTF16LE, b[2:]
		}
	}
	return encNone, b
}

func decodeAll(name string, b []byte) ([]byte, error) {
	e := encoding.Load(name)
	if e == nil {
		return nil, errors.New("encoding '" + name + "' not supported")
	}
	return e.NewDecoder().Bytes(b)
}

func (l *Lexer) error(err error) error {
	// If it's wrapped, just return as is
	if pe := (ErrParseError{}); errors.As(err, &pe) {
		return err
	}

	return ErrParseError{
		Kind:       kindOf(err),
		Err:        err,
		Byte:       l.cursor.OffsetBytes(),
		Column:     l.cursor.Column(),
		Line:       l.cursor.CurrentLine(),
		LineNumber: l.cursor.LineNumber(),
	}
}

func (l *Lexer) curHasChars(n int) bool {
	return l.cursor.HasChars(n)
}

func (l *Lexer) curDone() bool {
	return l.cursor.Done()
}

func (l *Lexer) curAdvance(n int) {
	l.cursor.Advance(n)
}

func (l *Lexer) curPeek(n int) rune {
	return l.cursor.Peek(n)
}

func (l *Lexer) curConsume(n int) string {
	return l.cursor.Consume(n)
}

func (l *Lexer) curConsumePrefix(s string) bool {
	return l.cursor.ConsumePrefix(s)
}

func (l *Lexer) curHasPrefix(s string) bool {
	return l.cursor.HasPrefix(s)
}

func isBlankCh(c rune) bool {
	return c == 0x20 || (0x9 <= c && c <= 0xa) || c == 0xd
}

func isChar(r rune) bool {
	if r == utf8.RuneError {
		return false
	}

	c := uint32(r)
	if c < 0x100 {
		return (0x9 <= c && c <= 0xa) || c == 0xd || 0x20 <= c
	}
	return (0x100 <= c && c <= 0xd7ff) || (0xe000 <= c && c <= 0xfffd) || (0x10000 <= c && c <= 0x10ffff)
}

func isNameStartChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return r == '.' || r == '-' || r == '_' ||
		unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.In(r, unicode.Extender)
}

func (l *Lexer) skipBlanks() {
	i := 1
	for ; l.curHasChars(i); i++ {
		if !isBlankCh(l.curPeek(i)) {
			break
		}
	}
	i--
	if i > 0 {
		l.curAdvance(i)
	}
}

// NextToken returns the next low-level token. After the input is
// exhausted it keeps returning a token with Kind TokenEOF.
func (l *Lexer) NextToken() (Token, error) {
	if l.curDone() {
		return Token{Kind: TokenEOF}, nil
	}

	switch {
	case l.curHasPrefix("</"):
		return l.scanEndTag()
	case l.curHasPrefix("<!--"):
		return l.scanComment()
	case l.curHasPrefix("<![CDATA["):
		return l.scanCDATA()
	case l.curHasPrefix("<!"):
		return Token{}, l.error(ErrDTDUnsupported)
	case l.curHasPrefix("<?"):
		return l.scanPI()
	case l.curPeek(1) == '<':
		return l.scanStartTag()
	}
	return l.scanText()
}

/*
 * parse an XML name.
 *
 * [4NS] NCNameChar ::= Letter | Digit | '.' | '-' | '_' |
 *                      CombiningChar | Extender
 *
 * [5NS] NCName ::= (Letter | '_') (NCNameChar)*
 */
func (l *Lexer) parseNCName() (string, error) {
	if !isNameStartChar(l.curPeek(1)) {
		return "", l.error(ErrNameRequired)
	}

	i := 2
	for ; l.curHasChars(i); i++ {
		if !isNameChar(l.curPeek(i)) {
			break
		}
	}
	i--
	if i > MaxNameLength {
		return "", l.error(ErrNameTooLong)
	}

	return l.curConsume(i), nil
}

/*
 * parse an XML Namespace QName
 *
 * [6]  QName  ::= (Prefix ':')? LocalPart
 * [7]  Prefix  ::= NCName
 * [8]  LocalPart  ::= NCName
 */
func (l *Lexer) parseQName() (QName, error) {
	v, err := l.parseNCName()
	if err != nil {
		return QName{}, err
	}

	if l.curPeek(1) != ':' {
		return QName{Local: v}, nil
	}
	l.curAdvance(1)

	local, err := l.parseNCName()
	if err != nil {
		return QName{}, err
	}
	if l.curPeek(1) == ':' {
		return QName{}, l.error(errors.New("invalid QName: more than one colon"))
	}
	return QName{Prefix: v, Local: local}, nil
}

/*
 * parse a character reference.
 *
 * [66] CharRef ::= '&#' [0-9]+ ';' |
 *                  '&#x' [0-9a-fA-F]+ ';'
 */
func (l *Lexer) parseCharRef() (rune, error) {
	// The accumulator is wider than a rune and checked after every
	// digit, so a reference cannot wrap around into the valid range.
	var val int64
	if l.curConsumePrefix("&#x") {
		ndigits := 0
		for l.curHasChars(1) && l.curPeek(1) != ';' {
			c := l.curPeek(1)
			switch {
			case c >= '0' && c <= '9':
				val = val*16 + int64(c-'0')
			case c >= 'a' && c <= 'f':
				val = val*16 + int64(c-'a') + 10
			case c >= 'A' && c <= 'F':
				val = val*16 + int64(c-'A') + 10
			default:
				return utf8.RuneError, ErrInvalidCharRef
			}
			if val > unicode.MaxRune {
				return utf8.RuneError, ErrInvalidCharRef
			}
			ndigits++
			l.curAdvance(1)
		}
		if ndigits == 0 || !l.curConsumePrefix(";") {
			return utf8.RuneError, ErrInvalidCharRef
		}
	} else if l.curConsumePrefix("&#") {
		ndigits := 0
		for l.curHasChars(1) && l.curPeek(1) != ';' {
			c := l.curPeek(1)
			if c < '0' || c > '9' {
				return utf8.RuneError, ErrInvalidCharRef
			}
			val = val*10 + int64(c-'0')
			if val > unicode.MaxRune {
				return utf8.RuneError, ErrInvalidCharRef
			}
			ndigits++
			l.curAdvance(1)
		}
		if ndigits == 0 || !l.curConsumePrefix(";") {
			return utf8.RuneError, ErrInvalidCharRef
		}
	} else {
		return utf8.RuneError, ErrInvalidCharRef
	}

	if r := rune(val); isChar(r) {
		return r, nil
	}
	return utf8.RuneError, ErrInvalidCharRef
}

// parseReference expands a single '&...;' reference in text or
// attribute-value context. Only the five predefined entities and
// numeric character references exist; anything else is fatal.
func (l *Lexer) parseReference() (string, error) {
	if l.curPeek(2) == '#' {
		r, err := l.parseCharRef()
		if err != nil {
			return "", l.error(err)
		}
		return string(r), nil
	}

	l.curAdvance(1) // consume '&'
	name, err := l.parseNCName()
	if err != nil {
		return "", l.error(ErrNameRequired)
	}
	if l.curPeek(1) != ';' {
		return "", l.error(ErrSemicolonRequired)
	}
	l.curAdvance(1)

	switch name {
	case "lt":
		return "<", nil
	case "gt":
		return ">", nil
	case "amp":
		return "&", nil
	case "apos":
		return "'", nil
	case "quot":
		return `"`, nil
	}
	return "", l.error(ErrUnknownEntity{Name: name})
}

/*
 * parse a CharData section outside of markup.
 *
 * [14] CharData ::= [^<&]* - ([^<&]* ']]>' [^<&]*)
 *
 * Leading and trailing whitespace is preserved verbatim; trimming is a
 * caller-level policy, not ours.
 */
func (l *Lexer) scanText() (Token, error) {
	var buf strings.Builder
	for !l.curDone() {
		c := l.curPeek(1)
		if c == '<' {
			break
		}
		if c == '&' {
			s, err := l.parseReference()
			if err != nil {
				return Token{}, err
			}
			buf.WriteString(s)
			continue
		}

		i := 1
		for ; l.curHasChars(i); i++ {
			c = l.curPeek(i)
			if c == '<' || c == '&' {
				break
			}
			if !isChar(c) {
				return Token{}, l.error(ErrInvalidChar)
			}
			if c == ']' && l.curPeek(i+1) == ']' && l.curPeek(i+2) == '>' {
				return Token{}, l.error(ErrMisplacedCDATAEnd)
			}
		}
		i--
		if i > 0 {
			buf.WriteString(l.curConsume(i))
		}
	}

	str := normalizeLineEndings(buf.String())
	if debug.Enabled {
		debug.Printf("text token '%s'", str)
	}
	return Token{Kind: TokenText, Data: str}, nil
}

// normalizeLineEndings maps "\r\n" and a lone "\r" to "\n", per the
// end-of-line handling rules of XML 1.0.
func normalizeLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// scanStartTag scans '<name attr="value" ...>' and '<name .../>'.
func (l *Lexer) scanStartTag() (Token, error) {
	if l.curPeek(1) != '<' {
		return Token{}, l.error(ErrStartTagRequired)
	}
	l.curAdvance(1)

	name, err := l.parseQName()
	if err != nil {
		return Token{}, err
	}

	tok := Token{Kind: TokenStartTag, Name: name}
	sawBlank := true
	for {
		if l.curDone() {
			return Token{}, l.error(ErrPrematureEOF)
		}
		if l.curPeek(1) == '>' {
			l.curAdvance(1)
			break
		}
		if l.curHasPrefix("/>") {
			l.curAdvance(2)
			tok.Kind = TokenEmptyTag
			break
		}
		if isBlankCh(l.curPeek(1)) {
			l.skipBlanks()
			sawBlank = true
			continue
		}
		if !sawBlank {
			return Token{}, l.error(ErrSpaceRequired)
		}
		sawBlank = false

		attr, err := l.scanAttribute()
		if err != nil {
			return Token{}, err
		}
		tok.Attr = append(tok.Attr, attr)
	}

	if debug.Enabled {
		debug.Printf("start tag token <%s> (%d attributes)", tok.Name, len(tok.Attr))
	}
	return tok, nil
}

// scanAttribute scans one name = quoted-value pair. The quote
// character must match on both ends; entities and character references
// inside the value are expanded, markup is not.
func (l *Lexer) scanAttribute() (TokenAttr, error) {
	name, err := l.parseQName()
	if err != nil {
		return TokenAttr{}, err
	}

	l.skipBlanks()
	if l.curPeek(1) != '=' {
		return TokenAttr{}, l.error(ErrEqualSignRequired)
	}
	l.curAdvance(1)
	l.skipBlanks()

	q := l.curPeek(1)
	if q != '"' && q != '\'' {
		return TokenAttr{}, l.error(ErrAttrValueRequired)
	}
	l.curAdvance(1)

	var buf strings.Builder
	for {
		if l.curDone() {
			return TokenAttr{}, l.error(errors.New("attribute value not closed"))
		}
		c := l.curPeek(1)
		if c == q {
			l.curAdvance(1)
			break
		}
		switch c {
		case '<':
			return TokenAttr{}, l.error(errors.New("'<' not allowed in attribute value"))
		case '&':
			s, err := l.parseReference()
			if err != nil {
				return TokenAttr{}, err
			}
			buf.WriteString(s)
		default:
			i := 1
			for ; l.curHasChars(i); i++ {
				c = l.curPeek(i)
				if c == q || c == '&' || c == '<' {
					break
				}
			}
			i--
			buf.WriteString(l.curConsume(i))
		}
	}

	return TokenAttr{Name: name, Value: buf.String()}, nil
}

/*
 * parse an end of tag
 *
 * [42] ETag ::= '</' Name S? '>'
 *
 * With namespace
 *
 * [NS 9] ETag ::= '</' QName S? '>'
 */
func (l *Lexer) scanEndTag() (Token, error) {
	if !l.curConsumePrefix("</") {
		return Token{}, l.error(ErrLtSlashRequired)
	}

	name, err := l.parseQName()
	if err != nil {
		return Token{}, err
	}
	l.skipBlanks()
	if l.curPeek(1) != '>' {
		return Token{}, l.error(ErrGtRequired)
	}
	l.curAdvance(1)

	return Token{Kind: TokenEndTag, Name: name}, nil
}

// scanCDATA scans '<![CDATA[...]]>'. The content is taken verbatim,
// byte for byte; the section ends at the first ']]>' regardless of any
// ']' runs before it.
func (l *Lexer) scanCDATA() (Token, error) {
	if !l.curConsumePrefix("<![CDATA[") {
		return Token{}, l.error(ErrInvalidCDSect)
	}

	i := 1
	for ; l.curHasChars(i); i++ {
		c := l.curPeek(i)
		if c == ']' && l.curPeek(i+1) == ']' && l.curPeek(i+2) == '>' {
			i--
			var content string
			if i > 0 {
				content = l.curConsume(i)
			}
			l.curAdvance(3)
			return Token{Kind: TokenCData, Data: content}, nil
		}
		if !isChar(c) {
			return Token{}, l.error(ErrInvalidChar)
		}
	}
	return Token{}, l.error(ErrCDATANotFinished)
}

// scanComment scans '<!--...-->'.
func (l *Lexer) scanComment() (Token, error) {
	if !l.curConsumePrefix("<!--") {
		return Token{}, l.error(ErrInvalidComment)
	}

	i := 1
	for ; l.curHasChars(i); i++ {
		c := l.curPeek(i)
		if !isChar(c) {
			return Token{}, l.error(ErrInvalidChar)
		}
		if c == '-' && l.curPeek(i+1) == '-' {
			if l.curPeek(i+2) != '>' {
				return Token{}, l.error(ErrHyphenInComment)
			}
			i--
			var content string
			if i > 0 {
				content = l.curConsume(i)
			}
			l.curAdvance(3)
			content = normalizeLineEndings(content)
			return Token{Kind: TokenComment, Data: content}, nil
		}
	}
	return Token{}, l.error(ErrCommentNotFinished)
}

// scanPI scans '<?target data?>'. The XML declaration is not a PI and
// was consumed by NewLexer; a later '<?xml' is an error.
func (l *Lexer) scanPI() (Token, error) {
	if !l.curConsumePrefix("<?") {
		return Token{}, l.error(ErrInvalidPI)
	}

	target, err := l.parseNCName()
	if err != nil {
		return Token{}, l.error(ErrInvalidPI)
	}
	if strings.EqualFold(target, "xml") {
		return Token{}, l.error(errors.New("XML declaration allowed only at the start of the document"))
	}

	if l.curConsumePrefix("?>") {
		return Token{Kind: TokenPI, Target: target}, nil
	}
	if !isBlankCh(l.curPeek(1)) {
		return Token{}, l.error(ErrSpaceRequired)
	}
	l.skipBlanks()

	i := 1
	for ; l.curHasChars(i); i++ {
		c := l.curPeek(i)
		if c == '?' && l.curPeek(i+1) == '>' {
			i--
			var data string
			if i > 0 {
				data = l.curConsume(i)
			}
			l.curAdvance(2)
			return Token{Kind: TokenPI, Target: target, Data: data}, nil
		}
		if !isChar(c) {
			return Token{}, l.error(ErrInvalidChar)
		}
	}
	return Token{}, l.error(ErrInvalidPI)
}

// parseXMLDecl consumes '<?xml version="1.0" ...?>' and returns the
// declared encoding name, if any.
func (l *Lexer) parseXMLDecl() (string, error) {
	if !l.curConsumePrefix("<?xml") {
		return "", l.error(ErrInvalidXMLDecl)
	}
	if !isBlankCh(l.curPeek(1)) {
		return "", l.error(ErrSpaceRequired)
	}
	l.standalone = StandaloneImplicitNo

	v, err := l.parseNamedAttribute("version", l.parseVersionNum)
	if err != nil {
		return "", err
	}
	l.version = v

	var declEncoding string
	l.skipBlanks()
	if l.curConsumePrefix("?>") {
		return "", nil
	}

	if l.curHasPrefix("encoding") {
		declEncoding, err = l.parseNamedAttribute("encoding", l.parseEncodingName)
		if err != nil {
			return "", err
		}
		l.encoding = declEncoding
		l.skipBlanks()
		if l.curConsumePrefix("?>") {
			return declEncoding, nil
		}
	}

	if l.curHasPrefix("standalone") {
		v, err = l.parseNamedAttribute("standalone", l.parseStandaloneDeclValue)
		if err != nil {
			return "", err
		}
		if v == "yes" {
			l.standalone = StandaloneExplicitYes
		} else {
			l.standalone = StandaloneExplicitNo
		}
		l.skipBlanks()
		if l.curConsumePrefix("?>") {
			return declEncoding, nil
		}
	}

	return "", l.error(ErrInvalidXMLDecl)
}

type qtextHandler func(qch rune) (string, error)

func (l *Lexer) parseNamedAttribute(name string, cb qtextHandler) (string, error) {
	l.skipBlanks()
	if !l.curConsumePrefix(name) {
		return "", l.error(errors.New("attribute token '" + name + "' not found"))
	}

	l.skipBlanks()
	if l.curPeek(1) != '=' {
		return "", l.error(ErrEqualSignRequired)
	}
	l.curAdvance(1)
	l.skipBlanks()
	return l.parseQuotedText(cb)
}

func (l *Lexer) parseQuotedText(cb qtextHandler) (string, error) {
	q := l.curPeek(1)
	switch q {
	case '"', '\'':
		l.curAdvance(1)
	default:
		return "", l.error(errors.New("string not started (got '" + string([]rune{q}) + "')"))
	}

	v, err := cb(q)
	if err != nil {
		return "", err
	}

	if l.curPeek(1) != q {
		return "", l.error(errors.New("string not closed"))
	}
	l.curAdvance(1)

	return v, nil
}

/*
 * parse the XML version value.
 *
 * [26] VersionNum ::= '1.' [0-9]+
 *
 * In practice allow [0-9].[0-9]+ at that level
 */
func (l *Lexer) parseVersionNum(_ rune) (string, error) {
	if v := l.curPeek(1); v > '9' || v < '0' {
		return "", l.error(ErrInvalidVersionNum)
	}
	if v := l.curPeek(2); v != '.' {
		return "", l.error(ErrInvalidVersionNum)
	}
	if v := l.curPeek(3); v > '9' || v < '0' {
		return "", l.error(ErrInvalidVersionNum)
	}

	i := 4
	for ; l.curHasChars(i); i++ {
		if v := l.curPeek(i); v > '9' || v < '0' {
			break
		}
	}
	i--
	return l.curConsume(i), nil
}

func (l *Lexer) parseEncodingName(_ rune) (string, error) {
	c := l.curPeek(1)

	// first char needs to be alphabets
	if !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') {
		return "", l.error(ErrInvalidEncodingName)
	}

	i := 2
	for ; l.curHasChars(i); i++ {
		c = l.curPeek(i)
		if !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') && c != '.' && c != '_' && c != '-' {
			break
		}
	}
	i--
	return l.curConsume(i), nil
}

func (l *Lexer) parseStandaloneDeclValue(_ rune) (string, error) {
	if l.curConsumePrefix("yes") {
		return "yes", nil
	}
	if l.curConsumePrefix("no") {
		return "no", nil
	}
	return "", l.error(errors.New("invalid standalone declaration"))
}
