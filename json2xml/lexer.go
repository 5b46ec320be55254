package json2xml

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"
)

type tokenKind int

const (
	tokBeginObject tokenKind = iota
	tokEndObject
	tokBeginArray
	tokEndArray
	tokNameSep
	tokValueSep
	tokBoolean
	tokNull
	tokString
	tokInt
	tokFloat
)

type lexToken struct {
	kind tokenKind
	str  string
	b    bool
}

type lexer struct {
	r      *bufio.Reader
	line   int
	column int
}

func newLexer(r io.Reader) *lexer {
	return &lexer{r: bufio.NewReaderSize(r, 32*1024)}
}

func (l *lexer) errorf(format string, args ...interface{}) error {
	return &SyntaxError{
		Msg:    fmt.Sprintf(format, args...),
		Line:   l.line,
		Column: l.column,
	}
}

func (l *lexer) next() (byte, error) {
	b, err := l.r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	return b, nil
}

func (l *lexer) peekByte() (byte, bool) {
	b, err := l.r.ReadByte()
	if err != nil {
		return 0, false
	}
	_ = l.r.UnreadByte()
	return b, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// lex tokenizes the input and hands each token to emit along with the
// position of the byte that completed it. It returns on the first
// malformed token.
func (l *lexer) lex(emit func(tok lexToken, line, column int) error) error {
	for {
		b, err := l.next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var tok lexToken
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			tok = lexToken{kind: tokBeginObject}
		case '}':
			tok = lexToken{kind: tokEndObject}
		case '[':
			tok = lexToken{kind: tokBeginArray}
		case ']':
			tok = lexToken{kind: tokEndArray}
		case ':':
			tok = lexToken{kind: tokNameSep}
		case ',':
			tok = lexToken{kind: tokValueSep}
		case 't':
			if err := l.expectWord("true", "rue"); err != nil {
				return err
			}
			tok = lexToken{kind: tokBoolean, b: true}
		case 'f':
			if err := l.expectWord("false", "alse"); err != nil {
				return err
			}
			tok = lexToken{kind: tokBoolean}
		case 'n':
			if err := l.expectWord("null", "ull"); err != nil {
				return err
			}
			tok = lexToken{kind: tokNull}
		case '"':
			tok, err = l.scanString()
			if err != nil {
				return err
			}
		default:
			if b == '-' || isDigit(b) {
				tok, err = l.scanNumber(b)
				if err != nil {
					return err
				}
				break
			}
			return l.errorf("unexpected character %q", b)
		}

		if err := emit(tok, l.line, l.column); err != nil {
			return err
		}
	}
}

func (l *lexer) expectWord(word, rest string) error {
	for i := 0; i < len(rest); i++ {
		b, err := l.next()
		if err != nil || b != rest[i] {
			return l.errorf("expected keyword %q", word)
		}
	}
	return nil
}

func (l *lexer) scanString() (lexToken, error) {
	var buf []byte
	for {
		b, err := l.next()
		if err != nil {
			return lexToken{}, l.errorf("unterminated string %q", buf)
		}
		switch b {
		case '"':
			return lexToken{kind: tokString, str: string(buf)}, nil
		case '\\':
			b, err = l.next()
			if err != nil {
				return lexToken{}, l.errorf("unterminated string %q", buf)
			}
			switch b {
			case '"', '\\', '/':
				buf = append(buf, b)
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'u':
				r, err := l.scanUnicodeEscape()
				if err != nil {
					return lexToken{}, err
				}
				buf = utf8.AppendRune(buf, r)
			default:
				return lexToken{}, l.errorf("invalid escape character %q", b)
			}
		default:
			buf = append(buf, b)
		}
	}
}

// scanUnicodeEscape is called after `\u` has been consumed. Surrogate
// pairs must be written as two consecutive escapes.
func (l *lexer) scanUnicodeEscape() (rune, error) {
	hex4 := func() (rune, error) {
		var v rune
		for i := 0; i < 4; i++ {
			b, err := l.next()
			if err != nil || !isHexDigit(b) {
				return 0, l.errorf("invalid unicode escape")
			}
			switch {
			case b >= 'a':
				v = v<<4 | rune(b-'a'+10)
			case b >= 'A':
				v = v<<4 | rune(b-'A'+10)
			default:
				v = v<<4 | rune(b-'0')
			}
		}
		return v, nil
	}

	r, err := hex4()
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(r) {
		return r, nil
	}

	b, err2 := l.next()
	if err2 != nil || b != '\\' {
		return 0, l.errorf("missing low surrogate in unicode escape")
	}
	b, err2 = l.next()
	if err2 != nil || b != 'u' {
		return 0, l.errorf("missing low surrogate in unicode escape")
	}
	r2, err := hex4()
	if err != nil {
		return 0, err
	}
	r = utf16.DecodeRune(r, r2)
	if r == utf8.RuneError {
		return 0, l.errorf("invalid surrogate pair in unicode escape")
	}
	return r, nil
}

func (l *lexer) scanNumber(first byte) (lexToken, error) {
	buf := []byte{first}

	if first == '-' {
		b, ok := l.peekByte()
		if !ok || !isDigit(b) {
			return lexToken{}, l.errorf("missing digits in number %q", buf)
		}
		l.next()
		buf = append(buf, b)
		first = b
	}

	if first == '0' {
		if b, ok := l.peekByte(); ok && isDigit(b) {
			return lexToken{}, l.errorf("leading zero in number %q", buf)
		}
	} else {
		buf = l.scanDigits(buf)
	}

	isFloat := false
	if b, ok := l.peekByte(); ok && b == '.' {
		l.next()
		buf = append(buf, b)
		if b, ok := l.peekByte(); !ok || !isDigit(b) {
			return lexToken{}, l.errorf("missing decimals in number %q", buf)
		}
		buf = l.scanDigits(buf)
		isFloat = true
	}

	if b, ok := l.peekByte(); ok && (b == 'e' || b == 'E') {
		l.next()
		buf = append(buf, b)
		if b, ok := l.peekByte(); ok && (b == '+' || b == '-') {
			l.next()
			buf = append(buf, b)
		}
		if b, ok := l.peekByte(); !ok || !isDigit(b) {
			return lexToken{}, l.errorf("missing exponent in number %q", buf)
		}
		buf = l.scanDigits(buf)
		isFloat = true
	}

	kind := tokInt
	if isFloat {
		kind = tokFloat
	}
	return lexToken{kind: kind, str: string(buf)}, nil
}

func (l *lexer) scanDigits(buf []byte) []byte {
	for {
		b, ok := l.peekByte()
		if !ok || !isDigit(b) {
			return buf
		}
		l.next()
		buf = append(buf, b)
	}
}
