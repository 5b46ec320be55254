package xenon

import (
	"context"

	"github.com/lestrrat-go/pdebug"
)

// Parse parses one complete XML document held in b.
func Parse(ctx context.Context, b []byte, options ...Option) (*Document, error) {
	p := NewParser(options...)
	return p.Parse(ctx, b)
}

// NewParser creates a Parser with the given defaults. Per-call options
// passed to Parse are applied on top.
func NewParser(options ...Option) *Parser {
	return &Parser{options: options}
}

// Parse tokenizes b, resolves namespaces and builds the document tree.
// The first error aborts the parse; no partial document is ever
// returned. The context is checked between tokens, so callers can
// bound the time spent on adversarial input.
func (p *Parser) Parse(ctx context.Context, b []byte, options ...Option) (*Document, error) {
	if pdebug.Enabled {
		pdebug.Printf("START Parse (%d bytes)", len(b))
		defer pdebug.Printf("END   Parse")
	}

	cfg := defaultParseConfig()
	for _, o := range p.options {
		o(&cfg)
	}
	for _, o := range options {
		o(&cfg)
	}

	l, err := NewLexer(b)
	if err != nil {
		return nil, err
	}
	tb := newTreeBuilder(l.Version(), l.Encoding(), l.Standalone(), cfg.lenientNS, cfg.maxDepth)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenEOF {
			break
		}
		if err := tb.handle(tok); err != nil {
			return nil, l.error(err)
		}
	}

	doc, err := tb.finish()
	if err != nil {
		return nil, l.error(err)
	}
	return doc, nil
}
