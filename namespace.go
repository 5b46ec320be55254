package xenon

import "github.com/xenon-xml/xenon/internal/stack"

// XMLNamespaceURI is implicitly bound to the "xml" prefix in every
// scope, as required by Namespaces in XML.
const XMLNamespaceURI = "http://www.w3.org/XML/1998/namespace"

type nsBinding struct {
	prefix string
	uri    string
}

// nsResolver maintains prefix to URI bindings with lexical scoping.
// A frame is pushed for every element on entry and popped when that
// element closes; bindings declared on an element are visible to the
// element itself and to all of its descendants.
//
// Bindings live in one flat slice; frames are byte offsets into it, so
// resolution is a single innermost-to-outermost scan.
type nsResolver struct {
	bindings []nsBinding
	frames   stack.Stack[int]
	lenient  bool
}

func newNsResolver(lenient bool) *nsResolver {
	return &nsResolver{lenient: lenient}
}

func (r *nsResolver) pushFrame() {
	r.frames.Push(len(r.bindings))
}

func (r *nsResolver) popFrame() {
	off, ok := r.frames.Pop()
	if !ok {
		return
	}
	r.bindings = r.bindings[:off]
}

// declare records a binding in the current frame. prefix is "" for the
// default namespace (xmlns="uri"). Redeclaring a prefix in the same
// frame means the element carried two xmlns attributes for it.
func (r *nsResolver) declare(prefix, uri string) error {
	off, _ := r.frames.Peek()
	for _, b := range r.bindings[off:] {
		if b.prefix == prefix {
			name := ResolvedName{Local: "xmlns"}
			if prefix != "" {
				name.Local = prefix
				name.URI = "http://www.w3.org/2000/xmlns/"
			}
			return ErrDuplicateAttribute{Name: name}
		}
	}
	r.bindings = append(r.bindings, nsBinding{prefix: prefix, uri: uri})
	return nil
}

// lookup walks the frames from innermost to outermost.
func (r *nsResolver) lookup(prefix string) (string, bool) {
	if prefix == "xml" {
		return XMLNamespaceURI, true
	}
	for i := len(r.bindings) - 1; i >= 0; i-- {
		if r.bindings[i].prefix == prefix {
			return r.bindings[i].uri, true
		}
	}
	return "", false
}

// resolveElement resolves an element name. Unprefixed element names
// pick up the default namespace, if one is in scope.
func (r *nsResolver) resolveElement(name QName) (ResolvedName, error) {
	if name.Prefix == "" {
		uri, _ := r.lookup("")
		return ResolvedName{Local: name.Local, URI: uri}, nil
	}
	return r.resolvePrefixed(name)
}

// resolveAttribute resolves an attribute name. The default namespace
// never applies: an unprefixed attribute is namespace-less.
func (r *nsResolver) resolveAttribute(name QName) (ResolvedName, error) {
	if name.Prefix == "" {
		return ResolvedName{Local: name.Local}, nil
	}
	return r.resolvePrefixed(name)
}

func (r *nsResolver) resolvePrefixed(name QName) (ResolvedName, error) {
	uri, ok := r.lookup(name.Prefix)
	if !ok {
		if r.lenient {
			// Compatibility mode for documents that use prefixed
			// names as plain identifiers: keep the raw lexical form
			// as an opaque local name.
			return ResolvedName{Local: name.Prefix + ":" + name.Local}, nil
		}
		return ResolvedName{}, ErrUndeclaredPrefix{Prefix: name.Prefix}
	}
	return ResolvedName{Local: name.Local, URI: uri}, nil
}
