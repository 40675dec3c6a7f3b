package datex

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Namespace URIs used by the DGT DATEX2 v3.6 publication. Prefixes in the
// document are arbitrary aliases; all matching is by URI.
const (
	NSPayload    = "http://levelC/schema/3/d2Payload"
	NSSituation  = "http://levelC/schema/3/situation"
	NSLocation   = "http://levelC/schema/3/locationReferencing"
	NSCommon     = "http://levelC/schema/3/common"
	NSSpanishExt = "http://levelC/schema/3/locationReferencingSpanishExtension"
)

var (
	// ErrNoContent is returned when Parse receives no bytes to work with.
	ErrNoContent = errors.New("datex: no document content")

	// ErrMalformedDocument is returned (wrapped) when the bytes are not
	// well-formed XML.
	ErrMalformedDocument = errors.New("datex: malformed document")

	// ErrNotLoaded is returned when extraction is attempted on a nil or
	// empty document, a programming-contract violation.
	ErrNotLoaded = errors.New("datex: document not loaded")
)

// Node is one element in the parsed tree. Children preserve document order.
type Node struct {
	Space    string // namespace URI, empty for unqualified elements
	Local    string
	Attrs    []xml.Attr
	Children []*Node

	text strings.Builder
}

// Document is a parsed DATEX2 payload, queryable by namespace URI and
// element local name. It is read-only after Parse returns.
type Document struct {
	root *Node
}

// Parse builds a Document from raw XML bytes. It checks well-formedness
// only; schema conformance is not validated. Character encodings other than
// UTF-8 are handled via the declared charset.
func Parse(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrNoContent
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *Node
		stack []*Node
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Space: t.Name.Space,
				Local: t.Name.Local,
				Attrs: t.Copy().Attr,
			}
			if len(stack) == 0 {
				if root == nil {
					root = node
				}
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}
	return &Document{root: root}, nil
}

// Root returns the document's root element.
func (d *Document) Root() *Node {
	if d == nil {
		return nil
	}
	return d.root
}

// FindAll returns every descendant of the root matching (space, local),
// in document order.
func (d *Document) FindAll(space, local string) []*Node {
	return d.Root().FindAll(space, local)
}

// Text returns the element's character data with surrounding whitespace
// trimmed.
func (n *Node) Text() string {
	return strings.TrimSpace(n.text.String())
}

// Attr returns the value of the named attribute, ignoring any namespace
// qualification, or "" if absent.
func (n *Node) Attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func (n *Node) is(space, local string) bool {
	return n.Space == space && n.Local == local
}

// Child returns the first direct child matching (space, local), or nil.
func (n *Node) Child(space, local string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.is(space, local) {
			return c
		}
	}
	return nil
}

// Find returns the first descendant matching (space, local) in document
// order, excluding n itself, or nil if there is none.
func (n *Node) Find(space, local string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.is(space, local) {
			return c
		}
		if m := c.Find(space, local); m != nil {
			return m
		}
	}
	return nil
}

// FindAll returns every descendant matching (space, local) in document
// order, excluding n itself.
func (n *Node) FindAll(space, local string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	n.appendMatches(space, local, &out)
	return out
}

func (n *Node) appendMatches(space, local string, out *[]*Node) {
	for _, c := range n.Children {
		if c.is(space, local) {
			*out = append(*out, c)
		}
		c.appendMatches(space, local, out)
	}
}
