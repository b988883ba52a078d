// Package tree is the ownership model for parsed page documents.
//
// A document is a tree of nodes (sections, columns, widgets) whose settings
// are insertion-ordered maps of arbitrary JSON values. Nodes are produced
// once by Parse and treated as immutable inputs by the rest of the system:
// anything that needs to change a tree works on a Clone.
package tree

import (
	"bytes"
	"encoding/json"
)

// Kind is a node's element type. The wire value is kept verbatim so that
// re-export is faithful; anything outside the three known kinds is treated
// as generic by Canonical.
type Kind string

const (
	KindSection Kind = "section"
	KindColumn  Kind = "column"
	KindWidget  Kind = "widget"

	// KindGeneric is the canonical classification for unrecognized tags
	// (e.g. "container"). It never appears on the wire.
	KindGeneric Kind = "generic"
)

// Canonical maps a wire kind onto the closed variant set.
func (k Kind) Canonical() Kind {
	switch k {
	case KindSection, KindColumn, KindWidget:
		return k
	default:
		return KindGeneric
	}
}

// Node is one entry in a document tree. Children are exclusively owned by
// their parent: no sharing, no cycles.
type Node struct {
	ID        string
	Kind      Kind
	WidgetTag string // present only for widgets
	Settings  *Settings
	Children  []*Node
	IsInner   bool
}

// Clone returns a deep copy of the node and all its descendants.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		ID:        n.ID,
		Kind:      n.Kind,
		WidgetTag: n.WidgetTag,
		Settings:  n.Settings.Clone(),
		IsInner:   n.IsInner,
	}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// CloneNodes deep-copies a node list.
func CloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// MarshalJSON emits the wire shape:
//
//	{"id": ..., "elType": ..., "settings": {...}, "elements": [...],
//	 "widgetType": ...?, "isInner": true?}
//
// widgetType appears only for widgets, isInner only when set. Settings keys
// keep their insertion order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"id":`)
	writeJSONString(&buf, n.ID)
	buf.WriteString(`,"elType":`)
	writeJSONString(&buf, string(n.Kind))
	buf.WriteString(`,"settings":`)
	sb, err := n.Settings.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.Write(sb)
	buf.WriteString(`,"elements":[`)
	for i, c := range n.Children {
		if i > 0 {
			buf.WriteByte(',')
		}
		cb, err := c.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(cb)
	}
	buf.WriteByte(']')
	if n.WidgetTag != "" {
		buf.WriteString(`,"widgetType":`)
		writeJSONString(&buf, n.WidgetTag)
	}
	if n.IsInner {
		buf.WriteString(`,"isInner":true`)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

// Document is a parsed page: its top-level nodes plus export envelope
// fields that ride along untouched.
type Document struct {
	Title    string
	Version  string
	Meta     *Settings // envelope keys other than content/elements/version/title
	Elements []*Node
}

// Count returns the total node count of the document.
func (d *Document) Count() int {
	total := 0
	for _, n := range d.Elements {
		total += n.Count()
	}
	return total
}

// MarshalJSON emits the export envelope with elements in wire shape.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"elements":[`)
	for i, n := range d.Elements {
		if i > 0 {
			buf.WriteByte(',')
		}
		nb, err := n.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(nb)
	}
	buf.WriteString(`],"version":`)
	writeJSONString(&buf, d.Version)
	buf.WriteString(`,"title":`)
	writeJSONString(&buf, d.Title)
	if d.Meta.Len() > 0 {
		buf.WriteString(`,"meta":`)
		mb, err := d.Meta.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(mb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
