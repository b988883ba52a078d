// CLAUDE:SUMMARY Parses page builder wire JSON (bare array, wrapped export, single node) into Documents.
package tree

import (
	"fmt"
	"os"
)

// Parse decodes page builder JSON into a Document. It accepts the formats
// real exports arrive in:
//
//   - a bare array of node objects
//   - a wrapped export {"content": [...]} or {"elements": [...]} with
//     optional version/title and arbitrary extra envelope keys
//   - a single node object
//
// Malformed entries in an elements array (non-objects) are skipped rather
// than failing the document.
func Parse(data []byte) (*Document, error) {
	v, err := DecodeValue(data)
	if err != nil {
		return nil, fmt.Errorf("tree: parse: %w", err)
	}
	switch t := v.(type) {
	case []any:
		return &Document{Meta: NewSettings(), Elements: parseNodeList(t)}, nil
	case *Settings:
		return parseEnvelope(t), nil
	default:
		return nil, fmt.Errorf("tree: parse: expected object or array, got %T", v)
	}
}

// ParseFile reads and parses a page builder JSON file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tree: read %s: %w", path, err)
	}
	return Parse(data)
}

func parseEnvelope(obj *Settings) *Document {
	doc := &Document{Meta: NewSettings()}

	var nodesRaw any
	var wrapped bool
	if v, ok := obj.Get("content"); ok {
		nodesRaw, wrapped = v, true
	} else if v, ok := obj.Get("elements"); ok {
		nodesRaw, wrapped = v, true
	}

	if !wrapped {
		// A single node object.
		if n := ParseNode(obj); n != nil {
			doc.Elements = []*Node{n}
		}
		return doc
	}

	doc.Version = obj.String("version")
	doc.Title = obj.String("title")
	obj.Range(func(k string, v any) bool {
		switch k {
		case "content", "elements", "version", "title":
		default:
			doc.Meta.Set(k, v)
		}
		return true
	})

	if list, ok := nodesRaw.([]any); ok {
		doc.Elements = parseNodeList(list)
	}
	return doc
}

func parseNodeList(list []any) []*Node {
	nodes := make([]*Node, 0, len(list))
	for _, item := range list {
		obj, ok := item.(*Settings)
		if !ok {
			continue
		}
		if n := ParseNode(obj); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// ParseNode builds a Node from a decoded wire object. The id falls back to
// "_id", an absent elType defaults to widget, and unknown element types are
// kept verbatim (Canonical classifies them as generic).
func ParseNode(obj *Settings) *Node {
	if obj == nil {
		return nil
	}
	n := &Node{
		ID:        obj.String("id"),
		Kind:      KindWidget,
		WidgetTag: obj.String("widgetType"),
	}
	if n.ID == "" {
		n.ID = obj.String("_id")
	}
	if el := obj.String("elType"); el != "" {
		n.Kind = Kind(el)
	}
	if v, ok := obj.Get("isInner"); ok {
		b, _ := v.(bool)
		n.IsInner = b
	}
	if v, ok := obj.Get("settings"); ok {
		if s, ok := v.(*Settings); ok {
			n.Settings = s
		}
	}
	if n.Settings == nil {
		n.Settings = NewSettings()
	}
	if v, ok := obj.Get("elements"); ok {
		if list, ok := v.([]any); ok {
			n.Children = parseNodeList(list)
		}
	}
	return n
}
