package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// ChildPath appends the indexed child segment to a node path:
// "" → "elements[2]", "elements[0]" → "elements[0].elements[2]".
func ChildPath(path string, i int) string {
	seg := "elements[" + strconv.Itoa(i) + "]"
	if path == "" {
		return seg
	}
	return path + "." + seg
}

// SettingsPath appends the settings segment to a node path.
func SettingsPath(path string) string {
	if path == "" {
		return "settings"
	}
	return path + ".settings"
}

// Resolve walks a path against a node list and returns the value it
// addresses: a *Node, a *Settings map, or a settings value. Paths are the
// ones this module produces: dot-separated segments of "elements[i]",
// "settings", or settings keys with an optional [i] index.
func Resolve(nodes []*Node, path string) (any, error) {
	var cur any = nodes
	if path == "" {
		return cur, nil
	}
	for _, seg := range strings.Split(path, ".") {
		name, idx, hasIdx, err := splitSegment(seg)
		if err != nil {
			return nil, fmt.Errorf("tree: path %q: %w", path, err)
		}
		cur, err = step(cur, name)
		if err != nil {
			return nil, fmt.Errorf("tree: path %q: %w", path, err)
		}
		if hasIdx {
			cur, err = index(cur, idx)
			if err != nil {
				return nil, fmt.Errorf("tree: path %q: %w", path, err)
			}
		}
	}
	return cur, nil
}

func splitSegment(seg string) (name string, idx int, hasIdx bool, err error) {
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return seg, 0, false, nil
	}
	if !strings.HasSuffix(seg, "]") {
		return "", 0, false, fmt.Errorf("malformed segment %q", seg)
	}
	idx, err = strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil {
		return "", 0, false, fmt.Errorf("malformed index in %q", seg)
	}
	return seg[:open], idx, true, nil
}

func step(cur any, name string) (any, error) {
	switch t := cur.(type) {
	case *Node:
		switch name {
		case "elements":
			return t.Children, nil
		case "settings":
			return t.Settings, nil
		}
		return nil, fmt.Errorf("node has no member %q", name)
	case *Settings:
		if v, ok := t.Get(name); ok {
			return v, nil
		}
		return nil, fmt.Errorf("no key %q", name)
	case []*Node:
		if name == "elements" {
			return t, nil
		}
		return nil, fmt.Errorf("expected elements, got %q", name)
	default:
		return nil, fmt.Errorf("cannot descend into %T via %q", cur, name)
	}
}

func index(cur any, i int) (any, error) {
	switch t := cur.(type) {
	case []*Node:
		if i < 0 || i >= len(t) {
			return nil, fmt.Errorf("index %d out of range", i)
		}
		return t[i], nil
	case []any:
		if i < 0 || i >= len(t) {
			return nil, fmt.Errorf("index %d out of range", i)
		}
		return t[i], nil
	default:
		return nil, fmt.Errorf("cannot index %T", cur)
	}
}
