// CLAUDE:SUMMARY Zone-filtered transform executor with per-zone failure isolation.
// Package transform applies caller-supplied transformations to selected
// zones of a page tree under a structural preservation guarantee.
//
// The executor never touches the caller's tree: it rebuilds a fresh tree
// bottom-up and writes transformed values into the copy. Zones outside the
// requested filter are never handed to the transform function, so the data
// they hold cannot change. Preservation is a property of the construction,
// not a measurement.
package transform

import (
	"fmt"
	"log/slog"

	"github.com/hazyhaar/pagebridge/tree"
	"github.com/hazyhaar/pagebridge/zone"
)

// Func rewrites one zone. Implementations return the replacement zone;
// returning the input unchanged is a no-op. Errors (and panics) are
// isolated to the zone they occur in.
type Func func(zone.Zone) (zone.Zone, error)

// Error records a failed zone transformation.
type Error struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result is the outcome of a Transform call.
type Result struct {
	OK            bool         `json:"success"`
	Nodes         []*tree.Node `json:"-"`
	ModifiedPaths []string     `json:"zones_modified"`
	// Preservation is always 100: non-matching zones are structurally
	// unreachable by the transform function. Observed data loss is a
	// classification defect, not a score to down-report.
	Preservation float64 `json:"metadata_preserved"`
	Errors       []Error `json:"errors"`
}

// Engine executes zone-filtered transformations.
type Engine struct {
	logger *slog.Logger
}

// New creates an Engine. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Transform applies fn to every zone of the tree whose type is in filter
// (nil filter = all types) and returns a fresh tree with the results
// written back. A nil fn returns a plain deep copy.
//
// One failing zone never aborts the document: the error is recorded with
// the zone's path and processing continues with the remaining zones and
// nodes. OK is true only when no zone failed.
func (e *Engine) Transform(nodes []*tree.Node, filter []zone.Type, fn Func) *Result {
	res := &Result{
		OK:            true,
		ModifiedPaths: []string{},
		Preservation:  100,
		Errors:        []Error{},
	}
	if fn == nil {
		res.Nodes = tree.CloneNodes(nodes)
		return res
	}

	wanted := filterSet(filter)
	res.Nodes = make([]*tree.Node, len(nodes))
	for i, n := range nodes {
		res.Nodes[i] = e.process(n, tree.ChildPath("", i), wanted, fn, res)
	}
	res.OK = len(res.Errors) == 0
	return res
}

// TransformDocument is Transform over a document; envelope fields are
// carried across unchanged.
func (e *Engine) TransformDocument(doc *tree.Document, filter []zone.Type, fn Func) (*tree.Document, *Result) {
	res := e.Transform(doc.Elements, filter, fn)
	out := &tree.Document{
		Title:    doc.Title,
		Version:  doc.Version,
		Meta:     doc.Meta.Clone(),
		Elements: res.Nodes,
	}
	return out, res
}

func filterSet(filter []zone.Type) map[zone.Type]bool {
	if filter == nil {
		return nil // nil means every type matches
	}
	set := make(map[zone.Type]bool, len(filter))
	for _, t := range filter {
		set[t] = true
	}
	return set
}

// process rebuilds one node bottom-up: children first, then this node's
// settings with any transformed zone data written back.
func (e *Engine) process(n *tree.Node, path string, wanted map[zone.Type]bool, fn Func, res *Result) *tree.Node {
	if n == nil {
		return nil
	}

	out := &tree.Node{
		ID:        n.ID,
		Kind:      n.Kind,
		WidgetTag: n.WidgetTag,
		Settings:  n.Settings.Clone(),
		IsInner:   n.IsInner,
	}
	e.applyToMap(out, out.Settings, tree.SettingsPath(path), true, wanted, fn, res)

	if len(n.Children) > 0 {
		out.Children = make([]*tree.Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = e.process(c, tree.ChildPath(path, i), wanted, fn, res)
		}
	}
	return out
}

// applyToMap runs fn over the zones of one settings map, writing modified
// data back, then descends into nested elements/settings members the same
// way classification does. Node-attribute write-back is only honored for
// the node's own top-level settings map.
func (e *Engine) applyToMap(n *tree.Node, target *tree.Settings, path string, topLevel bool, wanted map[zone.Type]bool, fn Func, res *Result) {
	for _, z := range zone.ClassifyMap(target, path) {
		if z.Path != path {
			continue // nested zones are handled by the recursion below
		}
		if wanted != nil && !wanted[z.Type] {
			continue
		}
		e.applyZone(n, target, z, topLevel, fn, res)
	}

	if v, ok := target.Get("elements"); ok {
		if list, ok := v.([]any); ok {
			for i, item := range list {
				if m, ok := item.(*tree.Settings); ok {
					e.applyToMap(n, m, tree.ChildPath(path, i), false, wanted, fn, res)
				}
			}
		}
	}
	if v, ok := target.Get("settings"); ok {
		if m, ok := v.(*tree.Settings); ok {
			e.applyToMap(n, m, tree.SettingsPath(path), false, wanted, fn, res)
		}
	}
}

// applyZone invokes fn on one zone and writes changed data back into the
// target map (or node-level fields for structural/meta zones naming node
// attributes). Keys absent from the returned data are left untouched; the
// operation never implicitly deletes.
func (e *Engine) applyZone(n *tree.Node, target *tree.Settings, z zone.Zone, topLevel bool, fn Func, res *Result) {
	original := z.Data
	z.Data = original.Clone() // the function gets its own copy

	transformed, err := e.invoke(fn, z)
	if err != nil {
		res.Errors = append(res.Errors, Error{Path: z.Path, Message: err.Error()})
		e.logger.Debug("transform: zone failed", "path", z.Path, "error", err)
		return
	}
	if transformed.Data.Equal(original) {
		return
	}

	res.ModifiedPaths = append(res.ModifiedPaths, z.Path)
	transformed.Data.Range(func(key string, value any) bool {
		if topLevel && (z.Type == zone.Structural || z.Type == zone.Meta) && setNodeAttr(n, key, value) {
			return true
		}
		target.Set(key, value)
		return true
	})
}

// invoke calls fn, converting a panic into an ordinary per-zone error.
func (e *Engine) invoke(fn Func, z zone.Zone) (out zone.Zone, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(z)
}

// setNodeAttr handles write-back of node-level attribute names surfacing in
// structural/meta zone data. It reports whether the key was consumed.
func setNodeAttr(n *tree.Node, key string, value any) bool {
	switch key {
	case "id":
		if s, ok := value.(string); ok && !n.Settings.Has("id") {
			n.ID = s
			return true
		}
	case "elType":
		if s, ok := value.(string); ok && !n.Settings.Has("elType") {
			n.Kind = tree.Kind(s)
			return true
		}
	case "widgetType":
		if s, ok := value.(string); ok && !n.Settings.Has("widgetType") {
			n.WidgetTag = s
			return true
		}
	case "isInner":
		if b, ok := value.(bool); ok && !n.Settings.Has("isInner") {
			n.IsInner = b
			return true
		}
	}
	return false
}
