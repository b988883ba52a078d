package transform

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hazyhaar/pagebridge/tree"
	"github.com/hazyhaar/pagebridge/zone"
)

const threeWidgets = `[
	{"id":"s1","elType":"section","settings":{"background_color":"#111"},"elements":[
		{"id":"c1","elType":"column","settings":{},"elements":[
			{"id":"w1","elType":"widget","widgetType":"heading","settings":{"title":"One","title_color":"#f00"}},
			{"id":"w2","elType":"widget","widgetType":"heading","settings":{"title":"Two"}},
			{"id":"w3","elType":"widget","widgetType":"heading","settings":{"title":"Three"}}
		]}
	]}
]`

func parseNodes(t *testing.T, in string) []*tree.Node {
	t.Helper()
	doc, err := tree.Parse([]byte(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc.Elements
}

func marshalNodes(t *testing.T, nodes []*tree.Node) string {
	t.Helper()
	var parts []string
	for _, n := range nodes {
		b, err := json.Marshal(n)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		parts = append(parts, string(b))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// upperContent rewrites every string value of a content zone to upper case.
func upperContent(z zone.Zone) (zone.Zone, error) {
	out := z
	out.Data = z.Data.Clone()
	z.Data.Range(func(k string, v any) bool {
		if s, ok := v.(string); ok {
			out.Data.Set(k, strings.ToUpper(s))
		}
		return true
	})
	return out, nil
}

func TestTransformNilFuncIsIdentity(t *testing.T) {
	nodes := parseNodes(t, threeWidgets)
	before := marshalNodes(t, nodes)

	res := New(nil).Transform(nodes, nil, nil)
	if !res.OK || res.Preservation != 100 {
		t.Fatalf("result = ok:%v preservation:%v", res.OK, res.Preservation)
	}
	if len(res.ModifiedPaths) != 0 || len(res.Errors) != 0 {
		t.Errorf("unexpected modifications: %v / %v", res.ModifiedPaths, res.Errors)
	}
	if got := marshalNodes(t, res.Nodes); got != before {
		t.Error("identity transform changed the tree")
	}
	// The copy is independent of the input.
	res.Nodes[0].Settings.Set("background_color", "#fff")
	if nodes[0].Settings.String("background_color") != "#111" {
		t.Error("result aliases the input tree")
	}
}

func TestTransformSelectivePreservation(t *testing.T) {
	nodes := parseNodes(t, threeWidgets)
	before := marshalNodes(t, nodes)

	res := New(nil).Transform(nodes, []zone.Type{zone.Content}, upperContent)
	if !res.OK {
		t.Fatalf("errors: %v", res.Errors)
	}

	// The input tree is untouched.
	if got := marshalNodes(t, nodes); got != before {
		t.Fatal("caller's tree was mutated")
	}

	// Content changed. title_color is a content-rule match too (compound
	// key precedence), so only the styling/structural/meta data must be
	// compared for preservation.
	w1 := res.Nodes[0].Children[0].Children[0]
	if w1.Settings.String("title") != "ONE" {
		t.Errorf("title = %q, want ONE", w1.Settings.String("title"))
	}

	// Re-classifying the result shows non-content zones unchanged.
	origZones := zone.ClassifyNodes(nodes)
	newZones := zone.ClassifyNodes(res.Nodes)
	if len(origZones) != len(newZones) {
		t.Fatalf("zone counts differ: %d vs %d", len(origZones), len(newZones))
	}
	for i := range origZones {
		if origZones[i].Type == zone.Content {
			continue
		}
		if !origZones[i].Data.Equal(newZones[i].Data) {
			t.Errorf("%s zone at %s changed by a content-only transform",
				origZones[i].Type, origZones[i].Path)
		}
	}
}

func TestTransformModifiedPathsResolve(t *testing.T) {
	nodes := parseNodes(t, threeWidgets)
	res := New(nil).Transform(nodes, []zone.Type{zone.Content}, upperContent)

	if len(res.ModifiedPaths) == 0 {
		t.Fatal("expected modified paths")
	}
	for _, p := range res.ModifiedPaths {
		v, err := tree.Resolve(nodes, p)
		if err != nil {
			t.Errorf("path %q does not resolve against the original tree: %v", p, err)
			continue
		}
		if _, ok := v.(*tree.Settings); !ok {
			t.Errorf("path %q resolves to %T, want settings map", p, v)
		}
	}
}

func TestTransformErrorIsolation(t *testing.T) {
	nodes := parseNodes(t, threeWidgets)

	fn := func(z zone.Zone) (zone.Zone, error) {
		if z.Data.String("title") == "Two" {
			return z, errors.New("widget two is cursed")
		}
		return upperContent(z)
	}
	res := New(nil).Transform(nodes, []zone.Type{zone.Content}, fn)

	if res.OK {
		t.Fatal("expected ok=false")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %d, want 1: %v", len(res.Errors), res.Errors)
	}
	if res.Errors[0].Path != "elements[0].elements[0].elements[1].settings" {
		t.Errorf("error path = %q", res.Errors[0].Path)
	}
	if !strings.Contains(res.Errors[0].Message, "cursed") {
		t.Errorf("error message = %q", res.Errors[0].Message)
	}

	col := res.Nodes[0].Children[0]
	if col.Children[0].Settings.String("title") != "ONE" {
		t.Error("widget 1 change not applied")
	}
	if col.Children[1].Settings.String("title") != "Two" {
		t.Error("widget 2 should be unchanged")
	}
	if col.Children[2].Settings.String("title") != "THREE" {
		t.Error("widget 3 change not applied")
	}
}

func TestTransformPanicIsolation(t *testing.T) {
	nodes := parseNodes(t, threeWidgets)
	fn := func(z zone.Zone) (zone.Zone, error) {
		if z.Data.Has("background_color") {
			panic("boom")
		}
		return z, nil
	}
	res := New(nil).Transform(nodes, nil, fn)
	if res.OK || len(res.Errors) != 1 {
		t.Fatalf("result = ok:%v errors:%v", res.OK, res.Errors)
	}
	if !strings.Contains(res.Errors[0].Message, "boom") {
		t.Errorf("message = %q", res.Errors[0].Message)
	}
}

func TestTransformNeverDeletesKeys(t *testing.T) {
	nodes := parseNodes(t, threeWidgets)

	// Return a content zone holding only one of its keys: the other keys
	// must survive in the output.
	fn := func(z zone.Zone) (zone.Zone, error) {
		out := z
		out.Data = tree.NewSettings()
		out.Data.Set("title", "replaced")
		return out, nil
	}
	res := New(nil).Transform(nodes, []zone.Type{zone.Content}, fn)

	w1 := res.Nodes[0].Children[0].Children[0]
	if w1.Settings.String("title") != "replaced" {
		t.Errorf("title = %q", w1.Settings.String("title"))
	}
	if w1.Settings.String("title_color") != "#f00" {
		t.Error("key absent from returned data was deleted")
	}
}

func TestTransformNodeAttrWriteback(t *testing.T) {
	nodes := parseNodes(t, `[{"id":"a","elType":"widget","widgetType":"heading",
		"settings":{"_id":"meta-id"}}]`)

	fn := func(z zone.Zone) (zone.Zone, error) {
		out := z
		out.Data = z.Data.Clone()
		out.Data.Set("widgetType", "text-editor") // node-level attribute
		out.Data.Set("_id", "changed")            // settings key
		return out, nil
	}
	res := New(nil).Transform(nodes, []zone.Type{zone.Structural}, fn)
	if !res.OK {
		t.Fatalf("errors: %v", res.Errors)
	}
	n := res.Nodes[0]
	if n.WidgetTag != "text-editor" {
		t.Errorf("widget tag = %q, want text-editor", n.WidgetTag)
	}
	if n.Settings.Has("widgetType") {
		t.Error("node attribute leaked into settings")
	}
	if n.Settings.String("_id") != "changed" {
		t.Error("settings key not written back")
	}
}

func TestTransformFilterExcludesZones(t *testing.T) {
	nodes := parseNodes(t, threeWidgets)
	var seen []zone.Type
	fn := func(z zone.Zone) (zone.Zone, error) {
		seen = append(seen, z.Type)
		return z, nil
	}
	New(nil).Transform(nodes, []zone.Type{zone.Styling}, fn)
	for _, typ := range seen {
		if typ != zone.Styling {
			t.Errorf("transform fn saw a %s zone despite styling filter", typ)
		}
	}
	if len(seen) == 0 {
		t.Error("styling zones were never visited")
	}
}

func TestTransformModifiedPathsPreOrder(t *testing.T) {
	nodes := parseNodes(t, threeWidgets)
	res := New(nil).Transform(nodes, nil, func(z zone.Zone) (zone.Zone, error) {
		out := z
		out.Data = z.Data.Clone()
		out.Data.Set("touched", "y")
		return out, nil
	})
	// w1's title and title_color both match the content rule, so w1 has a
	// single content zone and contributes one path.
	want := []string{
		"elements[0].settings",
		"elements[0].elements[0].elements[0].settings",
		"elements[0].elements[0].elements[1].settings",
		"elements[0].elements[0].elements[2].settings",
	}
	if !reflect.DeepEqual(res.ModifiedPaths, want) {
		t.Errorf("paths = %v\nwant   %v", res.ModifiedPaths, want)
	}
}

func TestTransformDocumentKeepsEnvelope(t *testing.T) {
	doc, err := tree.Parse([]byte(`{"content":[{"id":"a","elType":"widget",
		"widgetType":"heading","settings":{"title":"x"}}],"version":"0.4","title":"Home"}`))
	if err != nil {
		t.Fatal(err)
	}
	out, res := New(nil).TransformDocument(doc, []zone.Type{zone.Content}, upperContent)
	if !res.OK {
		t.Fatalf("errors: %v", res.Errors)
	}
	if out.Title != "Home" || out.Version != "0.4" {
		t.Errorf("envelope = %q/%q", out.Title, out.Version)
	}
	if out.Elements[0].Settings.String("title") != "X" {
		t.Error("content not transformed")
	}
}
