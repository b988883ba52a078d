package convert

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hazyhaar/pagebridge/tree"
)

const fixtureJSON = `[
  {"id": "s1", "elType": "section", "settings": {"background_color": "#112233"}, "elements": [
    {"id": "c1", "elType": "column", "settings": {"_column_size": 50}, "elements": [
      {"id": "w1", "elType": "widget", "widgetType": "heading",
       "settings": {"title": "Hello World", "header_size": "h3"}},
      {"id": "w2", "elType": "widget", "widgetType": "text-editor",
       "settings": {"editor": "<p>Some <strong>bold</strong> copy.</p>"}},
      {"id": "w3", "elType": "widget", "widgetType": "button",
       "settings": {"text": "Go", "link": {"url": "https://example.com"}}}
    ]}
  ]}
]`

func fixtureNodes(t *testing.T) []*tree.Node {
	t.Helper()
	doc, err := tree.Parse([]byte(fixtureJSON))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc.Elements
}

func TestRegistryGet(t *testing.T) {
	r := Default()

	if _, err := r.Get("elementor", "html"); err != nil {
		t.Fatalf("elementor->html: %v", err)
	}
	_, err := r.Get("elementor", "framer")
	if !errors.Is(err, ErrUnknownPair) {
		t.Fatalf("unknown pair error = %v, want ErrUnknownPair", err)
	}
}

func TestRegistryPairsSorted(t *testing.T) {
	pairs := Default().Pairs()
	if len(pairs) == 0 {
		t.Fatal("no pairs registered")
	}
	for i := 1; i < len(pairs); i++ {
		a, b := pairs[i-1], pairs[i]
		if a.Source > b.Source || (a.Source == b.Source && a.Target > b.Target) {
			t.Fatalf("pairs not sorted at %d: %v before %v", i, a, b)
		}
	}
	want := map[string]bool{
		"html": true, "gutenberg": true, "divi": true, "wpbakery": true,
		"bricks": true, "markdown": true, "elementor": true,
	}
	for _, p := range pairs {
		delete(want, p.Target)
	}
	if len(want) != 0 {
		t.Fatalf("targets missing from registry: %v", want)
	}
}

func TestHTMLConvert(t *testing.T) {
	out, err := NewHTML().Convert(fixtureNodes(t))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<h3>Hello World</h3>",
		"<strong>bold</strong>",
		`href="https://example.com"`,
		"col-md-6",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html output missing %q\n%s", want, out)
		}
	}
}

func TestHTMLSanitizesEditorContent(t *testing.T) {
	doc, err := tree.Parse([]byte(`[{"id":"w","elType":"widget","widgetType":"text-editor",
		"settings":{"editor":"<p>ok</p><script>alert(1)</script>"}}]`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := NewHTML().Convert(doc.Elements)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("script tag survived sanitization:\n%s", out)
	}
	if !strings.Contains(out, "<p>ok</p>") {
		t.Fatalf("safe markup dropped:\n%s", out)
	}
}

func TestGutenbergConvert(t *testing.T) {
	out, err := NewGutenberg().Convert(fixtureNodes(t))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<!-- wp:heading {"level":3} -->`,
		"<h3>Hello World</h3>",
		"<!-- wp:paragraph -->",
		"wp-block-button__link",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("gutenberg output missing %q\n%s", want, out)
		}
	}
	// Single-column section renders as a group, not columns.
	if strings.Contains(out, "wp:columns") {
		t.Errorf("single column should not produce wp:columns\n%s", out)
	}
}

func TestGutenbergColumnsForMultiColumnSection(t *testing.T) {
	doc, err := tree.Parse([]byte(`[{"id":"s","elType":"section","settings":{},"elements":[
		{"id":"a","elType":"column","settings":{},"elements":[]},
		{"id":"b","elType":"column","settings":{},"elements":[]}]}]`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := NewGutenberg().Convert(doc.Elements)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<!-- wp:columns -->") {
		t.Fatalf("expected wp:columns wrapper\n%s", out)
	}
}

func TestDiviConvert(t *testing.T) {
	out, err := NewDivi().Convert(fixtureNodes(t))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`[et_pb_section background_color="#112233"]`,
		`[et_pb_column type="1_2"]`,
		"<h3>Hello World</h3>",
		`button_url="https://example.com"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("divi output missing %q\n%s", want, out)
		}
	}
}

func TestWPBakeryConvert(t *testing.T) {
	out, err := NewWPBakery().Convert(fixtureNodes(t))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"[vc_row",
		`[vc_column width="1/2"]`,
		`text="Hello World"`,
		"font_container=\"tag:h3\"",
		"[vc_btn",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("wpbakery output missing %q\n%s", want, out)
		}
	}
}

func TestBricksConvert(t *testing.T) {
	out, err := NewBricks().Convert(fixtureNodes(t))
	if err != nil {
		t.Fatal(err)
	}
	var elements []struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		Parent   any             `json:"parent"`
		Children []string        `json:"children"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal([]byte(out), &elements); err != nil {
		t.Fatalf("bricks output is not valid JSON: %v", err)
	}
	if len(elements) != 5 {
		t.Fatalf("got %d elements, want 5 (section, container, 3 widgets)", len(elements))
	}
	if elements[0].Name != "section" || elements[1].Name != "container" {
		t.Fatalf("unexpected top structure: %s, %s", elements[0].Name, elements[1].Name)
	}
	if got, ok := elements[0].Parent.(float64); !ok || got != 0 {
		t.Fatalf("root parent = %v, want 0", elements[0].Parent)
	}
	if elements[1].Parent != elements[0].ID {
		t.Fatalf("container parent = %v, want section id %s", elements[1].Parent, elements[0].ID)
	}
	if len(elements[1].Children) != 3 {
		t.Fatalf("container children = %v, want 3 widget ids", elements[1].Children)
	}
	for _, el := range elements {
		if len(el.ID) != 6 {
			t.Errorf("element id %q is not 6 chars", el.ID)
		}
	}
}

func TestMarkdownConvert(t *testing.T) {
	out, err := NewMarkdown().Convert(fixtureNodes(t))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "### Hello World") {
		t.Errorf("markdown missing heading:\n%s", out)
	}
	if !strings.Contains(out, "**bold**") {
		t.Errorf("markdown missing bold run:\n%s", out)
	}
}

func TestElementorRoundTrip(t *testing.T) {
	nodes := fixtureNodes(t)
	out, err := NewElementor().Convert(nodes)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := tree.Parse([]byte(out))
	if err != nil {
		t.Fatalf("re-parse exported JSON: %v", err)
	}
	if len(doc.Elements) != 1 || doc.Elements[0].ID != "s1" {
		t.Fatalf("round trip lost structure: %+v", doc.Elements)
	}
	if got := doc.Elements[0].Children[0].Children[0].Settings.String("title"); got != "Hello World" {
		t.Fatalf("round trip title = %q", got)
	}
}

func TestRegisterCustomConverter(t *testing.T) {
	r := NewRegistry()
	r.Register("elementor", "plain", converterFunc(func(nodes []*tree.Node) (string, error) {
		return "plain", nil
	}))
	c, err := r.Get("elementor", "plain")
	if err != nil {
		t.Fatal(err)
	}
	out, _ := c.Convert(nil)
	if out != "plain" {
		t.Fatalf("got %q", out)
	}
}

type converterFunc func([]*tree.Node) (string, error)

func (f converterFunc) Convert(nodes []*tree.Node) (string, error) { return f(nodes) }
func (f converterFunc) Ext() string                                { return "txt" }
