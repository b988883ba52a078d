package extract

import (
	"testing"

	"github.com/hazyhaar/pagebridge/tree"
)

func parseNodes(t *testing.T, in string) []*tree.Node {
	t.Helper()
	doc, err := tree.Parse([]byte(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc.Elements
}

func TestContentSkipsBlankValues(t *testing.T) {
	nodes := parseNodes(t, `[
		{"id":"a","elType":"widget","widgetType":"heading","settings":{"title":"Welcome"}},
		{"id":"b","elType":"widget","widgetType":"heading","settings":{"title":""}},
		{"id":"c","elType":"widget","widgetType":"heading","settings":{"title":"   "}}
	]`)

	items := ContentFromNodes(nodes)
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1 (blank titles skipped)", len(items))
	}
	it := items[0]
	if it.Value != "Welcome" || it.Key != "title" {
		t.Errorf("item = %+v", it)
	}
	if it.Path != "elements[0].settings.title" {
		t.Errorf("path = %q", it.Path)
	}
	if it.WidgetTag != "heading" || it.Kind != KindText {
		t.Errorf("tag/kind = %s/%s", it.WidgetTag, it.Kind)
	}
}

func TestContentSkipsNonStrings(t *testing.T) {
	nodes := parseNodes(t, `[
		{"id":"a","elType":"widget","widgetType":"tabs","settings":{
			"tabs":[{"tab_title":"One"}],
			"title_size": 14,
			"description":"kept"
		}}
	]`)
	items := ContentFromNodes(nodes)
	if len(items) != 1 || items[0].Key != "description" {
		t.Fatalf("items = %+v, want only description", items)
	}
}

func TestContentOrderIsTraversalOrder(t *testing.T) {
	nodes := parseNodes(t, `[
		{"id":"s","elType":"section","settings":{"title":"Section title"},"elements":[
			{"id":"c","elType":"column","settings":{},"elements":[
				{"id":"w1","elType":"widget","widgetType":"heading","settings":{"title":"First"}},
				{"id":"w2","elType":"widget","widgetType":"text-editor","settings":{"editor":"<p>Second</p>"}}
			]}
		]}
	]`)
	items := ContentFromNodes(nodes)
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	wantValues := []string{"Section title", "First", "<p>Second</p>"}
	for i, w := range wantValues {
		if items[i].Value != w {
			t.Errorf("item[%d] = %q, want %q", i, items[i].Value, w)
		}
	}
	if items[2].Kind != KindHTML {
		t.Errorf("text-editor editor kind = %s, want html", items[2].Kind)
	}
	if items[2].Path != "elements[0].elements[0].elements[1].settings.editor" {
		t.Errorf("path = %q", items[2].Path)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		tag, key string
		want     Kind
	}{
		{"heading", "title", KindText},
		{"text-editor", "editor", KindHTML},
		{"image", "image", KindMedia},
		{"tabs", "tabs", KindRepeater},
		{"nav-menu", "menu", KindSelect},
		{"icon", "icon", KindIcon},
		{"heading", "description", KindText}, // non-canonical key
		{"unknown-widget", "title", KindText},
	}
	for _, tt := range tests {
		if got := KindOf(tt.tag, tt.key); got != tt.want {
			t.Errorf("KindOf(%q, %q) = %s, want %s", tt.tag, tt.key, got, tt.want)
		}
	}
}

func TestContentEmptyTree(t *testing.T) {
	items := ContentFromNodes(nil)
	if items == nil || len(items) != 0 {
		t.Errorf("want empty, non-nil slice, got %#v", items)
	}
}
