package tree

import "testing"

func TestChildAndSettingsPath(t *testing.T) {
	tests := []struct {
		path string
		i    int
		want string
	}{
		{"", 0, "elements[0]"},
		{"elements[0]", 2, "elements[0].elements[2]"},
	}
	for _, tt := range tests {
		if got := ChildPath(tt.path, tt.i); got != tt.want {
			t.Errorf("ChildPath(%q, %d) = %q, want %q", tt.path, tt.i, got, tt.want)
		}
	}

	if got := SettingsPath(""); got != "settings" {
		t.Errorf("SettingsPath(\"\") = %q", got)
	}
	if got := SettingsPath("elements[1]"); got != "elements[1].settings" {
		t.Errorf("SettingsPath = %q", got)
	}
}

func TestResolve(t *testing.T) {
	doc, err := Parse([]byte(pageJSON))
	if err != nil {
		t.Fatal(err)
	}
	nodes := doc.Elements

	v, err := Resolve(nodes, "elements[0]")
	if err != nil {
		t.Fatalf("resolve node: %v", err)
	}
	if n, ok := v.(*Node); !ok || n.ID != "sec1" {
		t.Errorf("resolve elements[0] = %#v", v)
	}

	v, err = Resolve(nodes, "elements[0].elements[0].elements[0].settings")
	if err != nil {
		t.Fatalf("resolve settings: %v", err)
	}
	s, ok := v.(*Settings)
	if !ok || s.String("title") != "Welcome" {
		t.Errorf("resolve settings = %#v", v)
	}

	v, err = Resolve(nodes, "elements[0].elements[0].elements[0].settings.title")
	if err != nil {
		t.Fatalf("resolve value: %v", err)
	}
	if v != "Welcome" {
		t.Errorf("resolve value = %v", v)
	}
}

func TestResolveErrors(t *testing.T) {
	doc, _ := Parse([]byte(pageJSON))
	nodes := doc.Elements

	for _, path := range []string{
		"elements[9]",
		"elements[0].nosuch",
		"elements[0].settings.missing",
		"elements[0].elements[bad]",
	} {
		if _, err := Resolve(nodes, path); err == nil {
			t.Errorf("Resolve(%q): expected error", path)
		}
	}
}
