package site

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hazyhaar/pagebridge/tree"
)

// Page is one page or post from the export.
type Page struct {
	ID       int64
	Title    string
	Slug     string
	PostType string
	Status   string
	Document *tree.Document
	Meta     map[string]any
}

// Template is a theme-builder template (header, footer, single, archive).
type Template struct {
	ID         string
	Type       string
	Title      string
	Conditions []any
	Document   *tree.Document
}

// GlobalColor is one entry of the site's color system.
type GlobalColor struct {
	ID    string
	Title string
	Color string
}

// GlobalFont is one entry of the site's typography system.
type GlobalFont struct {
	ID     string
	Title  string
	Family string
	Weight string
}

// Settings holds the export's global configuration.
type Settings struct {
	Name           string
	Description    string
	CustomCSS      string
	ContainerWidth int
	Colors         []GlobalColor
	Fonts          []GlobalFont
}

// Color resolves a global color reference by its _id.
func (s *Settings) Color(id string) (string, bool) {
	for _, c := range s.Colors {
		if c.ID == id {
			return c.Color, true
		}
	}
	return "", false
}

// FontFamily resolves a global font reference by its _id.
func (s *Settings) FontFamily(id string) (string, bool) {
	for _, f := range s.Fonts {
		if f.ID == id {
			return f.Family, true
		}
	}
	return "", false
}

// CSSVariables renders the global colors and fonts as CSS custom
// properties on :root.
func (s *Settings) CSSVariables() string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, c := range s.Colors {
		b.WriteString(fmt.Sprintf("  --color-%s: %s;\n", cssVarName(c.Title), c.Color))
	}
	for _, f := range s.Fonts {
		family := f.Family
		if family == "" {
			family = "sans-serif"
		}
		b.WriteString(fmt.Sprintf("  --font-%s: '%s', sans-serif;\n", cssVarName(f.Title), family))
	}
	b.WriteString("}")
	return b.String()
}

// GoogleFontsImport builds a @import rule covering every global font
// family. Returns the empty string when no families are set.
func (s *Settings) GoogleFontsImport() string {
	seen := make(map[string]bool)
	var families []string
	for _, f := range s.Fonts {
		if f.Family == "" {
			continue
		}
		weight := f.Weight
		if weight == "" {
			weight = "400"
		}
		spec := f.Family + ":wght@" + weight
		if !seen[spec] {
			seen[spec] = true
			families = append(families, spec)
		}
	}
	if len(families) == 0 {
		return ""
	}
	sort.Strings(families)
	param := strings.ReplaceAll(strings.Join(families, "|"), " ", "+")
	return fmt.Sprintf(`@import url("https://fonts.googleapis.com/css2?family=%s&display=swap");`, param)
}

func cssVarName(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

// Site is a fully parsed export.
type Site struct {
	Settings  Settings
	Pages     []*Page
	Templates []*Template
	Menus     map[string][]any
	Assets    []string
}

// PageBySlug returns the page with the given slug, or nil.
func (s *Site) PageBySlug(slug string) *Page {
	for _, p := range s.Pages {
		if p.Slug == slug {
			return p
		}
	}
	return nil
}

// TemplateByType returns the first template of the given type, or nil.
func (s *Site) TemplateByType(t string) *Template {
	for _, tpl := range s.Templates {
		if tpl.Type == t {
			return tpl
		}
	}
	return nil
}

func (s *Site) Header() *Template { return s.TemplateByType("header") }
func (s *Site) Footer() *Template { return s.TemplateByType("footer") }
