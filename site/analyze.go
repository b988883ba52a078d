package site

import (
	"sort"

	"github.com/hazyhaar/pagebridge/transform"
)

// PageStats is the per-page slice of a site analysis.
type PageStats struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	PostType string `json:"post_type"`
	Elements int    `json:"elements"`
	Widgets  int    `json:"widgets"`
}

// TemplateStats is the per-template slice of a site analysis.
type TemplateStats struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	Elements int    `json:"elements"`
}

// Stats summarizes a whole export.
type Stats struct {
	TotalPages     int             `json:"total_pages"`
	TotalTemplates int             `json:"total_templates"`
	TotalAssets    int             `json:"total_assets"`
	GlobalColors   int             `json:"global_colors"`
	GlobalFonts    int             `json:"global_fonts"`
	Menus          []string        `json:"menus"`
	Pages          []PageStats     `json:"pages"`
	Templates      []TemplateStats `json:"templates"`
}

// Analyze summarizes the site without modifying it.
func Analyze(s *Site) Stats {
	st := Stats{
		TotalPages:     len(s.Pages),
		TotalTemplates: len(s.Templates),
		TotalAssets:    len(s.Assets),
		GlobalColors:   len(s.Settings.Colors),
		GlobalFonts:    len(s.Settings.Fonts),
		Menus:          make([]string, 0, len(s.Menus)),
		Pages:          make([]PageStats, 0, len(s.Pages)),
		Templates:      make([]TemplateStats, 0, len(s.Templates)),
	}
	for name := range s.Menus {
		st.Menus = append(st.Menus, name)
	}
	sort.Strings(st.Menus)
	for _, p := range s.Pages {
		ps := transform.Analyze(p.Document)
		st.Pages = append(st.Pages, PageStats{
			Title:    p.Title,
			Slug:     p.Slug,
			PostType: p.PostType,
			Elements: ps.TotalElements,
			Widgets:  ps.Widgets,
		})
	}
	for _, t := range s.Templates {
		ts := transform.Analyze(t.Document)
		st.Templates = append(st.Templates, TemplateStats{
			Title:    t.Title,
			Type:     t.Type,
			Elements: ts.TotalElements,
		})
	}
	return st
}
