// Package zone partitions a node's settings into functional zones.
//
// Every settings key is assigned to exactly one zone: layout (structural),
// user-visible content, presentation (styling), interactivity (behavioral),
// or framework bookkeeping (meta). The partition is total: classifying a
// node drops no key and duplicates none, which is what lets the transform
// layer prove that untouched data survives a conversion byte-identical.
package zone

import (
	"strings"

	"github.com/hazyhaar/pagebridge/tree"
)

// Type identifies the functional role of a zone.
type Type string

const (
	Structural Type = "structural" // layout containers and wiring
	Content    Type = "content"    // user-visible text and media
	Styling    Type = "styling"    // colors, fonts, spacing
	Behavioral Type = "behavioral" // animations, triggers
	Meta       Type = "meta"       // ids, timestamps, framework data
)

// Types lists all zone types in classification order.
func Types() []Type {
	return []Type{Structural, Content, Styling, Behavioral, Meta}
}

// Zone is one typed partition of a settings map.
type Zone struct {
	Type       Type           `json:"type"`
	Path       string         `json:"path"`
	Data       *tree.Settings `json:"data"`
	SourceKeys []string       `json:"source_keys"`
}

// structuralKeys is the closed set of keys that always classify as
// structural, regardless of the keyword rules below.
var structuralKeys = map[string]bool{
	"elType":     true,
	"widgetType": true,
	"elements":   true,
	"isInner":    true,
	"id":         true,
	"_id":        true,
	"columns":    true,
	"rows":       true,
	"section":    true,
	"column":     true,
}

var (
	contentKeywords = []string{
		"text", "title", "content", "description",
		"heading", "editor", "caption", "label",
	}
	stylingKeywords = []string{
		"color", "background", "margin", "padding",
		"border", "font", "size", "typography",
	}
	behavioralKeywords = []string{
		"animation", "motion", "hover", "scroll", "trigger",
	}
)

// ClassifyKey assigns a single settings key to a zone type. The rule chain
// is evaluated top to bottom, first match wins, and keyword rules test the
// literal whole key case-insensitively, so a compound key like "title_color"
// matches the content rule before the styling rule ever runs.
func ClassifyKey(key string) Type {
	if structuralKeys[key] {
		return Structural
	}
	lower := strings.ToLower(key)
	for _, kw := range contentKeywords {
		if strings.Contains(lower, kw) {
			return Content
		}
	}
	for _, kw := range stylingKeywords {
		if strings.Contains(lower, kw) {
			return Styling
		}
	}
	for _, kw := range behavioralKeywords {
		if strings.Contains(lower, kw) {
			return Behavioral
		}
	}
	return Meta
}

// IsContentKey reports whether a key matches the content keyword rule. The
// extract package shares this rule so that content extraction and zone
// classification can never disagree.
func IsContentKey(key string) bool {
	lower := strings.ToLower(key)
	for _, kw := range contentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
