package transform

import (
	"github.com/hazyhaar/pagebridge/extract"
	"github.com/hazyhaar/pagebridge/tree"
	"github.com/hazyhaar/pagebridge/zone"
)

// contentPreviewSize is how many content items the stats carry inline.
const contentPreviewSize = 5

// Stats is the aggregate report over one document.
type Stats struct {
	TotalElements     int               `json:"total_elements"`
	Sections          int               `json:"sections"`
	Columns           int               `json:"columns"`
	Widgets           int               `json:"widgets"`
	WidgetTags        map[string]int    `json:"widget_types"`
	TotalZones        int               `json:"total_zones"`
	ZonesByType       map[zone.Type]int `json:"zones_by_type"`
	ContentItems      int               `json:"content_items"`
	ContentPreview    []extract.Item    `json:"content_preview"`
	PreservationLabel string            `json:"metadata_preservation"`
}

// Analyze aggregates zone and content statistics for a document.
func Analyze(doc *tree.Document) *Stats {
	return AnalyzeNodes(doc.Elements)
}

// AnalyzeNodes aggregates statistics for a node list. It has no logic of
// its own: everything is derived from classification and extraction.
func AnalyzeNodes(nodes []*tree.Node) *Stats {
	stats := &Stats{
		WidgetTags:        map[string]int{},
		ZonesByType:       map[zone.Type]int{},
		PreservationLabel: "100%",
	}
	for _, t := range zone.Types() {
		stats.ZonesByType[t] = 0
	}

	for _, n := range nodes {
		countNode(n, stats)
	}

	zones := zone.ClassifyNodes(nodes)
	stats.TotalZones = len(zones)
	for _, z := range zones {
		stats.ZonesByType[z.Type]++
	}

	items := extract.ContentFromNodes(nodes)
	stats.ContentItems = len(items)
	if len(items) > contentPreviewSize {
		items = items[:contentPreviewSize]
	}
	stats.ContentPreview = items
	return stats
}

func countNode(n *tree.Node, stats *Stats) {
	if n == nil {
		return
	}
	stats.TotalElements++
	switch n.Kind.Canonical() {
	case tree.KindSection:
		stats.Sections++
	case tree.KindColumn:
		stats.Columns++
	case tree.KindWidget:
		stats.Widgets++
		tag := n.WidgetTag
		if tag == "" {
			tag = "unknown"
		}
		stats.WidgetTags[tag]++
	}
	for _, c := range n.Children {
		countNode(c, stats)
	}
}
