// CLAUDE:SUMMARY Recursive zone classification over nodes and nested settings maps.
package zone

import (
	"github.com/hazyhaar/pagebridge/tree"
)

// Classify partitions a node's settings into zones and recurses into its
// children. Zone paths address the settings map they partition:
// a node at "elements[0]" yields zones at "elements[0].settings".
//
// Output order per node: structural, content, styling, behavioral, meta,
// then zones from maps nested inside the settings, then each child's zones
// in document order. Classification never fails; a node with no settings
// and no children yields an empty list.
func Classify(n *tree.Node, path string) []Zone {
	if n == nil {
		return nil
	}
	zones := ClassifyMap(n.Settings, tree.SettingsPath(path))
	for i, c := range n.Children {
		zones = append(zones, Classify(c, tree.ChildPath(path, i))...)
	}
	return zones
}

// ClassifyNodes classifies a node list, addressing each top-level node
// under elements[i].
func ClassifyNodes(nodes []*tree.Node) []Zone {
	var zones []Zone
	for i, n := range nodes {
		zones = append(zones, Classify(n, tree.ChildPath("", i))...)
	}
	return zones
}

// ClassifyMap partitions one settings map into zones at the given path.
// It recurses into an "elements" member (a list of widget objects nested
// inside repeater fields) and a nested "settings" member; the member keys
// themselves still count toward this map's own partition.
func ClassifyMap(s *tree.Settings, path string) []Zone {
	if s.Len() == 0 {
		return nil
	}

	buckets := make(map[Type]*tree.Settings)
	order := make(map[Type][]string)

	s.Range(func(key string, value any) bool {
		t := ClassifyKey(key)
		b := buckets[t]
		if b == nil {
			b = tree.NewSettings()
			buckets[t] = b
		}
		b.Set(key, value)
		order[t] = append(order[t], key)
		return true
	})

	var zones []Zone
	for _, t := range Types() {
		if b := buckets[t]; b != nil {
			zones = append(zones, Zone{
				Type:       t,
				Path:       path,
				Data:       b,
				SourceKeys: order[t],
			})
		}
	}

	// Descend into nested structures after this map's own zones.
	if v, ok := s.Get("elements"); ok {
		if list, ok := v.([]any); ok {
			for i, item := range list {
				if m, ok := item.(*tree.Settings); ok {
					zones = append(zones, ClassifyMap(m, tree.ChildPath(path, i))...)
				}
			}
		}
	}
	if v, ok := s.Get("settings"); ok {
		if m, ok := v.(*tree.Settings); ok {
			zones = append(zones, ClassifyMap(m, tree.SettingsPath(path))...)
		}
	}
	return zones
}
