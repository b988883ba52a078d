package convert

import (
	"encoding/json"
	"fmt"

	"github.com/hazyhaar/pagebridge/tree"
)

// Elementor re-exports the tree as Elementor JSON. Combined with a
// transform pass this gives source-to-source rewrites.
type Elementor struct{}

func NewElementor() *Elementor { return &Elementor{} }

func (c *Elementor) Ext() string { return "json" }

func (c *Elementor) Convert(nodes []*tree.Node) (string, error) {
	out, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		return "", fmt.Errorf("convert: encode elementor tree: %w", err)
	}
	return string(out), nil
}
