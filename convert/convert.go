// CLAUDE:SUMMARY Converter interface and the explicit source→target registry.
// Package convert renders a page tree into target builder dialects.
//
// Converters are stateless template filling: they consume the parsed tree
// and produce output syntax, sharing no state with the transform core. The
// registry is built once at process start and passed to whoever needs it;
// there is no package-level mutable table.
package convert

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hazyhaar/pagebridge/tree"
)

// ErrUnknownPair is returned when no converter is registered for a
// source→target pair.
var ErrUnknownPair = errors.New("convert: no converter for pair")

// Converter renders a node list into one target dialect.
type Converter interface {
	// Convert renders the nodes. Rendering is best-effort for dialects
	// that cannot represent every widget; unknown widgets degrade to a
	// generic representation rather than failing.
	Convert(nodes []*tree.Node) (string, error)

	// Ext is the natural file extension for the dialect ("html", "json",
	// "txt", "md").
	Ext() string
}

// Pair identifies a registered conversion.
type Pair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Registry maps source→target pairs to converters.
type Registry struct {
	converters map[Pair]Converter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[Pair]Converter)}
}

// Default returns a registry with all built-in converters registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register("elementor", "html", NewHTML())
	r.Register("elementor", "gutenberg", NewGutenberg())
	r.Register("elementor", "divi", NewDivi())
	r.Register("elementor", "wpbakery", NewWPBakery())
	r.Register("elementor", "bricks", NewBricks())
	r.Register("elementor", "markdown", NewMarkdown())
	r.Register("elementor", "elementor", NewElementor())
	return r
}

// Register adds a converter for a source→target pair, replacing any
// previous registration.
func (r *Registry) Register(source, target string, c Converter) {
	r.converters[Pair{source, target}] = c
}

// Get returns the converter for a pair.
func (r *Registry) Get(source, target string) (Converter, error) {
	c, ok := r.converters[Pair{source, target}]
	if !ok {
		return nil, fmt.Errorf("%w: %s→%s", ErrUnknownPair, source, target)
	}
	return c, nil
}

// Pairs lists the registered pairs, sorted for stable output.
func (r *Registry) Pairs() []Pair {
	out := make([]Pair, 0, len(r.converters))
	for p := range r.converters {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}
