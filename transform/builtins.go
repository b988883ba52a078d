package transform

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/pagebridge/zone"
)

// ErrUnknownTransform is returned by Named for an unregistered name.
var ErrUnknownTransform = fmt.Errorf("transform: unknown transform")

// Identity returns the zone unchanged.
func Identity() Func {
	return func(z zone.Zone) (zone.Zone, error) { return z, nil }
}

// ReplaceText substitutes old with new in every string value of the
// zone. Typically run with a content-only filter.
func ReplaceText(old, new string) Func {
	return func(z zone.Zone) (zone.Zone, error) {
		mapStrings(z, func(s string) string {
			return strings.ReplaceAll(s, old, new)
		})
		return z, nil
	}
}

// PrefixText prepends prefix to every non-blank string value of the
// zone.
func PrefixText(prefix string) Func {
	return func(z zone.Zone) (zone.Zone, error) {
		mapStrings(z, func(s string) string {
			if strings.TrimSpace(s) == "" {
				return s
			}
			return prefix + s
		})
		return z, nil
	}
}

// Named resolves a built-in transform by name. Available: identity,
// replace (args: old, new), prefix (args: prefix).
func Named(name string, args map[string]string) (Func, error) {
	switch name {
	case "", "identity":
		return Identity(), nil
	case "replace":
		old, ok := args["old"]
		if !ok || old == "" {
			return nil, fmt.Errorf("transform: replace needs a non-empty %q argument", "old")
		}
		return ReplaceText(old, args["new"]), nil
	case "prefix":
		p, ok := args["prefix"]
		if !ok {
			return nil, fmt.Errorf("transform: prefix needs a %q argument", "prefix")
		}
		return PrefixText(p), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, name)
	}
}

func mapStrings(z zone.Zone, fn func(string) string) {
	z.Data.Range(func(key string, value any) bool {
		if s, ok := value.(string); ok {
			z.Data.Set(key, fn(s))
		}
		return true
	})
}
