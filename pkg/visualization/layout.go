package visualization

import (
	"fmt"
	"sort"
	"strings"
)

// Layout names accepted by New
const (
	LayoutSpring       = "spring"
	LayoutCircular     = "circular"
	LayoutKamadaKawai  = "kamada_kawai"
	LayoutSpectral     = "spectral"
	LayoutShell        = "shell"
	LayoutSpiral       = "spiral"
	LayoutRandom       = "random"
	LayoutBipartite    = "bipartite"
	LayoutHierarchical = "hierarchical"
)

var layouts = map[string]func(*LayoutConfig) Layout{
	LayoutSpring:       func(c *LayoutConfig) Layout { return NewForceDirectedLayout(c) },
	LayoutCircular:     func(c *LayoutConfig) Layout { return NewCircularLayout(c) },
	LayoutKamadaKawai:  func(c *LayoutConfig) Layout { return NewKamadaKawaiLayout(c) },
	LayoutSpectral:     func(c *LayoutConfig) Layout { return NewSpectralLayout(c) },
	LayoutShell:        func(c *LayoutConfig) Layout { return NewShellLayout(c) },
	LayoutSpiral:       func(c *LayoutConfig) Layout { return NewSpiralLayout(c) },
	LayoutRandom:       func(c *LayoutConfig) Layout { return NewRandomLayout(c) },
	LayoutBipartite:    func(c *LayoutConfig) Layout { return NewBipartiteLayout(c) },
	LayoutHierarchical: func(c *LayoutConfig) Layout { return NewHierarchicalLayout(c) },
}

// New returns the layout registered under name (case-insensitive). The
// configuration must ask for 2 or 3 dimensions.
func New(name string, config *LayoutConfig) (Layout, error) {
	ctor, ok := layouts[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	c := withDefaults(config)
	if c.Dimensions != 2 && c.Dimensions != 3 {
		return nil, fmt.Errorf("%d dimensions: %w", c.Dimensions, ErrUnsupportedDimensions)
	}
	return ctor(c), nil
}

// Known reports whether name is a registered layout
func Known(name string) bool {
	_, ok := layouts[strings.ToLower(name)]
	return ok
}

// Names lists the registered layouts in alphabetical order
func Names() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
