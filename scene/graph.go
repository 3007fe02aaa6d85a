// Package scene holds the declarative model of the hero scene: the
// node-graph ("constellation") description and the generated particle
// field. The model is pure data plus deterministic math; rendering lives
// in the render and fallback packages.
package scene

import (
	"fmt"

	"github.com/glowstack/herofx"
)

// Node is one labeled point of the constellation.
type Node struct {
	// ID uniquely identifies the node within a graph.
	ID string

	// Position is the node's location in scene space.
	Position herofx.Vec3

	// Size is the node's base radius in scene units.
	Size float64

	// Label is optional display text rendered next to the node.
	Label string
}

// GraphConfig describes the constellation: nodes, the index pairs to
// connect with line segments, and shared appearance parameters.
type GraphConfig struct {
	Nodes       []Node
	Connections [][2]int

	// Color is the base color for nodes and connections.
	Color herofx.RGBA

	// GlowIntensity scales node glow opacity.
	GlowIntensity float64

	// AnimationSpeed scales pulse and oscillation frequency.
	AnimationSpeed float64
}

// Validate checks the graph's structural invariants: node IDs must be
// unique and every connection must reference existing nodes.
func (c *GraphConfig) Validate() error {
	seen := make(map[string]struct{}, len(c.Nodes))
	for i, n := range c.Nodes {
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("scene: duplicate node id %q at index %d", n.ID, i)
		}
		seen[n.ID] = struct{}{}
	}
	for i, conn := range c.Connections {
		for _, idx := range conn {
			if idx < 0 || idx >= len(c.Nodes) {
				return fmt.Errorf("scene: connection %d references node index %d, have %d nodes",
					i, idx, len(c.Nodes))
			}
		}
	}
	return nil
}

// DefaultGraph returns a small decorative constellation used when the host
// supplies no graph of its own.
func DefaultGraph() GraphConfig {
	return GraphConfig{
		Nodes: []Node{
			{ID: "core", Position: herofx.V3(0, 0, 0), Size: 0.5},
			{ID: "n1", Position: herofx.V3(-2.2, 1.4, -0.5), Size: 0.3},
			{ID: "n2", Position: herofx.V3(2.0, 1.8, 0.3), Size: 0.35},
			{ID: "n3", Position: herofx.V3(-1.6, -1.9, 0.4), Size: 0.3},
			{ID: "n4", Position: herofx.V3(2.4, -1.2, -0.3), Size: 0.25},
			{ID: "n5", Position: herofx.V3(0.4, 2.6, -0.2), Size: 0.2},
		},
		Connections: [][2]int{
			{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 5}, {2, 5},
		},
		Color:          herofx.Hex("#7dd3fc"),
		GlowIntensity:  1.0,
		AnimationSpeed: 1.0,
	}
}
