// Package mapview projects a session onto a renderable map of explored locations.
package mapview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/cory-johannsen/whatif/internal/game/state"
	"github.com/cory-johannsen/whatif/internal/game/world"
)

// Node is one location on the map.
type Node struct {
	ID      string
	Name    string
	Visited bool
	Current bool
}

// Edge is one discovered connection.
type Edge struct {
	From string
	To   string
	// Label is the exit label used to travel From -> To, when known.
	Label string
	// Bidirectional is set when the reverse connection is also discovered.
	Bidirectional bool
}

// Graph is the read-only projection of explored space.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Build projects g onto m. Nodes are visited locations plus known
// endpoints of discovered connections, ordered by first visit.
//
// Postcondition: Build does not modify m or g.
func Build(m *world.Model, g *state.GameState) Graph {
	seen := mapset.New[string]()
	var order []string
	add := func(id string) {
		if id == "" || seen.Has(id) {
			return
		}
		seen.Put(id)
		order = append(order, id)
	}
	for _, id := range g.VisitedLocations {
		add(id)
	}
	for _, c := range g.DiscoveredConnections {
		add(c[0])
		add(c[1])
	}

	visited := mapset.New[string]()
	for _, id := range g.VisitedLocations {
		visited.Put(id)
	}

	var graph Graph
	for _, id := range order {
		name := id
		if loc, ok := m.Location(id); ok {
			name = loc.Name
		}
		graph.Nodes = append(graph.Nodes, Node{
			ID:      id,
			Name:    name,
			Visited: visited.Has(id),
			Current: id == g.CurrentLocationID,
		})
	}

	pairs := mapset.New[state.Connection]()
	for _, c := range g.DiscoveredConnections {
		pairs.Put(c)
	}
	emitted := mapset.New[state.Connection]()
	for _, c := range g.DiscoveredConnections {
		reverse := state.Connection{c[1], c[0]}
		if emitted.Has(c) || emitted.Has(reverse) {
			continue
		}
		emitted.Put(c)
		graph.Edges = append(graph.Edges, Edge{
			From:          c[0],
			To:            c[1],
			Label:         exitLabel(m, c[0], c[1]),
			Bidirectional: pairs.Has(reverse),
		})
	}
	return graph
}

func exitLabel(m *world.Model, from, to string) string {
	loc, ok := m.Location(from)
	if !ok {
		return ""
	}
	for _, e := range loc.Exits {
		if e.TargetID == to {
			return e.Direction
		}
	}
	return ""
}

// Render draws g as indented text: one line per node, followed by its
// outgoing edges.
func Render(g Graph) string {
	if len(g.Nodes) == 0 {
		return ""
	}
	names := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		names[n.ID] = n.Name
	}
	out := make(map[string][]Edge)
	for _, e := range g.Edges {
		out[e.From] = append(out[e.From], e)
	}

	var sb strings.Builder
	for _, n := range g.Nodes {
		marker := "[ ]"
		switch {
		case n.Current:
			marker = "[@]"
		case n.Visited:
			marker = "[x]"
		}
		fmt.Fprintf(&sb, "%s %s\n", marker, n.Name)

		edges := out[n.ID]
		sort.SliceStable(edges, func(i, j int) bool { return edges[i].Label < edges[j].Label })
		for _, e := range edges {
			arrow := "->"
			if e.Bidirectional {
				arrow = "<->"
			}
			target := names[e.To]
			if target == "" {
				target = e.To
			}
			if e.Label != "" {
				fmt.Fprintf(&sb, "    %s %s (%s)\n", arrow, target, e.Label)
			} else {
				fmt.Fprintf(&sb, "    %s %s\n", arrow, target)
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
