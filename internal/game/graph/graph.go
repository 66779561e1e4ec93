// Package graph holds the static room topology. A Graph is built once at
// startup and never mutated afterwards; every other component refers to rooms
// by name only.
package graph

import "sort"

type Room struct {
	Name        string
	Description string
}

type Graph struct {
	rooms map[string]Room
	adj   map[string]map[string]bool
	entry string
}

func newGraph(entry string) *Graph {
	return &Graph{
		rooms: make(map[string]Room),
		adj:   make(map[string]map[string]bool),
		entry: entry,
	}
}

func (g *Graph) addRoom(r Room) {
	g.rooms[r.Name] = r
	if g.adj[r.Name] == nil {
		g.adj[r.Name] = make(map[string]bool)
	}
}

// connect records an undirected edge. Symmetry is enforced here so it cannot
// drift: there is no way to add a one-way connection.
func (g *Graph) connect(a, b string) {
	if a == b {
		return
	}
	g.adj[a][b] = true
	g.adj[b][a] = true
}

func (g *Graph) Entry() string { return g.entry }

func (g *Graph) Has(room string) bool {
	_, ok := g.rooms[room]
	return ok
}

func (g *Graph) Describe(room string) string {
	return g.rooms[room].Description
}

// Rooms returns all room names in sorted order.
func (g *Graph) Rooms() []string {
	names := make([]string, 0, len(g.rooms))
	for name := range g.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (g *Graph) Adjacent(a, b string) bool {
	return g.adj[a][b]
}

// Neighbors returns the rooms directly connected to room, sorted.
func (g *Graph) Neighbors(room string) []string {
	names := make([]string, 0, len(g.adj[room]))
	for name := range g.adj[room] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HopDistance returns the shortest number of moves between two rooms via BFS.
// ok is false when either room is unknown or no path exists.
func (g *Graph) HopDistance(a, b string) (dist int, ok bool) {
	if !g.Has(a) || !g.Has(b) {
		return 0, false
	}
	if a == b {
		return 0, true
	}
	visited := map[string]bool{a: true}
	frontier := []string{a}
	for dist = 1; len(frontier) > 0; dist++ {
		var next []string
		for _, cur := range frontier {
			for n := range g.adj[cur] {
				if visited[n] {
					continue
				}
				if n == b {
					return dist, true
				}
				visited[n] = true
				next = append(next, n)
			}
		}
		frontier = next
	}
	return 0, false
}
