package graph

import (
	"fmt"
	"math/rand"
)

// Manor is the fixed default topology: one hub (Hallway) with four leaves.
// The entry room is the Library.
func Manor() *Graph {
	g := newGraph("Library")
	g.addRoom(Room{Name: "Library", Description: "A dusty library with old books and a fireplace"})
	g.addRoom(Room{Name: "Kitchen", Description: "A modern kitchen with various appliances"})
	g.addRoom(Room{Name: "Hallway", Description: "A central hallway connecting all rooms"})
	g.addRoom(Room{Name: "Basement", Description: "A dark, damp basement with storage boxes"})
	g.addRoom(Room{Name: "Attic", Description: "A cramped attic filled with old furniture"})

	g.connect("Library", "Hallway")
	g.connect("Kitchen", "Hallway")
	g.connect("Basement", "Hallway")
	g.connect("Attic", "Hallway")
	return g
}

var generatedNames = []string{
	"Foyer", "Study", "Parlor", "Cellar", "Conservatory", "Gallery",
	"Pantry", "Ballroom", "Nursery", "Observatory", "Chapel", "Vault",
}

// Generate builds a procedural house of n rooms from seed. The result is
// always connected: a random spanning tree first, then a few extra corridors.
// The entry room is the first room drawn.
func Generate(seed int64, n int) *Graph {
	if n < 2 {
		n = 2
	}
	rng := rand.New(rand.NewSource(seed))

	names := make([]string, n)
	for i := range names {
		if i < len(generatedNames) {
			names[i] = generatedNames[i]
		} else {
			names[i] = fmt.Sprintf("%s %d", generatedNames[i%len(generatedNames)], i/len(generatedNames)+1)
		}
	}
	rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	g := newGraph(names[0])
	for _, name := range names {
		g.addRoom(Room{Name: name, Description: "A " + name + " of the old house"})
	}

	// Spanning tree: each room links to one earlier room.
	for i := 1; i < n; i++ {
		g.connect(names[i], names[rng.Intn(i)])
	}

	// Extra corridors, roughly one per four rooms.
	for i := 0; i < n/4; i++ {
		a := names[rng.Intn(n)]
		b := names[rng.Intn(n)]
		g.connect(a, b)
	}
	return g
}
