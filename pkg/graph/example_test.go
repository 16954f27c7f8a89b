package graph_test

import (
	"fmt"
	"os"

	"github.com/matzehuels/graphvis/pkg/graph"
)

func ExampleGraph_Pairs() {
	g := graph.New()
	for _, id := range []string{"A", "B", "C"} {
		_ = g.AddNode(graph.Node{ID: id})
	}
	_ = g.AddEdge("A", "B")
	_ = g.AddEdge("B", "A")
	_ = g.AddEdge("C", "A")

	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Pairs:", g.Pairs())
	// Output:
	// Edges: 3
	// Pairs: [A-B A-C]
}

func ExampleWrite() {
	g := graph.New()
	_ = g.AddNode(graph.Node{ID: "A", X: 1, Y: 2, Size: 10, Color: "#ff0000"})
	_ = g.AddNode(graph.Node{ID: "B", X: 3, Y: 4, Size: 10, Color: "#00ff00"})
	_ = g.AddEdge("A", "B")

	if err := graph.Write(g, os.Stdout); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "A",
	//       "x": 1,
	//       "y": 2,
	//       "size": 10,
	//       "color": "#ff0000"
	//     },
	//     {
	//       "id": "B",
	//       "x": 3,
	//       "y": 4,
	//       "size": 10,
	//       "color": "#00ff00"
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "source": "A",
	//       "target": "B"
	//     }
	//   ]
	// }
}

func ExampleComponents() {
	g := graph.New()
	for _, id := range []string{"A", "B", "X"} {
		_ = g.AddNode(graph.Node{ID: id})
	}
	_ = g.AddEdge("A", "B")

	fmt.Println(graph.Components(g))
	// Output:
	// [[A B] [X]]
}
