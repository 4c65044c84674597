package graph_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/graph"
)

func ExampleWriteGlycan() {
	// The empty document: a reducing end carrying one GlcNAc.
	t := glycan.NewTree(glycan.NewRegistry())

	var buf bytes.Buffer
	if err := graph.WriteGlycan(t, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": 1,
	//       "kind": "redEnd",
	//       "children": [
	//         2
	//       ]
	//     },
	//     {
	//       "id": 2,
	//       "kind": "GlcNAc"
	//     }
	//   ]
	// }
}

func ExampleReadGlycan() {
	jsonData := `{
		"nodes": [
			{"id": 1, "kind": "redEnd", "children": [2]},
			{"id": 2, "kind": "GlcNAc", "children": [4, 3]},
			{"id": 3, "kind": "Gal"},
			{"id": 4, "kind": "Fuc", "side": "above", "anchor": 3}
		]
	}`

	t, err := graph.ReadGlycan(strings.NewReader(jsonData))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, n := range t.Children(2) {
		fmt.Printf("%d %s side=%q link=%d\n", n.ID, n.Kind, n.Side, t.LinkTarget(n.ID))
	}
	fmt.Println("next id:", t.Registry().Next())
	// Output:
	// 4 Fuc side="above" link=3
	// 3 Gal side="" link=2
	// next id: 5
}
