package glycan_test

import (
	"fmt"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	"github.com/matzehuels/glycodraw/pkg/errors"
)

func ExampleNewTree() {
	reg := glycan.NewRegistry()
	t := glycan.NewTree(reg)

	root := t.Root()
	fmt.Println(root.Kind, len(root.Children))
	for _, n := range t.Children(root.ID) {
		fmt.Println(n.ID, n.Kind)
	}
	// Output:
	// redEnd 1
	// 2 GlcNAc
}

func ExampleTree_AppendChild() {
	reg := glycan.NewRegistry()
	t := glycan.NewTree(reg)
	first := t.Root().Children[0]

	fmt.Println(t.AppendChild(first, reg.NewNode(glycan.Gal)))
	fmt.Println(t.AppendChild(first, reg.NewNode(glycan.Fuc)))

	// A second fucose would share the Above slot.
	err := t.AppendChild(first, reg.NewNode(glycan.Fuc))
	fmt.Println(errors.GetCode(err))

	for _, n := range t.Children(first) {
		fmt.Printf("%s %q\n", n.Kind, n.Side)
	}
	// Output:
	// <nil>
	// <nil>
	// SLOT_CONFLICT
	// Gal ""
	// Fuc "above"
}

func ExampleParseKind() {
	k, _ := glycan.ParseKind("Neu5Ac")
	fmt.Println(int(k), k.Family(), k.Color())
	// Output: 96 Sia #A54399
}
