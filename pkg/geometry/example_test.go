package geometry_test

import (
	"fmt"

	"github.com/matzehuels/fixturefit/pkg/geometry"
)

func ExampleClassify() {
	room := geometry.Room{Width: 200, Depth: 250}

	sink := geometry.Rect{X: 0, Y: 100, Width: 50, Depth: 40}
	shower := geometry.Rect{X: 110, Y: 160, Width: 90, Depth: 90}

	fmt.Println(geometry.Classify(sink, room))
	fmt.Println(geometry.Classify(shower, room))
	// Output:
	// top
	// bottom-right
}

func ExampleTransformClearance() {
	room := geometry.Room{Width: 200, Depth: 250}
	toilet := geometry.Rect{X: 0, Y: 100, Width: 38, Depth: 65}
	clearance := geometry.Clearance{Front: 60, Left: 20, Right: 20}

	m := geometry.TransformClearance(toilet, clearance, geometry.Classify(toilet, room))
	fmt.Printf("%+v\n", m)
	fmt.Println(m.Expand(toilet))
	// Output:
	// {Top:0 Left:20 Right:20 Bottom:60}
	// (0,80 78x125)
}
