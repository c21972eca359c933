package columns_test

import (
	"fmt"

	"github.com/matzehuels/gridkit/pkg/columns"
)

func ExampleResolve() {
	cols := []columns.Column{
		{Key: "name", Width: columns.Fr(1)},
		{Key: "type", Width: columns.Fr(1)},
		{Key: "height", Width: columns.Px(150)},
		{Key: "weight", Width: columns.Px(150)},
		{Key: "level", Width: columns.Fr(4)},
	}
	fmt.Println(columns.Resolve(900, cols))
	fmt.Println(columns.Resolve(1000, cols))
	// Output:
	// [100 100 150 150 400]
	// [117 117 150 150 466]
}

func ExampleLayout_ResizeColumn() {
	l := columns.NewLayout(columns.Options{})
	l.SetColumns([]columns.Spec{
		{Key: "name", DefaultWidth: columns.Fr(1)},
		{Key: "type", DefaultWidth: columns.Fr(1)},
		{Key: "level", DefaultWidth: columns.Fr(2)},
	})
	l.BuildWidths(400)
	l.ResizeColumn(400, "name", 50)
	fmt.Println(l.Ordered())
	// Output:
	// [50 117 233]
}
