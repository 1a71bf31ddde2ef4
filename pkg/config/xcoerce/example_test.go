package xcoerce_test

import (
	"fmt"

	"github.com/omeyang/xfire/pkg/config/xcoerce"
)

func ExampleConvert() {
	b, _ := xcoerce.Convert("Yes", "boolean")
	n, _ := xcoerce.Convert("42", "int")
	l, _ := xcoerce.Convert("a, b, c", "list")
	s, _ := xcoerce.Convert(`["x","y","x"]`, "set")
	raw, _ := xcoerce.Convert("kept", "custom")

	fmt.Println(b, n, l, s.(xcoerce.Set).Items(), raw)
	// Output: true 42 [a b c] [x y] kept
}

func ExampleParseBool() {
	_, err := xcoerce.ParseBool("maybe")
	fmt.Println(err)
	// Output: xcoerce: invalid boolean token: "maybe"
}
