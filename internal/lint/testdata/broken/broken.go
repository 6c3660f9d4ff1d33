// Package broken holds structs with every tag mistake keyed-lint reports.
package broken

type Good struct {
	Name  string `keyed:"meta.name"`
	Count int    `keyed:"count"`
}

type BadTag struct {
	Name string `keyed:"name,bogus"`
}

type EmptySegment struct {
	Double   string `keyed:"a..b"`
	Trailing string `keyed:"c."`
}

type Inner struct {
	Z string `keyed:"z"`
}

type Duplicate struct {
	First  string `keyed:"x.y"`
	Second string `keyed:"x.y"`
	Z      string `keyed:"z"`
	Inner  Inner  `keyed:",flat"`
}

type Conflict struct {
	Leaf   string `keyed:"a"`
	Nested string `keyed:"a.b"`
}

type FlatScalar struct {
	Count int `keyed:",flat"`
}

type FlatOK struct {
	Extra  map[string]string `keyed:",flat"`
	Inner  *Inner            `keyed:",flat"`
	Values []int             `keyed:"values"`
}

type FlatSlice struct {
	Name   string   `keyed:"name"`
	Values []string `keyed:",flat"`
}

type FlatSliceAlone struct {
	Values []string `keyed:",flat"`
}

type Location struct {
	Latitude float64 `keyed:"latitude"`
}

type UnknownTransform struct {
	Location Location `keyed:"loc,transform=missing"`
}

type Misspelt struct {
	Location Location `keyed:"loc,transform=toLocaton"`
}

type WrongTransform struct {
	Location string `keyed:"loc,transform=toLocation"`
}

type Cycle struct {
	Name string `keyed:"name"`
	Next *Cycle `keyed:",flat"`
}

type Embedded struct {
	Inner
	Name string `keyed:"name"`
}
