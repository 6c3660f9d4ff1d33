package container

import "fmt"

// EmptySequence is an UnkeyedDecoder with no elements.
var EmptySequence UnkeyedDecoder = emptySequence{}

type emptySequence struct{}

func (emptySequence) Len() int { return 0 }

func (emptySequence) At(i int) Decoder {
	panic(fmt.Sprintf("container: index %d out of range [0:0]", i))
}
