package frame_test

import (
	"fmt"
	"time"

	"github.com/danmuck/stsctl/internal/datum"
	"github.com/danmuck/stsctl/internal/protocol/frame"
)

func ExampleEncode() {
	b, err := frame.Encode(datum.NewInteger(100, time.Unix(1234567890, 0), 42))
	if err != nil {
		panic(err)
	}
	fmt.Printf("% x\n", b)

	d, err := frame.Decode(b)
	if err != nil {
		panic(err)
	}
	fmt.Println(d)
	// Output:
	// 8e 00 00 00 64 00 49 96 02 d2 00 00 00 2a
	// Datum(id=100, format=INTEGER, timestamp=1234567890, value=42)
}
