// Command hllexample is a minimal demonstration of the hll package: it
// adds a run of integers to two sketches, one built with an overlapping
// range, and prints each sketch's standalone and merged cardinality
// estimate.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"

	"github.com/dnxjcui/hyperanf/hll"
)

func main() {
	p := flag.Uint("p", 14, "precision (log2 of register count)")
	n := flag.Uint("n", 100000, "number of elements to add to the first sketch")
	overlap := flag.Uint("overlap", 50000, "number of elements shared between both sketches")
	sparse := flag.Bool("sparse", true, "start sketches in sparse mode")
	flag.Parse()

	a, err := hll.New(hll.Config{P: uint8(*p), Sparse: *sparse})
	if err != nil {
		log.Fatalf("hll.New: %v", err)
	}

	b, err := hll.New(hll.Config{P: uint8(*p), Sparse: *sparse})
	if err != nil {
		log.Fatalf("hll.New: %v", err)
	}

	var buf [8]byte

	for i := uint(0); i < *n; i++ {
		binary.LittleEndian.PutUint64(buf[:], uint64(i))
		a.Add(buf[:])
	}

	for i := *n - *overlap; i < *n-*overlap+*n; i++ {
		binary.LittleEndian.PutUint64(buf[:], uint64(i))
		b.Add(buf[:])
	}

	fmt.Printf("sketch a: added=%d cardinality=%d\n", a.Added(), a.Cardinality())
	fmt.Printf("sketch b: added=%d cardinality=%d\n", b.Added(), b.Cardinality())

	if !a.Merge(b) {
		log.Fatal("merge failed: incompatible sketch sizes")
	}

	fmt.Printf("merged: cardinality=%d\n", a.Cardinality())
}
