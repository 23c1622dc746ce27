// Command trafficsim drives the reactive traffic simulation example to
// completion and prints the number of admitted cars.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/reactorkit/rrs"
	"github.com/reactorkit/rrs/examples/trafficsim"
)

func main() {
	lanes := []trafficsim.Lane{
		{Name: "north", Route: []int{0, 1, 2}},
		{Name: "east", Route: []int{3, 1, 4}},
		{Name: "south", Route: []int{2, 1, 0}},
	}
	rates := map[time.Duration]int{
		time.Second: 3,
	}

	sim := trafficsim.BuildSimulation(5, lanes, 4, rates)

	admitted, err := rrs.Execute[int](sim, rrs.WithMaxInstants(64))
	if err != nil {
		fmt.Fprintln(os.Stderr, "trafficsim:", err)
		os.Exit(1)
	}
	fmt.Printf("admitted %d cars across %d lanes\n", admitted, len(lanes))
}
