// Command gameoflife drives the reactive Game of Life example to
// completion and prints each generation as a plain-text grid.
//
// Unlike the ncurses-driven original this example is adapted from, this
// driver runs for a fixed number of generations so it terminates on its
// own and can be scripted or piped.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/reactorkit/rrs"
	"github.com/reactorkit/rrs/examples/gameoflife"
)

func main() {
	width := flag.Int("width", 10, "board width")
	height := flag.Int("height", 10, "board height")
	generations := flag.Int("generations", 20, "number of generations to simulate")
	workers := flag.Int("workers", 0, "scheduler worker count (0 uses the runtime default)")
	flag.Parse()

	grid := glider(*width, *height)

	opts := []rrs.ExecuteOption{rrs.WithMaxInstants(2 * (*generations) + 4)}
	if *workers > 0 {
		opts = append(opts, rrs.WithWorkers(*workers))
	}

	sim := gameoflife.BuildSimulation(grid, os.Stdout, *generations)
	if _, err := rrs.Execute[struct{}](sim, opts...); err != nil {
		fmt.Fprintln(os.Stderr, "gameoflife:", err)
		os.Exit(1)
	}
}

// glider seeds a standard five-cell glider in the top-left corner of a
// width x height board.
func glider(width, height int) [][]bool {
	grid := make([][]bool, width)
	for x := range grid {
		grid[x] = make([]bool, height)
	}
	cells := [][2]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}
	for _, c := range cells {
		x, y := c[0], c[1]
		if x < width && y < height {
			grid[x][y] = true
		}
	}
	return grid
}
