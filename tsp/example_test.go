package tsp_test

import (
	"fmt"

	"github.com/katalvlaran/tspmeta/matrix"
	"github.com/katalvlaran/tspmeta/tsp"
)

// ExamplePathLength evaluates a closed tour over four cities on a unit square.
func ExamplePathLength() {
	m, _ := matrix.NewDenseFrom([][]float64{
		{0, 1, 10, 1},
		{1, 0, 1, 10},
		{10, 1, 0, 1},
		{1, 10, 1, 0},
	})
	perimeter, _ := tsp.PathLength(m, []int{0, 1, 2, 3})
	crossed, _ := tsp.PathLength(m, []int{0, 2, 1, 3})
	fmt.Println(perimeter, crossed)
	// Output: 4 22
}

// ExampleSolveWithMatrix runs every search on the smallest valid instance.
func ExampleSolveWithMatrix() {
	m, _ := matrix.NewDenseFrom([][]float64{{0, 5}, {5, 0}})
	cfg := tsp.DefaultConfigs()
	cfg.Genetic.PopulationSize = 10
	cfg.Genetic.Generations = 5
	cfg.Annealing.Iterations = 100
	cfg.Colony.Ants = 3
	cfg.Colony.Iterations = 2

	for _, alg := range tsp.Algorithms {
		res, err := tsp.SolveWithMatrix(m, alg, cfg, tsp.WithSeed(1))
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Printf("%s %.0f\n", alg, res.Cost)
	}
	// Output:
	// genetic 10
	// annealing 10
	// colony 10
}

// ExampleTwoOpt polishes a crossing tour on the unit square.
func ExampleTwoOpt() {
	m, _ := matrix.NewDenseFrom([][]float64{
		{0, 1, 10, 1},
		{1, 0, 1, 10},
		{10, 1, 0, 1},
		{1, 10, 1, 0},
	})
	cm, _ := tsp.NewCostModel(m)
	tour, cost := tsp.TwoOpt(cm, []int{0, 2, 1, 3}, 0)
	fmt.Println(tsp.DebugString(tour), cost)
	// Output: [0 1 2 3 | 0] 4
}
