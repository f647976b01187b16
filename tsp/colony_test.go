package tsp_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/tspmeta/matrix"
	"github.com/katalvlaran/tspmeta/tsp"
)

func TestColonyConfig_Validate(t *testing.T) {
	require.NoError(t, tsp.DefaultColonyConfig().Validate())

	cases := []struct {
		name string
		mut  func(c *tsp.ColonyConfig)
	}{
		{"ants 0", func(c *tsp.ColonyConfig) { c.Ants = 0 }},
		{"iterations 0", func(c *tsp.ColonyConfig) { c.Iterations = 0 }},
		{"alpha negative", func(c *tsp.ColonyConfig) { c.Alpha = -1 }},
		{"beta inf", func(c *tsp.ColonyConfig) { c.Beta = math.Inf(1) }},
		{"evaporation negative", func(c *tsp.ColonyConfig) { c.EvaporationRate = -0.1 }},
		{"evaporation > 1", func(c *tsp.ColonyConfig) { c.EvaporationRate = 1.1 }},
		{"q zero", func(c *tsp.ColonyConfig) { c.Q = 0 }},
		{"initial pheromone zero", func(c *tsp.ColonyConfig) { c.InitialPheromone = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tsp.DefaultColonyConfig()
			tc.mut(&cfg)
			require.ErrorIs(t, cfg.Validate(), tsp.ErrInvalidConfiguration)

			_, err := tsp.NewColony(square4(t), cfg)
			require.ErrorIs(t, err, tsp.ErrInvalidConfiguration)
		})
	}
}

// ColonySuite covers the pheromone lifecycle on the 4-city square.
type ColonySuite struct {
	suite.Suite
	cfg tsp.ColonyConfig
	m   *matrix.Dense
	c   *tsp.ColonySearch
}

func (s *ColonySuite) SetupTest() {
	s.cfg = tsp.DefaultColonyConfig()
	s.cfg.Ants = 5
	s.cfg.Iterations = 10
	s.cfg.EvaporationRate = 0.3
	s.cfg.Q = 8
	s.m = square4(s.T())

	var err error
	s.c, err = tsp.NewColony(s.m, s.cfg, tsp.WithSeed(seedDet))
	s.Require().NoError(err)
}

func (s *ColonySuite) pheromones() *matrix.Dense {
	p, err := s.c.Pheromones()
	s.Require().NoError(err)

	return p
}

// TestInitialUniform: τ starts at InitialPheromone everywhere.
func (s *ColonySuite) TestInitialUniform() {
	want, err := matrix.NewFilled(4, 4, s.cfg.InitialPheromone)
	s.Require().NoError(err)
	s.Require().True(s.pheromones().Equal(want, 0))
	s.Require().Equal(tsp.Snapshot{}, s.c.Best())
}

// TestEvaporationOnly: with nothing staged, τ becomes exactly τ·(1-ρ).
func (s *ColonySuite) TestEvaporationOnly() {
	want := s.pheromones()
	s.Require().NoError(want.Scale(1 - s.cfg.EvaporationRate))

	s.c.UpdatePheromonesForTest()
	s.Require().True(s.pheromones().Equal(want, 0))
}

// TestDepositAfterEvaporation: deposits are not evaporated in their own iteration.
func (s *ColonySuite) TestDepositAfterEvaporation() {
	s.c.StageDepositForTest([]int{0, 1, 2, 3}, 4)
	s.c.UpdatePheromonesForTest()

	var (
		p     = s.pheromones()
		keep  = 1 - s.cfg.EvaporationRate
		delta = s.cfg.Q / 4
		v     float64
		err   error
	)
	// Tour edges in both directions, closing edge included.
	for _, e := range [][2]int{{0, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 3}, {3, 2}, {3, 0}, {0, 3}} {
		v, err = p.At(e[0], e[1])
		s.Require().NoError(err)
		s.Require().Equal(s.cfg.InitialPheromone*keep+delta, v, "edge %v", e)
	}
	// Diagonals of the square carry no deposit.
	for _, e := range [][2]int{{0, 2}, {2, 0}, {1, 3}, {3, 1}} {
		v, err = p.At(e[0], e[1])
		s.Require().NoError(err)
		s.Require().Equal(s.cfg.InitialPheromone*keep, v, "edge %v", e)
	}

	// The stage is cleared after merging.
	s.c.UpdatePheromonesForTest()
	v, err = s.pheromones().At(0, 1)
	s.Require().NoError(err)
	s.Require().Equal((s.cfg.InitialPheromone*keep+delta)*keep, v)
}

// TestIterateThenSolveResets: Iterate accumulates, Solve starts over.
func (s *ColonySuite) TestIterateThenSolveResets() {
	var (
		snap tsp.Snapshot
		prev = math.Inf(1)
		i    int
	)
	for i = 1; i <= 3; i++ {
		snap = s.c.Iterate()
		s.Require().LessOrEqual(snap.Cost, prev)
		s.Require().LessOrEqual(snap.Iteration, i)
		requirePermutation(s.T(), snap.Tour, 4)
		prev = snap.Cost
	}

	res := s.c.Solve()
	s.Require().Equal(s.cfg.Iterations, res.Iterations)
	s.Require().Equal(4.0, res.Cost)
	s.Require().True(tsp.EqualCycles(res.Tour, []int{0, 1, 2, 3}))
	s.Require().LessOrEqual(s.c.Best().Iteration, s.cfg.Iterations)
}

// TestBestIsCopy: mutating a returned snapshot leaves the incumbent intact.
func (s *ColonySuite) TestBestIsCopy() {
	s.c.Iterate()
	a := s.c.Best()
	a.Tour[0] = 99
	requirePermutation(s.T(), s.c.Best().Tour, 4)
}

func TestColonySuite(t *testing.T) {
	suite.Run(t, new(ColonySuite))
}

// TestColony_ZeroLengthEdges: a city duplicated at distance 0 drives η to +Inf;
// construction must still produce permutations.
func TestColony_ZeroLengthEdges(t *testing.T) {
	m := dense(t, [][]float64{
		{0, 0, 3, 4},
		{0, 0, 3, 4},
		{3, 3, 0, 5},
		{4, 4, 5, 0},
	})
	cfg := tsp.DefaultColonyConfig()
	cfg.Ants = 4
	cfg.Iterations = 5

	c, err := tsp.NewColony(m, cfg, tsp.WithSeed(seedDet))
	require.NoError(t, err)
	res := c.Solve()
	requirePermutation(t, res.Tour, 4)
	require.Equal(t, 12.0, res.Cost)
}

// TestColony_ZeroBeta: β = 0 makes distances irrelevant to the first
// iteration, so every city is equally likely; tours stay valid.
func TestColony_ZeroBeta(t *testing.T) {
	cfg := smallConfigs().Colony
	cfg.Beta = 0
	cfg.Alpha = 0

	c, err := tsp.NewColony(euclid(t, circlePoints(7, 1)), cfg, tsp.WithSeed(seedDet))
	require.NoError(t, err)
	res := c.Solve()
	requirePermutation(t, res.Tour, 7)
}

// zeroSource makes every draw 0: Intn yields 0 and Float64 yields 0.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

// TestColony_RouletteSkipsZeroWeight: a draw of u = 0 must land on the first
// city with positive weight, never on an earlier zero-weight one.
func TestColony_RouletteSkipsZeroWeight(t *testing.T) {
	cfg := tsp.DefaultColonyConfig()
	cfg.Ants = 1
	cfg.Iterations = 1
	cfg.Alpha = 1
	cfg.Beta = 1
	cfg.EvaporationRate = 1

	c, err := tsp.NewColony(euclid(t, circlePoints(5, 1)), cfg, tsp.WithRand(rand.New(zeroSource{})))
	require.NoError(t, err)

	// Full evaporation leaves τ > 0 only on this tour's edges; τ(0,1) = 0.
	marked := []int{0, 2, 1, 3, 4}
	c.StageDepositForTest(marked, 1)
	c.UpdatePheromonesForTest()

	got := c.Iterate()
	require.Equal(t, marked, got.Tour)
}
