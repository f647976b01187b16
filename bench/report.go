package bench

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/tspmeta/store"
	"github.com/katalvlaran/tspmeta/tsp"
)

// Summary aggregates the completed runs of one algorithm.
type Summary struct {
	Algorithm      tsp.Algorithm
	Runs           int
	Best           float64
	BestTour       []int
	Mean           float64
	StdDev         float64 // sample standard deviation; 0 for a single run
	Median         float64
	P90            float64
	MeanIterations float64
	MeanDuration   time.Duration
	Gap            float64 // percent above LowerBound; 0 when the bound is 0
}

// Report is the outcome of Runner.Run.
type Report struct {
	Instance  string
	Cities    int
	Seed      int64
	Runs      []store.RunRecord // completed runs, in algorithm then run order
	Summaries []Summary         // one per algorithm with at least one completed run
	Elapsed   time.Duration

	// LowerBound is the Held–Karp 1-tree bound on the optimal tour length,
	// tightened with the best completed run. 0 when no run completed.
	LowerBound float64
}

// newReport groups records by algorithm, keeping the configured order.
func newReport(inst string, cities int, seed int64, algs []tsp.Algorithm, recs []store.RunRecord, lb float64, elapsed time.Duration) Report {
	rep := Report{Instance: inst, Cities: cities, Seed: seed, Runs: recs, Elapsed: elapsed, LowerBound: lb}
	for _, alg := range algs {
		var mine []store.RunRecord
		for _, rec := range recs {
			if rec.Algorithm == alg {
				mine = append(mine, rec)
			}
		}
		if len(mine) > 0 {
			s := summarize(alg, mine)
			if lb > 0 {
				s.Gap = 100 * (s.Best - lb) / lb
			}
			rep.Summaries = append(rep.Summaries, s)
		}
	}
	return rep
}

// summarize computes the statistics of a non-empty run set. The best run is
// the first one with the lowest cost.
func summarize(alg tsp.Algorithm, recs []store.RunRecord) Summary {
	var (
		costs = make([]float64, len(recs))
		iters = make([]float64, len(recs))
		total time.Duration
		best  = 0
	)
	for i, rec := range recs {
		costs[i] = rec.Cost
		iters[i] = float64(rec.Iterations)
		total += rec.Duration
		if rec.Cost < recs[best].Cost {
			best = i
		}
	}

	s := Summary{
		Algorithm:      alg,
		Runs:           len(recs),
		Best:           recs[best].Cost,
		BestTour:       tsp.CopyTour(recs[best].Tour),
		MeanIterations: stat.Mean(iters, nil),
		MeanDuration:   total / time.Duration(len(recs)),
	}
	if len(costs) == 1 {
		s.Mean, s.Median, s.P90 = costs[0], costs[0], costs[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(costs, nil)
	s.Median, _ = stats.Median(costs)      // non-empty input never fails
	s.P90, _ = stats.Percentile(costs, 90) // 0.9·len > 1 for len ≥ 2
	return s
}

// Summary returns the summary of alg, if any of its runs completed.
func (r Report) Summary(alg tsp.Algorithm) (Summary, bool) {
	for _, s := range r.Summaries {
		if s.Algorithm == alg {
			return s, true
		}
	}
	return Summary{}, false
}

// Best returns the overall lowest-cost summary (first in configured order on ties).
func (r Report) Best() (Summary, bool) {
	if len(r.Summaries) == 0 {
		return Summary{}, false
	}
	best := 0
	for i := range r.Summaries {
		if r.Summaries[i].Best < r.Summaries[best].Best {
			best = i
		}
	}
	return r.Summaries[best], true
}

// String renders a fixed-width table, one row per algorithm.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "instance %s: %s cities, seed %d, %s runs in %s\n",
		r.Instance, humanize.Comma(int64(r.Cities)), r.Seed, humanize.Comma(int64(len(r.Runs))), r.Elapsed.Round(time.Millisecond))
	if r.LowerBound > 0 {
		fmt.Fprintf(&b, "1-tree lower bound %s\n", formatCost(r.LowerBound))
	}

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "algorithm\truns\tbest\tgap %\tmean\tstddev\tmedian\tp90\titerations\tmean time\t")
	for _, s := range r.Summaries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.2f\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			s.Algorithm, s.Runs,
			formatCost(s.Best), s.Gap, formatCost(s.Mean), formatCost(s.StdDev),
			formatCost(s.Median), formatCost(s.P90),
			humanize.Comma(int64(math.Round(s.MeanIterations))),
			s.MeanDuration.Round(time.Microsecond),
		)
	}
	_ = tw.Flush()
	return b.String()
}

func formatCost(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
