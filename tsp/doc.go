// Package tsp provides metaheuristic Travelling Salesman Problem searches.
//
// It includes three independent strategies over one cost model
// (a symmetric distance matrix read through matrix.Matrix):
//
//   - Genetic: tournament selection, order / partially-mapped crossover,
//     inversion / swap mutation, stagnation-based early stop.
//   - Complexity: O(generations · population · (tournament + n))
//
//   - Annealing: random segment reversal, Metropolis acceptance, geometric cooling.
//   - Complexity: O(iterations · n)
//
//   - Colony: Ant System: roulette-wheel tour construction from
//     pheromone and inverse distance, global evaporation then reinforcement.
//   - Complexity: O(iterations · ants · n²)
//
// A tour is an open []int permutation of [0, n); its cost always includes the
// closing edge from the last city back to the first. PathLength evaluates it.
//
// Every search:
//   - validates its matrix and configuration at construction and returns
//     ErrInvalidMatrix / ErrInvalidConfiguration instead of running;
//   - owns its random source (WithSeed for reproducible runs, WithRand to
//     inject one, system entropy otherwise);
//   - keeps a monotone incumbent that changes only on strict improvement,
//     with first-encountered winning every tie;
//   - runs synchronously on the caller's goroutine.
//
// TwoOpt is available as an optional local-search polish for any result, and
// OneTreeBound gives a Held–Karp lower bound to measure results against.
//
// Use this package to benchmark or teach heuristic optimisation; none of the
// searches guarantees optimality.
package tsp
