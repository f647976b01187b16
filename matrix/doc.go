// SPDX-License-Identifier: MIT

// Package matrix provides the dense numeric storage used by the TSP searches.
//
// What & Why:
//
//	Distance matrices and pheromone fields are both square float64 grids.
//	The Matrix interface gives the tsp package one read surface for any
//	caller-supplied layout, while Dense is the concrete row-major buffer used
//	for generated instances, loaded files and pheromone snapshots.
//
// Guarantees:
//   - No panics on user input: At/Set/constructors return sentinel errors.
//   - Deterministic traversal: every loop is row-major, no map iteration.
//   - Finite values only: Dense rejects NaN/±Inf at ingestion.
//
// Complexity:
//
//	Rows/Cols/At/Set are O(1); Clone, Scale, Equal and the validators are O(r*c).
package matrix
