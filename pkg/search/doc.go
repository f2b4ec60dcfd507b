// Package search produces ranked candidate layouts for a bathroom.
//
// Two strategies share the [Strategy] interface and the [Compare]
// reduction:
//
//   - [Resample] runs the placement engine Runs times with independent
//     seeds and ranks the complete layouts.
//   - [Beam] builds layouts one fixture type at a time, expanding each of
//     BeamWidth partial layouts into up to Expansions enumerated placements,
//     scoring the partial results and keeping the best BeamWidth.
//
// Runs and expansions are independent and execute in parallel through an
// errgroup; each uses its own seeded generator, so results do not depend on
// scheduling. Ranking breaks ties by input order.
package search
