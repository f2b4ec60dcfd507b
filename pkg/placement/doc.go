// Package placement implements the randomized retry-based solver that
// assigns a position and size to each requested fixture.
//
// # Algorithm
//
// Requested types are processed in descending order of their largest
// footprint. For each type the engine runs up to Options.Attempts sampling
// attempts at the catalog's optimal size (pass 1), then up to the same
// number of attempts at one random size drawn for the whole pass (pass 2).
// A type that exhausts both passes is omitted and reported in
// Result.Unplaced; it never aborts the run. Types with a catalog fallback
// switch to it halfway through pass 1.
//
// Each attempt samples a position according to the type's affinity:
//
//   - corner-required: one of the four corners, with width and depth
//     swapped half of the time
//   - wall-required: a wall, then an offset along it; toilets only use walls
//     without a door when such walls exist
//   - unconstrained: anywhere on the floor
//
// A sampled candidate is kept when it passes [geometry.IsValidPlacement]
// (through a [geometry.Index]) and does not conflict with a door or window.
// Accepted candidates go through local compaction: if a fixture on a shared
// wall is less than 50 cm away (after clearance) the new fixture slides up
// to it, provided the slid position is still valid and on the same wall.
//
// Once every type has been tried, [Engine.Refine] pushes fixtures that sit
// within 30 cm of a wall onto it and grows types marked maximize.
//
// # Determinism
//
// All randomness comes from the *rand.Rand passed to [Engine.Run]. Equal
// inputs and equal seeds give equal layouts; see [NewRand].
package placement
