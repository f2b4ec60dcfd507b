// Package access answers whether the free floor and the fixtures of a
// layout can be reached from its doors.
//
// Both analyses rasterize fixture footprints into a [space.Grid] and search
// it breadth-first from cells at the doors:
//
//   - [MarkInaccessible] flood-fills 4-connected cells that have a corridor
//     of the requested width around them along both axes, then sorts spaces
//     into reachable and unreachable ones.
//   - [AnalyzePathways] runs an 8-connected search where every visited cell
//     needs a clear square of the path width around it and records one
//     realized path per reachable fixture.
//
// Widening the required corridor can only remove traversable cells, so
// both results shrink monotonically as the width grows.
package access
