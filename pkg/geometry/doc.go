// Package geometry is the placement kernel: rooms, rectangles, wall
// classification, clearance transforms, overlap tests and door/window
// exclusion zones.
//
// # Coordinate System
//
// All coordinates are integer centimetres. The room occupies
// x ∈ [0, Room.Width] and y ∈ [0, Room.Depth]. Walls are named after the
// side of that frame they bound:
//
//	          y=0 (left)
//	      +-----------------+
//	x=0   |                 |   top wall is x=0
//	(top) |                 |   bottom wall is x=Room.Width
//	      |                 |   left wall is y=0
//	      +-----------------+   right wall is y=Room.Depth
//	          y=D (right)
//
// A [Rect] spans x ∈ [X, X+Depth) and y ∈ [Y, Y+Width): an object's Width
// runs along the y axis and its Depth along the x axis. Intervals are
// half-open, so rectangles that merely touch do not overlap.
//
// # Wall Classification
//
// [Classify] uses exact integer equality against the room bounds. Placement
// code must therefore snap coordinates onto a wall when it intends a wall
// or corner placement; there is no tolerance.
//
// # Clearance
//
// Every fixture has a [Clearance] in its own frame (front, left, right,
// back). [TransformClearance] maps it to room-frame [Margins] according to
// the wall class, and [Margins.Expand] turns a footprint into the clearance
// ("shadow") rectangle used by [IsValidPlacement].
package geometry
