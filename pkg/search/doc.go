// Package search finds a rotation that minimizes the volume of the
// axis-aligned bounding box of a fixed set of convex hull points.
//
// Candidate rotations are parameterized by (u, v, z): (u, v) pick a unit
// axis on the sphere (see DirectionFromUV) and z scales a quarter turn
// about it. Two strategies explore that space:
//
//   - Grid: a deterministic coarse-to-fine refinement over (u, v) with a
//     full spin sweep over z at every sample.
//   - Nudge: a stochastic search that perturbs around the most recently
//     accepted candidate with a shrinking noise scale.
//
// Both are approximate. The identity rotation is always a fallback, so a
// search never returns a box larger than the unrotated one.
package search
