// Package rider provides the courier entity as seen by the assignment queue:
// availability (online flag, active orders versus capacity), location, and
// the rating/performance figures used to rank candidates.
package rider
