// Package kernel provides shared value objects used across all domain
// aggregates in the dispatch service.
//
// The package includes:
//   - UUID: A validated identifier wrapping github.com/google/uuid
//   - GeoPoint: A WGS84 coordinate pair with bounds validation
//   - Kilometers: A distance/radius measure
//
// All value objects are immutable, created through validating constructors,
// and detect zero-value misuse through the constructor guard pattern.
package kernel
