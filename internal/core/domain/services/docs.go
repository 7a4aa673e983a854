// Package services contains stateless domain services that operate across
// aggregates. CandidateRanker orders available riders for an offer round by
// distance, rating and performance.
package services
