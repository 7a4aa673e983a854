package services

import (
	"errors"
	"sort"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
)

// ErrNoCandidates is returned when ranking is asked to pick a rider from an
// empty or fully unavailable candidate set. The matching loop reacts by
// widening the search radius or exhausting the request.
var ErrNoCandidates = errors.New("no available candidates")

// DistanceProvider estimates the travel distance between two points. The
// default adapter is a straight-line haversine estimate; a road-routing
// implementation can replace it without touching the ranking.
type DistanceProvider interface {
	Distance(from, to kernel.GeoPoint) kernel.Kilometers
}

// CandidateRanker is a domain service that orders available riders for an
// offer round.
//
// Ranking rules, applied in order:
//   - shortest distance to the pickup point first;
//   - on equal distance, higher customer rating first;
//   - on equal rating, higher performance score first.
//
// Riders that are offline or at capacity never rank.
type CandidateRanker struct {
	distance DistanceProvider
}

// NewCandidateRanker creates a ranker over the given distance estimate.
func NewCandidateRanker(distance DistanceProvider) CandidateRanker {
	return CandidateRanker{distance: distance}
}

// Rank filters the candidates down to available riders and sorts them best
// first. The input slice is not modified.
func (c CandidateRanker) Rank(pickup kernel.GeoPoint, candidates []*rider.Rider) ([]*rider.Rider, error) {
	if err := pickup.Validate(); err != nil {
		return nil, err
	}

	available := make([]*rider.Rider, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil || candidate.Validate() != nil {
			continue
		}
		if candidate.IsAvailable() {
			available = append(available, candidate)
		}
	}
	if len(available) == 0 {
		return nil, ErrNoCandidates
	}

	distances := make(map[kernel.UUID]kernel.Kilometers, len(available))
	for _, candidate := range available {
		distances[candidate.ID()] = c.distance.Distance(candidate.Location(), pickup)
	}

	sort.SliceStable(available, func(i, j int) bool {
		di, dj := distances[available[i].ID()], distances[available[j].ID()]
		if di != dj {
			return di < dj
		}
		if available[i].Rating() != available[j].Rating() {
			return available[i].Rating() > available[j].Rating()
		}
		return available[i].PerformanceScore() > available[j].PerformanceScore()
	})

	return available, nil
}

// Best returns the single top-ranked rider for an offer.
func (c CandidateRanker) Best(pickup kernel.GeoPoint, candidates []*rider.Rider) (*rider.Rider, error) {
	ranked, err := c.Rank(pickup, candidates)
	if err != nil {
		return nil, err
	}
	return ranked[0], nil
}
