package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/services"
)

// runOfferRound advances a pending request to its next offer: it searches
// for candidates at the current radius, widening on empty rounds, and offers
// to the top-ranked rider. When the search space runs out the request is
// marked exhausted instead.
//
// Reports whether an offer was made. The caller persists the request and, on
// exhaustion, publishes the ops alert after commit.
func runOfferRound(
	ctx context.Context,
	uow AssignmentUoW,
	ranker services.CandidateRanker,
	request *assignment.Request,
	now time.Time,
) (bool, error) {
	riderRepo := uow.RiderRepository()

	for {
		candidates, err := riderRepo.FindCandidates(ctx,
			request.RestaurantLocation(), request.Radius(), request.RejectedBy())
		if err != nil {
			return false, err
		}

		best, err := ranker.Best(request.RestaurantLocation(), candidates)
		if errors.Is(err, services.ErrNoCandidates) {
			if request.WidenSearch() {
				continue
			}
			if err = request.MarkExhausted(); err != nil {
				return false, err
			}
			return false, nil
		}
		if err != nil {
			return false, err
		}

		if err = request.Offer(best.ID(), now); err != nil {
			return false, err
		}
		return true, nil
	}
}
