// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for rider matching.
//
// # Available Jobs
//
// 1. OfferTimeoutJob - Runs every second to treat expired rider offers as
// rejections and re-offer to the next candidate.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(expireOffersHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The sweep uses the cron expression "* * * * * *", i.e. every second, so a
// rider who never answers delays the matching loop by at most a second past
// the offer deadline.
//
// # Error Handling
//
// A failing sweep is logged and retried on the next tick. Individual
// requests that fail inside a sweep do not stop the rest of the sweep.
package jobs
