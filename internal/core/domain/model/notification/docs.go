// Package notification holds the routing policy for persistent
// notifications: stored preferences with all-enabled defaults, trigger and
// urgency classification, the quiet-hours window, the channel decision
// matrix, and the immutable delivery record written per attempt.
//
// The policy is pure. Loading preferences, talking to channel providers and
// persisting records belong to the application layer and its adapters.
package notification
