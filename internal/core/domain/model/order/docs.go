// Package order provides domain entities and business logic for the order
// lifecycle. It implements the Order aggregate root with an append-only
// status history and a fixed-transition state machine.
//
// The package includes:
//   - Order: The aggregate root owning the canonical status and its history
//   - Status: A state machine enforcing the legal transition graph
//   - HistoryEntry: One immutable row of the status audit trail
//   - StatusChanged: The domain event emitted after a committed transition
//
// Key business rules:
//   - The lifecycle is pending -> confirmed -> preparing -> ready ->
//     picked_up -> in_transit -> delivered, with cancelled reachable only
//     from pending, confirmed or preparing
//   - delivered and cancelled are terminal
//   - Every successful transition appends exactly one history entry; the
//     current status always equals the status of the last entry
//   - Illegal transitions fail with InvalidTransitionError and leave the
//     order unchanged
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are
// enforced.
package order
