// Package assignment implements the rider-matching aggregate: a per-order
// request that searches for candidates in a widening radius around the
// restaurant, offers the order to one rider at a time under a response
// deadline, excludes riders that declined, and gives up after bounded
// attempts so the order can fall back to manual dispatch.
package assignment
