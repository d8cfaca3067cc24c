// Package order provides the Order aggregate: a planned production job with a
// planned quantity and per-station "started" counters.
//
// Key business rules:
//   - Orders have a non-empty id, an item code and a positive planned quantity
//   - The id UNASSIGNED is reserved for overproduced units
//   - Status follows Pending -> InProgress -> Completed, with Cancelled reachable from
//     any open state
//   - Only Pending and InProgress orders accept new production
//   - A started counter above the planned quantity marks overproduction
package order
