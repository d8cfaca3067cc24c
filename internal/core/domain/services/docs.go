// Package services provides the stateless domain services of lot tracking.
//
// The package includes:
//   - LotNumberAllocator: builds lot numbers from station, ISO year/week and a sequence
//   - Topology: the validated routing graph between stations, built from configuration
//   - RoutingResolver: picks the next station and stage for an approved unit
//
// None of the services touch storage; sequences and topology are supplied by callers.
package services
