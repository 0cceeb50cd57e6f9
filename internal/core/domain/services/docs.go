// Package services provides domain services that operate across multiple
// aggregates of the dispatch system.
//
// The package includes:
//   - CandidateRanker: filters eligible couriers around a delivery point and
//     ranks them by a composite score of rating, experience, distance, and ETA
//
// Domain services hold logic that does not naturally belong to a single
// aggregate root. They are pure: no I/O, no persistence, deterministic output.
package services
