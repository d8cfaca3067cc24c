// Package kernel provides the value objects shared by the lot tracking domain.
//
// The package includes:
//   - UUID: identifier for records without a natural key (notifications, history entries)
//   - Station: a normalized manufacturing station identifier and its lot-number code
//
// Values are immutable and safe for concurrent use.
package kernel
