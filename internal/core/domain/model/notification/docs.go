// Package notification provides the Notification event emitted to planners:
// overproduction on an order and rework held beyond the overdue threshold.
package notification
