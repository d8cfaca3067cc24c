// Package queries contains read-only operations for station terminals, planners and
// dashboards. Handlers read PostgreSQL directly with SQL and return flat views,
// bypassing the aggregates used by commands.
package queries
