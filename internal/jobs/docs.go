// Package jobs contains the scheduled background jobs of the dispatch
// engine. Jobs are cron-driven and delegate all business logic to command
// handlers.
package jobs
