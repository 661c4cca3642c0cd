// Package logging provides slog-based logging with a human-readable
// console handler and a JSON handler for machine consumption.
package logging
