// Package logging builds slog loggers with console and JSON output and
// standardized field names shared across the daemon.
//
// Console output renders one line per record with the component name folded
// into the message prefix; JSON output uses lowercase level names and UTC
// timestamps. WithContext pulls job, stage, and correlation identifiers out
// of a context so stage code does not thread them by hand.
package logging
