// Package logging builds the zap loggers used across seiscat and the
// observer-backed TestLogger the test suites assert diagnostics with.
//
// Loggers write to stderr so catalog output on stdout stays machine
// readable.
package logging
