// Package config loads the seiscat configuration from a YAML file and
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SEISCAT_LOGGING_LEVEL, SEISCAT_METRICS_TEXTFILE, ...)
//  2. YAML config file (./seiscat.yaml by default)
//  3. Hardcoded defaults
//
// A config file is optional; without one the defaults describe a process
// with console logging at info level, tracing disabled, and no catalogs.
// Catalog definitions can only come from the file since they are nested
// structures.
package config
