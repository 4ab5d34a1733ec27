// Package catalog builds in-memory catalogs of files whose paths follow a
// template. A Catalog compiles its template once, walks the root to extract
// one Record per matching path, derives calendar timestamps from date
// fields, and then filters, groups or organizes the records on demand.
//
// The pipeline is stage ordered: Match must run before Filter, and Group or
// Organize draw from the filtered records only when a filter has run.
// Calling a stage out of order, including asking for the filtered set
// before filtering, logs a warning and returns an empty result instead of
// failing, so exploratory callers lose nothing.
package catalog
