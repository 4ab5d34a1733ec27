// Package pattern turns path templates such as
//
//	{home}/{YYYY}/{JJJ}/{station}.{component}.{suffix}
//
// into anchored regular expressions with one named capture group per field.
// A Registry holds the token vocabulary (built-ins plus caller extensions),
// Check validates a template and compiles it against a catalog root, and the
// resulting Compiled pattern extracts field values from candidate paths.
package pattern
