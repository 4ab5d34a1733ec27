// Package criteria filters catalog records by field predicates. A criterion
// is either a list (the field value must equal one of the listed values) or
// a range (the value must land inside one of the inclusive start/end pairs),
// optionally guarded by a declared data type the value must satisfy first.
//
// The engine is record-agnostic: anything implementing Subject can be
// tested, and every criterion in a Set must admit a subject for it to pass.
package criteria
