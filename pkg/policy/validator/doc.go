// Package validator evaluates execution contexts against a compiled rule
// set.
//
// Every rule is evaluated independently; there is no short-circuiting
// across rules, so a caller always sees the complete violation picture for
// the whole set. Validation is total over any context: missing fields read
// as falsy/zero inside the constraint semantics and can only ever produce
// violations, never errors.
package validator
