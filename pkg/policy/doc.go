// Package policy defines the core domain model for compliance rules.
//
// A Rule is the compiled, classified representation of one policy clause:
// a compliance level (how binding it is), a category, and an ordered list
// of Constraints (the checkable conditions the clause imposes). Rules are
// immutable once built. A RuleSet is an immutable, versioned, ordered
// collection of Rules; the only mutable reference in the system is which
// RuleSet is currently active, managed by the store package.
//
// Constraint kind tags and field names are a compatibility surface for
// exported rule documents. Do not rename or reorder them.
package policy
