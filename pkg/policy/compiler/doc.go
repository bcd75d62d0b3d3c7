// Package compiler turns parsed rules into executable evaluators.
//
// Compilation produces pure closures, one per rule, each mapping an
// ExecutionContext to a ValidationResult. Rules stay data all the way down:
// the closures interpret the rule's constraint list through one generic
// evaluator, so compiling identical rules always yields functionally
// identical evaluators and the serialized interchange form is just another
// view of the same data.
//
// Malformed rule data reaching the compiler (an unknown constraint kind) is
// a parser defect and fails compilation outright; it is never silently
// skipped.
package compiler
