// Package governance makes the approve-or-block decision for one action
// request.
//
// The enforcer builds an execution context from the request parameters,
// validates it against the active rule set snapshot, scores the
// violations, decides, appends the audit record, and returns the
// Decision. Each call is independent and atomic to the caller: it returns
// a complete Decision or a structured error, never a partial result.
//
// Enforcement fails closed. With no active rule set, or on any internal
// fault, the caller gets an error or a blocked decision; an internal
// failure can never surface as an implicit approval.
package governance
