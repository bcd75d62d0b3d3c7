// Package recorder provides the single-writer append queue in front of
// audit storage.
//
// Decision calls enqueue fully built records and return immediately; one
// background worker drains the queue and writes to storage. The single
// consumer is what makes stored order match decision-call order even under
// concurrent callers, and it keeps storage latency off the decision path.
//
// Close drains the queue before returning so no accepted record is lost on
// a clean shutdown.
package recorder
