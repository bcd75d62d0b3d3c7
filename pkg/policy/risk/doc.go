// Package risk maps a validation outcome to a numeric risk score.
//
// Scoring is a pure function of the violation set: every violated
// constraint contributes base weight 5 scaled by the rule's compliance
// level (mandatory 2x, required 1x, recommended 0.5x). The score is
// non-negative, unbounded above, and monotonic non-decreasing in the
// number of violations.
package risk
