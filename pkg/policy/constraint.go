package policy

// ConstraintKind identifies the shape and evaluation semantics of a
// constraint. The string values are wire tags in exported rule documents.
type ConstraintKind string

const (
	// ConstraintEncryptionRequired fails when encryption_enabled is falsy in
	// the execution context.
	ConstraintEncryptionRequired ConstraintKind = "encryption_required"

	// ConstraintPIIHandling applies when contains_pii is true and checks
	// consent and encryption sub-conditions independently.
	ConstraintPIIHandling ConstraintKind = "pii_handling"

	// ConstraintMonetaryThreshold compares a numeric context field against a
	// threshold and, when the comparison holds, requires every listed
	// approval field to be truthy.
	ConstraintMonetaryThreshold ConstraintKind = "monetary_threshold"

	// ConstraintRetention requires retention_days >= MinDays for matching
	// record types.
	ConstraintRetention ConstraintKind = "retention"

	// ConstraintApprovalRequired fails when the named context field is falsy.
	ConstraintApprovalRequired ConstraintKind = "approval_required"
)

// Valid returns true for a known constraint kind.
func (k ConstraintKind) Valid() bool {
	switch k {
	case ConstraintEncryptionRequired, ConstraintPIIHandling,
		ConstraintMonetaryThreshold, ConstraintRetention,
		ConstraintApprovalRequired:
		return true
	}
	return false
}

// Operator is a comparison operator on a monetary threshold constraint.
type Operator string

const (
	OperatorGreaterThan  Operator = ">"
	OperatorGreaterEqual Operator = ">="
	OperatorLessThan     Operator = "<"
	OperatorLessEqual    Operator = "<="
	OperatorEqual        Operator = "=="
)

// Constraint is a tagged variant: Kind selects which of the remaining
// fields are meaningful. A flat struct keeps the wire form enumerable and
// the evaluator free of type assertions; unused fields marshal as absent.
type Constraint struct {
	// Kind selects the variant. Serialized as "type" for compatibility with
	// downstream rule consumers.
	Kind ConstraintKind `json:"type"`

	// Algorithm names the required encryption algorithm, if the clause
	// specified one (encryption_required only).
	Algorithm string `json:"algorithm,omitempty"`

	// RequiresConsent and RequiresEncryption are the pii_handling
	// sub-conditions. Each is checked independently.
	RequiresConsent    bool `json:"requires_consent,omitempty"`
	RequiresEncryption bool `json:"requires_encryption,omitempty"`

	// Field is the context field a monetary_threshold compares, or the
	// approval field an approval_required checks.
	Field string `json:"field,omitempty"`

	// Operator and Value define the monetary_threshold comparison.
	Operator Operator `json:"operator,omitempty"`
	Value    float64  `json:"value,omitempty"`

	// Approvals lists the context fields that must be truthy when the
	// monetary_threshold comparison holds.
	Approvals []string `json:"approvals,omitempty"`

	// RecordType and MinDays define a retention constraint. MinDays is
	// normalized (year=365, month=30) at extraction time.
	RecordType string `json:"record_type,omitempty"`
	MinDays    int    `json:"min_days,omitempty"`
}
