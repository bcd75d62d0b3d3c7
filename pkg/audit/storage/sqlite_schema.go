package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the audit database schema.
// The seq column is the append-order key: a single writer inserts records
// in decision-call order, so ORDER BY seq reproduces that order.
const Schema = `
-- Audit records table
CREATE TABLE IF NOT EXISTS audit_records (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    request_id TEXT NOT NULL,

    -- Who asked for what
    user_id TEXT,
    action TEXT NOT NULL,
    context TEXT,

    -- Decision outcome
    status TEXT NOT NULL,
    risk_score REAL NOT NULL,
    violations TEXT,
    failed_rule_ids TEXT,
    rule_set_id TEXT,
    rules_checked INTEGER,

    -- Timestamps
    decided_at TIMESTAMP NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_audit_decided_at ON audit_records(decided_at);
CREATE INDEX IF NOT EXISTS idx_audit_user_id ON audit_records(user_id);
CREATE INDEX IF NOT EXISTS idx_audit_status ON audit_records(status);
CREATE INDEX IF NOT EXISTS idx_audit_action ON audit_records(action);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

// auditColumns is the explicit column list used by inserts and selects so
// the seq bookkeeping column stays out of scanned rows.
const auditColumns = `
    id, request_id,
    user_id, action, context,
    status, risk_score, violations, failed_rule_ids, rule_set_id, rules_checked,
    decided_at, recorded_at
`
