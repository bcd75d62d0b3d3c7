package export

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"sentra-labs/sentra/pkg/audit"
)

// Document is the JSON export envelope: ordered records plus the
// statistics aggregated over them.
type Document struct {
	GeneratedAt time.Time            `json:"generated_at"`
	RecordCount int                  `json:"record_count"`
	Stats       audit.Stats          `json:"stats"`
	Records     []*audit.AuditRecord `json:"records"`
}

// JSONExporter exports audit records to JSON format.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes the records and their aggregate statistics to the writer.
// Record order is preserved as given, which for storage queries is append
// order.
func (e *JSONExporter) Export(ctx context.Context, records []*audit.AuditRecord, w io.Writer) error {
	if records == nil {
		records = []*audit.AuditRecord{}
	}

	doc := Document{
		GeneratedAt: time.Now().UTC(),
		RecordCount: len(records),
		Stats:       audit.ComputeStats(records),
		Records:     records,
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return audit.NewExportError("json", len(records), err)
	}

	if _, err := w.Write(data); err != nil {
		return audit.NewExportError("json", len(records), err)
	}
	return nil
}
