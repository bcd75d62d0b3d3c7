// Package export renders audit history for external consumers.
//
// The JSON exporter writes an envelope document: the ordered records that
// matched the query plus the aggregate statistics (approval rate, mean
// risk score) computed over exactly those records.
package export
