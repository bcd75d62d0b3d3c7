// Package manager orchestrates the ingestion half of the pipeline:
// extract, parse, compile, publish, archive.
//
// Upload is the single entry point used by the HTTP API, the CLI, and the
// document watcher. Extraction failures are recovered here: the upload
// reports zero rules with a diagnostic instead of propagating the error
// into the pipeline. A successful upload atomically publishes the new
// rule set as active and archives it for later export.
package manager
