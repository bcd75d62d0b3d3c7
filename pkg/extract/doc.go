// Package extract is the document boundary in front of the policy parser.
//
// It accepts (content, filename, declared type) and produces normalized
// plain text plus any section headings it can spot. Text documents are
// first-class. PDF and Excel are recognized declared types, but their
// binary payloads are rejected here with an ExtractionError so corrupt or
// unsupported input never reaches the parser; the caller reports zero
// rules with a diagnostic instead. Extraction is size-bounded and
// context-aware because this is the only stage touching potentially
// large, adversarial input.
package extract
