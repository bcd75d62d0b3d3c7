// Package parser turns normalized policy text into structured rules.
//
// The parser segments text into clause candidates at sentence, paragraph,
// and numbered-section boundaries, classifies each clause by compliance
// level and category via keyword lookup, and runs an ordered chain of pure
// constraint extractors over the clause text. Parsing is best-effort and
// total: a clause that matches no compliance keyword family is counted and
// skipped, never an error.
package parser
