// Package memory provides the durable single-user long-term memory layer:
// the record schema and its validation, an atomic file store, the merge of
// freshly extracted facts into the stored record, and the once-per-run
// finalize operation that ties them together at session end.
package memory
