// Package validate is the gate every producer batch passes before it is trusted.
//
// A batch is a JSON array of cinema groups. Batch decodes it and checks every field
// with go-playground/validator (plus the langcode and notblank rules registered here).
// Any failure rejects the whole batch with a *ValidationError that lists every failing
// field path, e.g. "[0].showings[2].film.title". The function is pure.
//
// Timestamps are only required to be present here. Parsing them is a per-record
// concern of the reconciliation engine, which drops a single unparseable showing
// instead of the whole batch.
package validate
