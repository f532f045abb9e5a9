package services

import "fmt"

// RowErrorKind classifies a continue-on-error event. The importer counts and
// logs these and moves to the next row; they never abort the batch.
type RowErrorKind string

const (
	RowErrorTransform      RowErrorKind = "transform"
	RowErrorWrite          RowErrorKind = "write"
	RowErrorClassification RowErrorKind = "classification"
	RowErrorGeocode        RowErrorKind = "geocode"
	// RowErrorOrphan marks a supplemental-file row whose license number has
	// no contractor record.
	RowErrorOrphan RowErrorKind = "orphan"
)

type RowError struct {
	Kind    RowErrorKind
	File    string
	Line    int
	License string
	Err     error
}

func (e *RowError) Error() string {
	if e.License != "" {
		return fmt.Sprintf("%s:%d license %s: %s: %v", e.File, e.Line, e.License, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s: %v", e.File, e.Line, e.Kind, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
