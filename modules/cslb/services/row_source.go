package services

// RowSource streams one file's raw rows as column-name -> raw-value maps.
// Next returns io.EOF after the last row; the line number is the source file
// line for error reporting.
type RowSource interface {
	Name() string
	Next() (row map[string]string, line int, err error)
}
