// Package dashboard selects fights and drives chart rendering for a loaded log.
package dashboard

import "errors"

var (
	// ErrIndexOutOfRange is returned when selecting a fight that does not exist.
	ErrIndexOutOfRange = errors.New("fight index out of range")
	// ErrMultiFileSelection is returned when an ingestion is not given exactly one file.
	ErrMultiFileSelection = errors.New("exactly one file must be selected")
	// ErrStaleIngestion is returned when a newer ingestion started before this one finished.
	ErrStaleIngestion = errors.New("ingestion superseded by a newer one")
)
