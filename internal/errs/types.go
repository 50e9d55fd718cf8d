package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// MissingColumnError reports a division series without the requested index column.
type MissingColumnError struct {
	ErrorMessage
	Division string
	Column   string
}

// NoImageError reports an empty collection for the requested year/month.
type NoImageError struct {
	ErrorMessage
	Band  string
	Start string
	End   string
}

// DataSourceError wraps failures reading local or cloud-hosted reference data
// (CSV files, shapefiles, Firestore, Cloud Storage).
type DataSourceError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DataSourceError) Unwrap() error { return e.Err }

type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewMissingColumnError(division, column string) *MissingColumnError {
	return &MissingColumnError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("series for %q has no %q column", division, column)},
		Division:     division,
		Column:       column,
	}
}

func NewNoImageError(band, start, end string) *NoImageError {
	return &NoImageError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("no %s image between %s and %s", band, start, end)},
		Band:         band,
		Start:        start,
		End:          end,
	}
}

func NewDataSourceError(operation, message string, err error) *DataSourceError {
	return &DataSourceError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("%s: %v", message, err)},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("%s: %v", message, err)},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}
