package analysis

import "errors"

var (
	// ErrUnsupportedFormat indicates an upload with a file extension outside
	// the accepted set.
	ErrUnsupportedFormat = errors.New("unsupported file format: use CSV, XLS or XLSX")

	// ErrFeatureDisabled is returned for PDF uploads; PDF processing is
	// intentionally switched off.
	ErrFeatureDisabled = errors.New("PDF processing is disabled: use CSV or Excel files")

	// ErrDecode indicates the file bytes could not be parsed as the format
	// its extension claims.
	ErrDecode = errors.New("could not decode file")

	// ErrProvider indicates the completion provider call failed (missing
	// credentials, transport failure, empty completion). Callers recover via
	// the fallback path; this error never reaches the HTTP surface.
	ErrProvider = errors.New("completion provider unavailable")

	// ErrPersistence indicates the backing store rejected a read or write.
	ErrPersistence = errors.New("analysis storage failure")

	// ErrValidation indicates a missing required request field.
	ErrValidation = errors.New("invalid request")

	// ErrNoHistory is returned by the Q&A path when the caller has no prior
	// analyses to ground an answer on.
	ErrNoHistory = errors.New("no financial data on file: upload data first")
)
