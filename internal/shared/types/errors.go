package types

import "errors"

var (
	ErrSourceNotConfigured = errors.New("record source is not configured")
	ErrUnsupportedSource   = errors.New("unsupported record source")
	ErrUnsupportedFormat   = errors.New("unsupported report type")
	ErrUnknownPage         = errors.New("unknown report page")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrStoreNotWritable    = errors.New("configured source cannot be seeded")
)
