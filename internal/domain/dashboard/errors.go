package dashboard

import "errors"

var (
	ErrInvalidPeriod  = errors.New("invalid period")
	ErrInvalidSubset  = errors.New("invalid subset, want ativas, fechadas or todas")
	ErrExportDisabled = errors.New("report export is not configured")
	ErrDigestDisabled = errors.New("report digest is not configured")
)
