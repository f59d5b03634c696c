package subtitle

import "errors"

var (
	// timestamp text does not match the format's grammar
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// frame-based format used without a frame rate
	ErrMissingFrameRate = errors.New("frame rate required")

	// structurally invalid record; wrapped errors carry the line number
	ErrMalformedInput = errors.New("malformed input")

	// an override block opened with { but never closed
	ErrUnterminatedOverride = errors.New("unterminated override block")

	// event end precedes event start
	ErrNegativeDuration = errors.New("event end precedes start")

	// style name already present in the document
	ErrDuplicateStyle = errors.New("duplicate style name")

	// no codec registered for the requested format
	ErrUnknownFormat = errors.New("unknown subtitle format")

	// content did not match exactly one format
	ErrFormatDetection = errors.New("cannot detect subtitle format")
)
