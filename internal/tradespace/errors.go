package tradespace

import "errors"

// ErrInvalidRequest marks a structural problem with a sweep request: a
// malformed catalog entry, an unknown metric or bad sampling settings.
var ErrInvalidRequest = errors.New("tradespace: invalid request")
