package catalog

import "errors"

// ErrMalformedEntry marks a catalog record that fails validation. Errors
// returned by Catalog.Validate wrap it with the offending entry.
var ErrMalformedEntry = errors.New("catalog: malformed entry")
