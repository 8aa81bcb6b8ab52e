package physics

import "errors"

// ErrInvalidEnvironment indicates atmospheric inputs outside the range the
// density fit was validated for.
var ErrInvalidEnvironment = errors.New("physics: environment outside validated range")
