package password

import "errors"

// ErrInvalidHash is returned when an encoded hash is malformed,
// uses unsupported parameters, or fails basic sanity bounds.
var ErrInvalidHash = errors.New("invalid password hash")
