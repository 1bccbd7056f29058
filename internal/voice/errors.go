package voice

import "errors"

// ErrMissingPhoneNumber is returned before any call is attempted when no
// clinic phone number was supplied.
var ErrMissingPhoneNumber = errors.New("a phone number is required to place a real call")
