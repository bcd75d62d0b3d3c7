package recorder

import "errors"

var errNilRecord = errors.New("record cannot be nil")
