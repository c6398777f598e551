package memory

import "errors"

var errStoreClosed = errors.New("memory store closed")
