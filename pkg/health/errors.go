package health

import "errors"

var ErrCheckTimeout = errors.New("health: check timeout")
