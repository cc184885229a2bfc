package model

import "errors"

// ErrNoSession is returned when an operation addresses an instance_uid that
// has no live connection registered.
var ErrNoSession = errors.New("model: no session for instance")
