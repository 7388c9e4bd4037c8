package config

import "errors"

// ErrConfigInvalid is returned by Load when a recognized variable holds a
// value outside its valid domain (an unknown enum member, an out-of-range
// ratio, a non-numeric count). Load never silently substitutes a default
// for a value that was actually set.
var ErrConfigInvalid = errors.New("config: invalid configuration")
