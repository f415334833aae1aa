package vsa

import "errors"

// ErrDimensionMismatch is returned by every binary operation when its
// operands do not share dimension and encoding. It is the only error
// kind VSA operations produce (§4.1: "dimension mismatch is the only
// error").
var ErrDimensionMismatch = errors.New("vsa: dimension mismatch")
