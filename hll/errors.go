package hll

import "errors"

// ErrAllocFailed is returned by New when the requested configuration
// cannot be satisfied, e.g. p outside its valid range. The C original this
// package is ported from (original_source/src/hll.c) can also hit this via
// a failed malloc; Go has no equivalent recoverable failure mode for
// make()/append(), so this sentinel only ever fires for statically
// invalid input.
var ErrAllocFailed = errors.New("hll: alloc failed")

// ErrIncompatibleSize names the failure Sketch.Merge reports when the two
// sketches were built with a different number of registers. Merge itself
// reports it by returning false; it does not return this error value.
var ErrIncompatibleSize = errors.New("hll: incompatible sketch size")
