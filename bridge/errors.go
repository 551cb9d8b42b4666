package bridge

import (
	"errors"
	"fmt"

	"github.com/asp-lang/asp"
)

// ErrInvalidHandle is returned by every operation on a closed or nil
// handle. The freed object is never dereferenced.
var ErrInvalidHandle = errors.New("bridge: invalid object handle")

// ErrAlreadyInitialized is returned by Initialize when the process-wide
// session already exists. Re-initializing the embedded runtime is unsafe.
var ErrAlreadyInitialized = errors.New("bridge: embedded runtime already initialized")

// ErrNotInitialized is returned by Default before Initialize succeeded.
var ErrNotInitialized = errors.New("bridge: embedded runtime not initialized")

// UnsupportedArrayTypeError reports an embedded array whose element type
// has no host representation.
type UnsupportedArrayTypeError struct {
	DType asp.DType
}

func (e *UnsupportedArrayTypeError) Error() string {
	return fmt.Sprintf("bridge: conversion from array type %s is not supported", e.DType)
}

// UnsupportedMatrixTypeError reports a host array whose element kind
// cannot back an embedded array view.
type UnsupportedMatrixTypeError struct {
	Kind Kind
}

func (e *UnsupportedMatrixTypeError) Error() string {
	return fmt.Sprintf("bridge: %s matrix cannot be converted (only integer, double and logical matrices can be converted)", e.Kind)
}

// UnconvertibleTypeError reports a value with no defined mapping on the
// other side of the bridge.
type UnconvertibleTypeError struct {
	Kind string
}

func (e *UnconvertibleTypeError) Error() string {
	return fmt.Sprintf("bridge: unable to convert %s value", e.Kind)
}

// RuntimeError carries the rendered message of an error raised inside the
// embedded runtime. The pending error state has already been fetched and
// cleared when a RuntimeError is constructed.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}
