// Package errors defines the shared error taxonomy for skilldock.
// Low-level filesystem and subprocess failures are classified into these
// sentinels by the component that observed them, so callers can branch on
// errors.Is without inspecting platform error strings.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrBusy           = errors.New("resource busy")
	ErrFatalIO        = errors.New("unrecoverable I/O error")
	ErrNotLinked      = errors.New("path is not a directory link")
	ErrUnlinkFailed   = errors.New("link removal could not be verified")
	ErrNotInitialized = errors.New("skilldock not initialized: run 'skilldock init' first")
)

// MoveError wraps errors from a directory move with both endpoints
type MoveError struct {
	Src  string
	Dest string
	Op   string
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s -> %s: %s: %v", e.Src, e.Dest, e.Op, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// NewMoveError creates a new move error
func NewMoveError(src, dest, op string, err error) *MoveError {
	return &MoveError{Src: src, Dest: dest, Op: op, Err: err}
}

// LinkError wraps errors with tool link context
type LinkError struct {
	Tool string
	Path string
	Op   string
	Err  error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("tool %s: %s %s: %v", e.Tool, e.Op, e.Path, e.Err)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}

// NewLinkError creates a new link error
func NewLinkError(tool, path, op string, err error) *LinkError {
	return &LinkError{Tool: tool, Path: path, Op: op, Err: err}
}

// SourceError wraps errors with source context
type SourceError struct {
	Source string
	Op     string
	Err    error
}

func (e *SourceError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("source %s: %s: %v", e.Source, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new source error
func NewSourceError(source, op string, err error) *SourceError {
	return &SourceError{Source: source, Op: op, Err: err}
}
