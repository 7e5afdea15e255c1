// Package mover implements the directory move primitive used for
// enable/disable toggles and source-import placement. It renames when it
// can, retries when the filesystem is transiently busy (editors, indexers
// and AV scanners hold handles open), and falls back to copy-then-delete
// when rename is structurally impossible. Losing data is never acceptable;
// leaving a stale source directory behind is.
package mover

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"

	dockerrors "github.com/haimv/skilldock/internal/errors"
	"github.com/haimv/skilldock/internal/logger"
)

const (
	// DefaultAttempts is the rename/delete retry budget
	DefaultAttempts = 3
	// DefaultRetryDelay is the base backoff unit; attempt n waits n*delay
	DefaultRetryDelay = 100 * time.Millisecond
	// settleDelay sits between the fallback copy and the source delete so
	// short-lived handles on the copied files can drain
	settleDelay = 50 * time.Millisecond
)

// Result reports how a move completed
type Result struct {
	// SoftSuccess is set when the content reached dest but the original
	// src could not be deleted. The move counts as done; Leftover names
	// the stale directory for manual cleanup.
	SoftSuccess bool
	Leftover    string
}

// Mover moves directories between filesystem locations
type Mover struct {
	attempts uint
	delay    time.Duration
}

// New creates a Mover with the default retry policy
func New() *Mover {
	return &Mover{attempts: DefaultAttempts, delay: DefaultRetryDelay}
}

// NewWithPolicy creates a Mover with a custom retry policy, used by tests
// to avoid real backoff waits
func NewWithPolicy(attempts uint, delay time.Duration) *Mover {
	if attempts == 0 {
		attempts = 1
	}
	return &Mover{attempts: attempts, delay: delay}
}

// Move relocates the directory at src to dest, replacing any existing dest.
// The caller validates that src is worth moving; Move itself is a generic
// directory primitive and checks nothing about package shape.
func (m *Mover) Move(src, dest string) (*Result, error) {
	if err := os.RemoveAll(dest); err != nil {
		return nil, dockerrors.NewMoveError(src, dest, "clear destination", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, dockerrors.NewMoveError(src, dest, "prepare destination parent", err)
	}

	renameErr := retry.Do(
		func() error { return os.Rename(src, dest) },
		retry.Attempts(m.attempts),
		retry.RetryIf(isBusy),
		retry.DelayType(m.linearDelay),
		retry.LastErrorOnly(true),
	)
	if renameErr == nil {
		return &Result{}, nil
	}

	if !isBusy(renameErr) && !isCrossDevice(renameErr) {
		return nil, dockerrors.NewMoveError(src, dest, "rename", renameErr)
	}
	logger.L.WithField("src", src).WithField("dest", dest).
		Debugf("rename failed (%v), falling back to copy+delete", renameErr)

	if err := copyTree(src, dest); err != nil {
		// Purge the partial copy so a failed move leaves dest absent
		os.RemoveAll(dest)
		if isBusy(err) {
			err = fmt.Errorf("%w: %v", dockerrors.ErrBusy, err)
		}
		return nil, dockerrors.NewMoveError(src, dest, "copy", err)
	}

	time.Sleep(settleDelay)

	deleteErr := retry.Do(
		func() error { return os.RemoveAll(src) },
		retry.Attempts(m.attempts),
		retry.RetryIf(isBusy),
		retry.DelayType(m.linearDelay),
		retry.LastErrorOnly(true),
	)
	if deleteErr != nil {
		logger.L.WithField("leftover", src).
			Warn("moved content but could not delete source; stale directory left for manual cleanup")
		return &Result{SoftSuccess: true, Leftover: src}, nil
	}

	return &Result{}, nil
}

func (m *Mover) linearDelay(n uint, _ error, _ *retry.Config) time.Duration {
	return time.Duration(n+1) * m.delay
}

// isBusy classifies errors worth retrying: external handles, permission
// timing windows, and non-empty-directory races.
func isBusy(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EBUSY, syscall.ETXTBSY, syscall.EAGAIN,
			syscall.EACCES, syscall.EPERM, syscall.ENOTEMPTY, syscall.EEXIST:
			return true
		}
	}
	return false
}

func isCrossDevice(err error) bool {
	var errno syscall.Errno
	return errors.As(err, &errno) && errno == syscall.EXDEV
}

// CopyTree recursively copies a file or directory tree
func CopyTree(src, dst string) error {
	return copyTree(src, dst)
}

func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return copyDir(src, dst)
	}
	return copyFile(src, dst)
}

func copyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
