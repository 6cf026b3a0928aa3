// pattern: Functional Core

package worktree

import (
	"errors"
	"fmt"
)

// Kind classifies lifecycle failures so callers can branch on the
// category instead of matching error text.
type Kind int

const (
	// KindInfra covers unstartable backend processes and unexpected
	// nonzero exits with no more specific domain meaning.
	KindInfra Kind = iota
	// KindConflict covers a branch bound to a live worktree elsewhere
	// and an already-existing target directory.
	KindConflict
	// KindReclaimFailed means a branch still appeared bound after the
	// stale-entry remediation sequence completed without error.
	KindReclaimFailed
	// KindNotFound covers absent repositories and task directories.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInfra:
		return "infrastructure"
	case KindConflict:
		return "conflict"
	case KindReclaimFailed:
		return "reclaim-failed"
	case KindNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Error is a lifecycle failure tagged with its taxonomy kind and the
// repository/branch/path context needed to resolve it manually.
type Error struct {
	Kind   Kind
	Repo   string // repository name
	Branch string
	Path   string
	Msg    string
	Err    error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	s := e.Msg
	if e.Repo != "" {
		s = fmt.Sprintf("%s (repo %s)", s, e.Repo)
	}
	if e.Branch != "" {
		s = fmt.Sprintf("%s (branch %s)", s, e.Branch)
	}
	if e.Path != "" {
		s = fmt.Sprintf("%s (path %s)", s, e.Path)
	}
	if e.Err != nil {
		s = fmt.Sprintf("%s: %v", s, e.Err)
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the taxonomy kind from an error chain. Errors that did
// not originate in this package report KindInfra.
func KindOf(err error) Kind {
	var lifecycleErr *Error
	if errors.As(err, &lifecycleErr) {
		return lifecycleErr.Kind
	}
	return KindInfra
}

// IsConflict reports whether err is a conflict-kind lifecycle error.
func IsConflict(err error) bool {
	var lifecycleErr *Error
	return errors.As(err, &lifecycleErr) && lifecycleErr.Kind == KindConflict
}

// IsNotFound reports whether err is a not-found-kind lifecycle error.
func IsNotFound(err error) bool {
	var lifecycleErr *Error
	return errors.As(err, &lifecycleErr) && lifecycleErr.Kind == KindNotFound
}
