package core

import (
	"errors"
	"fmt"
)

// Status summarises how an asset operation went.
type Status int

const (
	// StatusOK means nothing was reported.
	StatusOK Status = iota
	// StatusDegraded means the result is usable but something was lost along the
	// way (e.g. a texture that failed to decode).
	StatusDegraded
	// StatusFailed means the result is a placeholder (empty model, unlinked program).
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegraded:
		return "degraded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

/**
 * @brief A single problem reported while loading an asset.
 */
type Diagnostic struct {
	/** @brief Whether the problem made the whole result unusable. */
	Fatal bool
	/** @brief The step that failed, e.g. "import", "decode", "compile". */
	Op string
	/** @brief The file (or stage name) the step was working on. */
	Subject string
	/** @brief The underlying error. Wraps one of the sentinel errors. */
	Err error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s %s: %v", d.Op, d.Subject, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Diagnostics collects everything that went wrong while building a model or a
// shader. The operation never aborts; callers inspect Status to decide whether
// a degraded result is acceptable.
type Diagnostics struct {
	entries []Diagnostic
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Degrade records a non-fatal problem and logs it.
func (d *Diagnostics) Degrade(op, subject string, err error) {
	LogError("%s %s: %s", op, subject, err)
	d.entries = append(d.entries, Diagnostic{Op: op, Subject: subject, Err: err})
}

// Fail records a problem that left the result unusable and logs it.
func (d *Diagnostics) Fail(op, subject string, err error) {
	LogError("%s %s: %s", op, subject, err)
	d.entries = append(d.entries, Diagnostic{Fatal: true, Op: op, Subject: subject, Err: err})
}

// Merge appends every entry of other.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.entries = append(d.entries, other.entries...)
}

func (d *Diagnostics) Status() Status {
	if d == nil || len(d.entries) == 0 {
		return StatusOK
	}
	for _, e := range d.entries {
		if e.Fatal {
			return StatusFailed
		}
	}
	return StatusDegraded
}

func (d *Diagnostics) OK() bool {
	return d.Status() == StatusOK
}

func (d *Diagnostics) Entries() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.entries
}

// Err joins every recorded entry, or returns nil when there are none.
func (d *Diagnostics) Err() error {
	if d == nil || len(d.entries) == 0 {
		return nil
	}
	errs := make([]error, len(d.entries))
	for i, e := range d.entries {
		errs[i] = e
	}
	return errors.Join(errs...)
}
