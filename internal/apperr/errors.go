// Package apperr defines the error vocabulary every mutating operation in
// this core shares (spec.md §7). Grounded on fight-club-go's habit of
// returning plain Go errors from Engine methods rather than panicking
// (internal/game/engine.go's Attack/Join/Respawn methods all return
// (..., error)); the Kind wrapper adds spec.md's machine-readable
// discrimination on top of that pattern. Kept as its own leaf package
// (no dependency on model/store/inventory/...) so every domain package
// can return *apperr.Error without creating an import cycle back through
// a shared "reducer" package.
package apperr

import "fmt"

// Kind is one of the error kinds spec.md §7 names.
type Kind string

const (
	NotFound        Kind = "NotFound"
	Unauthorized    Kind = "Unauthorized"
	InvalidLocation Kind = "InvalidLocation"
	InvalidSlot     Kind = "InvalidSlot"
	Incompatible    Kind = "Incompatible"
	Full            Kind = "Full"
	RangeExceeded   Kind = "RangeExceeded"
	RateLimited     Kind = "RateLimited"
	InvalidState    Kind = "InvalidState"
	Conflict        Kind = "Conflict"
)

// Error pairs a Kind with a human-readable detail message. Every reducer
// in this repository that can fail returns *Error (or nil) rather than a
// bare error, so callers can switch on Kind without string matching.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// New builds an *Error with the given kind and formatted detail.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err if it is (or wraps) a *Error, or
// returns "" if it is some other error.
func KindOf(err error) Kind {
	var e *Error
	if as(err, &e) {
		return e.Kind
	}
	return ""
}

// as is a tiny local errors.As to avoid importing errors just for this.
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
