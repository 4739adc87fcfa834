package source

import (
    "errors"
    "fmt"
    "strings"
    "time"
)

// Kind classifies a source failure.
type Kind int

const (
    // KindTransport covers network failures, timeouts and non-2xx responses.
    KindTransport Kind = iota + 1
    // KindResolution means a symbol could not be mapped to a provider identifier.
    KindResolution
    // KindParse means the top-level payload was malformed beyond recovery.
    KindParse
    // KindValidation means the input was rejected before any network call.
    KindValidation
    // KindUnexpected wraps everything a source did not anticipate.
    KindUnexpected
)

// Error is the single error type that crosses a source boundary. The
// facade fills in Source, Symbol and (for historical lookups) At, so a
// caller always sees what was asked for along with the original cause.
type Error struct {
    Source string
    Symbol string
    At     *time.Time
    Kind   Kind
    Err    error
}

func (e *Error) Error() string {
    var b strings.Builder
    if e.Source != "" {
        b.WriteString(e.Source)
        b.WriteString(": ")
    }
    b.WriteString(e.Err.Error())
    if e.Symbol != "" {
        fmt.Fprintf(&b, " (symbol %s", e.Symbol)
        if e.At != nil {
            fmt.Fprintf(&b, " at %s", e.At.Format(time.RFC3339))
        }
        b.WriteString(")")
    }
    return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds a kinded error at the point of failure. Symbol and source
// name are attached later by Wrap at the facade boundary.
func Errorf(kind Kind, format string, args ...any) *Error {
    return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches source, symbol and requested time to err. A cause that is
// already an *Error keeps its kind and any fields set earlier; anything
// else becomes KindUnexpected. Wrap(nil) is nil so call sites can wrap
// unconditionally.
func Wrap(src, symbol string, at *time.Time, err error) error {
    if err == nil {
        return nil
    }
    e, ok := err.(*Error)
    if !ok {
        e = &Error{Kind: KindUnexpected, Err: err}
    }
    if e.Source == "" {
        e.Source = src
    }
    if e.Symbol == "" {
        e.Symbol = symbol
    }
    if e.At == nil {
        e.At = at
    }
    return e
}

// IsKind reports whether err is (or wraps) a source Error of kind k.
func IsKind(err error, k Kind) bool {
    var e *Error
    return errors.As(err, &e) && e.Kind == k
}
