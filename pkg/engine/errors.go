package engine

import "errors"

var (
	// ErrDuplicate is returned when two engines share a name.
	ErrDuplicate = errors.New("engine: already registered")
	// ErrNotFound is returned by Registry.Get for unknown names.
	ErrNotFound = errors.New("engine: not found")
	// ErrNilRender is returned by Func engines constructed without a function.
	ErrNilRender = errors.New("engine: render function is nil")
)

// LibraryError records an error raised by a template library together with
// the adapter stage that hit it, e.g. "jet: parse".
type LibraryError struct {
	Stage string
	Err   error
}

// Wrap returns err tagged with stage, or nil when err is nil.
func Wrap(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &LibraryError{Stage: stage, Err: err}
}

func (e *LibraryError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *LibraryError) Unwrap() error { return e.Err }

// Message returns the text a response carries for err: the library's own
// message when err wraps a LibraryError, otherwise err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var lib *LibraryError
	if errors.As(err, &lib) {
		return lib.Err.Error()
	}
	return err.Error()
}
