package el

import (
	"errors"
	"fmt"

	lerrors "github.com/vango-dev/livedom/internal/errors"
)

var (
	// ErrInvalidHandler is returned when an "on…" attribute does not hold a
	// handler function.
	ErrInvalidHandler = errors.New("el: event attribute requires a handler function")

	// ErrDuplicateKey is returned when two list items resolve to the same key.
	ErrDuplicateKey = errors.New("el: duplicate list key")

	// ErrInvalidKey is returned when a list key cannot be used as a map key.
	ErrInvalidKey = errors.New("el: list key is not comparable")

	// ErrInvalidChild is returned for child values that are neither elements
	// nor text-like.
	ErrInvalidChild = errors.New("el: unsupported child value")

	// ErrInvalidAttr is returned when a non-event attribute holds a function.
	ErrInvalidAttr = errors.New("el: attribute value cannot be a function")
)

// DuplicateKeyError identifies the colliding key and the positions of the
// two items that produced it.
type DuplicateKeyError struct {
	Key    any
	First  int
	Second int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("el: duplicate list key %v at positions %d and %d", e.Key, e.First, e.Second)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

func invalidHandler(attr string, v any) error {
	return lerrors.New("L101").
		WithDetailf("attribute %q holds %T", attr, v).
		WithSuggestion("Pass an el.Handler, func(*dom.Event) or func()").
		Wrap(ErrInvalidHandler)
}

func duplicateKey(key any, first, second int) error {
	return lerrors.New("L102").
		WithDetailf("key %v at positions %d and %d", key, first, second).
		WithSuggestion("Derive keys from a field that is unique per item").
		Wrap(&DuplicateKeyError{Key: key, First: first, Second: second})
}

func invalidKey(key any, index int) error {
	return lerrors.New("L103").
		WithDetailf("key of type %T at position %d", key, index).
		Wrap(ErrInvalidKey)
}

func invalidChild(v any) error {
	return lerrors.New("L104").
		WithDetailf("%T", v).
		Wrap(ErrInvalidChild)
}

func factoryError(index int, err error) error {
	return lerrors.New("L105").
		WithDetailf("item at position %d", index).
		Wrap(err)
}

func treeError(err error) error {
	return lerrors.FromError(err, "L106")
}

func invalidAttr(attr string, v any) error {
	return lerrors.New("L108").
		WithDetailf("attribute %q holds %T", attr, v).
		WithSuggestion("Wrap computed values in param.Func, or use an \"on\" key for handlers").
		Wrap(ErrInvalidAttr)
}
