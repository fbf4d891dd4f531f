package cachekit

import "fmt"

// NotCacheableError reports a value rejected by the store's cacheability
// predicate. The rejection happens before any engine command is issued, so
// no key is created or modified.
type NotCacheableError struct {
	Key string
}

func (e *NotCacheableError) Error() string {
	return fmt.Sprintf("cachekit: value for key %q is not cacheable", e.Key)
}

// DecodeError wraps a codec failure while decoding a stored payload. The
// underlying codec error is preserved for errors.Is/As.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cachekit: decode value for key %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
