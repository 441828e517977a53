package engine

// engineUnavailableError signals that no usable runtime backs the engine
// (no model loaded, or built without llama support).
type engineUnavailableError struct{ msg string }

func (e engineUnavailableError) Error() string { return e.msg }

// ErrEngineUnavailable constructs an engineUnavailableError.
func ErrEngineUnavailable(msg string) error { return engineUnavailableError{msg: msg} }

// IsEngineUnavailable reports whether err indicates a missing runtime.
func IsEngineUnavailable(err error) bool {
	_, ok := err.(engineUnavailableError)
	return ok
}

// tokenizationError signals a prompt that the runtime could not tokenize.
type tokenizationError struct{ msg string }

func (e tokenizationError) Error() string { return e.msg }

// ErrTokenization constructs a tokenizationError.
func ErrTokenization(msg string) error { return tokenizationError{msg: msg} }

// IsTokenizationError reports whether err is a tokenization failure.
func IsTokenizationError(err error) bool {
	_, ok := err.(tokenizationError)
	return ok
}

// decodeError signals an unrecoverable failure inside the decode loop.
type decodeError struct{ msg string }

func (e decodeError) Error() string { return e.msg }

// ErrDecode constructs a decodeError.
func ErrDecode(msg string) error { return decodeError{msg: msg} }

// IsDecodeError reports whether err is a decode failure.
func IsDecodeError(err error) bool {
	_, ok := err.(decodeError)
	return ok
}

// loadError signals a model file that could not be loaded into the engine.
type loadError struct{ msg string }

func (e loadError) Error() string { return e.msg }

// ErrLoad constructs a loadError.
func ErrLoad(msg string) error { return loadError{msg: msg} }

// IsLoadError reports whether err is a model load failure.
func IsLoadError(err error) bool {
	_, ok := err.(loadError)
	return ok
}
