package supervisor

// modelNotInstalledError signals a launch against a model whose weights are
// not on disk.
type modelNotInstalledError struct{ id string }

func (e modelNotInstalledError) Error() string { return "model not installed: " + e.id }

// ErrModelNotInstalled constructs a modelNotInstalledError.
func ErrModelNotInstalled(id string) error { return modelNotInstalledError{id: id} }

// IsModelNotInstalled reports whether err indicates missing weights.
func IsModelNotInstalled(err error) bool {
	_, ok := err.(modelNotInstalledError)
	return ok
}

// spawnError signals a failure to start the backing process.
type spawnError struct{ msg string }

func (e spawnError) Error() string { return e.msg }

// ErrSpawn constructs a spawnError.
func ErrSpawn(msg string) error { return spawnError{msg: msg} }

// IsSpawnError reports whether err indicates a process start failure.
func IsSpawnError(err error) bool {
	_, ok := err.(spawnError)
	return ok
}

// healthTimeoutError signals that the backing process never answered its
// health probe within the attempt budget.
type healthTimeoutError struct{ msg string }

func (e healthTimeoutError) Error() string { return e.msg }

// ErrHealthTimeout constructs a healthTimeoutError.
func ErrHealthTimeout(msg string) error { return healthTimeoutError{msg: msg} }

// IsHealthTimeout reports whether err indicates an exhausted health budget.
func IsHealthTimeout(err error) bool {
	_, ok := err.(healthTimeoutError)
	return ok
}
