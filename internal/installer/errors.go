package installer

// downloadError signals a network or IO failure while fetching weights.
type downloadError struct{ msg string }

func (e downloadError) Error() string { return e.msg }

// ErrDownload constructs a downloadError.
func ErrDownload(msg string) error { return downloadError{msg: msg} }

// IsDownloadError reports whether err is a weights download failure.
func IsDownloadError(err error) bool {
	_, ok := err.(downloadError)
	return ok
}

// depInstallError signals a package-manager failure (non-zero exit or a
// broken environment). The message carries captured diagnostic output.
type depInstallError struct{ msg string }

func (e depInstallError) Error() string { return e.msg }

// ErrDependencyInstall constructs a depInstallError.
func ErrDependencyInstall(msg string) error { return depInstallError{msg: msg} }

// IsDependencyInstallError reports whether err is a dependency provisioning failure.
func IsDependencyInstallError(err error) bool {
	_, ok := err.(depInstallError)
	return ok
}
