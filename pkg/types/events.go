package types

// Install progress statuses emitted on the install-progress stream.
const (
	InstallStatusDownloading    = "downloading"
	InstallStatusInstallingDeps = "installing_deps"
	InstallStatusCompleted      = "completed"
	InstallStatusError          = "error"
)

// ProgressIndeterminate marks progress when the payload size is unknown.
const ProgressIndeterminate = -1

// InstallProgress is one install-progress event. The terminal statuses
// (completed, error) end the stream for that install.
type InstallProgress struct {
	// ID of the model being installed.
	// example: tiny-chat
	ModelID string `json:"model_id" example:"tiny-chat"`
	// One of downloading, installing_deps, completed, error.
	// example: downloading
	Status string `json:"status" example:"downloading"`
	// Percentage 0-100, or -1 when indeterminate.
	// example: 42
	Progress int `json:"progress" example:"42"`
	// Human-readable detail.
	// example: 4.20 MB / 10.00 MB
	Message string `json:"message,omitempty" example:"4.20 MB / 10.00 MB"`
}

// ChatToken is one streamed generation token.
type ChatToken struct {
	// Decoded token text.
	// example: Hello
	Token string `json:"token" example:"Hello"`
}

// ChatFinished terminates a generation stream. Emitted exactly once per
// generate call, after the last token.
type ChatFinished struct {
	// Why generation stopped: eos, max_tokens, cancelled or error.
	// example: eos
	Reason string `json:"reason,omitempty" example:"eos"`
}

// Finish reasons reported on ChatFinished.
const (
	FinishEOS       = "eos"
	FinishMaxTokens = "max_tokens"
	FinishCancelled = "cancelled"
	FinishError     = "error"
)
