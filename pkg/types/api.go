package types

// InstallRequest asks the server to install a catalog model.
type InstallRequest struct {
	// Catalog id of the model to install.
	// example: tiny-chat
	Model string `json:"model" example:"tiny-chat"`
}

// LaunchRequest asks the server to (re)launch the backing service process.
type LaunchRequest struct {
	// Catalog id of the installed model to serve.
	// example: tiny-chat
	Model string `json:"model" example:"tiny-chat"`
}

// LaunchResponse reports the port the backing service is reachable on.
type LaunchResponse struct {
	// TCP port of the backing service on localhost.
	// example: 43817
	Port int `json:"port" example:"43817"`
}

// LoadRequest asks the server to load a model into the embedded engine.
type LoadRequest struct {
	// Catalog id of the installed model to load.
	// example: tiny-chat
	Model string `json:"model" example:"tiny-chat"`
}

// LoadResponse confirms which model occupies the engine slot after a load.
type LoadResponse struct {
	// Catalog id of the loaded model.
	// example: tiny-chat
	Model string `json:"model" example:"tiny-chat"`
}

// GenerateRequest asks for a streamed completion from the embedded engine.
type GenerateRequest struct {
	// Required prompt text.
	// example: Write a haiku about the ocean.
	Prompt string `json:"prompt" example:"Write a haiku about the ocean."`
}

// ModelsResponse wraps the catalog listing returned by GET /models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model not found: nope
	Error string `json:"error" example:"model not found: nope"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

// ServiceStatus describes the supervised backing process, when one runs.
type ServiceStatus struct {
	// Model id the process serves.
	// example: tiny-chat
	ModelID string `json:"model_id" example:"tiny-chat"`
	// Bound TCP port.
	// example: 43817
	Port int `json:"port" example:"43817"`
	// OS process id.
	// example: 12345
	PID int `json:"pid" example:"12345"`
	// Lifecycle state (starting, health_checking, running, stopped, failed).
	// example: running
	State string `json:"state" example:"running"`
}

// GPUInfo describes one detected GPU. Only populated in cuda builds.
type GPUInfo struct {
	Name          string `json:"name"`
	VRAMTotal     uint64 `json:"vram_total"`
	VRAMUsed      uint64 `json:"vram_used"`
	DriverVersion string `json:"driver_version,omitempty"`
}

// HostInfo is an advisory capability snapshot of the machine.
type HostInfo struct {
	OS          string    `json:"os"`
	Arch        string    `json:"arch"`
	CPUCores    int       `json:"cpu_cores"`
	TotalMemory uint64    `json:"total_memory"`
	FreeMemory  uint64    `json:"free_memory"`
	GPUs        []GPUInfo `json:"gpus,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Model loaded in the embedded engine, if any.
	// example: tiny-chat
	EngineModel string `json:"engine_model,omitempty" example:"tiny-chat"`
	// Whether the embedded engine holds a loaded model.
	EngineReady bool `json:"engine_ready"`
	// Supervised backing process, if one is running.
	Service *ServiceStatus `json:"service,omitempty"`
	// Catalog ids whose weights are present on disk.
	Installed []string `json:"installed"`
	// Host capability snapshot.
	Host HostInfo `json:"host"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
