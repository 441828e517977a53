package types

// TaskType classifies what a model does.
type TaskType string

const (
	TaskTextGeneration TaskType = "text-generation"
	TaskSpeechToText   TaskType = "speech-to-text"
)

// Requirements are advisory resource hints in bytes. They are surfaced to
// the host for display and never enforced at runtime.
type Requirements struct {
	MinRAM    uint64 `json:"min_ram" yaml:"min_ram" toml:"min_ram"`
	MinVRAM   uint64 `json:"min_vram" yaml:"min_vram" toml:"min_vram"`
	DiskSpace uint64 `json:"disk_space" yaml:"disk_space" toml:"disk_space"`
}

// Source describes where a model's weights come from.
type Source struct {
	// Direct download URL for the weights file.
	// example: https://huggingface.co/Qwen/Qwen2.5-1.5B-Instruct-GGUF/resolve/main/qwen2.5-1.5b-instruct-q4_k_m.gguf
	URL string `json:"url" yaml:"url" toml:"url"`
	// Bare file name the weights are stored under. Must not contain path
	// separators or traversal components.
	// example: qwen2.5-1.5b-instruct-q4_k_m.gguf
	Filename string `json:"filename" yaml:"filename" toml:"filename"`
}

// Model is an immutable catalog descriptor for an installable model.
type Model struct {
	// Stable identifier, unique across the catalog.
	// example: tiny-chat
	ID string `json:"id" yaml:"id" toml:"id"`
	// Human-friendly name.
	// example: Qwen2.5 1.5B Instruct
	Name string `json:"name" yaml:"name" toml:"name"`
	// Short description for the host UI.
	Description string `json:"description" yaml:"description" toml:"description"`
	// Version or quantization variant string.
	// example: Q4_K_M
	Version string `json:"version" yaml:"version" toml:"version"`
	// What the model does (text-generation, speech-to-text).
	TaskType TaskType `json:"task_type" yaml:"task_type" toml:"task_type"`
	// Advisory resource requirements.
	Requirements Requirements `json:"requirements" yaml:"requirements" toml:"requirements"`
	// Weights location.
	Source Source `json:"source" yaml:"source" toml:"source"`
	// Ordered package identifiers installed into the shared environment.
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
}
