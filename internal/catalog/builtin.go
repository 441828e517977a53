package catalog

import "modelhost/pkg/types"

const gib = 1024 * 1024 * 1024

// Builtin returns the descriptors shipped with the binary. A catalog file,
// when configured, replaces this list entirely.
func Builtin() []types.Model {
	return []types.Model{
		{
			ID:          "qwen2.5-1.5b-instruct",
			Name:        "Qwen2.5 1.5B Instruct",
			Description: "Lightweight general-purpose chat model. Runs on 4GB+ RAM machines.",
			Version:     "Q4_K_M",
			TaskType:    types.TaskTextGeneration,
			Requirements: types.Requirements{
				MinRAM:    4 * gib,
				MinVRAM:   2 * gib,
				DiskSpace: 1 * gib,
			},
			Source: types.Source{
				URL:      "https://huggingface.co/Qwen/Qwen2.5-1.5B-Instruct-GGUF/resolve/main/qwen2.5-1.5b-instruct-q4_k_m.gguf",
				Filename: "qwen2.5-1.5b-instruct-q4_k_m.gguf",
			},
			Dependencies: []string{"llama-cpp-python", "uvicorn", "fastapi"},
		},
		{
			ID:          "gemma-2-2b-it",
			Name:        "Google Gemma 2 2B",
			Description: "Google's lightweight open model. Strong reasoning and summarization.",
			Version:     "Q4_K_M",
			TaskType:    types.TaskTextGeneration,
			Requirements: types.Requirements{
				MinRAM:    4 * gib,
				MinVRAM:   2 * gib,
				DiskSpace: 2 * gib,
			},
			Source: types.Source{
				URL:      "https://huggingface.co/bartowski/gemma-2-2b-it-GGUF/resolve/main/gemma-2-2b-it-Q4_K_M.gguf",
				Filename: "gemma-2-2b-it-Q4_K_M.gguf",
			},
			Dependencies: []string{"llama-cpp-python", "uvicorn", "fastapi"},
		},
		{
			ID:          "whisper-tiny",
			Name:        "Whisper Tiny",
			Description: "OpenAI's lightweight speech recognition model.",
			Version:     "tiny",
			TaskType:    types.TaskSpeechToText,
			Requirements: types.Requirements{
				MinRAM:    1 * gib,
				MinVRAM:   0,
				DiskSpace: 100 * 1024 * 1024,
			},
			Source: types.Source{
				URL:      "https://huggingface.co/ggerganov/whisper.cpp/resolve/master/ggml-tiny.bin",
				Filename: "ggml-tiny.bin",
			},
			Dependencies: []string{"openai-whisper", "soundfile"},
		},
	}
}
