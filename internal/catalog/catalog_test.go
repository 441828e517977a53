package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"modelhost/pkg/types"
)

func descriptor(id, filename string) types.Model {
	return types.Model{
		ID:       id,
		Name:     id,
		TaskType: types.TaskTextGeneration,
		Source:   types.Source{URL: "http://example.com/" + filename, Filename: filename},
	}
}

func TestNewValidates(t *testing.T) {
	c, err := New([]types.Model{descriptor("a", "a.gguf"), descriptor("b", "b.gguf")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 models, got %d", c.Len())
	}
	if _, ok := c.ByID("a"); !ok {
		t.Fatalf("expected lookup of 'a' to succeed")
	}
	if _, ok := c.ByID("missing"); ok {
		t.Fatalf("expected lookup of unknown id to fail")
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]types.Model{descriptor("a", "a.gguf"), descriptor("a", "b.gguf")})
	if err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestNewRejectsTraversalFilename(t *testing.T) {
	for _, fn := range []string{"../evil.gguf", "a/b.gguf", ""} {
		if _, err := New([]types.Model{descriptor("a", fn)}); err == nil {
			t.Fatalf("expected rejection of filename %q", fn)
		}
	}
}

func TestNewRejectsEmptyURL(t *testing.T) {
	m := descriptor("a", "a.gguf")
	m.Source.URL = ""
	if _, err := New([]types.Model{m}); err == nil {
		t.Fatalf("expected empty url error")
	}
}

func TestListReturnsCopy(t *testing.T) {
	c, err := New([]types.Model{descriptor("a", "a.gguf")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out := c.List()
	out[0].ID = "mutated"
	if got := c.List()[0].ID; got != "a" {
		t.Fatalf("catalog mutated via returned slice: %q", got)
	}
}

func TestBuiltinIsValid(t *testing.T) {
	c, err := New(Builtin())
	if err != nil {
		t.Fatalf("builtin catalog invalid: %v", err)
	}
	if c.Len() == 0 {
		t.Fatalf("builtin catalog empty")
	}
	if _, ok := c.ByID("whisper-tiny"); !ok {
		t.Fatalf("expected whisper-tiny in builtin catalog")
	}
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "catalog.yaml")
	content := `models:
  - id: tiny-chat
    name: Tiny Chat
    task_type: text-generation
    source:
      url: http://example.com/tiny.gguf
      filename: tiny.gguf
    dependencies: [llama-cpp-python]
`
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := LoadFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m, ok := c.ByID("tiny-chat")
	if !ok {
		t.Fatalf("expected tiny-chat")
	}
	if m.Source.Filename != "tiny.gguf" || len(m.Dependencies) != 1 {
		t.Fatalf("unexpected model: %+v", m)
	}
}

func TestLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "catalog.json")
	content := `{"models":[{"id":"x","name":"X","task_type":"text-generation","source":{"url":"http://e/x.bin","filename":"x.bin"}}]}`
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(p); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	dir := t.TempDir()
	p := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(p, []byte("models: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(p); err == nil {
		t.Fatalf("expected error for empty model list")
	}
}
