package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/gridc/internal/app"
	"github.com/vk/gridc/internal/prog"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcome of one pipeline run.
type HarnessResult struct {
	SourcePath string
	Stdout     string
	LogOutput  string
	Err        error
	Registry   *prog.Registry
}

// RunPipeline writes files to a temporary directory, points cfg.SourcePath
// at entry inside it and runs the full pipeline once against a fresh
// registry. Options are applied after the harness defaults.
func RunPipeline(t *testing.T, files map[string]string, entry string, cfg app.Config, opts ...app.Option) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(dir, filepath.FromSlash(entry))
	}
	cfg.SourcePath = entry
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	config, err := app.NewConfig(cfg)
	require.NoError(t, err)

	reg := prog.NewRegistry()
	stdout := &bytes.Buffer{}
	logs := &SafeBuffer{}

	all := append([]app.Option{app.WithRegistry(reg)}, opts...)
	runErr := app.NewApp(stdout, logs, config, all...).Run(context.Background())

	if os.Getenv("GRIDC_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	return &HarnessResult{
		SourcePath: entry,
		Stdout:     stdout.String(),
		LogOutput:  logs.String(),
		Err:        runErr,
		Registry:   reg,
	}
}
