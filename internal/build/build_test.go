package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/statewire/statewire/internal/config"
	"github.com/statewire/statewire/internal/diagnostics"
	"github.com/statewire/statewire/internal/naming"
)

const projectFixture = `
-- src/Counter.js --
import React, { useState } from "react";

function Counter() {
  const _$_count = 0;
  const increment = () => {
    _$_count = _$_count + 1;
  };
  return <div>{_$_count}</div>;
}
-- src/pages/Viewer.js --
import React from "react";

export function Viewer() {
  return <span>{_$_count}</span>;
}
-- src/ignored.css --
body { color: red; }
`

// writeFixture materializes a txtar archive under a fresh project root.
func writeFixture(t *testing.T, archive string) string {
	t.Helper()
	root := t.TempDir()
	for _, file := range txtar.Parse([]byte(archive)).Files {
		path := filepath.Join(root, filepath.FromSlash(file.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, file.Data, 0o644))
	}
	return root
}

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Root = root
	return cfg
}

func TestRunTransformsProject(t *testing.T) {
	root := writeFixture(t, projectFixture)
	cfg := testConfig(root)

	var out bytes.Buffer
	runner := NewRunner(cfg, diagnostics.NewTestReporter(&out, false))
	stats, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 0, stats.FilesWithErrors)

	counter, err := os.ReadFile(filepath.Join(root, "build", "Counter.js"))
	require.NoError(t, err)
	counterHash := naming.FileHash(filepath.Join(root, "src", "Counter.js"))
	assert.Contains(t, string(counter), "const [counter, setCounter] = useState({ count: 0 });")
	assert.Contains(t, string(counter), "CTX_Counter_"+counterHash)
	assert.Contains(t, string(counter), `import SharedStatesSW from "./shared-states.js";`)

	// The nested file imports the shared module from one level up.
	viewer, err := os.ReadFile(filepath.Join(root, "build", "pages", "Viewer.js"))
	require.NoError(t, err)
	assert.Contains(t, string(viewer), `import SharedStatesSW from "../shared-states.js";`)

	shared, err := os.ReadFile(filepath.Join(root, "src", "shared-states.js"))
	require.NoError(t, err)
	assert.Contains(t, string(shared), "CTX_Counter_"+counterHash)
	assert.Contains(t, string(shared), "count: 0")

	globals, err := os.ReadFile(filepath.Join(root, "src", config.GlobalsFileBase))
	require.NoError(t, err)
	assert.Contains(t, string(globals), "CTX_Counter_"+counterHash)
}

func TestRunCrossFileReference(t *testing.T) {
	root := writeFixture(t, projectFixture)
	cfg := testConfig(root)

	runner := NewRunner(cfg, diagnostics.NewTestReporter(&bytes.Buffer{}, false))
	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	// Counter.js sorts before pages/Viewer.js, so the registry already holds
	// count when Viewer is processed.
	viewer, err := os.ReadFile(filepath.Join(root, "build", "pages", "Viewer.js"))
	require.NoError(t, err)
	counterHash := naming.FileHash(filepath.Join(root, "src", "Counter.js"))
	assert.Contains(t, string(viewer), "CTX_Counter_"+counterHash+`.counter["count"]`)
}

func TestRunWithCache(t *testing.T) {
	root := writeFixture(t, projectFixture)
	cfg := testConfig(root)
	cfg.Cache = ".statewire.db"

	runner := NewRunner(cfg, diagnostics.NewTestReporter(&bytes.Buffer{}, false))
	cold, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cold.CacheHits)

	firstShared, err := os.ReadFile(filepath.Join(root, "src", "shared-states.js"))
	require.NoError(t, err)

	// A fresh runner simulates a new process reusing the on-disk cache.
	runner = NewRunner(cfg, diagnostics.NewTestReporter(&bytes.Buffer{}, false))
	warm, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, warm.CacheHits)

	// Replayed registrations must reproduce the same artifacts.
	secondShared, err := os.ReadFile(filepath.Join(root, "src", "shared-states.js"))
	require.NoError(t, err)
	assert.Equal(t, string(firstShared), string(secondShared))
}

func TestRunInvalidatesCacheOnChange(t *testing.T) {
	root := writeFixture(t, projectFixture)
	cfg := testConfig(root)
	cfg.Cache = ".statewire.db"

	runner := NewRunner(cfg, diagnostics.NewTestReporter(&bytes.Buffer{}, false))
	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	counterPath := filepath.Join(root, "src", "Counter.js")
	changed := `function Counter() {
  const _$_count = 5;
  return <div>{_$_count}</div>;
}`
	require.NoError(t, os.WriteFile(counterPath, []byte(changed), 0o644))

	runner = NewRunner(cfg, diagnostics.NewTestReporter(&bytes.Buffer{}, false))
	stats, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CacheHits, "only the unchanged file should hit")

	counter, err := os.ReadFile(filepath.Join(root, "build", "Counter.js"))
	require.NoError(t, err)
	assert.Contains(t, string(counter), "count: 5")
}

func TestDryRunWritesNothing(t *testing.T) {
	root := writeFixture(t, projectFixture)
	cfg := testConfig(root)

	runner := NewRunner(cfg, diagnostics.NewTestReporter(&bytes.Buffer{}, false))
	runner.DryRun = true
	stats, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Files)

	_, err = os.Stat(filepath.Join(root, "build"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "src", "shared-states.js"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunReportsParseErrors(t *testing.T) {
	root := writeFixture(t, `
-- src/Broken.js --
const = nope;
`)
	cfg := testConfig(root)

	var out bytes.Buffer
	runner := NewRunner(cfg, diagnostics.NewTestReporter(&out, false))
	stats, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesWithErrors)
	assert.Contains(t, out.String(), "P001")
}
