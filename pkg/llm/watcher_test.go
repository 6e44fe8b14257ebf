package llm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "llm_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	m := NewManager(LoadConfig(path, zerolog.Nop()), zerolog.Nop())
	require.Len(t, m.Config().TaskAssignments, 1)

	w, err := NewConfigWatcher(path, m, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	updated := strings.Replace(validDoc,
		"task_assignments:",
		"task_assignments:\n  keyword_extraction:\n    primary: {provider: xai, model: grok-2-latest}",
		1)
	// Rename-replace save, like most editors and config managers do it.
	tmp := filepath.Join(dir, "llm_config.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(updated), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool {
		return len(m.Config().TaskAssignments) == 2
	}, 3*time.Second, 50*time.Millisecond)
}

func TestConfigWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "llm_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	m := NewManager(LoadConfig(path, zerolog.Nop()), zerolog.Nop())
	before := m.Config()

	w, err := NewConfigWatcher(path, m, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("providers: {}\n"), 0o644))

	time.Sleep(500 * time.Millisecond)
	assert.Same(t, before, m.Config())
}

func TestConfigWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "llm_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	m := NewManager(DefaultConfig(), zerolog.Nop())
	w, err := NewConfigWatcher(path, m, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, w.Start())

	w.Stop()
	w.Stop()
}
