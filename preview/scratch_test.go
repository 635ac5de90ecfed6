package preview

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/refactor/config"
)

func quietEntry() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func boolPtr(b bool) *bool { return &b }

func TestSaveHonorsSaveOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	original := "package a\n\nfunc Old() {}\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0644))

	s := &ScratchSession{
		cfg: config.RefactorConfig{SaveOnWrite: boolPtr(false)},
		log: quietEntry(),
		rendered: &Rendered{
			Lines: []string{
				"==> " + path + " <==",
				"@@ 3,3 @@",
				"func Old() {}",
			},
			Segments: []Segment{{Path: path, TextLine: 2}},
		},
		dirty: true,
	}

	saved, err := s.Save()
	require.NoError(t, err)
	assert.False(t, saved)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, string(content), "source file must not change while save_on_write is off")
}

func TestSaveWithoutRenderIsNoop(t *testing.T) {
	s := &ScratchSession{
		cfg: config.RefactorConfig{SaveOnWrite: boolPtr(true)},
		log: quietEntry(),
	}

	saved, err := s.Save()
	require.NoError(t, err)
	assert.False(t, saved)
}
