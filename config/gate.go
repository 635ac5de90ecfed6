package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Gate holds the current configuration and recomputes it when a relevant
// file changes. The configuration value is replaced wholesale on each
// reload, never mutated field-by-field, so readers always observe either
// the old or the fully merged new configuration.
type Gate struct {
	mu  sync.RWMutex
	cfg *Config

	startDir   string
	watcher    *fsnotify.Watcher
	debounce   time.Duration
	lastChange time.Time
	log        *logrus.Entry
}

// NewGate loads the initial configuration for startDir. A missing config
// file falls back to defaults; the gate still watches so a config file
// created later is picked up.
func NewGate(startDir string, log *logrus.Entry) (*Gate, error) {
	cfg, err := LoadFrom(startDir)
	if err != nil {
		return nil, err
	}

	return &Gate{
		cfg:      cfg,
		startDir: startDir,
		debounce: 100 * time.Millisecond,
		log:      log,
	}, nil
}

// Current returns the live configuration snapshot. The returned value is
// complete and must not be mutated.
func (g *Gate) Current() *Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cfg
}

// Watch blocks, reloading the configuration on relevant file events,
// until the context is cancelled.
func (g *Gate) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	g.watcher = watcher

	watchDirs := map[string]bool{g.startDir: true}
	if projectPath, err := FindConfigFile(g.startDir); err == nil {
		watchDirs[filepath.Dir(projectPath)] = true
	}
	if xdg := getXDGConfigPath(); xdg != "" {
		if info, err := os.Stat(filepath.Dir(xdg)); err == nil && info.IsDir() {
			watchDirs[filepath.Dir(xdg)] = true
		}
	}
	for dir := range watchDirs {
		if err := watcher.Add(dir); err != nil {
			g.log.WithError(err).Warnf("Failed to watch config directory %s", dir)
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}
			// Cheap early exit: only recognized config files matter.
			if !isConfigFile(event.Name) {
				continue
			}
			g.handleChange(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.log.Errorf("Config watcher error: %v", err)
		case <-ctx.Done():
			watcher.Close()
			return ctx.Err()
		}
	}
}

// handleChange reloads the merged configuration with debouncing.
func (g *Gate) handleChange(file string) {
	g.mu.Lock()
	elapsed := time.Since(g.lastChange)
	if elapsed < g.debounce {
		g.mu.Unlock()
		g.log.Debugf("Debounced config change: %s (only %v since last change)", filepath.Base(file), elapsed)
		return
	}
	g.lastChange = time.Now()
	g.mu.Unlock()

	cfg, err := LoadFrom(g.startDir)
	if err != nil {
		g.log.WithError(err).Warn("Config reload failed, keeping previous configuration")
		return
	}

	g.mu.Lock()
	g.cfg = cfg
	g.mu.Unlock()
	g.log.Infof("Config reloaded: %s", filepath.Base(file))
}

// Close stops the watcher and releases resources.
func (g *Gate) Close() error {
	if g.watcher != nil {
		return g.watcher.Close()
	}
	return nil
}
