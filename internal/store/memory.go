package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// SnapshotFile is the file name used inside the data directory.
const SnapshotFile = "concierge.json"

// MemoryKV implements KV with an in-memory map. Values must be JSON
// documents so the snapshot file stays human-readable.
type MemoryKV struct {
	mu    sync.RWMutex
	data  map[string]json.RawMessage
	dirty bool // set by Set, cleared once a snapshot holds the change

	// Persistence
	snapshotPath string        // empty = no persistence
	debounce     time.Duration // delay before a requested save hits disk
	saveMu       sync.Mutex    // guards file writes
	saveCh       chan struct{} // debounce channel
	doneCh       chan struct{} // signals the save loop to stop
	loopDone     chan struct{} // closed when the save loop has exited
}

// ErrNotJSON is returned by MemoryKV.Set for values that are not valid JSON.
var ErrNotJSON = errors.New("value is not a JSON document")

// NewMemoryKV creates an in-memory store. When dataDir is non-empty, data is
// loaded from and persisted to dataDir/concierge.json; writes are coalesced
// and flushed at most once per debounce interval.
func NewMemoryKV(dataDir string, debounce time.Duration) *MemoryKV {
	m := &MemoryKV{
		data:     make(map[string]json.RawMessage),
		debounce: debounce,
		saveCh:   make(chan struct{}, 1),
		doneCh:   make(chan struct{}),
		loopDone: make(chan struct{}),
	}

	if dataDir != "" {
		m.snapshotPath = filepath.Join(dataDir, SnapshotFile)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			log.Warn().Err(err).Str("dir", dataDir).Msg("Cannot create data dir, persistence disabled")
			m.snapshotPath = ""
		}
	}

	if m.snapshotPath != "" {
		m.loadSnapshot()
		go m.saveLoop()
	} else {
		close(m.loopDone)
	}

	log.Info().
		Str("snapshot", m.snapshotPath).
		Dur("debounce", debounce).
		Msg("Memory store configured")

	return m
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return ErrNotJSON
	}
	v := make(json.RawMessage, len(value))
	copy(v, value)

	m.mu.Lock()
	m.data[key] = v
	m.dirty = true
	m.mu.Unlock()
	m.requestSave()
	return nil
}

func (m *MemoryKV) Ping(_ context.Context) error { return nil }

// Close stops the save loop and writes a final snapshot if anything changed
// since the last one. A store that was only read never rewrites the file.
// Safe to call multiple times (second call is a no-op).
func (m *MemoryKV) Close() error {
	select {
	case <-m.doneCh:
		return nil
	default:
		close(m.doneCh)
	}
	<-m.loopDone

	if m.snapshotPath != "" {
		m.saveSnapshot()
	}
	log.Info().Msg("Memory store closed")
	return nil
}

// requestSave signals the background goroutine to persist data.
// Non-blocking: coalesces multiple rapid writes into one disk flush.
func (m *MemoryKV) requestSave() {
	if m.snapshotPath == "" {
		return
	}
	select {
	case m.saveCh <- struct{}{}:
	default:
		// Already pending
	}
}

// saveLoop runs in a goroutine, debouncing save requests.
func (m *MemoryKV) saveLoop() {
	defer close(m.loopDone)
	for {
		select {
		case <-m.doneCh:
			return
		case <-m.saveCh:
			timer := time.NewTimer(m.debounce)
			select {
			case <-m.doneCh:
				timer.Stop()
				return // Close flushes
			case <-timer.C:
			}
			m.saveSnapshot()
		}
	}
}

// saveSnapshot persists all data to disk as JSON when there are unsaved
// changes.
func (m *MemoryKV) saveSnapshot() {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	if !m.dirty {
		m.mu.Unlock()
		return
	}
	data, err := json.MarshalIndent(m.data, "", "  ")
	m.dirty = false
	m.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal snapshot")
		return
	}

	// Write to temp file then rename for atomicity
	tmp := m.snapshotPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		log.Error().Err(err).Str("path", tmp).Msg("Failed to write snapshot tmp")
		m.markDirty()
		return
	}
	if err := os.Rename(tmp, m.snapshotPath); err != nil {
		log.Error().Err(err).Str("path", m.snapshotPath).Msg("Failed to rename snapshot")
		m.markDirty()
		return
	}

	log.Debug().Str("path", m.snapshotPath).Msg("Snapshot saved")
}

func (m *MemoryKV) markDirty() {
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
}

// loadSnapshot reads data from disk on startup.
func (m *MemoryKV) loadSnapshot() {
	data, err := os.ReadFile(m.snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", m.snapshotPath).Msg("No snapshot file found, starting fresh")
			return
		}
		log.Warn().Err(err).Str("path", m.snapshotPath).Msg("Failed to read snapshot")
		return
	}

	var snap map[string]json.RawMessage
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Error().Err(err).Str("path", m.snapshotPath).Msg("Failed to parse snapshot, starting fresh")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range snap {
		m.data[k] = v
	}

	log.Info().
		Int("keys", len(m.data)).
		Str("path", m.snapshotPath).
		Msg("Snapshot loaded")
}
