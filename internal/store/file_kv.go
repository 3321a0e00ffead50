// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/socius-org/RedditHarbor/internal/logger"
)

// FileKV is a [KeyValue] backed by a single JSON file. The whole map is
// rewritten atomically (temp file + rename) on every mutation. An fsnotify
// watcher on the containing directory picks up writes made by other
// processes; reloads are diffed against the in-memory state, so a process
// is never notified about its own writes and external notifications carry
// only the keys that actually changed.
type FileKV struct {
	path    string
	log     *logger.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu      sync.Mutex
	entries map[string]string
	subs    map[string]map[int]func()
	nextSub int
}

// NewFileKV opens (or creates) the store file at path and starts the
// cross-process change watcher. A corrupt store file is logged and treated
// as empty rather than failing startup.
func NewFileKV(path string, log *logger.Logger) (*FileKV, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	kv := &FileKV{
		path:    path,
		log:     log,
		done:    make(chan struct{}),
		entries: make(map[string]string),
		subs:    make(map[string]map[int]func()),
	}

	if entries, err := readEntries(path); err != nil {
		kv.log.Warn().Err(err).Str("path", path).Msg("store file unreadable, starting empty")
	} else {
		kv.entries = entries
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create store watcher: %w", err)
	}
	if err = watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch store dir: %w", err)
	}
	kv.watcher = watcher
	go kv.watchLoop()

	return kv, nil
}

// Get implements [KeyValue].
func (kv *FileKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	value, ok := kv.entries[key]
	return value, ok, nil
}

// Set implements [KeyValue].
func (kv *FileKV) Set(key, value string) error {
	kv.mu.Lock()
	if old, ok := kv.entries[key]; ok && old == value {
		kv.mu.Unlock()
		return nil
	}
	kv.entries[key] = value
	err := kv.persistLocked()
	kv.mu.Unlock()
	if err != nil {
		return err
	}
	kv.notify(key)
	return nil
}

// Delete implements [KeyValue].
func (kv *FileKV) Delete(key string) error {
	kv.mu.Lock()
	if _, ok := kv.entries[key]; !ok {
		kv.mu.Unlock()
		return nil
	}
	delete(kv.entries, key)
	err := kv.persistLocked()
	kv.mu.Unlock()
	if err != nil {
		return err
	}
	kv.notify(key)
	return nil
}

// Subscribe implements [KeyValue].
func (kv *FileKV) Subscribe(key string, fn func()) func() {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if kv.subs[key] == nil {
		kv.subs[key] = make(map[int]func())
	}
	id := kv.nextSub
	kv.nextSub++
	kv.subs[key][id] = fn

	return func() {
		kv.mu.Lock()
		defer kv.mu.Unlock()
		delete(kv.subs[key], id)
	}
}

// Close implements [KeyValue].
func (kv *FileKV) Close() error {
	select {
	case <-kv.done:
		return nil
	default:
	}
	close(kv.done)
	return kv.watcher.Close()
}

// notify runs the key's subscribers on fresh goroutines. Callbacks must
// never run under kv.mu or on the watcher goroutine; a subscriber is free
// to call back into the store.
func (kv *FileKV) notify(keys ...string) {
	kv.mu.Lock()
	var fns []func()
	for _, key := range keys {
		for _, fn := range kv.subs[key] {
			fns = append(fns, fn)
		}
	}
	kv.mu.Unlock()

	for _, fn := range fns {
		go fn()
	}
}

func (kv *FileKV) watchLoop() {
	for {
		select {
		case <-kv.done:
			return
		case event, ok := <-kv.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(kv.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			kv.reload()
		case err, ok := <-kv.watcher.Errors:
			if !ok {
				return
			}
			kv.log.Warn().Err(err).Msg("store watcher error")
		}
	}
}

// reload re-reads the backing file and notifies subscribers of every key
// whose value differs from the in-memory state. Local mutations update the
// in-memory state before touching disk, so their file events diff clean
// here and produce no duplicate notifications.
func (kv *FileKV) reload() {
	entries, err := readEntries(kv.path)
	if err != nil {
		kv.log.Warn().Err(err).Msg("store reload failed")
		return
	}

	kv.mu.Lock()
	var changed []string
	for key, value := range entries {
		if old, ok := kv.entries[key]; !ok || old != value {
			changed = append(changed, key)
		}
	}
	for key := range kv.entries {
		if _, ok := entries[key]; !ok {
			changed = append(changed, key)
		}
	}
	kv.entries = entries
	kv.mu.Unlock()

	if len(changed) > 0 {
		kv.notify(changed...)
	}
}

func (kv *FileKV) persistLocked() error {
	payload, err := json.MarshalIndent(kv.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(kv.path), ".store-*")
	if err != nil {
		return fmt.Errorf("create store temp file: %w", err)
	}
	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write store temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close store temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), kv.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func readEntries(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	entries := make(map[string]string)
	if err = json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
