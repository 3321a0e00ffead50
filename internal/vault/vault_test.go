// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socius-org/RedditHarbor/internal/crypto"
	"github.com/socius-org/RedditHarbor/internal/logger"
	"github.com/socius-org/RedditHarbor/internal/passkey"
	"github.com/socius-org/RedditHarbor/internal/records"
	"github.com/socius-org/RedditHarbor/models"
)

// memKV is an in-memory store.KeyValue. It keeps vault tests free of
// filesystem watcher timing; notification is still asynchronous, like the
// real store.
type memKV struct {
	mu      sync.Mutex
	entries map[string]string
	subs    map[string]map[int]func()
	nextSub int
}

func newMemKV() *memKV {
	return &memKV{
		entries: make(map[string]string),
		subs:    make(map[string]map[int]func()),
	}
}

func (kv *memKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	value, ok := kv.entries[key]
	return value, ok, nil
}

func (kv *memKV) Set(key, value string) error {
	kv.mu.Lock()
	kv.entries[key] = value
	var fns []func()
	for _, fn := range kv.subs[key] {
		fns = append(fns, fn)
	}
	kv.mu.Unlock()
	for _, fn := range fns {
		go fn()
	}
	return nil
}

func (kv *memKV) Delete(key string) error {
	kv.mu.Lock()
	delete(kv.entries, key)
	var fns []func()
	for _, fn := range kv.subs[key] {
		fns = append(fns, fn)
	}
	kv.mu.Unlock()
	for _, fn := range fns {
		go fn()
	}
	return nil
}

func (kv *memKV) Subscribe(key string, fn func()) func() {
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

func (kv *memKV) Close() error { return nil }

// countingBinder counts ceremonies so tests can assert that an operation
// ran without prompting the user.
type countingBinder struct {
	inner         Binder
	registers     atomic.Int64
	authenticates atomic.Int64
}

func (b *countingBinder) Register(ctx context.Context, user models.User) (models.Passkey, error) {
	b.registers.Add(1)
	return b.inner.Register(ctx, user)
}

func (b *countingBinder) Authenticate(ctx context.Context, pk models.Passkey) ([]byte, error) {
	b.authenticates.Add(1)
	return b.inner.Authenticate(ctx, pk)
}

// blockingBinder parks Authenticate until released.
type blockingBinder struct {
	inner   Binder
	started chan struct{}
	release chan struct{}
	calls   atomic.Int64
}

func (b *blockingBinder) Register(ctx context.Context, user models.User) (models.Passkey, error) {
	return b.inner.Register(ctx, user)
}

func (b *blockingBinder) Authenticate(ctx context.Context, pk models.Passkey) ([]byte, error) {
	b.calls.Add(1)
	close(b.started)
	<-b.release
	return b.inner.Authenticate(ctx, pk)
}

// blockingRegisterBinder parks Register until released.
type blockingRegisterBinder struct {
	inner   Binder
	started chan struct{}
	release chan struct{}
	calls   atomic.Int64
}

func (b *blockingRegisterBinder) Register(ctx context.Context, user models.User) (models.Passkey, error) {
	b.calls.Add(1)
	close(b.started)
	<-b.release
	return b.inner.Register(ctx, user)
}

func (b *blockingRegisterBinder) Authenticate(ctx context.Context, pk models.Passkey) ([]byte, error) {
	return b.inner.Authenticate(ctx, pk)
}

var testRP = models.RelyingParty{ID: "localhost", Name: "RedditHarbor"}

func testUser() models.User {
	return models.User{UserID: "u1", Email: "a@example.com", DisplayName: "Alice"}
}

func newTestBinder(t *testing.T) *passkey.Binding {
	t.Helper()
	auth, err := passkey.NewSoftwareAuthenticator("")
	require.NoError(t, err)
	return passkey.NewBinding(auth, crypto.NewCipherService(), testRP)
}

func newTestVault(t *testing.T, binder Binder, kv *memKV) *Vault {
	t.Helper()
	v := New(binder, crypto.NewCipherService(), kv, logger.Nop())
	t.Cleanup(v.Close)
	return v
}

func unlock(t *testing.T, v *Vault) {
	t.Helper()
	attempt, err := v.Unlock(context.Background())
	require.NoError(t, err)
	require.NoError(t, attempt.Wait(context.Background()))
}

func TestVault_RegisterSaveUnlockRoundTrip(t *testing.T) {
	kv := newMemKV()
	binder := newTestBinder(t)

	v1 := newTestVault(t, binder, kv)
	assert.Equal(t, StateNoPasskey, v1.State())

	_, err := v1.Register(context.Background(), testUser())
	require.NoError(t, err)
	assert.Equal(t, StatePasskeyBound, v1.State())

	unlock(t, v1)
	assert.Equal(t, StateUnlocked, v1.State())

	result, err := v1.Save(models.ApiKeys{ClaudeKey: "  sk-ant-1  ", OSFAPIKey: "osf-token"})
	require.NoError(t, err)
	require.True(t, result.Valid())

	// The persisted record stores null for empty fields and never the
	// plaintext.
	raw, ok, err := kv.Get(records.APIKeysKey)
	require.NoError(t, err)
	require.True(t, ok)
	var persisted map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, "null", string(persisted["openaiKey"]))
	assert.NotContains(t, raw, "sk-ant-1")

	// A fresh session over the same storage and authenticator recovers the
	// trimmed plaintext after its own unlock ceremony.
	v2 := newTestVault(t, binder, kv)
	assert.Equal(t, StatePasskeyBound, v2.State())
	unlock(t, v2)

	keys, err := v2.Bundle()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-1", keys.ClaudeKey)
	assert.Equal(t, "osf-token", keys.OSFAPIKey)
	assert.Empty(t, keys.OpenAIKey)
}

func TestVault_RegisterTwiceFails(t *testing.T) {
	kv := newMemKV()
	v := newTestVault(t, newTestBinder(t), kv)

	_, err := v.Register(context.Background(), testUser())
	require.NoError(t, err)

	_, err = v.Register(context.Background(), testUser())
	assert.ErrorIs(t, err, ErrPasskeyExists)
}

// foreignBundle serializes a shape-valid bundle encrypted under a key no
// passkey in the test can derive.
func foreignBundle(t *testing.T, value string) string {
	t.Helper()
	key := bytes.Repeat([]byte{0x42}, 32)
	enc, err := crypto.NewCipherService().Encrypt(value, key)
	require.NoError(t, err)
	raw, err := records.SerializeBundle(models.EncryptedApiKeys{ClaudeKey: &enc})
	require.NoError(t, err)
	return raw
}

func TestVault_UnlockFailsOnUnauthenticBundle(t *testing.T) {
	kv := newMemKV()
	v := newTestVault(t, newTestBinder(t), kv)

	_, err := v.Register(context.Background(), testUser())
	require.NoError(t, err)

	require.NoError(t, kv.Set(records.APIKeysKey, foreignBundle(t, "someone-elses-key")))

	// A present field that fails its GCM tag is a per-unlock error, never
	// an empty field.
	attempt, err := v.Unlock(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, attempt.Wait(context.Background()), crypto.ErrAuthenticationFailed)
	assert.Equal(t, StatePasskeyBound, v.State())

	_, err = v.Bundle()
	assert.ErrorIs(t, err, ErrLocked)

	// The failure is scoped to that unlock; once the record is readable
	// again a fresh attempt succeeds.
	require.NoError(t, kv.Delete(records.APIKeysKey))
	unlock(t, v)
	assert.Equal(t, StateUnlocked, v.State())
}

func TestVault_ExternalUnauthenticBundleLocksVault(t *testing.T) {
	kv := newMemKV()
	v := newTestVault(t, newTestBinder(t), kv)

	_, err := v.Register(context.Background(), testUser())
	require.NoError(t, err)
	unlock(t, v)

	_, err = v.Save(models.ApiKeys{ClaudeKey: "sk-ant-1"})
	require.NoError(t, err)

	// Another process rewrote the bundle under a different key; the held
	// session key no longer matches the stored record, so the session is
	// discarded rather than served stale.
	require.NoError(t, kv.Set(records.APIKeysKey, foreignBundle(t, "rotated-elsewhere")))

	require.Eventually(t, func() bool {
		return v.State() == StatePasskeyBound
	}, 2*time.Second, 10*time.Millisecond)

	_, err = v.Bundle()
	assert.ErrorIs(t, err, ErrLocked)
}

func TestVault_ConcurrentRegisterRunsOneCeremony(t *testing.T) {
	kv := newMemKV()
	binder := &blockingRegisterBinder{
		inner:   newTestBinder(t),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	v := newTestVault(t, binder, kv)

	done := make(chan error, 1)
	go func() {
		_, err := v.Register(context.Background(), testUser())
		done <- err
	}()
	<-binder.started

	_, err := v.Register(context.Background(), testUser())
	assert.ErrorIs(t, err, ErrPasskeyExists)

	close(binder.release)
	require.NoError(t, <-done)

	assert.EqualValues(t, 1, binder.calls.Load(), "one ceremony, one credential")
	assert.Equal(t, StatePasskeyBound, v.State())
}

func TestVault_UnlockWithoutPasskey(t *testing.T) {
	v := newTestVault(t, newTestBinder(t), newMemKV())

	_, err := v.Unlock(context.Background())
	assert.ErrorIs(t, err, ErrNoPasskey)
}

func TestVault_SaveWhileLocked(t *testing.T) {
	kv := newMemKV()
	v := newTestVault(t, newTestBinder(t), kv)

	_, err := v.Register(context.Background(), testUser())
	require.NoError(t, err)

	_, err = v.Save(models.ApiKeys{ClaudeKey: "sk-ant-1"})
	assert.ErrorIs(t, err, ErrLocked)

	_, ok, err := kv.Get(records.APIKeysKey)
	require.NoError(t, err)
	assert.False(t, ok, "nothing may be persisted by a rejected save")
}

func TestVault_SaveValidationFailureHasNoSideEffects(t *testing.T) {
	kv := newMemKV()
	v := newTestVault(t, newTestBinder(t), kv)

	_, err := v.Register(context.Background(), testUser())
	require.NoError(t, err)
	unlock(t, v)

	_, err = v.Save(models.ApiKeys{ClaudeKey: "sk-ant-1"})
	require.NoError(t, err)
	before := v.Version()

	result, err := v.Save(models.ApiKeys{SupabaseProjectURL: "not-a-url"})
	require.NoError(t, err)
	assert.False(t, result.Valid())

	assert.Equal(t, before, v.Version())
	keys, err := v.Bundle()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-1", keys.ClaudeKey, "previous bundle must survive a failed validation")
}

func TestVault_UnlockCoalesces(t *testing.T) {
	kv := newMemKV()
	binder := &blockingBinder{
		inner:   newTestBinder(t),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	v := newTestVault(t, binder, kv)

	_, err := v.Register(context.Background(), testUser())
	require.NoError(t, err)

	a1, err := v.Unlock(context.Background())
	require.NoError(t, err)
	<-binder.started
	assert.Equal(t, StateUnlocking, v.State())

	a2, err := v.Unlock(context.Background())
	require.NoError(t, err)
	assert.Same(t, a1, a2, "concurrent unlocks must share one attempt")

	close(binder.release)
	require.NoError(t, a1.Wait(context.Background()))
	require.NoError(t, a2.Wait(context.Background()))

	assert.EqualValues(t, 1, binder.calls.Load(), "one ceremony for all waiters")
	assert.Equal(t, StateUnlocked, v.State())
}

func TestVault_FailedUnlockReturnsToBoundAndRetries(t *testing.T) {
	kv := newMemKV()
	auth, err := passkey.NewSoftwareAuthenticator("")
	require.NoError(t, err)
	binder := passkey.NewBinding(auth, crypto.NewCipherService(), testRP)
	v := newTestVault(t, binder, kv)

	_, err = v.Register(context.Background(), testUser())
	require.NoError(t, err)

	auth.DenyCeremonies = true
	attempt, err := v.Unlock(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, attempt.Wait(context.Background()), passkey.ErrCeremonyCancelled)
	assert.Equal(t, StatePasskeyBound, v.State())

	// A dismissed prompt is not fatal; the next unlock runs a new ceremony.
	auth.DenyCeremonies = false
	unlock(t, v)
	assert.Equal(t, StateUnlocked, v.State())
}

func TestVault_ExternalBundleUpdateRefreshesWithoutCeremony(t *testing.T) {
	kv := newMemKV()
	auth, err := passkey.NewSoftwareAuthenticator("")
	require.NoError(t, err)
	cipher := crypto.NewCipherService()

	writer := New(passkey.NewBinding(auth, cipher, testRP), cipher, kv, logger.Nop())
	defer writer.Close()

	counting := &countingBinder{inner: passkey.NewBinding(auth, cipher, testRP)}
	reader := New(counting, cipher, kv, logger.Nop())
	defer reader.Close()

	_, err = writer.Register(context.Background(), testUser())
	require.NoError(t, err)
	unlock(t, writer)

	// The reader vault was created before the passkey existed; reopen it
	// over the now-populated store.
	reader.Close()
	reader = New(counting, cipher, kv, logger.Nop())
	defer reader.Close()
	unlock(t, reader)

	ceremonies := counting.authenticates.Load()

	_, err = writer.Save(models.ApiKeys{ClaudeKey: "sk-ant-2"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		keys, err := reader.Bundle()
		return err == nil && keys.ClaudeKey == "sk-ant-2"
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, ceremonies, counting.authenticates.Load(),
		"picking up an external save must not prompt the user again")
	assert.Equal(t, StateUnlocked, reader.State())
}

func TestVault_MalformedBundleReadsAsEmpty(t *testing.T) {
	kv := newMemKV()
	v := newTestVault(t, newTestBinder(t), kv)

	_, err := v.Register(context.Background(), testUser())
	require.NoError(t, err)

	require.NoError(t, kv.Set(records.APIKeysKey, "{corrupt"))

	unlock(t, v)
	keys, err := v.Bundle()
	require.NoError(t, err)
	assert.Equal(t, models.ApiKeys{}, keys)
}

func TestVault_MalformedPasskeyRecordReadsAsAbsent(t *testing.T) {
	kv := newMemKV()
	require.NoError(t, kv.Set(records.PasskeyKey, "not a record"))

	v := newTestVault(t, newTestBinder(t), kv)
	assert.Equal(t, StateNoPasskey, v.State())
}

func TestVault_BundleWhileLocked(t *testing.T) {
	kv := newMemKV()
	v := newTestVault(t, newTestBinder(t), kv)

	_, err := v.Register(context.Background(), testUser())
	require.NoError(t, err)

	_, err = v.Bundle()
	assert.ErrorIs(t, err, ErrLocked)
}
