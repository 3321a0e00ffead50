// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

// Package vault holds the credential vault: the state machine that binds a
// passkey, derives the encryption key from its PRF output, and mediates all
// access to the stored api key bundle. Plaintext keys exist only inside an
// unlocked vault; storage only ever sees ciphertext.
package vault

import (
	"context"
	"fmt"
	"sync"

	"github.com/socius-org/RedditHarbor/internal/crypto"
	"github.com/socius-org/RedditHarbor/internal/logger"
	"github.com/socius-org/RedditHarbor/internal/records"
	"github.com/socius-org/RedditHarbor/internal/store"
	"github.com/socius-org/RedditHarbor/internal/validators"
	"github.com/socius-org/RedditHarbor/models"
)

// State is the vault lifecycle position.
type State int

const (
	// StateNoPasskey means no passkey record exists yet; registration is
	// the only way forward.
	StateNoPasskey State = iota

	// StatePasskeyBound means a passkey record exists but no session key
	// is held; stored secrets are unreadable until an unlock succeeds.
	StatePasskeyBound

	// StateUnlocking means an unlock ceremony is in flight.
	StateUnlocking

	// StateUnlocked means the session key is held and the decrypted bundle
	// is readable.
	StateUnlocked
)

func (s State) String() string {
	switch s {
	case StateNoPasskey:
		return "no-passkey"
	case StatePasskeyBound:
		return "passkey-bound"
	case StateUnlocking:
		return "unlocking"
	case StateUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// Binder runs the passkey ceremonies the vault depends on.
type Binder interface {
	Register(ctx context.Context, user models.User) (models.Passkey, error)
	Authenticate(ctx context.Context, passkey models.Passkey) ([]byte, error)
}

// Vault is the credential vault. All exported methods are safe for
// concurrent use.
type Vault struct {
	binder Binder
	cipher crypto.CipherService
	kv     store.KeyValue
	log    *logger.Logger

	mu          sync.Mutex
	registering bool
	passkey     *models.Passkey
	key         []byte
	attempt     *UnlockAttempt
	encrypted   models.EncryptedApiKeys
	plain       models.ApiKeys
	version     uint64
	subs        map[int]func()
	nextSub     int
	unsubKV     func()
}

// New builds a vault over the given stores and ceremonies. An existing
// passkey record is loaded from storage; a malformed record reads as "no
// passkey". The vault watches the bundle record for writes made by other
// processes.
func New(binder Binder, cipher crypto.CipherService, kv store.KeyValue, log *logger.Logger) *Vault {
	v := &Vault{
		binder: binder,
		cipher: cipher,
		kv:     kv,
		log:    log,
		subs:   make(map[int]func()),
	}

	if raw, ok, err := kv.Get(records.PasskeyKey); err == nil && ok {
		if pk, valid := records.LoadPasskey(raw); valid {
			v.passkey = &pk
		} else {
			v.log.Warn().Msg("stored passkey record is malformed, treating as absent")
		}
	}

	v.unsubKV = kv.Subscribe(records.APIKeysKey, v.onBundleChanged)
	return v
}

// Close detaches the vault from storage notifications.
func (v *Vault) Close() {
	if v.unsubKV != nil {
		v.unsubKV()
	}
}

// State returns the current lifecycle position.
func (v *Vault) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *Vault) stateLocked() State {
	switch {
	case v.passkey == nil:
		return StateNoPasskey
	case v.attempt != nil:
		return StateUnlocking
	case v.key != nil:
		return StateUnlocked
	default:
		return StatePasskeyBound
	}
}

// Passkey returns the bound passkey record, if any.
func (v *Vault) Passkey() (models.Passkey, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.passkey == nil {
		return models.Passkey{}, false
	}
	return *v.passkey, true
}

// Version increments on every observable vault change (registration,
// unlock, save, external bundle update, lock-out). Views use it to cheaply
// detect staleness.
func (v *Vault) Version() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.version
}

// Subscribe registers fn to run after every observable vault change.
// Callbacks run on their own goroutines, never under the vault lock.
func (v *Vault) Subscribe(fn func()) (unsubscribe func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.subs, id)
	}
}

// Register creates and binds a passkey for user. The record is persisted
// before Register returns, so a crash immediately afterwards cannot lose
// the salt that every future ciphertext will depend on. At most one
// registration ceremony runs at a time; a concurrent call fails with
// ErrPasskeyExists instead of producing a second credential that would
// orphan the first one's salt. Registering does not unlock the vault.
func (v *Vault) Register(ctx context.Context, user models.User) (models.Passkey, error) {
	v.mu.Lock()
	if v.passkey != nil || v.registering {
		v.mu.Unlock()
		return models.Passkey{}, ErrPasskeyExists
	}
	v.registering = true
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.registering = false
		v.mu.Unlock()
	}()

	pk, err := v.binder.Register(ctx, user)
	if err != nil {
		return models.Passkey{}, err
	}

	raw, err := records.SerializePasskey(pk)
	if err != nil {
		return models.Passkey{}, fmt.Errorf("serialize passkey record: %w", err)
	}
	if err = v.kv.Set(records.PasskeyKey, raw); err != nil {
		return models.Passkey{}, fmt.Errorf("persist passkey record: %w", err)
	}

	v.mu.Lock()
	v.passkey = &pk
	v.bumpLocked()
	v.mu.Unlock()
	v.notify()

	v.log.Info().Str("credentialId", pk.ID).Msg("passkey registered")
	return pk, nil
}

// Unlock starts (or joins) an unlock. Concurrent calls while a ceremony is
// in flight coalesce onto the same [UnlockAttempt]; at most one prompt is
// shown. Unlocking an already unlocked vault returns an attempt that is
// already resolved successfully.
func (v *Vault) Unlock(ctx context.Context) (*UnlockAttempt, error) {
	v.mu.Lock()
	if v.passkey == nil {
		v.mu.Unlock()
		return nil, ErrNoPasskey
	}
	if v.attempt != nil {
		attempt := v.attempt
		v.mu.Unlock()
		return attempt, nil
	}
	if v.key != nil {
		v.mu.Unlock()
		attempt := newUnlockAttempt()
		attempt.finish(nil)
		return attempt, nil
	}

	attempt := newUnlockAttempt()
	v.attempt = attempt
	passkey := *v.passkey
	v.bumpLocked()
	v.mu.Unlock()
	v.notify()

	go v.runUnlock(ctx, attempt, passkey)
	return attempt, nil
}

// runUnlock performs the ceremony, derives the key and decrypts the stored
// bundle. Any failure resolves the attempt with the error and returns the
// vault to the bound-but-locked state; a later Unlock starts a fresh
// ceremony.
func (v *Vault) runUnlock(ctx context.Context, attempt *UnlockAttempt, passkey models.Passkey) {
	key, plain, encrypted, err := v.unlockOnce(ctx, passkey)

	v.mu.Lock()
	v.attempt = nil
	if err == nil {
		v.key = key
		v.plain = plain
		v.encrypted = encrypted
	}
	v.bumpLocked()
	v.mu.Unlock()

	attempt.finish(err)
	v.notify()

	if err != nil {
		v.log.Warn().Err(err).Msg("vault unlock failed")
	} else {
		v.log.Info().Msg("vault unlocked")
	}
}

func (v *Vault) unlockOnce(ctx context.Context, passkey models.Passkey) ([]byte, models.ApiKeys, models.EncryptedApiKeys, error) {
	prfOutput, err := v.binder.Authenticate(ctx, passkey)
	if err != nil {
		return nil, models.ApiKeys{}, models.EncryptedApiKeys{}, err
	}

	key, err := v.cipher.DeriveKey(prfOutput)
	if err != nil {
		return nil, models.ApiKeys{}, models.EncryptedApiKeys{}, err
	}

	encrypted := v.loadBundle()
	plain, err := v.decryptBundle(encrypted, key)
	if err != nil {
		return nil, models.ApiKeys{}, models.EncryptedApiKeys{}, err
	}
	return key, plain, encrypted, nil
}

// loadBundle reads the persisted bundle; absent or malformed records read
// as an empty bundle.
func (v *Vault) loadBundle() models.EncryptedApiKeys {
	raw, ok, err := v.kv.Get(records.APIKeysKey)
	if err != nil || !ok {
		return models.EncryptedApiKeys{}
	}
	bundle, valid := records.LoadBundle(raw)
	if !valid {
		v.log.Warn().Msg("stored api key bundle is malformed, treating as empty")
		return models.EncryptedApiKeys{}
	}
	return bundle
}

func (v *Vault) decryptBundle(encrypted models.EncryptedApiKeys, key []byte) (models.ApiKeys, error) {
	var plain models.ApiKeys
	fields := []struct {
		name string
		src  *models.EncryptedData
		dst  *string
	}{
		{models.FieldClaudeKey, encrypted.ClaudeKey, &plain.ClaudeKey},
		{models.FieldOpenAIKey, encrypted.OpenAIKey, &plain.OpenAIKey},
		{models.FieldSupabaseProjectURL, encrypted.SupabaseProjectURL, &plain.SupabaseProjectURL},
		{models.FieldSupabaseAPIKey, encrypted.SupabaseAPIKey, &plain.SupabaseAPIKey},
		{models.FieldOSFAPIKey, encrypted.OSFAPIKey, &plain.OSFAPIKey},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		value, err := v.cipher.Decrypt(*f.src, key)
		if err != nil {
			return models.ApiKeys{}, fmt.Errorf("decrypt %s: %w", f.name, err)
		}
		*f.dst = value
	}
	return plain, nil
}

func (v *Vault) encryptBundle(plain models.ApiKeys, key []byte) (models.EncryptedApiKeys, error) {
	var encrypted models.EncryptedApiKeys
	fields := []struct {
		name string
		src  string
		dst  **models.EncryptedData
	}{
		{models.FieldClaudeKey, plain.ClaudeKey, &encrypted.ClaudeKey},
		{models.FieldOpenAIKey, plain.OpenAIKey, &encrypted.OpenAIKey},
		{models.FieldSupabaseProjectURL, plain.SupabaseProjectURL, &encrypted.SupabaseProjectURL},
		{models.FieldSupabaseAPIKey, plain.SupabaseAPIKey, &encrypted.SupabaseAPIKey},
		{models.FieldOSFAPIKey, plain.OSFAPIKey, &encrypted.OSFAPIKey},
	}
	for _, f := range fields {
		if f.src == "" {
			continue
		}
		enc, err := v.cipher.Encrypt(f.src, key)
		if err != nil {
			return models.EncryptedApiKeys{}, fmt.Errorf("encrypt %s: %w", f.name, err)
		}
		value := enc
		*f.dst = &value
	}
	return encrypted, nil
}

// Bundle returns the decrypted api keys. Fails with ErrLocked unless the
// vault is unlocked. The persisted record is re-checked first, so a write
// from another process that raced the change notification is still picked
// up before anything stale is returned.
func (v *Vault) Bundle() (models.ApiKeys, error) {
	v.refresh()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.key == nil {
		return models.ApiKeys{}, ErrLocked
	}
	return v.plain, nil
}

// Save validates, encrypts and persists a credential bundle. Validation
// failures are reported as data with no side effects; the stored record and
// the in-memory bundle are untouched. On success every field is encrypted
// with a fresh IV and the whole record is written in a single storage
// operation, never field by field.
func (v *Vault) Save(keys models.ApiKeys) (models.ApiKeysValidationResult, error) {
	keys = keys.Trimmed()
	result := validators.ValidateApiKeys(keys)
	if !result.Valid() {
		return result, nil
	}

	v.mu.Lock()
	if v.key == nil {
		v.mu.Unlock()
		return result, ErrLocked
	}
	key := v.key
	v.mu.Unlock()

	encrypted, err := v.encryptBundle(keys, key)
	if err != nil {
		return result, err
	}
	raw, err := records.SerializeBundle(encrypted)
	if err != nil {
		return result, fmt.Errorf("serialize bundle: %w", err)
	}
	if err = v.kv.Set(records.APIKeysKey, raw); err != nil {
		return result, fmt.Errorf("persist bundle: %w", err)
	}

	v.mu.Lock()
	v.plain = keys
	v.encrypted = encrypted
	v.bumpLocked()
	v.mu.Unlock()
	v.notify()

	v.log.Info().Msg("api key bundle saved")
	return result, nil
}

// onBundleChanged runs when the bundle record changes in storage,
// typically a save from another process of the same user.
func (v *Vault) onBundleChanged() {
	v.refresh()
}

// refresh re-decrypts the persisted bundle with the held session key if the
// record differs from the in-memory snapshot. No ceremony is run; the key
// is already derived. If the new record cannot be decrypted with the held
// key the session is discarded and the vault drops back to locked.
func (v *Vault) refresh() {
	v.mu.Lock()
	if v.key == nil {
		v.mu.Unlock()
		return
	}
	key := v.key
	snapshot := v.encrypted
	v.mu.Unlock()

	latest := v.loadBundle()
	if latest.Equal(&snapshot) {
		return
	}

	plain, err := v.decryptBundle(latest, key)

	v.mu.Lock()
	if v.key == nil || !v.encrypted.Equal(&snapshot) {
		// The vault moved on while we were decrypting; that state is
		// newer than this reload.
		v.mu.Unlock()
		return
	}
	if err != nil {
		v.key = nil
		v.plain = models.ApiKeys{}
		v.encrypted = models.EncryptedApiKeys{}
	} else {
		v.plain = plain
		v.encrypted = latest
	}
	v.bumpLocked()
	v.mu.Unlock()
	v.notify()

	if err != nil {
		v.log.Warn().Err(err).Msg("external bundle update not decryptable with held key, locking vault")
	} else {
		v.log.Info().Msg("api key bundle refreshed from storage")
	}
}

func (v *Vault) bumpLocked() {
	v.version++
}

// notify fans state-change callbacks out on fresh goroutines so a
// subscriber can safely call back into the vault.
func (v *Vault) notify() {
	v.mu.Lock()
	fns := make([]func(), 0, len(v.subs))
	for _, fn := range v.subs {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		go fn()
	}
}
