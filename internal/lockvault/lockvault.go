// Package lockvault provides an optional age-encrypted escrow copy of stash
// content alongside the plaintext stash, so a long-held lock's bytes can be
// recovered by an operator without shell access to the plaintext worktree.
// It is purely additive: the crash-safety invariants are governed entirely
// by the plaintext stash, never by the vault.
package lockvault

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/rnwolfe/git-shadow/internal/atomicfile"
)

// ErrWrongPassphrase is returned when decryption fails due to a bad passphrase.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// ErrCorruptedVault is returned when the vault file exists but cannot be parsed.
var ErrCorruptedVault = errors.New("lock vault is corrupted or unreadable")

type vaultData struct {
	Entries map[string][]byte `json:"entries"` // encoded path -> stash bytes
}

// Vault manages an age-encrypted escrow copy of stash content, stored at
// <shadowDir>/lock.vault.
type Vault struct {
	mu         sync.Mutex
	path       string
	passphrase string
}

// New creates a Vault backed by shadowDir/lock.vault.
func New(shadowDir, passphrase string) *Vault {
	return &Vault{
		path:       filepath.Join(shadowDir, "lock.vault"),
		passphrase: passphrase,
	}
}

// Escrow stores an encrypted copy of content under encodedPath, merging
// with any existing escrow entries.
func (v *Vault) Escrow(encodedPath string, content []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := v.load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if data == nil {
		data = &vaultData{Entries: make(map[string][]byte)}
	}
	data.Entries[encodedPath] = content
	return v.save(data)
}

// Retrieve returns the escrowed bytes for encodedPath.
func (v *Vault) Retrieve(encodedPath string) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := v.load()
	if err != nil {
		return nil, err
	}
	content, ok := data.Entries[encodedPath]
	if !ok {
		return nil, fmt.Errorf("%s not present in lock vault", encodedPath)
	}
	return content, nil
}

// Clear removes encodedPath's escrow entry, if present.
func (v *Vault) Clear(encodedPath string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := v.load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	delete(data.Entries, encodedPath)
	return v.save(data)
}

func (v *Vault) load() (*vaultData, error) {
	raw, err := os.ReadFile(v.path)
	if err != nil {
		return nil, err
	}
	return decryptData(raw, v.passphrase)
}

func (v *Vault) save(data *vaultData) error {
	raw, err := encryptData(data, v.passphrase)
	if err != nil {
		return err
	}
	return atomicfile.Write(v.path, raw, 0o600)
}

func encryptData(data *vaultData, passphrase string) ([]byte, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("serializing lock vault: %w", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age recipient: %w", err)
	}

	var buf bytes.Buffer
	armorWriter := armor.NewWriter(&buf)
	w, err := age.Encrypt(armorWriter, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing age encryption: %w", err)
	}
	if _, err := w.Write(jsonBytes); err != nil {
		return nil, fmt.Errorf("encrypting lock vault: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}
	return buf.Bytes(), nil
}

func decryptData(raw []byte, passphrase string) (*vaultData, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age identity: %w", err)
	}

	armorReader := armor.NewReader(bytes.NewReader(raw))
	r, err := age.Decrypt(armorReader, identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading decrypted data: %v", ErrCorruptedVault, err)
	}

	var data vaultData
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, fmt.Errorf("%w: parsing lock vault JSON: %v", ErrCorruptedVault, err)
	}
	if data.Entries == nil {
		data.Entries = make(map[string][]byte)
	}
	return &data, nil
}
