package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophtodo/internal/client/storage"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/cryptox"
	"github.com/dmitrijs2005/gophtodo/internal/filex"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
)

const backupVersion = 1

// backupEnvelope is the on-disk backup format. Ciphertext is the AES-GCM
// sealed storage.Snapshot under a key derived from the passphrase and Salt.
type backupEnvelope struct {
	Version    int    `json:"version"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// BackupService exports and imports every user and task as a
// passphrase-encrypted file.
type BackupService interface {
	Export(ctx context.Context, path string, passphrase []byte) error
	Import(ctx context.Context, path string, passphrase []byte) error
}

type backupService struct {
	store Store
	auth  AuthService
	tasks TaskService
	log   logging.Logger
}

func NewBackupService(store Store, auth AuthService, tasks TaskService, opts ...Option) BackupService {
	o := buildOptions(opts)
	return &backupService{store: store, auth: auth, tasks: tasks, log: o.log.With("component", "backup")}
}

func (b *backupService) Export(ctx context.Context, path string, passphrase []byte) error {
	snap := b.store.Snapshot(ctx)

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)

	ct, nonce, err := cryptox.SealJSON(snap, key)
	if err != nil {
		return fmt.Errorf("seal backup: %w", err)
	}

	data, err := json.MarshalIndent(backupEnvelope{
		Version:    backupVersion,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ct,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	b.log.Info(ctx, "backup exported", "path", path, "users", len(snap.Users), "tasks", len(snap.Tasks))
	return nil
}

// Import replaces all users and tasks with the backup content and logs out.
// The store is untouched, and the session kept, when the file cannot be read
// or decrypted or the restore fails.
func (b *backupService) Import(ctx context.Context, path string, passphrase []byte) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	var env backupEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnsupportedBackup, err)
	}
	if env.Version != backupVersion {
		return fmt.Errorf("%w: version %d", common.ErrUnsupportedBackup, env.Version)
	}

	key := cryptox.DeriveKey(passphrase, env.Salt)
	defer common.WipeByteArray(key)

	var snap storage.Snapshot
	if err := cryptox.OpenJSON(env.Ciphertext, env.Nonce, key, &snap); err != nil {
		return fmt.Errorf("%w: %v", common.ErrBadPassphrase, err)
	}

	if err := b.store.Restore(ctx, snap); err != nil {
		return err
	}
	b.auth.Logout(ctx)
	b.tasks.Reload(ctx)

	b.log.Info(ctx, "backup imported", "path", path, "users", len(snap.Users), "tasks", len(snap.Tasks))
	return nil
}
