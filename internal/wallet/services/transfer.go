package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/chaincode/internal/common"
	"github.com/dmitrijs2005/chaincode/internal/cryptox"
	"github.com/dmitrijs2005/chaincode/internal/logging"
	"github.com/dmitrijs2005/chaincode/internal/wallet/bundle"
	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
)

// TransferService moves cards and keys in and out of the wallet as blobs.
type TransferService interface {
	ExportBundle(ctx context.Context, indices []int, meta bundle.Meta, password string) ([]byte, error)
	ImportBundle(ctx context.Context, blob []byte, password string) (*ImportReport, error)
	ExportKeychain(ctx context.Context, ids []string, password string) ([]byte, error)
	ExportKeychainPlain(ctx context.Context, ids []string) ([]byte, error)
	ImportKeychain(ctx context.Context, blob []byte, password string) (int, error)
}

// ImportReport summarises a bundle import.
type ImportReport struct {
	Imported   int
	Duplicates int
	Skips      []bundle.Skip
	Meta       *bundle.Meta
	Manifest   []string
	// Expired is set when the bundle's expires_at has passed. The cards are
	// imported anyway.
	Expired bool
}

// Transfer implements TransferService. All writes go through Wallet.
type Transfer struct {
	wallet *Wallet
	log    logging.Logger
}

func NewTransfer(w *Wallet, log logging.Logger) *Transfer {
	return &Transfer{wallet: w, log: log}
}

// ExportBundle seals the cards at indices into an encrypted bundle.
// Out-of-range and repeated indices are ignored; ErrNothingSelected is
// returned when no card remains.
func (t *Transfer) ExportBundle(ctx context.Context, indices []int, meta bundle.Meta, password string) ([]byte, error) {
	if password == "" {
		return nil, cryptox.ErrEmptyPassword
	}

	list, err := t.wallet.ListCards(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(indices))
	var selected []models.Card
	for _, i := range indices {
		if i < 0 || i >= len(list) {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		selected = append(selected, list[i])
	}
	if len(selected) == 0 {
		return nil, common.ErrNothingSelected
	}

	if meta.ExportedAt.IsZero() {
		meta.ExportedAt = t.wallet.now().UTC()
	}

	blob, err := bundle.Seal(selected, meta, password)
	if err != nil {
		return nil, fmt.Errorf("seal bundle: %w", err)
	}

	t.log.Info(ctx, "bundle exported", "cards", len(selected), "bytes", len(blob))
	return blob, nil
}

// ImportBundle decrypts a bundle and adds its cards. A wrong password or a
// damaged container fails the whole import; individual bad entries are
// skipped and reported.
func (t *Transfer) ImportBundle(ctx context.Context, blob []byte, password string) (*ImportReport, error) {
	contents, err := bundle.Open(blob, password)
	if err != nil {
		return nil, err
	}

	r := &ImportReport{
		Skips:    contents.Skips,
		Meta:     contents.Meta,
		Manifest: contents.Manifest,
	}
	for _, s := range contents.Skips {
		t.log.Warn(ctx, "bundle entry skipped", "entry", s.Entry, "reason", s.Err)
	}

	if contents.Meta != nil && contents.Meta.Expired(t.wallet.now()) {
		r.Expired = true
		t.log.Warn(ctx, "bundle has expired", "expires_at", *contents.Meta.ExpiresAt)
	}

	if len(contents.Cards) > 0 {
		added, err := t.wallet.AddCards(ctx, contents.Cards)
		if err != nil {
			return nil, err
		}
		r.Imported = added
		r.Duplicates = len(contents.Cards) - added
	}

	t.log.Info(ctx, "bundle imported",
		"imported", r.Imported, "duplicates", r.Duplicates, "skipped", len(r.Skips))
	return r, nil
}

// selectKeys picks entries for ids, or the whole keychain when ids is nil.
func (t *Transfer) selectKeys(ctx context.Context, ids []string) (models.Keychain, error) {
	kc, err := t.wallet.ListKeychain(ctx)
	if err != nil {
		return nil, err
	}
	if ids != nil {
		kc = kc.Select(ids)
	}
	if len(kc) == 0 {
		return nil, common.ErrNothingSelected
	}
	return kc, nil
}

// ExportKeychain encrypts the selected keychain entries. A nil ids exports
// every entry; unknown ids are ignored.
func (t *Transfer) ExportKeychain(ctx context.Context, ids []string, password string) ([]byte, error) {
	if password == "" {
		return nil, cryptox.ErrEmptyPassword
	}
	kc, err := t.selectKeys(ctx, ids)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(kc)
	if err != nil {
		return nil, fmt.Errorf("encode keychain: %w", err)
	}
	defer common.WipeByteArray(data)

	blob, err := cryptox.Encrypt(data, password)
	if err != nil {
		return nil, err
	}
	t.log.Info(ctx, "keychain exported", "keys", len(kc))
	return blob, nil
}

// ExportKeychainPlain returns the selected entries as indented JSON, without
// encryption.
func (t *Transfer) ExportKeychainPlain(ctx context.Context, ids []string) ([]byte, error) {
	kc, err := t.selectKeys(ctx, ids)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(kc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode keychain: %w", err)
	}
	t.log.Warn(ctx, "keychain exported without encryption", "keys", len(kc))
	return data, nil
}

// ImportKeychain decrypts an exported keychain and merges it, imported
// entries winning. It returns the number of entries merged.
func (t *Transfer) ImportKeychain(ctx context.Context, blob []byte, password string) (int, error) {
	data, err := cryptox.Decrypt(blob, password)
	if err != nil {
		return 0, err
	}
	defer common.WipeByteArray(data)

	var kc models.Keychain
	if err := json.Unmarshal(data, &kc); err != nil {
		return 0, fmt.Errorf("%w: keychain: %v", common.ErrFormat, err)
	}
	return t.wallet.MergeKeychain(ctx, kc)
}

var _ TransferService = (*Transfer)(nil)
