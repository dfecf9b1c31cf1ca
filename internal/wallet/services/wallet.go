package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/chaincode/internal/common"
	"github.com/dmitrijs2005/chaincode/internal/cryptox"
	"github.com/dmitrijs2005/chaincode/internal/idgen"
	"github.com/dmitrijs2005/chaincode/internal/logging"
	"github.com/dmitrijs2005/chaincode/internal/wallet/bundle"
	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
	"github.com/dmitrijs2005/chaincode/internal/wallet/repositories/cards"
	"github.com/dmitrijs2005/chaincode/internal/wallet/repositories/keychain"
	"github.com/dmitrijs2005/chaincode/internal/wallet/repositories/links"
	"github.com/dmitrijs2005/chaincode/internal/wallet/storage"
	"github.com/google/uuid"
)

// WalletService is the card and keychain store used by the CLI.
type WalletService interface {
	AddCard(ctx context.Context, card models.Card) (bool, error)
	ListCards(ctx context.Context) ([]models.Card, error)
	RemoveCards(ctx context.Context, indices []int) (int, error)
	ClearCards(ctx context.Context) error

	CreateCard(ctx context.Context, in CardInput) (*CreateResult, error)
	UnlockCard(ctx context.Context, index int, password string) (string, error)

	SaveKeyEntry(ctx context.Context, id, password, typ string) error
	LookupKey(ctx context.Context, id string) (string, bool, error)
	ListKeychain(ctx context.Context) (models.Keychain, error)
	RemoveKeyEntries(ctx context.Context, ids []string) (int, error)
	ClearKeychain(ctx context.Context) error
	MergeKeychain(ctx context.Context, imported models.Keychain) (int, error)
	ImportKeyFile(ctx context.Context, filename string, contents []byte) (string, error)
	SelfCheck(ctx context.Context) (*SelfCheckReport, error)

	AddLink(ctx context.Context, rec models.LinkRecord) (string, error)
	ListLinks(ctx context.Context) (models.Links, error)
	RemoveLinks(ctx context.Context, ids []string) (int, error)
}

// CardInput is what a user supplies to create a card.
type CardInput struct {
	Type       string
	Value      string
	Visibility models.Visibility
	Expiration string
	Notes      string
}

// KeyFile is the password file handed to the user for a private card.
type KeyFile struct {
	Name     string
	Contents []byte
}

// CreateResult is returned by CreateCard. KeyFile is nil for public cards.
type CreateResult struct {
	Card    models.Card
	KeyFile *KeyFile
}

// SelfCheckReport tells how many private cards can be unlocked from the
// local keychain.
type SelfCheckReport struct {
	Cards      int
	Private    int
	Unlockable int
	// Missing lists slugs of private cards without a keychain entry.
	Missing []string
}

// Wallet implements WalletService over the three repositories.
type Wallet struct {
	mu sync.Mutex

	cards cards.Repository
	keys  keychain.Repository
	links links.Repository

	ids *idgen.Generator
	log logging.Logger
	now func() time.Time

	newPassword func() (string, error)
}

// WalletOption customises a Wallet.
type WalletOption func(*Wallet)

// WithClock replaces time.Now for link records and bundle timestamps.
func WithClock(now func() time.Time) WalletOption {
	return func(w *Wallet) { w.now = now }
}

// WithIDGenerator replaces the identifier generator.
func WithIDGenerator(g *idgen.Generator) WalletOption {
	return func(w *Wallet) { w.ids = g }
}

// WithPasswordSource replaces the per-card password generator.
func WithPasswordSource(fn func() (string, error)) WalletOption {
	return func(w *Wallet) { w.newPassword = fn }
}

// NewWallet wires a Wallet from its repositories.
func NewWallet(c cards.Repository, k keychain.Repository, l links.Repository, log logging.Logger, opts ...WalletOption) *Wallet {
	w := &Wallet{
		cards: c,
		keys:  k,
		links: l,
		ids:   idgen.New(),
		log:   log,
		now:   time.Now,
		newPassword: func() (string, error) {
			return cryptox.GeneratePassword(cryptox.DefaultPasswordLength)
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewWalletFromStore builds a Wallet whose repositories share one store.
func NewWalletFromStore(s storage.Store, log logging.Logger, opts ...WalletOption) *Wallet {
	return NewWallet(
		cards.NewCollectionRepository(s),
		keychain.NewCollectionRepository(s),
		links.NewCollectionRepository(s),
		log,
		opts...,
	)
}

func hasCard(list []models.Card, c models.Card) bool {
	for _, e := range list {
		if e.PublicSlug == c.PublicSlug || e.ChaincodeID == c.ChaincodeID {
			return true
		}
	}
	return false
}

// AddCard appends a valid card. It reports false, without error, when a card
// with the same slug or id is already stored.
func (w *Wallet) AddCard(ctx context.Context, card models.Card) (bool, error) {
	n, err := w.AddCards(ctx, []models.Card{card})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// AddCards validates the batch and appends every card not already stored,
// in one write. It returns how many were added.
func (w *Wallet) AddCards(ctx context.Context, batch []models.Card) (int, error) {
	for _, c := range batch {
		if err := c.Validate(); err != nil {
			return 0, err
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	added := 0
	err := w.cards.Update(ctx, func(list []models.Card) ([]models.Card, error) {
		added = 0
		for _, c := range batch {
			if hasCard(list, c) {
				continue
			}
			list = append(list, c)
			added++
		}
		if added == 0 {
			return nil, storage.ErrNoChange
		}
		return list, nil
	})
	if err != nil {
		return 0, fmt.Errorf("add cards: %w", err)
	}
	return added, nil
}

func (w *Wallet) ListCards(ctx context.Context) ([]models.Card, error) {
	return w.cards.List(ctx)
}

// RemoveCards deletes the cards at the given positions of ListCards.
// Out-of-range indices are ignored and repeated ones count once.
func (w *Wallet) RemoveCards(ctx context.Context, indices []int) (int, error) {
	if len(indices) == 0 {
		return 0, common.ErrNothingSelected
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	removed := 0
	err := w.cards.Update(ctx, func(list []models.Card) ([]models.Card, error) {
		drop := make(map[int]struct{}, len(indices))
		for _, i := range indices {
			if i >= 0 && i < len(list) {
				drop[i] = struct{}{}
			}
		}
		removed = len(drop)
		if removed == 0 {
			return nil, storage.ErrNoChange
		}

		kept := make([]models.Card, 0, len(list)-removed)
		for i, c := range list {
			if _, ok := drop[i]; !ok {
				kept = append(kept, c)
			}
		}
		return kept, nil
	})
	if err != nil {
		return 0, fmt.Errorf("remove cards: %w", err)
	}

	w.log.Info(ctx, "cards removed", "count", removed)
	return removed, nil
}

func (w *Wallet) ClearCards(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.cards.Clear(ctx); err != nil {
		return fmt.Errorf("clear cards: %w", err)
	}
	w.log.Info(ctx, "wallet cleared")
	return nil
}

// CreateCard builds a new card from user input. A private value is encrypted
// under a freshly generated password; that password is saved to the keychain
// before the card is stored and is also returned as a key file.
func (w *Wallet) CreateCard(ctx context.Context, in CardInput) (*CreateResult, error) {
	typ := strings.TrimSpace(in.Type)
	if typ == "" {
		return nil, fmt.Errorf("%w: card type is required", models.ErrValidation)
	}
	if in.Value == "" {
		return nil, fmt.Errorf("%w: card value is required", models.ErrValidation)
	}
	vis := in.Visibility
	if vis == "" {
		vis = models.VisibilityPublic
	}

	id, err := w.ids.NewID(typ + in.Value)
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	card := models.Card{
		ChaincodeID: id,
		PublicSlug:  idgen.Slug(id),
		GeneratedAt: w.now().UTC(),
		Metadata: models.CardMetadata{
			Type:       typ,
			Visibility: vis,
			Expiration: models.OptionalString(in.Expiration),
			Notes:      models.OptionalString(in.Notes),
		},
	}

	res := &CreateResult{}
	switch vis {
	case models.VisibilityPrivate:
		pw, err := w.newPassword()
		if err != nil {
			return nil, fmt.Errorf("generate card password: %w", err)
		}
		blob, err := cryptox.Encrypt([]byte(in.Value), pw)
		if err != nil {
			return nil, fmt.Errorf("encrypt card value: %w", err)
		}
		card.Metadata.EncryptedValue = blob

		if err := w.SaveKeyEntry(ctx, card.KeyID(), pw, typ); err != nil {
			return nil, err
		}
		res.KeyFile = &KeyFile{
			Name:     bundle.KeyFileName(typ, card.PublicSlug),
			Contents: []byte(pw),
		}
	case models.VisibilityPublic:
		v := in.Value
		card.Metadata.Value = &v
	default:
		return nil, fmt.Errorf("%w: unknown visibility %q", models.ErrValidation, vis)
	}

	if _, err := w.AddCard(ctx, card); err != nil {
		return nil, err
	}
	res.Card = card

	w.log.Info(ctx, "card created", "slug", card.PublicSlug, "visibility", string(vis))
	return res, nil
}

// UnlockCard returns the value of the card at index. For a private card an
// empty password means "use the keychain"; ErrKeyNotFound is returned when
// the keychain has no entry for it.
func (w *Wallet) UnlockCard(ctx context.Context, index int, password string) (string, error) {
	list, err := w.cards.List(ctx)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(list) {
		return "", fmt.Errorf("%w: %d", common.ErrIndexOutOfRange, index)
	}

	card := list[index]
	if !card.IsPrivate() {
		if card.Metadata.Value == nil {
			return "", nil
		}
		return *card.Metadata.Value, nil
	}

	if password == "" {
		pw, ok, err := w.LookupKey(ctx, card.KeyID())
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrKeyNotFound
		}
		password = pw
	}

	plain, err := cryptox.Decrypt(card.Metadata.EncryptedValue, password)
	if err != nil {
		w.log.Warn(ctx, "card unlock failed", "slug", card.PublicSlug, "reason", err)
		return "", err
	}
	return string(plain), nil
}

// SaveKeyEntry upserts a keychain entry under the normalised id.
func (w *Wallet) SaveKeyEntry(ctx context.Context, id, password, typ string) error {
	nid := idgen.NormalizeID(id)
	if nid == "" {
		return fmt.Errorf("%w: key id is empty", models.ErrValidation)
	}
	entry := models.NewKeychainEntry(password, typ)
	if err := entry.Validate(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.keys.Update(ctx, func(kc models.Keychain) (models.Keychain, error) {
		kc[nid] = entry
		return kc, nil
	})
	if err != nil {
		return fmt.Errorf("save key: %w", err)
	}
	return nil
}

// LookupKey returns the password stored for id.
func (w *Wallet) LookupKey(ctx context.Context, id string) (string, bool, error) {
	kc, err := w.keys.Get(ctx)
	if err != nil {
		return "", false, err
	}
	e, ok := kc[idgen.NormalizeID(id)]
	if !ok {
		return "", false, nil
	}
	return e.Value, true, nil
}

func (w *Wallet) ListKeychain(ctx context.Context) (models.Keychain, error) {
	return w.keys.Get(ctx)
}

// RemoveKeyEntries deletes the given ids and returns how many existed.
func (w *Wallet) RemoveKeyEntries(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, common.ErrNothingSelected
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	removed := 0
	err := w.keys.Update(ctx, func(kc models.Keychain) (models.Keychain, error) {
		removed = 0
		for _, id := range ids {
			nid := idgen.NormalizeID(id)
			if _, ok := kc[nid]; ok {
				delete(kc, nid)
				removed++
			}
		}
		if removed == 0 {
			return nil, storage.ErrNoChange
		}
		return kc, nil
	})
	if err != nil {
		return 0, fmt.Errorf("remove keys: %w", err)
	}
	return removed, nil
}

func (w *Wallet) ClearKeychain(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.keys.Clear(ctx); err != nil {
		return fmt.Errorf("clear keychain: %w", err)
	}
	w.log.Info(ctx, "keychain cleared")
	return nil
}

// MergeKeychain writes the imported entries over the current keychain;
// on conflict the imported entry wins. Entries with an empty id or password
// are dropped. It returns the number of entries written.
func (w *Wallet) MergeKeychain(ctx context.Context, imported models.Keychain) (int, error) {
	clean, skipped := imported.Normalize()
	for _, id := range skipped {
		w.log.Warn(ctx, "keychain entry skipped", "entry", id, "reason", "empty id or value")
	}
	if len(clean) == 0 {
		return 0, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.keys.Update(ctx, func(kc models.Keychain) (models.Keychain, error) {
		for id, e := range clean {
			kc[id] = e
		}
		return kc, nil
	})
	if err != nil {
		return 0, fmt.Errorf("merge keychain: %w", err)
	}

	w.log.Info(ctx, "keychain merged", "count", len(clean))
	return len(clean), nil
}

// ImportKeyFile stores the password from a <type>-<slug>.key.txt file and
// returns the keychain id it was saved under.
func (w *Wallet) ImportKeyFile(ctx context.Context, filename string, contents []byte) (string, error) {
	typ, id, err := bundle.ParseKeyFileName(filename)
	if err != nil {
		return "", err
	}
	if err := w.SaveKeyEntry(ctx, id, string(contents), typ); err != nil {
		return "", err
	}
	return id, nil
}

// SelfCheck counts private cards that have a keychain entry.
func (w *Wallet) SelfCheck(ctx context.Context) (*SelfCheckReport, error) {
	list, err := w.cards.List(ctx)
	if err != nil {
		return nil, err
	}
	kc, err := w.keys.Get(ctx)
	if err != nil {
		return nil, err
	}

	r := &SelfCheckReport{Cards: len(list)}
	for _, c := range list {
		if !c.IsPrivate() {
			continue
		}
		r.Private++
		if _, ok := kc[c.KeyID()]; ok {
			r.Unlockable++
		} else {
			r.Missing = append(r.Missing, c.PublicSlug)
		}
	}
	return r, nil
}

// AddLink records a produced file and returns its generated id.
func (w *Wallet) AddLink(ctx context.Context, rec models.LinkRecord) (string, error) {
	if rec.Created.IsZero() {
		rec.Created = w.now().UTC()
	}
	id := uuid.NewString()

	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.links.Update(ctx, func(l models.Links) (models.Links, error) {
		l[id] = rec
		return l, nil
	})
	if err != nil {
		return "", fmt.Errorf("add link: %w", err)
	}
	return id, nil
}

func (w *Wallet) ListLinks(ctx context.Context) (models.Links, error) {
	return w.links.Get(ctx)
}

// RemoveLinks forgets the given link ids. The files themselves are untouched.
func (w *Wallet) RemoveLinks(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, common.ErrNothingSelected
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	removed := 0
	err := w.links.Update(ctx, func(l models.Links) (models.Links, error) {
		removed = 0
		for _, id := range ids {
			if _, ok := l[id]; ok {
				delete(l, id)
				removed++
			}
		}
		if removed == 0 {
			return nil, storage.ErrNoChange
		}
		return l, nil
	})
	if err != nil {
		return 0, fmt.Errorf("remove links: %w", err)
	}
	return removed, nil
}

// SortedKeyIDs returns the keychain ids in lexical order, for stable display.
func SortedKeyIDs(kc models.Keychain) []string {
	ids := make([]string, 0, len(kc))
	for id := range kc {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SortedLinkIDs orders link ids by creation time, oldest first.
func SortedLinkIDs(l models.Links) []string {
	ids := make([]string, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := l[ids[i]], l[ids[j]]
		if a.Created.Equal(b.Created) {
			return ids[i] < ids[j]
		}
		return a.Created.Before(b.Created)
	})
	return ids
}

var _ WalletService = (*Wallet)(nil)
