package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/chaincode/internal/idgen"
)

// DefaultKeyType labels keychain entries whose card type is unknown.
const DefaultKeyType = "Unknown"

// KeychainEntry holds the password for one private card.
type KeychainEntry struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Keychain maps normalised card ids to their entries.
type Keychain map[string]KeychainEntry

// NewKeychainEntry trims the password and defaults the type.
func NewKeychainEntry(password, typ string) KeychainEntry {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		typ = DefaultKeyType
	}
	return KeychainEntry{Value: strings.TrimSpace(password), Type: typ}
}

// Normalize returns a copy keyed by normalised ids. Entries with an empty id
// or password are dropped and reported in skipped.
func (k Keychain) Normalize() (Keychain, []string) {
	out := make(Keychain, len(k))
	var skipped []string
	for id, e := range k {
		nid := idgen.NormalizeID(id)
		if nid == "" || strings.TrimSpace(e.Value) == "" {
			skipped = append(skipped, id)
			continue
		}
		out[nid] = NewKeychainEntry(e.Value, e.Type)
	}
	return out, skipped
}

// Select copies the entries for ids that exist; unknown ids are ignored.
func (k Keychain) Select(ids []string) Keychain {
	out := make(Keychain, len(ids))
	for _, id := range ids {
		nid := idgen.NormalizeID(id)
		if e, ok := k[nid]; ok {
			out[nid] = e
		}
	}
	return out
}

// Validate checks a single entry.
func (e KeychainEntry) Validate() error {
	if strings.TrimSpace(e.Value) == "" {
		return fmt.Errorf("%w: keychain entry has no value", ErrValidation)
	}
	return nil
}
