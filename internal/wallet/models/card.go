// Package models defines the records kept by the wallet: cards, keychain
// entries and link records, with the validation applied whenever they cross
// a JSON boundary.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/chaincode/internal/idgen"
)

// ErrValidation marks a record that parsed but breaks a presence invariant.
var ErrValidation = errors.New("validation failed")

// Visibility says whether a card value is stored in clear or encrypted.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility accepts the two known values case-insensitively.
func ParseVisibility(s string) (Visibility, error) {
	switch v := Visibility(strings.ToLower(strings.TrimSpace(s))); v {
	case VisibilityPublic, VisibilityPrivate:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown visibility %q", ErrValidation, s)
	}
}

// CardMetadata is the typed payload of a card.
//
// Exactly one of Value and EncryptedValue is set: Value for public cards,
// EncryptedValue (a cryptox blob) for private ones.
type CardMetadata struct {
	Type           string     `json:"type"`
	Visibility     Visibility `json:"visibility"`
	Value          *string    `json:"value,omitempty"`
	EncryptedValue ByteArray  `json:"encrypted_value,omitempty"`
	Expiration     *string    `json:"expiration"`
	Notes          *string    `json:"notes"`
}

// Card is a single wallet record.
type Card struct {
	ChaincodeID string       `json:"chaincode_id"`
	PublicSlug  string       `json:"public_slug"`
	GeneratedAt time.Time    `json:"generated_at"`
	Metadata    CardMetadata `json:"metadata"`
}

// KeyID is the keychain id matching this card's slug.
func (c Card) KeyID() string {
	return idgen.NormalizeID(c.PublicSlug)
}

// IsPrivate reports whether the card value is encrypted.
func (c Card) IsPrivate() bool {
	return c.Metadata.Visibility == VisibilityPrivate
}

// Validate checks the identity fields and the visibility invariant.
func (c Card) Validate() error {
	if c.ChaincodeID == "" {
		return fmt.Errorf("%w: chaincode_id is missing", ErrValidation)
	}
	if c.PublicSlug == "" {
		return fmt.Errorf("%w: public_slug is missing", ErrValidation)
	}

	switch c.Metadata.Visibility {
	case VisibilityPublic:
		if c.Metadata.Value == nil {
			return fmt.Errorf("%w: public card has no value", ErrValidation)
		}
		if len(c.Metadata.EncryptedValue) > 0 {
			return fmt.Errorf("%w: public card carries an encrypted value", ErrValidation)
		}
	case VisibilityPrivate:
		if len(c.Metadata.EncryptedValue) == 0 {
			return fmt.Errorf("%w: private card has no encrypted value", ErrValidation)
		}
		if c.Metadata.Value != nil {
			return fmt.Errorf("%w: private card carries a plaintext value", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown visibility %q", ErrValidation, c.Metadata.Visibility)
	}

	return nil
}

// Masked is the display form of the card value.
func (c Card) Masked() string {
	if c.IsPrivate() || c.Metadata.Value == nil {
		return "**** ****"
	}
	return *c.Metadata.Value
}

// OptionalString returns nil for blank input, otherwise a pointer to the
// trimmed value.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
