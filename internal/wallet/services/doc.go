// Package services contains the application services of the chaincode wallet.
//
// Wallet owns the card list, the keychain and the link records. Transfer
// builds on Wallet to move cards and keys in and out as encrypted blobs.
// Both are UI-agnostic: every input (indices, passwords, bundle metadata) is
// an explicit parameter and files are left to the caller.
package services

import "errors"

var (
	// ErrKeyNotFound means a private card has no keychain entry and the
	// caller has to supply the password.
	ErrKeyNotFound = errors.New("key not found in keychain")
)
