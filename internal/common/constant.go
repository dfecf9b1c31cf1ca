// Package common contains shared constants, sentinel errors and small helpers
// used across chaincode wallet components.
package common

// Names of the persisted collections. Each collection is stored as a single
// JSON document and rewritten in full on every mutation.
const (
	WalletCollection   = "chaincode_wallet"
	KeychainCollection = "chaincode_keychain"
	LinksCollection    = "chaincode_links"
)
