// Package cli implements the interactive command-line front end of the
// chaincode wallet.
//
// The REPL reads one command per line. Commands that need a selection accept
// it inline ("delete 1,3") or prompt for it. Card and link selections are
// 1-based positions as printed by list and links; key selections are slugs
// or ids as printed by keys.
//
// Files written by the CLI (bundles, key files, keychain exports) go to the
// configured output directory and are remembered as link records.
package cli
