package models

import "time"

// Link types recorded by the CLI.
const (
	LinkTypeBundle   = "bundle"
	LinkTypeKeychain = "keychain"
	LinkTypeKeyFile  = "keyfile"
	LinkTypeRemote   = "remote"
)

// LinkRecord remembers a file the wallet produced. It does not own the file.
type LinkRecord struct {
	Label    string    `json:"label"`
	Filename string    `json:"filename"`
	Type     string    `json:"type"`
	Notes    string    `json:"notes"`
	Created  time.Time `json:"created"`
}

// Links maps locally generated ids to link records.
type Links map[string]LinkRecord
