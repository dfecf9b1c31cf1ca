// Package bundle encodes selected cards into an encrypted, shareable archive
// and decodes such archives back into cards.
//
// Archive layout (a zip container, then sealed with cryptox.Encrypt):
//
//	cards/<type>-<slug>.json   one indented Card record per card
//	meta.json                  Meta
//	manifest.txt               slugs, newline separated
//
// Decoding is lenient per entry: a card entry that is empty, unparseable or
// invalid is reported in Contents.Skips and the rest of the archive is still
// returned. Only a failure to decrypt or to read the container aborts.
//
// The package also owns the key file naming scheme, <type>-<slug>.key.txt,
// used when a private card's password is handed to the user.
package bundle
