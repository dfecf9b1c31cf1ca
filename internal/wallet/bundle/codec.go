package bundle

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/chaincode/internal/common"
	"github.com/dmitrijs2005/chaincode/internal/cryptox"
	"github.com/dmitrijs2005/chaincode/internal/filex"
	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
	"github.com/klauspost/compress/zip"
)

// Archive entry names.
const (
	CardsDir      = "cards/"
	MetaEntry     = "meta.json"
	ManifestEntry = "manifest.txt"
)

// maxEntrySize caps how much of a single archive entry is read.
const maxEntrySize = 16 << 20

// ErrEmptyEntry marks an archive entry with no content.
var ErrEmptyEntry = errors.New("empty entry")

// Skip records a card entry that was not imported.
type Skip struct {
	Entry string
	Err   error
}

// Contents is a decoded archive.
type Contents struct {
	Cards    []models.Card
	Skips    []Skip
	Meta     *Meta
	Manifest []string
}

// EntryName is the archive path of a card.
func EntryName(c models.Card) string {
	return CardsDir + filex.SanitizeName(c.Metadata.Type) + "-" + c.PublicSlug + ".json"
}

// Pack writes cards, meta and the manifest into a zip archive.
func Pack(cards []models.Card, meta Meta) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	slugs := make([]string, 0, len(cards))
	for _, c := range cards {
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode card %s: %w", c.PublicSlug, err)
		}
		if err := writeEntry(zw, EntryName(c), data); err != nil {
			return nil, err
		}
		slugs = append(slugs, c.PublicSlug)
	}

	meta.CardCount = len(cards)
	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode meta: %w", err)
	}
	if err := writeEntry(zw, MetaEntry, metaData); err != nil {
		return nil, err
	}
	if err := writeEntry(zw, ManifestEntry, []byte(strings.Join(slugs, "\n"))); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}
	return nil
}

// Unpack reads a zip archive produced by Pack (or by any compatible tool).
// Card entries that cannot be used are collected in Skips.
func Unpack(archive []byte) (*Contents, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("%w: read archive: %v", common.ErrFormat, err)
	}

	out := &Contents{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		switch {
		case strings.HasPrefix(f.Name, CardsDir):
			data, err := readEntry(f)
			if err != nil {
				out.Skips = append(out.Skips, Skip{Entry: f.Name, Err: err})
				continue
			}
			card, err := DecodeCard(data)
			if err != nil {
				out.Skips = append(out.Skips, Skip{Entry: f.Name, Err: err})
				continue
			}
			out.Cards = append(out.Cards, card)

		case f.Name == MetaEntry:
			data, err := readEntry(f)
			if err != nil {
				continue
			}
			var m Meta
			if err := json.Unmarshal(data, &m); err == nil {
				out.Meta = &m
			}

		case f.Name == ManifestEntry:
			data, err := readEntry(f)
			if err != nil {
				continue
			}
			out.Manifest = splitManifest(string(data))
		}
	}

	return out, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open entry: %v", common.ErrFormat, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read entry: %v", common.ErrFormat, err)
	}
	if len(data) > maxEntrySize {
		return nil, fmt.Errorf("%w: entry exceeds %d bytes", common.ErrFormat, maxEntrySize)
	}
	return data, nil
}

func splitManifest(s string) []string {
	var slugs []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			slugs = append(slugs, line)
		}
	}
	return slugs
}

// DecodeCard parses and validates a single card record.
func DecodeCard(data []byte) (models.Card, error) {
	var c models.Card
	if len(bytes.TrimSpace(data)) == 0 {
		return c, ErrEmptyEntry
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("%w: %v", common.ErrFormat, err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Seal packs and encrypts cards under password.
func Seal(cards []models.Card, meta Meta, password string) ([]byte, error) {
	if password == "" {
		return nil, cryptox.ErrEmptyPassword
	}
	archive, err := Pack(cards, meta)
	if err != nil {
		return nil, err
	}
	return cryptox.Encrypt(archive, password)
}

// Open decrypts and unpacks a sealed bundle. A decryption failure is returned
// before anything is parsed.
func Open(blob []byte, password string) (*Contents, error) {
	archive, err := cryptox.Decrypt(blob, password)
	if err != nil {
		return nil, err
	}
	return Unpack(archive)
}
