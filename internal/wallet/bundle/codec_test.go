package bundle

import (
	"bytes"
	"testing"
	"time"

	"github.com/dmitrijs2005/chaincode/internal/common"
	"github.com/dmitrijs2005/chaincode/internal/cryptox"
	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publicCard(slug, typ, value string) models.Card {
	return models.Card{
		ChaincodeID: "id-" + slug,
		PublicSlug:  slug,
		GeneratedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Metadata: models.CardMetadata{
			Type:       typ,
			Visibility: models.VisibilityPublic,
			Value:      models.OptionalString(value),
		},
	}
}

func rawArchive(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	cards := []models.Card{
		publicCard("aaaa-bbbb-cccc", "note", "hello"),
		{
			ChaincodeID: "id-private",
			PublicSlug:  "1111-2222-3333",
			GeneratedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			Metadata: models.CardMetadata{
				Type:           "seed",
				Visibility:     models.VisibilityPrivate,
				EncryptedValue: models.ByteArray(bytes.Repeat([]byte{7}, 45)),
				Notes:          models.OptionalString("cold storage"),
			},
		},
	}
	meta := Meta{
		ExportedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		SharedWith: models.OptionalString("bob"),
	}

	archive, err := Pack(cards, meta)
	require.NoError(t, err)

	got, err := Unpack(archive)
	require.NoError(t, err)

	assert.Empty(t, got.Skips)
	assert.Equal(t, cards, got.Cards)
	assert.Equal(t, []string{"aaaa-bbbb-cccc", "1111-2222-3333"}, got.Manifest)
	require.NotNil(t, got.Meta)
	assert.Equal(t, 2, got.Meta.CardCount)
	assert.Equal(t, "bob", *got.Meta.SharedWith)
	assert.Nil(t, got.Meta.ExpiresAt)
}

func TestPack_EntryNames(t *testing.T) {
	archive, err := Pack([]models.Card{publicCard("aaaa-bbbb-cccc", "web/login", "x")}, Meta{})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"cards/web_login-aaaa-bbbb-cccc.json", MetaEntry, ManifestEntry}, names)
}

func TestUnpack_PartialImport(t *testing.T) {
	archive := rawArchive(t, map[string]string{
		"cards/note-aaaa-bbbb-cccc.json": `{"chaincode_id":"abc","public_slug":"aaaa-bbbb-cccc",` +
			`"generated_at":"2025-01-01T00:00:00Z","metadata":{"type":"note","visibility":"public","value":"hi"}}`,
		"cards/note-broken.json": `{"chaincode_id": `,
		"cards/note-noid.json":   `{"public_slug":"dddd-eeee-ffff","metadata":{"type":"note","visibility":"public","value":"x"}}`,
		"cards/":                 "",
		"readme.txt":             "ignored",
		"manifest.txt":           "aaaa-bbbb-cccc\n\n",
	})

	got, err := Unpack(archive)
	require.NoError(t, err)

	require.Len(t, got.Cards, 1)
	assert.Equal(t, "aaaa-bbbb-cccc", got.Cards[0].PublicSlug)
	require.Len(t, got.Skips, 2)

	reasons := map[string]error{}
	for _, s := range got.Skips {
		reasons[s.Entry] = s.Err
	}
	assert.ErrorIs(t, reasons["cards/note-broken.json"], common.ErrFormat)
	assert.ErrorIs(t, reasons["cards/note-noid.json"], models.ErrValidation)
	assert.Nil(t, got.Meta)
	assert.Equal(t, []string{"aaaa-bbbb-cccc"}, got.Manifest)
}

func TestUnpack_EmptyEntry(t *testing.T) {
	got, err := Unpack(rawArchive(t, map[string]string{"cards/empty.json": "  \n"}))
	require.NoError(t, err)
	require.Len(t, got.Skips, 1)
	assert.ErrorIs(t, got.Skips[0].Err, ErrEmptyEntry)
}

func TestUnpack_NotAnArchive(t *testing.T) {
	_, err := Unpack([]byte("definitely not a zip"))
	assert.ErrorIs(t, err, common.ErrFormat)
}

func TestSealOpen(t *testing.T) {
	cards := []models.Card{publicCard("aaaa-bbbb-cccc", "note", "hello")}

	blob, err := Seal(cards, Meta{}, "pw123")
	require.NoError(t, err)

	got, err := Open(blob, "pw123")
	require.NoError(t, err)
	assert.Equal(t, cards, got.Cards)

	_, err = Open(blob, "wrong")
	assert.ErrorIs(t, err, cryptox.ErrAuthentication)

	_, err = Seal(cards, Meta{}, "")
	assert.ErrorIs(t, err, cryptox.ErrEmptyPassword)
}

func TestMeta_Expired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expires *string
		want    bool
	}{
		{name: "no expiry", expires: nil, want: false},
		{name: "blank", expires: models.OptionalString(" "), want: false},
		{name: "past date", expires: models.OptionalString("2025-06-14"), want: true},
		{name: "same day", expires: models.OptionalString("2025-06-15"), want: false},
		{name: "future date", expires: models.OptionalString("2026-01-01"), want: false},
		{name: "past timestamp", expires: models.OptionalString("2025-06-15T11:00:00Z"), want: true},
		{name: "garbage", expires: models.OptionalString("soon"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Meta{ExpiresAt: tt.expires}.Expired(now))
		})
	}
}
