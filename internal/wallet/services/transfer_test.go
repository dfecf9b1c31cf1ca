package services

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/chaincode/internal/common"
	"github.com/dmitrijs2005/chaincode/internal/cryptox"
	"github.com/dmitrijs2005/chaincode/internal/logging"
	"github.com/dmitrijs2005/chaincode/internal/wallet/bundle"
	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransfer(t *testing.T) (*Transfer, *Wallet) {
	t.Helper()
	w, _ := newTestWallet(t)
	return NewTransfer(w, logging.NewNop()), w
}

func TestTransfer_BundleRoundTrip(t *testing.T) {
	src, srcWallet := newTestTransfer(t)
	ctx := context.Background()

	_, err := srcWallet.AddCards(ctx, []models.Card{
		pubCard("0000-0000-0000", "a"),
		pubCard("1111-1111-1111", "b"),
		pubCard("2222-2222-2222", "c"),
	})
	require.NoError(t, err)

	blob, err := src.ExportBundle(ctx, []int{2, 0, 0, 9}, bundle.Meta{SharedWith: models.OptionalString("bob")}, "pw123")
	require.NoError(t, err)

	dst, dstWallet := newTestTransfer(t)
	_, err = dstWallet.AddCard(ctx, pubCard("0000-0000-0000", "a"))
	require.NoError(t, err)

	r, err := dst.ImportBundle(ctx, blob, "pw123")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Imported)
	assert.Equal(t, 1, r.Duplicates)
	assert.Empty(t, r.Skips)
	assert.False(t, r.Expired)
	assert.Equal(t, []string{"2222-2222-2222", "0000-0000-0000"}, r.Manifest)
	require.NotNil(t, r.Meta)
	assert.Equal(t, 2, r.Meta.CardCount)
	assert.Equal(t, fixedNow, r.Meta.ExportedAt)

	list, err := dstWallet.ListCards(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTransfer_ExportBundle_Errors(t *testing.T) {
	tr, w := newTestTransfer(t)
	ctx := context.Background()
	_, err := w.AddCard(ctx, pubCard("0000-0000-0000", "a"))
	require.NoError(t, err)

	_, err = tr.ExportBundle(ctx, []int{5}, bundle.Meta{}, "pw")
	assert.ErrorIs(t, err, common.ErrNothingSelected)

	_, err = tr.ExportBundle(ctx, []int{0}, bundle.Meta{}, "")
	assert.ErrorIs(t, err, cryptox.ErrEmptyPassword)
}

func TestTransfer_ImportBundle_WrongPasswordChangesNothing(t *testing.T) {
	src, srcWallet := newTestTransfer(t)
	ctx := context.Background()
	_, err := srcWallet.AddCard(ctx, pubCard("0000-0000-0000", "a"))
	require.NoError(t, err)
	blob, err := src.ExportBundle(ctx, []int{0}, bundle.Meta{}, "right")
	require.NoError(t, err)

	dst, dstWallet := newTestTransfer(t)
	_, err = dst.ImportBundle(ctx, blob, "wrong")
	assert.ErrorIs(t, err, cryptox.ErrAuthentication)

	list, err := dstWallet.ListCards(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = dst.ImportBundle(ctx, blob[:10], "right")
	assert.ErrorIs(t, err, cryptox.ErrFormat)
}

func TestTransfer_ImportBundle_Partial(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	add := func(name, body string) {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	good, err := json.Marshal(pubCard("aaaa-bbbb-cccc", "good"))
	require.NoError(t, err)
	add("cards/note-aaaa-bbbb-cccc.json", string(good))
	add("cards/note-broken.json", "{not json")
	add("cards/note-private.json", `{"chaincode_id":"x","public_slug":"1111-2222-3333",`+
		`"metadata":{"type":"note","visibility":"private","value":"leaked"}}`)
	add(bundle.MetaEntry, `{"exported_at":"2025-01-01T00:00:00Z","expires_at":"2025-01-31","shared_with":null,"card_count":3}`)
	require.NoError(t, zw.Close())

	blob, err := cryptox.Encrypt(buf.Bytes(), "pw")
	require.NoError(t, err)

	tr, w := newTestTransfer(t)
	r, err := tr.ImportBundle(context.Background(), blob, "pw")
	require.NoError(t, err)

	assert.Equal(t, 1, r.Imported)
	assert.Zero(t, r.Duplicates)
	require.Len(t, r.Skips, 2)
	assert.True(t, r.Expired)

	list, err := w.ListCards(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "aaaa-bbbb-cccc", list[0].PublicSlug)
}

func TestTransfer_KeychainRoundTrip(t *testing.T) {
	src, srcWallet := newTestTransfer(t)
	ctx := context.Background()
	require.NoError(t, srcWallet.SaveKeyEntry(ctx, "aaaabbbbcccc", "one", "seed"))
	require.NoError(t, srcWallet.SaveKeyEntry(ctx, "111122223333", "two", "note"))

	blob, err := src.ExportKeychain(ctx, []string{"AAAA-BBBB-CCCC", "unknown"}, "kpw")
	require.NoError(t, err)

	dst, dstWallet := newTestTransfer(t)
	require.NoError(t, dstWallet.SaveKeyEntry(ctx, "aaaabbbbcccc", "stale", "seed"))

	n, err := dst.ImportKeychain(ctx, blob, "kpw")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	kc, err := dstWallet.ListKeychain(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Keychain{"aaaabbbbcccc": {Value: "one", Type: "seed"}}, kc)

	_, err = dst.ImportKeychain(ctx, blob, "nope")
	assert.ErrorIs(t, err, cryptox.ErrAuthentication)

	all, err := src.ExportKeychain(ctx, nil, "kpw")
	require.NoError(t, err)
	n, err = dst.ImportKeychain(ctx, all, "kpw")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestTransfer_ExportKeychain_Errors(t *testing.T) {
	tr, w := newTestTransfer(t)
	ctx := context.Background()

	_, err := tr.ExportKeychain(ctx, nil, "pw")
	assert.ErrorIs(t, err, common.ErrNothingSelected)

	require.NoError(t, w.SaveKeyEntry(ctx, "aaaabbbbcccc", "one", "seed"))
	_, err = tr.ExportKeychain(ctx, []string{"missing"}, "pw")
	assert.ErrorIs(t, err, common.ErrNothingSelected)

	_, err = tr.ExportKeychain(ctx, nil, "")
	assert.ErrorIs(t, err, cryptox.ErrEmptyPassword)
}

func TestTransfer_ImportKeychain_NotJSON(t *testing.T) {
	tr, _ := newTestTransfer(t)
	blob, err := cryptox.Encrypt([]byte("[1,2,3]"), "pw")
	require.NoError(t, err)

	_, err = tr.ImportKeychain(context.Background(), blob, "pw")
	assert.ErrorIs(t, err, common.ErrFormat)
}

func TestTransfer_ExportKeychainPlain(t *testing.T) {
	tr, w := newTestTransfer(t)
	ctx := context.Background()
	require.NoError(t, w.SaveKeyEntry(ctx, "aaaabbbbcccc", "one", "seed"))

	data, err := tr.ExportKeychainPlain(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"aaaabbbbcccc\": {\n    \"value\": \"one\",\n    \"type\": \"seed\"\n  }\n}", string(data))
}
