package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/chaincode/internal/idgen"
	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
	"github.com/dmitrijs2005/chaincode/internal/wallet/services"
)

func (a *App) keys(ctx context.Context, _ []string) error {
	kc, err := a.wallet.ListKeychain(ctx)
	if err != nil {
		return a.fail(ctx, "keys", err)
	}
	if len(kc) == 0 {
		a.printf("Keychain is empty\n")
		return nil
	}
	for _, id := range services.SortedKeyIDs(kc) {
		a.printf("  %s  %s\n", idgen.SlugFromID(id), kc[id].Type)
	}
	return nil
}

// keySelection returns nil, meaning every key, when the user selects nothing.
func (a *App) keySelection(args []string) ([]string, error) {
	sel, err := GetSelection(a.reader, args, "Key slugs to export (empty for all)", a.out)
	if err != nil {
		return nil, err
	}
	if len(sel) == 0 {
		return nil, nil
	}
	return sel, nil
}

func (a *App) exportKeys(ctx context.Context, args []string) error {
	ids, err := a.keySelection(args)
	if err != nil {
		return a.fail(ctx, "exportkeys", err)
	}
	pw, err := a.askPassword("Passphrase to encrypt the keychain")
	if err != nil {
		return a.fail(ctx, "exportkeys", err)
	}

	blob, err := a.transfer.ExportKeychain(ctx, ids, pw)
	if err != nil {
		return a.fail(ctx, "exportkeys", err)
	}

	name := fmt.Sprintf("keychain-encrypted-%d.enc", a.stamp())
	if ids != nil {
		name = fmt.Sprintf("keychain-selected-%d.enc", a.stamp())
	}
	path, err := a.writeOutput(ctx, name, blob, models.LinkTypeKeychain, "")
	if err != nil {
		return a.fail(ctx, "exportkeys", err)
	}
	a.printf("Keychain written to %s\n", path)
	return nil
}

func (a *App) exportKeysPlain(ctx context.Context, args []string) error {
	ids, err := a.keySelection(args)
	if err != nil {
		return a.fail(ctx, "exportkeysplain", err)
	}
	data, err := a.transfer.ExportKeychainPlain(ctx, ids)
	if err != nil {
		return a.fail(ctx, "exportkeysplain", err)
	}

	name := fmt.Sprintf("keychain-export-%d.json", a.stamp())
	path, err := a.writeOutput(ctx, name, data, models.LinkTypeKeychain, "plain")
	if err != nil {
		return a.fail(ctx, "exportkeysplain", err)
	}
	a.printf("Unencrypted keychain written to %s\n", path)
	return nil
}

func (a *App) importKeys(ctx context.Context, args []string) error {
	_, blob, err := a.readInput(args, "Keychain file")
	if err != nil {
		return a.fail(ctx, "importkeys", err)
	}
	pw, err := a.askPassword("Keychain passphrase")
	if err != nil {
		return a.fail(ctx, "importkeys", err)
	}

	n, err := a.transfer.ImportKeychain(ctx, blob, pw)
	if err != nil {
		return a.fail(ctx, "importkeys", err)
	}
	a.printf("Imported %s\n", plural(n, "key"))
	return nil
}

func (a *App) importKeyFile(ctx context.Context, args []string) error {
	paths := args
	if len(paths) == 0 {
		p, err := a.ask("Key file")
		if err != nil {
			return a.fail(ctx, "importkeyfile", err)
		}
		paths = []string{p}
	}

	imported := 0
	for _, p := range paths {
		path, data, err := a.readInput([]string{p}, "")
		if err != nil {
			a.printf("  %s: %s\n", p, describe(err))
			continue
		}
		id, err := a.wallet.ImportKeyFile(ctx, filepath.Base(path), data)
		if err != nil {
			a.printf("  %s: %s\n", p, describe(err))
			continue
		}
		a.printf("  %s -> %s\n", p, idgen.SlugFromID(id))
		imported++
	}
	a.printf("Imported %s\n", plural(imported, "key"))
	return nil
}

func (a *App) deleteKeys(ctx context.Context, args []string) error {
	ids, err := GetSelection(a.reader, args, "Key slugs to delete (comma separated)", a.out)
	if err != nil {
		return a.fail(ctx, "deletekeys", err)
	}
	n, err := a.wallet.RemoveKeyEntries(ctx, ids)
	if err != nil {
		return a.fail(ctx, "deletekeys", err)
	}
	a.printf("Deleted %s\n", plural(n, "key"))
	return nil
}

func (a *App) clearKeys(ctx context.Context, _ []string) error {
	if !a.confirm("This deletes every key from the keychain.") {
		a.printf("Cancelled\n")
		return nil
	}
	if err := a.wallet.ClearKeychain(ctx); err != nil {
		return a.fail(ctx, "clearkeys", err)
	}
	a.printf("Keychain cleared\n")
	return nil
}
