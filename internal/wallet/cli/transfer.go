package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/chaincode/internal/wallet/bundle"
	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
)

func (a *App) export(ctx context.Context, args []string) error {
	sel, err := GetSelection(a.reader, args, "Card numbers to export (comma separated)", a.out)
	if err != nil {
		return a.fail(ctx, "export", err)
	}
	idx, err := ParsePositions(sel)
	if err != nil {
		return a.fail(ctx, "export", err)
	}

	expires, err := a.ask("Expiration date (YYYY-MM-DD, optional)")
	if err != nil {
		return a.fail(ctx, "export", err)
	}
	sharedWith, err := a.ask("Who is this bundle for? (optional)")
	if err != nil {
		return a.fail(ctx, "export", err)
	}
	pw, err := a.askPassword("Passphrase to encrypt the bundle")
	if err != nil {
		return a.fail(ctx, "export", err)
	}

	blob, err := a.transfer.ExportBundle(ctx, idx, bundle.Meta{
		ExpiresAt:  models.OptionalString(expires),
		SharedWith: models.OptionalString(sharedWith),
	}, pw)
	if err != nil {
		return a.fail(ctx, "export", err)
	}

	name := fmt.Sprintf("chaincode-bundle-%d.zip.enc", a.stamp())
	path, err := a.writeOutput(ctx, name, blob, models.LinkTypeBundle, sharedWith)
	if err != nil {
		return a.fail(ctx, "export", err)
	}
	a.printf("Bundle written to %s\n", path)
	return nil
}

func (a *App) importBundle(ctx context.Context, args []string) error {
	_, blob, err := a.readInput(args, "Bundle file")
	if err != nil {
		return a.fail(ctx, "import", err)
	}
	pw, err := a.askPassword("Bundle passphrase")
	if err != nil {
		return a.fail(ctx, "import", err)
	}

	r, err := a.transfer.ImportBundle(ctx, blob, pw)
	if err != nil {
		return a.fail(ctx, "import", err)
	}

	if r.Meta != nil && r.Meta.SharedWith != nil {
		a.printf("Bundle shared with %s\n", *r.Meta.SharedWith)
	}
	if r.Expired {
		a.printf("Warning: this bundle expired on %s\n", *r.Meta.ExpiresAt)
	}
	a.printf("Imported %s, %d duplicate(s), %d skipped\n", plural(r.Imported, "card"), r.Duplicates, len(r.Skips))
	for _, s := range r.Skips {
		a.printf("  skipped %s: %s\n", filepath.Base(s.Entry), describe(s.Err))
	}
	return nil
}
