package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
	"github.com/dmitrijs2005/chaincode/internal/wallet/services"
)

func (a *App) create(ctx context.Context, _ []string) error {
	typ, err := a.ask("Card type (e.g. note, seed, login)")
	if err != nil {
		return a.fail(ctx, "create", err)
	}
	value, err := a.ask("Value")
	if err != nil {
		return a.fail(ctx, "create", err)
	}
	visText, err := a.ask("Visibility: public or private [public]")
	if err != nil {
		return a.fail(ctx, "create", err)
	}
	vis := models.VisibilityPublic
	if visText != "" {
		if vis, err = models.ParseVisibility(visText); err != nil {
			return a.fail(ctx, "create", err)
		}
	}
	expiration, err := a.ask("Expiration (YYYY-MM-DD, optional)")
	if err != nil {
		return a.fail(ctx, "create", err)
	}
	notes, err := a.ask("Notes (optional)")
	if err != nil {
		return a.fail(ctx, "create", err)
	}

	res, err := a.wallet.CreateCard(ctx, services.CardInput{
		Type:       typ,
		Value:      value,
		Visibility: vis,
		Expiration: expiration,
		Notes:      notes,
	})
	if err != nil {
		return a.fail(ctx, "create", err)
	}
	a.printf("Created card %s\n", res.Card.PublicSlug)

	if res.KeyFile != nil {
		path, err := a.writeOutput(ctx, res.KeyFile.Name, res.KeyFile.Contents, models.LinkTypeKeyFile, res.Card.PublicSlug)
		if err != nil {
			return a.fail(ctx, "write key file", err)
		}
		a.printf("Key saved to keychain and written to %s\n", path)
	}
	return nil
}

func (a *App) list(ctx context.Context, _ []string) error {
	cards, err := a.wallet.ListCards(ctx)
	if err != nil {
		return a.fail(ctx, "list", err)
	}
	if len(cards) == 0 {
		a.printf("Wallet is empty\n")
		return nil
	}

	for i, c := range cards {
		expires := "never"
		if c.Metadata.Expiration != nil {
			expires = *c.Metadata.Expiration
		}
		a.printf("%3d. %s  %-10s %-8s %s  (expires: %s)\n",
			i+1, c.PublicSlug, c.Metadata.Type, c.Metadata.Visibility, c.Masked(), expires)
		if c.Metadata.Notes != nil {
			a.printf("     notes: %s\n", *c.Metadata.Notes)
		}
	}
	return nil
}

func (a *App) unlock(ctx context.Context, args []string) error {
	sel, err := GetSelection(a.reader, args, "Card number to unlock", a.out)
	if err != nil {
		return a.fail(ctx, "unlock", err)
	}
	idx, err := ParsePositions(sel)
	if err != nil {
		return a.fail(ctx, "unlock", err)
	}

	value, err := a.wallet.UnlockCard(ctx, idx[0], "")
	if errors.Is(err, services.ErrKeyNotFound) {
		a.printf("No key in the keychain for this card\n")
		pw, perr := a.askPassword("Card password")
		if perr != nil {
			return a.fail(ctx, "unlock", perr)
		}
		value, err = a.wallet.UnlockCard(ctx, idx[0], pw)
	}
	if err != nil {
		return a.fail(ctx, "unlock", err)
	}

	a.printf("Value: %s\n", value)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	sel, err := GetSelection(a.reader, args, "Card numbers to delete (comma separated)", a.out)
	if err != nil {
		return a.fail(ctx, "delete", err)
	}
	idx, err := ParsePositions(sel)
	if err != nil {
		return a.fail(ctx, "delete", err)
	}

	n, err := a.wallet.RemoveCards(ctx, idx)
	if err != nil {
		return a.fail(ctx, "delete", err)
	}
	a.printf("Deleted %s\n", plural(n, "card"))
	return nil
}

func (a *App) clear(ctx context.Context, _ []string) error {
	if !a.confirm("This deletes every card from this wallet.") {
		a.printf("Cancelled\n")
		return nil
	}
	if err := a.wallet.ClearCards(ctx); err != nil {
		return a.fail(ctx, "clear", err)
	}
	a.printf("Wallet cleared\n")
	return nil
}

func (a *App) selfCheck(ctx context.Context, _ []string) error {
	r, err := a.wallet.SelfCheck(ctx)
	if err != nil {
		return a.fail(ctx, "selfcheck", err)
	}
	a.printf("%s, %d private, %d unlockable from keychain\n", plural(r.Cards, "card"), r.Private, r.Unlockable)
	for _, slug := range r.Missing {
		a.printf("  missing key: %s\n", slug)
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
