package cli

import (
	"context"
	neturl "net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/chaincode/internal/common"
	"github.com/dmitrijs2005/chaincode/internal/netx"
	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
	"github.com/dmitrijs2005/chaincode/internal/wallet/services"
)

func (a *App) links(ctx context.Context, _ []string) error {
	l, err := a.wallet.ListLinks(ctx)
	if err != nil {
		return a.fail(ctx, "links", err)
	}
	if len(l) == 0 {
		a.printf("No files recorded\n")
		return nil
	}
	for i, id := range services.SortedLinkIDs(l) {
		rec := l[id]
		a.printf("%3d. %-8s %s  %s", i+1, rec.Type, rec.Created.Local().Format("2006-01-02 15:04"), rec.Filename)
		if rec.Label != "" {
			a.printf("  [%s]", rec.Label)
		}
		if rec.Notes != "" {
			a.printf("\n     %s", rec.Notes)
		}
		a.printf("\n")
	}
	return nil
}

func (a *App) deleteLinks(ctx context.Context, args []string) error {
	sel, err := GetSelection(a.reader, args, "Link numbers to forget (comma separated)", a.out)
	if err != nil {
		return a.fail(ctx, "deletelinks", err)
	}
	idx, err := ParsePositions(sel)
	if err != nil {
		return a.fail(ctx, "deletelinks", err)
	}

	l, err := a.wallet.ListLinks(ctx)
	if err != nil {
		return a.fail(ctx, "deletelinks", err)
	}
	order := services.SortedLinkIDs(l)

	var ids []string
	for _, i := range idx {
		if i >= 0 && i < len(order) {
			ids = append(ids, order[i])
		}
	}
	if len(ids) == 0 {
		return a.fail(ctx, "deletelinks", common.ErrNothingSelected)
	}

	n, err := a.wallet.RemoveLinks(ctx, ids)
	if err != nil {
		return a.fail(ctx, "deletelinks", err)
	}
	a.printf("Forgot %s (files were not deleted)\n", plural(n, "link"))
	return nil
}

func (a *App) publish(ctx context.Context, args []string) error {
	var target string
	if n := len(args); n > 1 && netx.IsURL(args[n-1]) {
		args, target = args[:n-1], args[n-1]
	}
	if target == "" && a.drop == nil {
		a.printf("Remote drop is not configured (set CHAINCODE_S3_BUCKET or pass a presigned upload URL)\n")
		return nil
	}

	path, data, err := a.readInput(args, "File to publish")
	if err != nil {
		return a.fail(ctx, "publish", err)
	}
	name := filepath.Base(path)

	var key, url string
	if target != "" {
		if err := netx.UploadPresigned(ctx, a.httpClient, target, data); err != nil {
			return a.fail(ctx, "publish", err)
		}
		key, url = target, target
	} else if key, url, err = a.drop.Publish(ctx, name, data); err != nil {
		return a.fail(ctx, "publish", err)
	}

	if _, err := a.wallet.AddLink(ctx, models.LinkRecord{
		Label:    name,
		Filename: key,
		Type:     models.LinkTypeRemote,
		Notes:    url,
		Created:  a.now().UTC(),
	}); err != nil {
		a.log.Warn(ctx, "link not recorded", "key", key, "error", err)
	}

	if target != "" {
		a.printf("Uploaded %s\n", name)
		return nil
	}
	a.printf("Published as %s\nDownload URL: %s\n", key, url)
	return nil
}

// objectName is the last path element of a key or URL, without a query.
func objectName(ref string) string {
	if u, err := neturl.Parse(ref); err == nil && u.Path != "" {
		ref = u.Path
	}
	return path.Base(ref)
}

func (a *App) fetch(ctx context.Context, args []string) error {
	ref := strings.Join(args, "")
	if ref == "" {
		var err error
		if ref, err = a.ask("Object key or download URL"); err != nil {
			return a.fail(ctx, "fetch", err)
		}
	}

	var (
		data []byte
		err  error
	)
	switch {
	case netx.IsURL(ref):
		data, err = netx.DownloadPresigned(ctx, a.httpClient, ref)
	case a.drop == nil:
		a.printf("Remote drop is not configured (set CHAINCODE_S3_BUCKET or pass a download URL)\n")
		return nil
	default:
		data, err = a.drop.Fetch(ctx, ref)
	}
	if err != nil {
		return a.fail(ctx, "fetch", err)
	}

	saved, err := a.writeOutput(ctx, objectName(ref), data, models.LinkTypeRemote, ref)
	if err != nil {
		return a.fail(ctx, "fetch", err)
	}
	a.printf("Downloaded to %s\n", saved)
	return nil
}
