package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/chaincode/internal/filex"
	"github.com/dmitrijs2005/chaincode/internal/logging"
	"github.com/dmitrijs2005/chaincode/internal/wallet/config"
	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
	"github.com/dmitrijs2005/chaincode/internal/wallet/remote"
	"github.com/dmitrijs2005/chaincode/internal/wallet/services"
	"github.com/dmitrijs2005/chaincode/internal/wallet/storage"
)

// Dropper publishes and fetches encrypted blobs remotely.
type Dropper interface {
	Publish(ctx context.Context, name string, blob []byte) (string, string, error)
	Fetch(ctx context.Context, key string) ([]byte, error)
}

type App struct {
	wallet   services.WalletService
	transfer services.TransferService
	drop     Dropper
	log      logging.Logger

	httpClient *http.Client

	outDir string
	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	closeFn func() error
}

// NewApp opens the configured database and wires the services. The remote
// drop stays disabled when no bucket is configured.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	store, db, err := storage.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open wallet database: %w", err)
	}

	w := services.NewWalletFromStore(store, log)
	app := &App{
		wallet:   w,
		transfer: services.NewTransfer(w, log),
		log:      log,
		outDir:   cfg.OutputDir,

		httpClient: &http.Client{Timeout: 2 * time.Minute},
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		now:        time.Now,
		closeFn:    db.Close,
	}

	drop, err := remote.New(ctx, remote.Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		BaseEndpoint:    cfg.S3BaseEndpoint,
		AccessKey:       cfg.S3AccessKey,
		SecretKey:       cfg.S3SecretKey,
		PresignValidity: cfg.PresignValidity,
	})
	switch {
	case err == nil:
		app.drop = drop
	case errors.Is(err, remote.ErrDisabled):
		log.Debug(ctx, "remote drop disabled")
	default:
		log.Warn(ctx, "remote drop unavailable", "error", err)
	}

	return app, nil
}

// Run starts the REPL and releases the database when it returns.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.closeFn != nil {
			if err := a.closeFn(); err != nil {
				a.log.Error(ctx, "close database", "error", err)
			}
		}
	}()

	a.printf("Chaincode wallet (type 'help' for commands)\n")
	runREPL(ctx, a.commands(), a.reader, a.out)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) fail(ctx context.Context, op string, err error) error {
	a.log.Debug(ctx, op+" failed", "error", err)
	a.printf("Error: %s\n", describe(err))
	return err
}

func (a *App) ask(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) askPassword(prompt string) (string, error) {
	return GetPassword(a.reader, prompt, a.out)
}

func (a *App) stamp() int64 {
	return a.now().UnixMilli()
}

// writeOutput stores data in the output directory and records a link to it.
func (a *App) writeOutput(ctx context.Context, name string, data []byte, linkType, label string) (string, error) {
	path, err := filex.WriteSecret(a.outDir, name, data)
	if err != nil {
		return "", err
	}
	if _, err := a.wallet.AddLink(ctx, models.LinkRecord{
		Label:    label,
		Filename: path,
		Type:     linkType,
		Created:  a.now().UTC(),
	}); err != nil {
		a.log.Warn(ctx, "link not recorded", "file", path, "error", err)
	}
	return path, nil
}

// readInput reads a file named in args or asked for interactively.
func (a *App) readInput(args []string, prompt string) (string, []byte, error) {
	path := strings.Join(args, " ")
	if path == "" {
		var err error
		if path, err = a.ask(prompt); err != nil {
			return "", nil, err
		}
	}
	if path == "" {
		return "", nil, errors.New("no file given")
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", nil, err
	}
	return path, data, nil
}

func (a *App) confirm(prompt string) bool {
	answer, err := a.ask(prompt + " Type 'yes' to continue")
	return err == nil && strings.EqualFold(answer, "yes")
}
