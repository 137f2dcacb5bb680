package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dmitrijs2005/notekeeper/internal/client/api"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/client/notify"
	"github.com/dmitrijs2005/notekeeper/internal/client/router"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
	"github.com/dmitrijs2005/notekeeper/internal/client/session"
	"github.com/dmitrijs2005/notekeeper/internal/client/storage"
	"github.com/dmitrijs2005/notekeeper/internal/client/theme"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"golang.org/x/term"
)

// darkEnv pins the appearance signal, e.g. NOTEKEEPER_DARK=1, for terminals
// where neither the OS nor the terminal answers.
const darkEnv = "NOTEKEEPER_DARK"

// Options replace the process streams and the OS signal. Zero values select
// stdin, stdout, stderr and the platform appearance probe.
type Options struct {
	In       io.Reader
	Out      io.Writer
	Err      io.Writer
	Signal   theme.DarkSignal
	Notifier notify.Notifier
}

type App struct {
	cfg *config.Config
	log logging.Logger
	db  *sql.DB

	store     *session.Store
	router    *router.Router
	theme     *theme.Controller
	notifier  notify.Notifier
	client    *api.Client
	auth      services.AuthService
	notes     *services.NoteService
	dashboard *services.DashboardService
	header    *Header

	reader   *bufio.Reader
	out      io.Writer
	errOut   io.Writer
	terminal bool
	inShell  bool

	stopSignal context.CancelFunc
}

// NewApp opens the local store and wires every component. The returned App
// must be closed.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, opts Options) (*App, error) {
	db, err := storage.Open(ctx, cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	a := &App{cfg: cfg, log: log, db: db, out: opts.Out, errOut: opts.Err}
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.errOut == nil {
		a.errOut = os.Stderr
	}
	if opts.In == nil {
		a.reader = bufio.NewReader(os.Stdin)
		a.terminal = term.IsTerminal(int(os.Stdin.Fd()))
	} else {
		a.reader = bufio.NewReader(opts.In)
	}

	a.store = session.NewStore(storage.NewSQLiteRepository(db), log)

	signalCtx, stop := context.WithCancel(ctx)
	a.stopSignal = stop
	signal := opts.Signal
	if signal == nil {
		signal = a.systemSignal(signalCtx)
	}

	a.theme, err = theme.New(ctx, a.store, signal, log)
	if err != nil {
		stop()
		_ = db.Close()
		return nil, err
	}

	a.notifier = opts.Notifier
	if a.notifier == nil {
		a.notifier = notify.NewConsole(a.errOut, a.theme)
	}

	a.router = router.New(a.store, log)
	a.client = api.New(api.Options{BaseURL: cfg.APIBaseURL, Timeout: cfg.RequestTimeout}, a.store, a.notifier, a.router, log)
	a.auth = services.NewAuthService(a.client.Auth, a.store, a.router)
	a.notes = services.NewNoteService(a.client.Notes)
	a.dashboard = services.NewDashboardService(a.client.Notes, a.client.Categories)
	a.header = NewHeader(ctx, a.store, log)

	return a, nil
}

func (a *App) systemSignal(ctx context.Context) theme.DarkSignal {
	if v, ok := os.LookupEnv(darkEnv); ok {
		if dark, err := strconv.ParseBool(v); err == nil {
			return theme.NewStaticSignal(dark)
		}
		a.log.Warn(ctx, "ignoring "+darkEnv, "value", v)
	}
	return theme.NewSystemSignal(ctx, nil, a.cfg.ThemePollInterval, a.log)
}

func (a *App) Close() error {
	a.header.Close()
	a.theme.Close()
	a.stopSignal()
	return a.db.Close()
}

// Run executes args, or the shell when args is empty. The first interrupt
// cancels the running command; a second one ends the process.
func (a *App) Run(ctx context.Context, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.initSignalHandler(ctx, cancel)

	return a.Execute(ctx, args)
}

func (a *App) initSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
	}()
}

// Execute runs one command line. Failures the HTTP core already reported
// are not reported again.
func (a *App) Execute(ctx context.Context, args []string) error {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetIn(a.reader)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(ctx)
	if err != nil {
		a.report(ctx, err)
	}
	return err
}

func (a *App) report(ctx context.Context, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return
	}
	a.log.Debug(ctx, "command failed", "error", err)
	notify.Error(ctx, a.notifier, err.Error())
}

func (a *App) ask(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

// secret reads a password without echo when stdin is a terminal, and as a
// plain line otherwise.
func (a *App) secret(prompt string) (string, error) {
	if !a.terminal {
		if _, err := fmt.Fprint(a.out, prompt+": "); err != nil {
			return "", err
		}
		return readLine(a.reader)
	}
	pw, err := GetPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) styles() theme.Styles {
	return a.theme.Styles()
}
