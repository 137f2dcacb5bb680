package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/notekeeper/internal/buildinfo"
	"github.com/dmitrijs2005/notekeeper/internal/client/api"
)

// shell is the command surface the loop needs. App implements it; tests
// provide a stub.
type shell interface {
	Execute(ctx context.Context, args []string) error
	LoginView(ctx context.Context) error
}

// runREPL reads one command line at a time and runs it until EOF, "exit" or
// "quit". When a command was stopped because no session is stored, or the
// backend ended the session, the login view runs next.
//
// Command errors are reported by Execute; the loop keeps going.
func runREPL(ctx context.Context, sh shell, prompt func() string, reader *bufio.Reader, w io.Writer) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(w, prompt())

		line, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(w)
			return nil
		}
		if err != nil {
			return err
		}

		args, err := splitArgs(line)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return nil
		}

		err = sh.Execute(ctx, args)
		if errors.Is(err, ErrLoginRequired) || errors.Is(err, api.ErrSessionExpired) {
			_ = sh.LoginView(ctx)
		}
	}
}

// Shell runs the interactive loop. While it runs, preference and session
// writes by other processes are picked up from the local store.
func (a *App) Shell(ctx context.Context) error {
	a.inShell = true
	defer func() { a.inShell = false }()

	watchCtx, stop := context.WithCancel(ctx)
	defer stop()
	if err := a.store.Watch(watchCtx, a.cfg.DBPath()); err != nil {
		a.log.Warn(ctx, "watch local store", "error", err)
	}

	st := a.styles()
	fmt.Fprintln(a.out, st.Title.Render("notekeeper "+buildinfo.Version())+st.Muted.Render(" (type 'help' for commands, 'exit' to leave)"))
	return runREPL(ctx, a, a.prompt, a.reader, a.out)
}

// LoginView runs the login form and reports its failure.
func (a *App) LoginView(ctx context.Context) error {
	err := a.login(ctx, "")
	if err != nil {
		a.report(ctx, err)
	}
	return err
}

func (a *App) prompt() string {
	state := a.theme.State()
	return fmt.Sprintf("%s %s > ", a.header.Render(state), state.Styles().Accent.Render(a.router.Current()))
}
