// Package cli is the wegmans2 command line: process flags, the login
// prompt, the interactive shell and the optional HTTP server.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/georgemunganga/wegmans2/internal/config"
	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/georgemunganga/wegmans2/internal/modules/auth"
	"github.com/georgemunganga/wegmans2/internal/session"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// ExitError carries the process exit code for err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// Opener connects the services a session runs on.
type Opener func(ctx context.Context, cfg *config.Config) (session.Deps, error)

// App is the wegmans2 process.
type App struct {
	In   io.Reader
	Out  io.Writer
	Open Opener

	// LoadConfig defaults to config.Load.
	LoadConfig func(files ...string) (*config.Config, error)
}

type loginFlags struct {
	phone   string
	admin   string
	token   string
	envFile string
}

// Run executes the command line args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if args == nil {
		args = []string{}
	}
	cmd := a.command()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	var ee *ExitError
	if err != nil && !errors.As(err, &ee) && !errors.Is(err, context.Canceled) && !errs.IsKind(err) {
		// Unknown subcommands, bad flags and wrong arity come back from cobra as plain errors.
		err = errs.Usagef("%v", err)
	}
	code := ExitCode(err)
	if err != nil && code != ExitInterrupted {
		fmt.Fprintf(a.Out, "Error: %v\n", err)
	}
	return code
}

// ExitCode maps an error returned by a run to the process exit code.
func ExitCode(err error) int {
	var ee *ExitError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ee):
		return ee.Code
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, errs.ErrUsage):
		return ExitUsage
	default:
		return ExitFailure
	}
}

func (a *App) command() *cobra.Command {
	var f loginFlags
	in := bufio.NewReader(a.In)

	root := &cobra.Command{
		Use:           "wegmans2",
		Short:         "Shop and manage Wegmans2 stores from the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.shell(cmd.Context(), in, f)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(a.Out)
	root.SetErr(a.Out)
	root.Flags().StringVar(&f.phone, "phone", "", "log in as the customer with this phone number")
	root.Flags().StringVar(&f.admin, "admin", "", "log in as this administrator, the password is prompted for")
	root.Flags().StringVar(&f.token, "token", "", "log in as an administrator with a signed token")
	root.PersistentFlags().StringVar(&f.envFile, "env-file", ".env", "optional environment file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog and reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, deps, err := a.connect(cmd.Context(), f.envFile)
			if err != nil {
				return err
			}
			defer closeDeps(deps)
			err = serve(cmd.Context(), cfg.HTTPAddr, NewRouter(deps))
			if err == nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return &ExitError{Code: ExitFailure, Err: err}
		},
	}

	hashCmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash to list in WEGMANS_ADMINS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.Out, hash)
			return nil
		},
	}

	root.AddCommand(serveCmd, hashCmd)
	return root
}

func (a *App) connect(ctx context.Context, envFile string) (*config.Config, session.Deps, error) {
	load := a.LoadConfig
	if load == nil {
		load = config.Load
	}
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := load(files...)
	if err != nil {
		return nil, session.Deps{}, &ExitError{Code: ExitUsage, Err: err}
	}
	deps, err := a.Open(ctx, cfg)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, session.Deps{}, err
		}
		return nil, session.Deps{}, &ExitError{Code: ExitFailure, Err: fmt.Errorf("could not connect: %w", err)}
	}
	return cfg, deps, nil
}

func (a *App) shell(ctx context.Context, in *bufio.Reader, f loginFlags) error {
	creds, err := a.credentials(in, f)
	if err != nil {
		return err
	}
	_, deps, err := a.connect(ctx, f.envFile)
	if err != nil {
		return err
	}

	sess, err := session.Login(ctx, deps, creds)
	if err != nil {
		closeDeps(deps)
		if errors.Is(err, errs.ErrUsage) {
			return err
		}
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("login failed: %w", err)}
	}
	fmt.Fprintf(a.Out, "Welcome, %s. Type \"help\" for commands, \"quit\" to leave.\n", sess.User().Name())

	runErr := NewShell(sess, in, a.Out).Run(ctx)
	if err := sess.Close(); err != nil {
		log.Printf("session %s: close: %v", sess.ID, err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return &ExitError{Code: ExitFailure, Err: runErr}
	}
	return runErr
}

// credentials takes the login from flags, or prompts for it when none were given.
func (a *App) credentials(in *bufio.Reader, f loginFlags) (session.Credentials, error) {
	switch {
	case f.phone != "" && (f.admin != "" || f.token != ""):
		return session.Credentials{}, errs.Usagef("--phone cannot be combined with --admin or --token")
	case f.phone != "":
		return session.Credentials{Phone: f.phone}, nil
	case f.token != "":
		return session.Credentials{Admin: auth.Credentials{Username: f.admin, Token: f.token}}, nil
	case f.admin != "":
		pw, err := a.prompt(in, "Password: ")
		if err != nil {
			return session.Credentials{}, err
		}
		return session.Credentials{Admin: auth.Credentials{Username: f.admin, Password: pw}}, nil
	}

	phone, err := a.prompt(in, "Phone number (leave blank to log in as an administrator): ")
	if err != nil {
		return session.Credentials{}, err
	}
	if phone != "" {
		return session.Credentials{Phone: phone}, nil
	}
	name, err := a.prompt(in, "Administrator: ")
	if err != nil {
		return session.Credentials{}, err
	}
	pw, err := a.prompt(in, "Password: ")
	if err != nil {
		return session.Credentials{}, err
	}
	return session.Credentials{Admin: auth.Credentials{Username: name, Password: pw}}, nil
}

func (a *App) prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(a.Out, label)
	line, err := in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", &ExitError{Code: ExitUsage, Err: errors.New("login cancelled")}
	}
	return strings.TrimSpace(line), nil
}

func closeDeps(deps session.Deps) {
	if deps.Publisher != nil {
		if err := deps.Publisher.Close(); err != nil {
			log.Printf("publisher close: %v", err)
		}
	}
	if deps.DB != nil {
		if err := deps.DB.Close(); err != nil {
			log.Printf("database close: %v", err)
		}
	}
}
