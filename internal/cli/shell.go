package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/georgemunganga/wegmans2/internal/errs"
	"github.com/georgemunganga/wegmans2/internal/session"
	"github.com/mattn/go-shellwords"
)

// errQuit ends the command loop normally.
var errQuit = errors.New("quit")

// Shell reads commands line by line and runs them against one session.
type Shell struct {
	sess   *session.Session
	in     io.Reader
	out    io.Writer
	prompt string
}

// NewShell returns a shell over sess. The prompt is printed before every line.
func NewShell(sess *session.Session, in io.Reader, out io.Writer) *Shell {
	return &Shell{sess: sess, in: in, out: out, prompt: "wegmans2> "}
}

// Run executes commands until quit, end of input or ctx is cancelled. Errors
// a user can recover from are reported and the loop goes on. A lost database
// connection ends the loop with that error.
func (sh *Shell) Run(ctx context.Context) error {
	lines := make(chan string)
	done := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		scanner := bufio.NewScanner(sh.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		done <- scanner.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(sh.out, sh.prompt)
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(sh.out)
			return ctx.Err()
		case err := <-done:
			fmt.Fprintln(sh.out)
			return err
		case line = <-lines:
		}

		err := sh.Exec(ctx, line)
		switch {
		case err == nil:
		case errors.Is(err, errQuit):
			return nil
		case errs.IsConnectionLost(err), errors.Is(err, context.Canceled):
			return err
		default:
			sh.report(err)
		}
	}
}

// Exec runs a single command line.
func (sh *Shell) Exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		return errs.Usagef("%v", err)
	}
	if len(args) == 0 {
		return nil
	}

	root := newShellCommand(sh)
	root.SetArgs(args)
	root.SetOut(sh.out)
	root.SetErr(sh.out)
	err = root.ExecuteContext(ctx)
	if err == nil || errors.Is(err, errQuit) || errs.IsKind(err) || isStorage(err) || errors.Is(err, context.Canceled) {
		return err
	}
	// Anything else came from cobra itself: unknown command, bad flag, wrong arity.
	return errs.Usagef("%v", err)
}

func (sh *Shell) report(err error) {
	if isStorage(err) {
		log.Printf("session %s: %v", sh.sess.ID, err)
	}
	fmt.Fprintf(sh.out, "Error: %v\n", err)
}

func isStorage(err error) bool {
	var se *errs.StorageError
	return errors.As(err, &se)
}
