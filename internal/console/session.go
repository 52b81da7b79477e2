// Package console runs the staff administration session: user management,
// doctor selection and weekly availability, driven one input line at a time.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-shellwords"
	"github.com/rs/zerolog"

	"github.com/ehr/staffconsole/internal/domain/availability"
	"github.com/ehr/staffconsole/internal/domain/staff"
	"github.com/ehr/staffconsole/internal/platform/confirm"
	"github.com/ehr/staffconsole/internal/platform/notification"
	"github.com/ehr/staffconsole/internal/platform/validation"
)

// ErrExit is returned by Exec when the user asks to leave the session.
var ErrExit = errors.New("exit requested")

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Out           io.Writer
	Prompt        string
	Logger        zerolog.Logger
	Notifier      notification.Notifier
	MaxPhotoBytes int
	PasswordCost  int
}

// pendingAction is the mutation waiting behind the confirmation dialog.
type pendingAction struct {
	run       confirm.Action
	succeeded string
	failed    string
}

// Session owns the whole application state of one console run.
type Session struct {
	out    io.Writer
	prompt string
	log    zerolog.Logger

	users *staff.Directory
	slots *availability.Store
	staff *staff.Service
	avail *availability.Service

	dialog   *confirm.Dialog
	pending  *pendingAction
	notify   notification.Notifier
	messages *notification.Catalog

	selected uuid.UUID
	readFile func(name string) ([]byte, error)
}

func NewSession(opts Options) *Session {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	log := opts.Logger.With().Str("component", "console").Logger()

	var staffOpts []staff.ServiceOption
	if opts.MaxPhotoBytes > 0 {
		staffOpts = append(staffOpts, staff.WithMaxPhotoBytes(opts.MaxPhotoBytes))
	}
	if opts.PasswordCost > 0 {
		staffOpts = append(staffOpts, staff.WithPasswordCost(opts.PasswordCost))
	}

	notify := opts.Notifier
	if notify == nil {
		notify = notification.NewConsoleNotifier(out, opts.Logger)
	}

	forms := validation.New()
	users := staff.NewDirectory()
	slots := availability.NewStore()

	return &Session{
		out:      out,
		prompt:   opts.Prompt,
		log:      log,
		users:    users,
		slots:    slots,
		staff:    staff.NewService(users, forms, opts.Logger, staffOpts...),
		avail:    availability.NewService(slots, users, forms, opts.Logger),
		dialog:   confirm.NewDialog(opts.Logger),
		notify:   notify,
		messages: notification.NewCatalog(),
		readFile: os.ReadFile,
	}
}

// Run reads commands from in until it is exhausted, the user exits, or ctx
// ends. Command failures are reported and do not stop the session.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		if !scanner.Scan() {
			break
		}
		err := s.Exec(ctx, scanner.Text())
		switch {
		case errors.Is(err, ErrExit):
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		}
	}
	return scanner.Err()
}

// Exec runs one command line. Any failure has already been shown to the user
// when Exec returns it.
func (s *Session) Exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		err = fmt.Errorf("parse command: %w", err)
		s.report(err)
		return err
	}

	start := time.Now()
	root := s.commands()
	root.SetArgs(args)
	cmd, err := root.ExecuteContextC(ctx)

	// Arguments are never logged: they may carry passwords.
	evt := s.log.Debug()
	if err != nil && !errors.Is(err, ErrExit) {
		evt = s.log.Warn().Err(err)
		s.report(err)
	}
	path := ""
	if cmd != nil {
		path = cmd.CommandPath()
	}
	evt.
		Str("command", path).
		Dur("latency", time.Since(start)).
		Msg("command")
	return err
}

// report shows err to the user. Form failures become one line per field and
// everything else a single error notification.
func (s *Session) report(err error) {
	var fields validation.Errors
	switch {
	case errors.As(err, &fields):
		for _, fe := range fields {
			if fe.Field == "" {
				fmt.Fprintln(s.out, fe.Message)
				continue
			}
			fmt.Fprintf(s.out, "%s: %s\n", fe.Field, fe.Message)
		}
	case errors.Is(err, availability.ErrSlotOverlap):
		s.log.Debug().Err(err).Msg("overlap rejected")
		s.notify.Error(s.messages.Text(notification.SlotOverlap, nil))
	default:
		s.notify.Error(err.Error())
	}
}

// doctorName renders a user for prompts and headings.
func doctorName(u staff.User) string {
	if u.IsDoctor() {
		return "Dr. " + u.FirstName
	}
	return u.FirstName
}
