package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/term"

	domainauth "github.com/JotaC95/HotelApp/internal/domain/auth"
	apperrors "github.com/JotaC95/HotelApp/internal/errors"
	"github.com/JotaC95/HotelApp/internal/util"
)

type loginOptions struct {
	Username string
	Password string
}

func parseLoginFlags(c *commandContext, args []string) (loginOptions, error) {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.Stderr)

	var opts loginOptions
	fs.StringVar(&opts.Username, "u", "", "Username (prompted when omitted)")
	fs.StringVar(&opts.Password, "p", "", "Password (prompted without echo when omitted)")
	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}
	return opts, nil
}

func runLogin(c *commandContext, args []string) error {
	opts, err := parseLoginFlags(c, args)
	if err != nil {
		return err
	}
	if opts.Username == "" {
		if opts.Username, err = c.promptLine("Username: "); err != nil {
			return fmt.Errorf("read username: %w", err)
		}
	}
	if opts.Password == "" {
		if opts.Password, err = c.promptPassword("Password: "); err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	sess, err := c.openSession()
	if err != nil {
		return err
	}
	if err := sess.Manager.SignIn(c.Ctx, opts.Username, opts.Password).Wait(c.Ctx); err != nil {
		switch {
		case apperrors.IsAuthRejected(err):
			return errors.New("invalid username or password")
		case apperrors.IsValidation(err):
			return errors.New("username and password are required")
		default:
			return err
		}
	}

	st := sess.Manager.State()
	return c.render(sessionView(st), func(w io.Writer) error {
		return writef(w, "Signed in as %s (%s)\n", displayName(st), st.RoleOrEmpty().Label())
	})
}

func runLogout(c *commandContext, _ []string) error {
	sess, err := c.openSession()
	if err != nil {
		return err
	}
	sess.Manager.SignOut(c.Ctx)
	return c.render(sessionView(sess.Manager.State()), func(w io.Writer) error {
		return writeln(w, "Signed out")
	})
}

func runWhoami(c *commandContext, _ []string) error {
	st := c.session.Manager.State()
	return c.render(sessionView(st), func(w io.Writer) error {
		if err := writeRow(w, "USER", "ROLE"); err != nil {
			return err
		}
		return writeRow(w, displayName(st), st.RoleOrEmpty().Label())
	})
}

func runStatus(c *commandContext, _ []string) error {
	st, err := c.initialize()
	if err != nil {
		return err
	}
	view := sessionView(st)
	view.Server = c.session.Client.BaseURL()
	return c.render(view, func(w io.Writer) error {
		if err := writeRow(w, "SERVER", "READY", "AUTHENTICATED", "USER", "ROLE"); err != nil {
			return err
		}
		role := "-"
		if st.Role != nil {
			role = st.Role.Label()
		}
		return writeRow(w, view.Server, yesNo(st.Ready), yesNo(st.Authenticated), util.Deref(st.Username, "-"), role)
	})
}

func runHealth(c *commandContext, _ []string) error {
	sess, err := c.openSession()
	if err != nil {
		return err
	}
	start := time.Now()
	h, err := sess.Client.Health(c.Ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	return c.render(h, func(w io.Writer) error {
		return writef(w, "%s %s %s (%s)\n", h.Service, h.Version, h.Status, util.FormatElapsed(elapsed))
	})
}

type sessionOutput struct {
	Ready         bool    `json:"ready"         yaml:"ready"`
	Authenticated bool    `json:"authenticated" yaml:"authenticated"`
	Username      *string `json:"username"      yaml:"username"`
	Role          *string `json:"role"          yaml:"role"`
	Server        string  `json:"server,omitempty" yaml:"server,omitempty"`
}

func sessionView(st domainauth.State) sessionOutput {
	out := sessionOutput{Ready: st.Ready, Authenticated: st.Authenticated, Username: st.Username}
	if st.Role != nil {
		r := string(*st.Role)
		out.Role = &r
	}
	return out
}

func displayName(st domainauth.State) string {
	return util.Deref(st.Username, "(unknown user)")
}

func (c *commandContext) promptLine(prompt string) (string, error) {
	if err := writef(c.Stderr, "%s", prompt); err != nil {
		return "", err
	}
	line, err := c.Stdin.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptPassword reads without echo when stdin is a terminal.
func (c *commandContext) promptPassword(prompt string) (string, error) {
	if c.stdinFile == nil || !term.IsTerminal(int(c.stdinFile.Fd())) {
		return c.promptLine(prompt)
	}
	if err := writef(c.Stderr, "%s", prompt); err != nil {
		return "", err
	}
	b, err := term.ReadPassword(int(c.stdinFile.Fd()))
	_ = writeln(c.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
