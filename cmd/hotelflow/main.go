package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/JotaC95/HotelApp/config"
	"github.com/JotaC95/HotelApp/internal/bootstrap"
	domainauth "github.com/JotaC95/HotelApp/internal/domain/auth"
	apperrors "github.com/JotaC95/HotelApp/internal/errors"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	usage       string
	description string
	// roles restricts the command to sessions holding one of these roles.
	roles []domainauth.Role
	// public commands run without a signed-in session.
	public bool
	run    commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Output outputFormat

	Stdout io.Writer
	Stderr io.Writer
	Stdin  *bufio.Reader
	// stdinFile is set when stdin is a terminal-capable file.
	stdinFile *os.File

	// sessionDeps lets tests inject a credential store or transport.
	sessionDeps bootstrap.SessionDeps
	session     *bootstrap.Session
}

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code) //nolint:forbidigo // CLI must propagate command status to the shell
}

type runOptions struct {
	deps   bootstrap.SessionDeps
	loader func() (config.AppConfig, error)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return runWith(ctx, args, stdin, stdout, stderr, runOptions{loader: bootstrap.LoadConfig})
}

func runWith(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, opts runOptions) int {
	global := flag.NewFlagSet("hotelflow", flag.ContinueOnError)
	global.SetOutput(stderr)
	output := global.String("output", string(outputTable), "Output format: table, json or yaml")
	global.Usage = func() { _ = printUsage(stderr) }
	if err := global.Parse(args); err != nil {
		return exitUsage
	}

	format, err := parseOutputFormat(*output)
	if err != nil {
		_ = writef(stderr, "%v\n", err)
		return exitUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		_ = printUsage(stderr)
		return exitUsage
	}
	cmdName := rest[0]
	if cmdName == "help" {
		_ = printUsage(stdout)
		return exitOK
	}
	cmd, ok := commands()[cmdName]
	if !ok {
		_ = writef(stderr, "unknown command %q\n\n", cmdName)
		_ = printUsage(stderr)
		return exitUsage
	}

	cfg, err := opts.loader()
	if err != nil {
		_ = writef(stderr, "load config: %v\n", err)
		return exitError
	}
	logger := bootstrap.NewLogger(stderr, cfg.DebugEnabled())

	cmdCtx := &commandContext{
		Ctx:         ctx,
		Logger:      logger,
		Config:      cfg,
		Output:      format,
		Stdout:      stdout,
		Stderr:      stderr,
		Stdin:       bufio.NewReader(stdin),
		sessionDeps: opts.deps,
	}
	if f, isFile := stdin.(*os.File); isFile {
		cmdCtx.stdinFile = f
	}
	defer cmdCtx.closeSession()

	if runErr := cmdCtx.execute(cmd, rest[1:]); runErr != nil {
		if errors.Is(runErr, errUsage) || errors.Is(runErr, flag.ErrHelp) {
			return exitUsage
		}
		logger.DebugContext(ctx, "command failed", "command", cmdName, "error", runErr)
		_ = writef(stderr, "error: %s\n", userMessage(runErr))
		return exitError
	}
	return exitOK
}

func (c *commandContext) execute(cmd command, args []string) error {
	if !cmd.public {
		if err := c.requireSignedIn(); err != nil {
			return err
		}
		if err := c.requireRole(cmd); err != nil {
			return err
		}
	}
	return cmd.run(c, args)
}

func commands() map[string]command {
	list := []command{
		{name: "login", usage: "[-u user] [-p pass]", description: "Sign in and store credentials on this device", public: true, run: runLogin},
		{name: "logout", description: "Sign out and forget stored credentials", public: true, run: runLogout},
		{name: "whoami", description: "Show the signed-in user and role", run: runWhoami},
		{name: "status", description: "Show session state without failing when signed out", public: true, run: runStatus},
		{name: "health", description: "Check that the server is reachable", public: true, run: runHealth},

		{name: "rooms", usage: "[-status S] [-floor N] [-zone Z]", description: "List rooms", run: runRooms},
		{name: "room", usage: "<id>", description: "Show one room", run: runRoom},
		{name: "room-status", usage: "<id> <status>", description: "Set a room status (DIRTY, CLEANING, CLEAN, INSPECTION, OOO)", run: runRoomStatus},
		{name: "tasks", usage: "-room <id>", description: "List tasks of a room", run: runTasks},
		{name: "task", usage: "<id>", description: "Show one task", run: runTask},
		{name: "task-status", usage: "<id> <status>", description: "Set a task status", run: runTaskStatus},
		{name: "task-create", usage: "-room <id> -title T [-description D] [-type T] [-priority P] [-photo file]", description: "Create a task", run: runTaskCreate},
		{name: "task-start", usage: "<id> [-photo file]", description: "Start the check of a task", run: runTaskStart},
		{name: "task-finish", usage: "<id> [-photo file]", description: "Finish a task", run: runTaskFinish},
		{name: "task-delete", usage: "<id>", description: "Delete a task", roles: supervisorOnly, run: runTaskDelete},
		{name: "availability", usage: "[-set true|false] [-id N]", description: "Show or set live availability", run: runAvailability},

		{name: "my-week", usage: "[-monday YYYY-MM-DD]", description: "Show your shifts for a week", run: runMyWeek},
		{name: "availability-rules", description: "List weekly availability rules", run: runAvailabilityRules},
		{name: "availability-rule-add", usage: "-weekday N -start HH:MM -end HH:MM [-preferred S] [-unavailable]", description: "Add a weekly availability rule", run: runAvailabilityRuleAdd},
		{name: "zones", description: "List zones", roles: supervisorOnly, run: runZones},
		{name: "teams", description: "List teams", roles: supervisorOnly, run: runTeams},
		{name: "shifts", usage: "[-roster id]", description: "List shifts", roles: supervisorOnly, run: runShifts},
		{name: "rosters", usage: "[-week YYYY-MM-DD]", description: "List rosters", roles: supervisorOnly, run: runRosters},
		{name: "roster-publish", usage: "<id>", description: "Publish a roster", roles: supervisorOnly, run: runRosterPublish},
		{name: "roster-generate", usage: "-week YYYY-MM-DD [-dry-run] [-rules JSON]", description: "Generate a roster for a week", roles: supervisorOnly, run: runRosterGenerate},
		{name: "dashboard", description: "Supervisor overview: summary, shifts, zones and teams", roles: supervisorOnly, run: runDashboard},
	}
	out := make(map[string]command, len(list))
	for _, c := range list {
		out[c.name] = c
	}
	return out
}

var supervisorOnly = []domainauth.Role{domainauth.RoleSupervisor}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: hotelflow [-output table|json|yaml] <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := cmds[name]
		line := strings.TrimSpace(c.name + " " + c.usage)
		if err := writef(w, "  %-40s %s\n", line, c.description); err != nil {
			return err
		}
	}
	return nil
}

// openSession builds the session stack once per invocation.
func (c *commandContext) openSession() (*bootstrap.Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	deps := c.sessionDeps
	deps.Config = &c.Config
	deps.Logger = c.Logger
	sess, err := bootstrap.BuildSession(deps)
	if err != nil {
		return nil, err
	}
	c.session = sess
	return sess, nil
}

func (c *commandContext) closeSession() {
	if c.session == nil {
		return
	}
	if err := c.session.Close(); err != nil {
		c.Logger.Warn("close session", "error", err)
	}
	c.session = nil
}

// initialize rehydrates the stored session and returns its state.
func (c *commandContext) initialize() (domainauth.State, error) {
	sess, err := c.openSession()
	if err != nil {
		return domainauth.State{}, err
	}
	if err := sess.Manager.Initialize(c.Ctx).Wait(c.Ctx); err != nil {
		return domainauth.State{}, err
	}
	return sess.Manager.State(), nil
}

var errNotSignedIn = errors.New("not signed in; run 'hotelflow login'")

func (c *commandContext) requireSignedIn() error {
	st, err := c.initialize()
	if err != nil {
		return err
	}
	if !st.Authenticated {
		return errNotSignedIn
	}
	return nil
}

func (c *commandContext) requireRole(cmd command) error {
	if len(cmd.roles) == 0 {
		return nil
	}
	for _, r := range cmd.roles {
		if c.session.Manager.HasRole(r) {
			return nil
		}
	}
	labels := make([]string, 0, len(cmd.roles))
	for _, r := range cmd.roles {
		labels = append(labels, r.Label())
	}
	return fmt.Errorf("%s is only available to %s", cmd.name, strings.Join(labels, ", "))
}

// userMessage turns an error into the line shown to the user.
func userMessage(err error) string {
	switch {
	case apperrors.IsAuthRejected(err):
		return "the server rejected your credentials; run 'hotelflow login'"
	case apperrors.IsServiceUnavailable(err), apperrors.IsTimeout(err):
		return "could not reach the HotelFlow server"
	case apperrors.IsStorage(err):
		return "could not access stored credentials: " + err.Error()
	case apperrors.IsCanceled(err), errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return err.Error()
	}
}
