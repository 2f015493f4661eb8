package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/dmitrijs2005/mailpasswd/internal/client/client"
	"github.com/dmitrijs2005/mailpasswd/internal/client/config"
	"github.com/dmitrijs2005/mailpasswd/internal/cryptox"
	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitNegative = 1
	ExitUsage    = 2
)

// Service is the part of client.Client the commands use.
type Service interface {
	Authenticate(ctx context.Context, user, password string) (models.AuthenticationResult, error)
	Lookup(ctx context.Context, user string) (*models.User, error)
}

// getPassword is an indirection used to facilitate testing.
var getPassword = GetPassword

var commands = []string{"authenticate", "lookup"}

type App struct {
	service Service
	reader  *bufio.Reader
	out     io.Writer
	errOut  io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		service: client.NewClient(c.ServerURL, c.Timeout),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
}

// Run executes the subcommand found in args (os.Args[1:]) and returns the
// process exit code. Global flags before the subcommand are handled by the
// config package and skipped here.
func (a *App) Run(ctx context.Context, args []string) int {
	i := slices.IndexFunc(args, func(s string) bool { return slices.Contains(commands, s) })
	if i < 0 {
		fmt.Fprintln(a.errOut, "usage: mailpasswdctl [-s url] authenticate|lookup -u user")
		return ExitUsage
	}

	cmd, rest := args[i], args[i+1:]

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	user := fs.String("u", "", "user name, optionally user@domain")
	if err := fs.Parse(rest); err != nil {
		return ExitUsage
	}

	if *user == "" {
		u, err := GetSimpleText(a.reader, "Enter user", a.out)
		if err != nil || u == "" {
			fmt.Fprintln(a.errOut, "a user is required")
			return ExitUsage
		}
		*user = u
	}

	switch cmd {
	case "authenticate":
		return a.authenticate(ctx, *user)
	default:
		return a.lookup(ctx, *user)
	}
}

func (a *App) authenticate(ctx context.Context, user string) int {
	password, err := getPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.errOut, "reading password: %v\n", err)
		return ExitUsage
	}
	defer cryptox.WipeByteArray(password)

	result, err := a.service.Authenticate(ctx, user, string(password))
	if err != nil {
		fmt.Fprintf(a.errOut, "authenticate: %v\n", err)
		return ExitUsage
	}

	fmt.Fprintln(a.out, result.String())
	if result != models.AuthOk {
		return ExitNegative
	}
	return ExitOK
}

func (a *App) lookup(ctx context.Context, user string) int {
	u, err := a.service.Lookup(ctx, user)
	if errors.Is(err, client.ErrNotFound) {
		fmt.Fprintln(a.out, "no such user")
		return ExitNegative
	}
	if err != nil {
		fmt.Fprintf(a.errOut, "lookup: %v\n", err)
		return ExitUsage
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(u); err != nil {
		return ExitUsage
	}
	return ExitOK
}
