package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoboard/internal/auth"
	"github.com/idilsaglam/todoboard/internal/ui"
)

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token sent to the todo endpoint",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usagef(errors.New("usage: todoboard auth <login|logout|status|whoami>"))
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "login [token]",
			Short: "Store a token (read from stdin when not given)",
			Args:  usageArgs(cobra.MaximumNArgs(1)),
			RunE:  a.authLogin,
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Delete the stored token",
			Args:  usageArgs(cobra.NoArgs),
			RunE:  a.authLogout,
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the token comes from and when it expires",
			Args:  usageArgs(cobra.NoArgs),
			RunE:  a.authStatus,
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Decode the token payload locally (JWT only)",
			Args:  usageArgs(cobra.NoArgs),
			RunE:  a.authWhoAmI,
		},
	)
	return cmd
}

func (a *app) authLogin(cmd *cobra.Command, args []string) error {
	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		fmt.Fprint(cmd.OutOrStdout(), "Paste your token: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read token: %w", err)
		}
		token = strings.TrimSpace(line)
	}
	if strings.TrimSpace(token) == "" {
		return usagef(errors.New("login: empty token"))
	}
	if err := a.tokens().Set(token, nil); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	ui.OK(cmd.OutOrStdout(), "logged in")
	return nil
}

func (a *app) authLogout(cmd *cobra.Command, _ []string) error {
	store := a.tokens()
	ti, _ := store.Get()
	if ti != nil && ti.Source == "env" {
		ui.OK(cmd.OutOrStdout(), "token is provided by "+auth.EnvToken+" env var (nothing to delete)")
		return nil
	}
	if err := store.Delete(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	ui.OK(cmd.OutOrStdout(), "logged out")
	return nil
}

func (a *app) authStatus(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ti, err := a.tokens().Get()
	if err != nil {
		return err
	}
	if ti == nil {
		ui.Hint(out, "not logged in")
		fmt.Fprintln(out, "Run: todoboard auth login")
		return nil
	}
	fmt.Fprintf(out, "source: %s\n", ti.Source)
	if ti.ExpiresAt != nil {
		state := ""
		if ti.ExpiresAt.Before(time.Now()) {
			state = " (expired)"
		}
		fmt.Fprintf(out, "expires: %s%s\n", ti.ExpiresAt.UTC().Format(time.RFC3339), state)
	} else {
		fmt.Fprintln(out, "expires: (unknown)")
	}
	fmt.Fprintf(out, "env override: %s\n", auth.EnvToken)
	return nil
}

func (a *app) authWhoAmI(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ti, err := a.tokens().Get()
	if err != nil {
		return err
	}
	if ti == nil {
		return usagef(errors.New("not logged in. Run: todoboard auth login"))
	}
	if payload, ok := auth.Claims(ti.Token); ok {
		fmt.Fprintln(out, "JWT payload:")
		fmt.Fprintln(out, payload)
		return nil
	}
	fmt.Fprintln(out, "Opaque token (cannot introspect locally).")
	fmt.Fprintln(out, "source:", ti.Source)
	return nil
}
