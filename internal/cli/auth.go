package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/idilsaglam/chores/internal/auth"
	"github.com/idilsaglam/chores/internal/config"
)

func newLoginCmd(a *app) *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the chore server and save the session",
		Args:  exactArgs(0),
		RunE: func(cc *cobra.Command, _ []string) error {
			in := bufio.NewReader(cc.InOrStdin())
			out := cc.ErrOrStderr()

			if username == "" {
				fmt.Fprint(out, "Username: ")
				u, err := readLine(in)
				if err != nil {
					return fmt.Errorf("read username: %w", err)
				}
				username = u
			}
			if username == "" {
				return fmt.Errorf("%w: empty username", ErrInvalidArgument)
			}

			password, err := readPassword(cc.InOrStdin(), in, out, passwordStdin)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			c, err := a.newClient(nil)
			if err != nil {
				return err
			}
			ck, err := c.Login(cc.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			var expires *time.Time
			if !ck.Expires.IsZero() {
				e := ck.Expires
				expires = &e
			}
			if err := a.sessions.Set(username, ck.Value, expires); err != nil {
				return err
			}
			a.out.OK("logged in as " + username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when empty)")
	cmd.Flags().BoolVar(&passwordStdin, "password_stdin", false, "Read the password from stdin")

	return cmd
}

// readPassword reads without echo when stdin is a terminal, otherwise one
// line from in.
func readPassword(stdin io.Reader, in *bufio.Reader, out io.Writer, fromStdin bool) (string, error) {
	if f, ok := stdin.(*os.File); ok && !fromStdin && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	if !fromStdin {
		fmt.Fprint(out, "Password: ")
	}
	return readLine(in)
}

func readLine(r *bufio.Reader) (string, error) {
	s, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the saved cookie",
		Args:  exactArgs(0),
		RunE: func(cc *cobra.Command, _ []string) error {
			sess, err := a.sessions.Get()
			if err != nil {
				return err
			}
			if sess == nil {
				a.out.OK("already logged out")
				return nil
			}

			c, _, err := a.client(nil)
			if err == nil {
				err = c.Logout(cc.Context())
			}
			if err != nil {
				a.log.Warn("server logout failed, forgetting the session anyway", "err", err)
			}

			if sess.Source == "env" {
				a.out.Hint("session comes from " + auth.EnvSession + "; unset it to log out")
				return nil
			}
			if err := a.sessions.Delete(); err != nil {
				return fmt.Errorf("remove session: %w", err)
			}
			a.out.OK("logged out")
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the server, session and local settings",
		Args:  exactArgs(0),
		RunE: func(cc *cobra.Command, _ []string) error {
			p, t := a.out, a.out.Theme()

			cfgPath := a.configPath
			if cfgPath == "" {
				cfgPath, _ = config.GetConfigPath()
			}
			p.Printf("server:  %s\n", a.cfg.Server)
			p.Printf("config:  %s\n", cfgPath)
			p.Printf("theme:   %s\n", t.DisplayName())
			p.Printf("sound:   %t\n", a.cfg.Sound)

			sess, err := a.sessions.Get()
			if err != nil {
				return err
			}
			if sess == nil {
				p.Println(p.C(t.Muted, "not logged in"))
				p.Println("Run: " + cc.Root().Name() + " login")
				return nil
			}

			if sess.Username != "" {
				p.Printf("user:    %s\n", sess.Username)
			}
			p.Printf("source:  %s\n", sess.Source)
			if sess.ExpiresAt != nil {
				p.Printf("expires: %s\n", sess.ExpiresAt.UTC().Format(time.RFC3339))
			} else {
				p.Println("expires: (end of browser session)")
			}
			p.Println("env override: " + auth.EnvSession)

			if !verify {
				return nil
			}
			c, _, err := a.client(nil)
			if err != nil {
				return err
			}
			if _, err := c.Chores(cc.Context()); err != nil {
				return fmt.Errorf("verify session: %w", err)
			}
			p.OK("session accepted by server")
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Check the session against the server")

	return cmd
}
