// lifedeck is a terminal client for the Life Manager API: calendar
// schedules, a transaction ledger, and account management from one TUI,
// plus a few scripting-friendly subcommands for session handling.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"lifedeck/cmd/lifedeck/tui"
	"lifedeck/internal/api"
	"lifedeck/internal/config"
	"lifedeck/internal/oauth"
	"lifedeck/internal/session"
)

var (
	flagAPIURL  string
	flagTimeout time.Duration
	flagVerbose bool

	cfg    *config.Config
	store  *session.Store
	client *api.Client
	logger *zap.Logger
)

func main() {
	root := &cobra.Command{
		Use:           "lifedeck",
		Short:         "Terminal client for the Life Manager API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := tui.NewApp(cfg, client, store, logger)
			_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
			return err
		},
	}

	root.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Life Manager API base URL")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "per-request timeout")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	root.AddCommand(loginCmd(), logoutCmd(), whoamiCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads config, prepares the state directory, and wires the logger,
// session store and API client shared by every command.
func setup() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if flagAPIURL != "" {
		cfg.APIBaseURL = flagAPIURL
	}
	if flagTimeout > 0 {
		cfg.RequestTimeout = flagTimeout
	}
	if err := os.MkdirAll(cfg.ConfigDir, 0o700); err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file under the config
	// dir instead of stderr.
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{cfg.LogPath}
	zcfg.ErrorOutputPaths = []string{cfg.LogPath}
	if flagVerbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err = zcfg.Build()
	if err != nil {
		return err
	}

	store = session.NewStore(cfg.SessionPath)
	client = api.NewClient(cfg.APIBaseURL, store,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger),
	)
	return nil
}

func loginCmd() *cobra.Command {
	var email string
	var useOAuth bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if useOAuth {
				return oauthLogin(cmd.Context())
			}
			return passwordLogin(cmd.Context(), email)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when omitted)")
	cmd.Flags().BoolVar(&useOAuth, "oauth", false, "sign in through the Google OAuth flow")
	return cmd
}

func passwordLogin(ctx context.Context, email string) error {
	in := bufio.NewReader(os.Stdin)
	if email == "" {
		fmt.Print("email: ")
		line, err := in.ReadString('\n')
		if err != nil {
			return err
		}
		email = strings.TrimSpace(line)
	}

	fmt.Print("password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()
	creds, err := client.Login(ctx, email, string(raw))
	if err != nil {
		return fmt.Errorf("login: %s", api.UserMessage(err))
	}
	if err := store.Login(creds.Token, creds.UserID, creds.Name); err != nil {
		return err
	}
	fmt.Printf("signed in as %s\n", creds.Name)
	return nil
}

// oauthLogin runs the browser half of the Google flow: a loopback
// listener receives the redirect the server issues after the provider
// round-trip, then the credentials are persisted like a password login.
func oauthLogin(ctx context.Context) error {
	srv, err := oauth.NewCallbackServer("127.0.0.1:0")
	if err != nil {
		return err
	}
	defer srv.Close()

	authURL := fmt.Sprintf("%s/oauth2/authorization/google?redirect_uri=%s",
		strings.TrimSuffix(cfg.APIBaseURL, "/"), srv.RedirectURL())
	fmt.Println("open this URL in your browser to sign in:")
	fmt.Println("  " + authURL)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()
	result, err := srv.Wait(ctx)
	if err != nil {
		return fmt.Errorf("oauth login: %w", err)
	}
	if err := store.Login(result.Token, result.UserID, result.Name); err != nil {
		return err
	}
	fmt.Printf("signed in as %s\n", result.Name)
	return nil
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.Logout(); err != nil {
				return err
			}
			fmt.Println("signed out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !store.IsAuthenticated() {
				return fmt.Errorf("not signed in")
			}
			sess := store.Get()
			fmt.Printf("%s (%s)\n", sess.UserName, sess.UserID)
			return nil
		},
	}
}
