package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/aboutme-client/internal/app"
	"github.com/samvad-hq/aboutme-client/internal/config"
	"github.com/samvad-hq/aboutme-client/internal/domain"
	"github.com/samvad-hq/aboutme-client/internal/logger"
	"github.com/samvad-hq/aboutme-client/pkg/aboutme"
)

// cli holds state shared by the subcommands of one invocation.
type cli struct {
	key      string
	version  string
	format   string
	timeout  int
	baseURL  string
	logLevel string

	app *app.App
}

// execute runs the command line in args and releases the app afterwards.
func execute(ctx context.Context, args []string, stdout io.Writer) error {
	c := &cli{}
	root := c.newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	defer c.close()

	return root.ExecuteContext(ctx)
}

func (c *cli) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "aboutme",
		Short: "Query the about.me profile API",
		Long: `Query the about.me profile API and print the JSON response.

Settings are read from the environment (ABOUTME_KEY, ABOUTME_VERSION, ...)
and configs/.env; flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.key, "key", "", "about.me developer key")
	flags.StringVar(&c.version, "version", "", "API version (default v2)")
	flags.StringVar(&c.format, "format", "", "response format (default json)")
	flags.IntVar(&c.timeout, "timeout", 0, "connect timeout in seconds (default 2)")
	flags.StringVar(&c.baseURL, "base-url", "", "API base URL")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		c.newUserCommand(),
		c.newDirectoryCommand(),
		c.newRandomCommand(),
		c.newPostCommand(),
		c.newSnapshotCommand(),
		newTypesCommand(),
	)
	return root
}

// open loads configuration, applies flag overrides, and builds the app once.
func (c *cli) open(cmd *cobra.Command) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.applyFlags(cmd, cfg)

	log, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.DebugObj("aboutme starting", "config", cfg.Redacted())

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("key") {
		cfg.APIKey = c.key
	}
	if flags.Changed("version") {
		cfg.APIVersion = c.version
	}
	if flags.Changed("format") {
		cfg.APIFormat = c.format
	}
	if flags.Changed("timeout") {
		cfg.APITimeoutSeconds = c.timeout
	}
	if flags.Changed("base-url") {
		cfg.APIBaseURL = c.baseURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	if err != nil {
		logger.WarnObj("release resources failed", "close_error", err.Error())
	}
	_ = logger.Close()
	return err
}

func (c *cli) lookup(cmd *cobra.Command, l domain.Lookup) error {
	a, err := c.open(cmd)
	if err != nil {
		return err
	}
	resp, err := a.Lookup(cmd.Context(), l)
	if err != nil {
		return err
	}
	return writeBody(cmd, resp.Raw)
}

func writeBody(cmd *cobra.Command, body []byte) error {
	out := cmd.OutOrStdout()
	if _, err := out.Write(body); err != nil {
		return err
	}
	if len(body) > 0 && body[len(body)-1] != '\n' {
		_, err := fmt.Fprintln(out)
		return err
	}
	return nil
}

func (c *cli) newUserCommand() *cobra.Command {
	var extended bool
	cmd := &cobra.Command{
		Use:   "user <username>",
		Short: "Show a user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.lookup(cmd, domain.Lookup{Operation: domain.OpUserView, Subject: args[0], Extended: extended})
		},
	}
	cmd.Flags().BoolVar(&extended, "extended", false, "request the extended profile")
	return cmd
}

func (c *cli) newDirectoryCommand() *cobra.Command {
	var extended bool
	cmd := &cobra.Command{
		Use:   "directory <type>",
		Short: "List a curated user directory",
		Long:  "List a curated user directory. Types: " + strings.Join(aboutme.DirectoryTypes(), ", ") + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.lookup(cmd, domain.Lookup{Operation: domain.OpUsersViewDirectory, Subject: args[0], Extended: extended})
		},
	}
	cmd.Flags().BoolVar(&extended, "extended", false, "request extended profiles")
	return cmd
}

func (c *cli) newRandomCommand() *cobra.Command {
	var extended bool
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Show random user pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.lookup(cmd, domain.Lookup{Operation: domain.OpUsersViewRandom, Extended: extended})
		},
	}
	cmd.Flags().BoolVar(&extended, "extended", false, "request extended profiles")
	return cmd
}

func (c *cli) newPostCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "post <object-type> <action> [object]",
		Short: "Call an action-style endpoint with an empty POST",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := domain.Lookup{Operation: domain.OpPost, Subject: args[0], Action: args[1]}
			if len(args) == 3 {
				l.Object = args[2]
			}
			return c.lookup(cmd, l)
		},
	}
}

func (c *cli) newSnapshotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <key>",
		Short: "Print an archived response",
		Long:  "Print an archived response. Keys look like user_view:bob or users_view_directory:team:extended.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd)
			if err != nil {
				return err
			}
			body, ok, err := a.Snapshot(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no snapshot for %q", args[0])
			}
			return writeBody(cmd, body)
		},
	}
}

func newTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List directory types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, t := range aboutme.DirectoryTypes() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), t); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
