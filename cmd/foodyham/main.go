package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/foodyham/internal/app"
	"github.com/example/foodyham/internal/apperror"
	"github.com/example/foodyham/internal/config"
)

// Version information set at build time.
var version = "dev"

// cli holds the lazily built application shared by every subcommand
type cli struct {
	out     io.Writer
	in      io.Reader
	reader  *bufio.Reader
	app     *app.App
	verbose bool
	opts    []app.Option

	profile string
	storage string
	apiURL  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{out: os.Stdout, in: os.Stdin}
	err := c.rootCmd().ExecuteContext(ctx)
	if closeErr := c.teardown(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", apperror.Message(err))
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "foodyham",
		Short: "Order food from the Foodyham storefront",
		Long: `foodyham is a terminal storefront for the Foodyham restaurant.

Browse the menu, keep a cart between runs, sign in and check out.
The session and cart are kept in the configured storage backend
(file by default) under the selected profile.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&c.profile, "profile", "", "Profile to use (overrides FOODYHAM_PROFILE)")
	root.PersistentFlags().StringVar(&c.storage, "storage", "", "Storage backend: file, memory, redis, postgres, dynamo")
	root.PersistentFlags().StringVar(&c.apiURL, "api", "", "Collaborator base URL (overrides FOODYHAM_API_URL)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Show diagnostic logs")

	root.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.profileCmd(),
		c.passwordCmd(),
		c.productsCmd(),
		c.cartCmd(),
		c.checkoutCmd(),
		c.adminCmd(),
		c.feedbackCmd(),
		c.eventsCmd(),
	)
	return root
}

func (c *cli) setup(ctx context.Context) error {
	if !c.verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.profile != "" {
		cfg.Profile = c.profile
	}
	if c.storage != "" {
		cfg.Storage = c.storage
	}
	if c.apiURL != "" {
		cfg.APIURL = c.apiURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, c.opts...)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) teardown() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *cli) success(format string, args ...any) {
	fmt.Fprintf(c.out, "✓ %s\n", fmt.Sprintf(format, args...))
}
