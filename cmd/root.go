package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/loft-sh/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relware/relsync/cmd/flags"
	"github.com/relware/relsync/pkg/github"
	"github.com/relware/relsync/pkg/releases"
	"github.com/relware/relsync/pkg/slack"
	"github.com/relware/relsync/pkg/sync"
	"github.com/relware/relsync/pkg/upgrade"
)

// RootCmd holds the sync cmd flags
type RootCmd struct {
	*flags.GlobalFlags

	Prerelease      bool
	PrereleaseTypes string
	VersionPrefix   string
	OutputDir       string

	WebhookURL  string
	URLClient   string
	NotifyNotes bool

	AutoUpdate   bool
	NoAutoUpdate bool
}

// NewRootCmd returns a new root command
func NewRootCmd() *cobra.Command {
	cmd := &RootCmd{}
	rootCmd := &cobra.Command{
		Use:           "relsync <owner/name>",
		Short:         "Sync the newest matching GitHub release into a local directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		PersistentPreRunE: func(cobraCmd *cobra.Command, args []string) error {
			if cmd.Silent {
				log.Default.SetLevel(logrus.FatalLevel)
			} else if cmd.Debug {
				log.Default.SetLevel(logrus.DebugLevel)
			}

			return nil
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.Run(cobraCmd.Context(), args[0])
		},
	}

	cmd.GlobalFlags = flags.SetGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.Flags().BoolVar(&cmd.Prerelease, "pre-release", false, "Include pre-releases")
	rootCmd.Flags().StringVar(&cmd.PrereleaseTypes, "prerelease-types", "", "Comma separated prerelease kinds to allow, e.g. beta,rc. Implies --pre-release")
	rootCmd.Flags().StringVar(&cmd.VersionPrefix, "version-prefix", "", "Only consider releases whose tag starts with this prefix")
	rootCmd.Flags().StringVar(&cmd.OutputDir, "output-dir", ".", "Directory to save the downloaded assets and the sync record")
	rootCmd.Flags().StringVar(&cmd.WebhookURL, "webhook-url", "", "Slack webhook URL for notifications")
	rootCmd.Flags().StringVar(&cmd.URLClient, "url-client", "", "Client URL to include in the Slack message")
	rootCmd.Flags().BoolVar(&cmd.NotifyNotes, "notify-notes", false, "Include the release notes in the Slack message")
	rootCmd.Flags().BoolVar(&cmd.AutoUpdate, "auto-update", true, "Check for a newer relsync version after a run")
	rootCmd.Flags().BoolVar(&cmd.NoAutoUpdate, "no-auto-update", false, "Disable the relsync version check")
	_ = rootCmd.Flags().MarkHidden("no-auto-update")

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// build the root command
	rootCmd := BuildRoot()

	// execute command
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// BuildRoot creates a new root command and attaches the subcommands
func BuildRoot() *cobra.Command {
	rootCmd := NewRootCmd()
	rootCmd.AddCommand(NewUpgradeCmd())
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}

// Run executes the sync logic
func (cmd *RootCmd) Run(ctx context.Context, repository string) error {
	logger := log.Default

	owner, repo, err := splitRepository(repository)
	if err != nil {
		return err
	}

	filter := releases.FilterConfig{
		IncludePrerelease: cmd.Prerelease,
		VersionPrefix:     cmd.VersionPrefix,
		AllowedKinds:      releases.ParseKinds(cmd.PrereleaseTypes),
	}
	// restricting kinds only makes sense when prereleases are considered
	if len(filter.AllowedKinds) > 0 {
		filter.IncludePrerelease = true
	}

	client := github.NewClient(ctx, os.Getenv(github.TokenEnv))
	outcome, err := sync.Sync(ctx, client, sync.Options{
		Owner:     owner,
		Repo:      repo,
		OutputDir: cmd.OutputDir,
		Filter:    filter,
	}, logger)
	if err != nil {
		return err
	}

	if outcome.Status == sync.StatusSynced && cmd.WebhookURL != "" && cmd.URLClient != "" {
		message := slack.BuildMessage(*outcome.Release, cmd.URLClient, cmd.NotifyNotes)
		err = slack.Notify(ctx, cmd.WebhookURL, message)
		if err != nil {
			return errors.Wrap(err, "notify")
		}

		logger.Info("Slack notification sent")
	}

	if cmd.AutoUpdate && !cmd.NoAutoUpdate {
		upgrade.PrintNewerVersionWarning(logger)
	}

	return nil
}

func splitRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("expected repository in the form owner/name, got %s", repository)
	}

	return parts[0], parts[1], nil
}
