package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"pvctl/pkg/logging"
)

// githubRepoSlug is the repository releases are fetched from.
var githubRepoSlug = "pvctl/pvctl"

func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update pvctl to the latest version",
		Long: `Checks for the latest release of pvctl on GitHub and, if it is newer
than the running version, downloads it and replaces the current binary.`,
		Args: cobra.NoArgs,
		RunE: runSelfUpdate,
	}
}

// latestRelease is what an update needs from the newest published release.
type latestRelease struct {
	Version   string
	AssetURL  string
	AssetName string
	UpToDate  bool
}

// Release lookup and binary replacement, swapped out in tests.
var (
	findLatest = func(ctx context.Context, slug, current string) (latestRelease, bool, error) {
		rel, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(slug))
		if err != nil || !found {
			return latestRelease{}, found, err
		}
		return latestRelease{
			Version:   rel.Version(),
			AssetURL:  rel.AssetURL,
			AssetName: rel.AssetName,
			UpToDate:  rel.LessOrEqual(current),
		}, true, nil
	}
	executablePath = selfupdate.ExecutablePath
	updateTo       = selfupdate.UpdateTo
)

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	current := rootCmd.Version
	if current == "" || current == "dev" {
		return errors.New("cannot self-update a development version; install a released build first")
	}

	ctx := context.Background()
	var out io.Writer = os.Stdout
	if cmd != nil {
		out = cmd.OutOrStdout()
		if cmd.Context() != nil {
			ctx = cmd.Context()
		}
	}

	latest, found, err := findLatest(ctx, githubRepoSlug, current)
	if err != nil {
		return fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", githubRepoSlug)
	}
	if latest.UpToDate {
		fmt.Fprintf(out, "Current version (%s) is the latest\n", current)
		return nil
	}

	exe, err := executablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}
	logging.Info("SelfUpdate", "updating %s from %s to %s", exe, current, latest.Version)
	if err := updateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error occurred while updating binary: %w", err)
	}
	fmt.Fprintf(out, "Successfully updated to version %s\n", latest.Version)
	return nil
}
