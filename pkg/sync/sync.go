package sync

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/loft-sh/log"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/util/retry"

	"github.com/relware/relsync/pkg/extract"
	"github.com/relware/relsync/pkg/github"
	"github.com/relware/relsync/pkg/releases"
	"github.com/relware/relsync/pkg/state"
)

// Source lists releases and fetches asset bytes for a repository.
type Source interface {
	ListReleases(ctx context.Context, owner, repo string) ([]releases.Release, error)
	DownloadAsset(ctx context.Context, owner, repo string, asset releases.Asset) (io.ReadCloser, error)
}

// Status describes how a sync run ended.
type Status string

const (
	// StatusSynced means a new release was fully downloaded and unpacked
	StatusSynced Status = "Synced"

	// StatusAlreadyUpToDate means the selected release was synced before
	StatusAlreadyUpToDate Status = "AlreadyUpToDate"

	// StatusNoMatchingRelease means no release survived the filter
	StatusNoMatchingRelease Status = "NoMatchingRelease"
)

// Outcome is the result of a successful sync run.
type Outcome struct {
	Status  Status
	Release *releases.Release
}

// Options configure a single sync run.
type Options struct {
	Owner     string
	Repo      string
	OutputDir string
	Filter    releases.FilterConfig
}

var listBackoff = wait.Backoff{
	Steps:    4,
	Duration: 500 * time.Millisecond,
	Factor:   2,
	Jitter:   0.1,
}

// Sync reconciles the output directory with the newest release that matches
// the filter. The persisted sync record is only updated after every asset of
// the selected release has been downloaded and unpacked, a failure anywhere
// leaves it untouched.
func Sync(ctx context.Context, source Source, opts Options, logger log.Logger) (Outcome, error) {
	repository := opts.Owner + "/" + opts.Repo

	list, err := listReleases(ctx, source, opts)
	if err != nil {
		return Outcome{}, errors.Wrapf(err, "list releases for %s", repository)
	}

	selected := releases.Select(list, opts.Filter)
	if selected == nil {
		logger.Infof("No release of %s matches the filter", repository)
		return Outcome{Status: StatusNoMatchingRelease}, nil
	}

	syncState, err := state.Load(opts.OutputDir, repository, logger)
	if err != nil {
		return Outcome{}, err
	}
	if syncState != nil && syncState.LastSyncedTag == selected.Tag {
		logger.Infof("Release %s of %s is already synced", selected.Tag, repository)
		return Outcome{Status: StatusAlreadyUpToDate, Release: selected}, nil
	}

	err = fetchAndUnpack(ctx, source, opts, *selected, logger)
	if err != nil {
		return Outcome{}, errors.Wrapf(err, "sync release %s", selected.Tag)
	}

	err = state.Save(opts.OutputDir, state.SyncState{
		Repository:    repository,
		LastSyncedTag: selected.Tag,
	})
	if err != nil {
		return Outcome{}, errors.Wrap(err, "save sync state")
	}

	logger.Donef("Successfully synced release %s of %s", selected.Tag, repository)
	return Outcome{Status: StatusSynced, Release: selected}, nil
}

// listReleases retries transient provider errors a bounded number of times
// with exponential backoff. A rate-limit retry-after hint is waited out in
// full before the next attempt, on top of the backoff step.
func listReleases(ctx context.Context, source Source, opts Options) ([]releases.Release, error) {
	var list []releases.Release
	err := retry.OnError(listBackoff, github.IsTransient, func() error {
		var listErr error
		list, listErr = source.ListReleases(ctx, opts.Owner, opts.Repo)
		if listErr != nil {
			if hint, ok := github.RetryAfter(listErr); ok && hint > 0 {
				if waitErr := waitWithContext(ctx, hint); waitErr != nil {
					return waitErr
				}
			}

			return listErr
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return list, nil
}

func waitWithContext(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func fetchAndUnpack(ctx context.Context, source Source, opts Options, release releases.Release, logger log.Logger) error {
	err := os.MkdirAll(opts.OutputDir, 0755)
	if err != nil {
		return err
	}

	for _, asset := range release.Assets {
		err = fetchAsset(ctx, source, opts, asset, logger)
		if err != nil {
			return err
		}
	}

	return nil
}

// fetchAsset downloads a single asset through a staging file in the output
// directory, moves it into place and extracts it when it is an archive.
// Existing files of the same name are overwritten.
func fetchAsset(ctx context.Context, source Source, opts Options, asset releases.Asset, logger log.Logger) error {
	if strings.Contains(asset.Name, "/") || strings.Contains(asset.Name, string(os.PathSeparator)) {
		return errors.Errorf("asset name %s is not a plain file name", asset.Name)
	}

	reader, err := source.DownloadAsset(ctx, opts.Owner, opts.Repo, asset)
	if err != nil {
		return err
	}
	defer reader.Close()

	stagingFile, err := os.CreateTemp(opts.OutputDir, asset.Name+".*.part")
	if err != nil {
		return errors.Wrap(err, "create staging file")
	}
	defer os.Remove(stagingFile.Name())

	_, err = io.Copy(stagingFile, reader)
	if err != nil {
		_ = stagingFile.Close()
		return errors.Wrapf(err, "download %s", asset.Name)
	}
	err = stagingFile.Close()
	if err != nil {
		return err
	}

	targetPath := filepath.Join(opts.OutputDir, asset.Name)
	err = os.Rename(stagingFile.Name(), targetPath)
	if err != nil {
		return err
	}

	if extract.IsArchive(asset.Name) {
		logger.Debugf("Extracting %s", asset.Name)
		err = extract.Extract(targetPath, opts.OutputDir)
		if err != nil {
			return errors.Wrapf(err, "extract %s", asset.Name)
		}

		err = os.Remove(targetPath)
		if err != nil {
			return err
		}
	}

	logger.Infof("Downloaded %s", asset.Name)
	return nil
}
