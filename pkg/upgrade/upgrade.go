package upgrade

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/loft-sh/log"
	"github.com/pkg/errors"

	versionpkg "github.com/relware/relsync/pkg/version"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Version holds the current version tag
var version string = strings.TrimPrefix(versionpkg.GetVersion(), "v")
var devVersion string = strings.TrimPrefix(versionpkg.DevVersion, "v")

var githubSlug = "relware/relsync"

// PrintNewerVersionWarning informs the user about a newer published version.
func PrintNewerVersionWarning(logger log.Logger) {
	if os.Getenv("RELSYNC_SKIP_VERSION_CHECK") != "true" {
		latestVersion := NewerVersionAvailable()
		if latestVersion != "" {
			logger.Warnf("There is a newer version of relsync: v%s. Run `relsync upgrade` to upgrade to the newest version.\n", latestVersion)
		}
	}
}

var (
	latestVersion     string
	errLatestVersion  error
	latestVersionOnce sync.Once
)

// CheckForNewerVersion checks if there is a newer version on github and returns the newer version
func CheckForNewerVersion() (string, error) {
	latestVersionOnce.Do(func() {
		latest, found, err := selfupdate.DetectLatest(githubSlug)
		if err != nil {
			errLatestVersion = err
			return
		}

		v := semver.MustParse(version)
		if !found || latest.Version.Equals(v) {
			return
		}

		latestVersion = latest.Version.String()
	})

	return latestVersion, errLatestVersion
}

// NewerVersionAvailable returns the newer published version, or an empty
// string. Development builds never report an update.
func NewerVersionAvailable() string {
	if version == devVersion {
		return ""
	}

	if version != "" {
		latestStableVersion, err := CheckForNewerVersion()
		if latestStableVersion != "" && err == nil {
			semverVersion, err := semver.Parse(version)
			if err == nil {
				semverLatestStableVersion, err := semver.Parse(latestStableVersion)
				if err == nil {
					if semverLatestStableVersion.Compare(semverVersion) == 1 {
						return latestStableVersion
					}
				}
			}
		}
	}

	return ""
}

// Upgrade downloads the latest release from github and replaces the running
// binary if a new version is found.
func Upgrade(flagVersion string, logger log.Logger) error {
	if version == devVersion {
		logger.Info("Development build, skipping self-update")
		return nil
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Filters: []string{"relsync"},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize updater: %w", err)
	}
	if flagVersion != "" {
		release, found, err := updater.DetectVersion(githubSlug, flagVersion)
		if err != nil {
			return errors.Wrap(err, "find version")
		} else if !found {
			return fmt.Errorf("relsync version %s couldn't be found", flagVersion)
		}

		cmdPath, err := os.Executable()
		if err != nil {
			return err
		}

		logger.Infof("Downloading version %s...", flagVersion)
		err = updater.UpdateTo(release, cmdPath)
		if err != nil {
			return err
		}

		logger.Donef("Successfully updated relsync to version %s", flagVersion)
		return nil
	}

	newerVersion, err := CheckForNewerVersion()
	if err != nil {
		return err
	}
	if newerVersion == "" {
		logger.Infof("Current binary is the latest version: %s", version)
		return nil
	}

	v := semver.MustParse(version)

	logger.Info("Downloading newest version...")
	latest, err := updater.UpdateSelf(v, githubSlug)
	if err != nil {
		return err
	}

	if latest.Version.Equals(v) {
		// latest version is the same as current version. It means current binary is up to date.
		logger.Infof("Current binary is the latest version: %s", version)
	} else {
		logger.Donef("Successfully updated to version %s", latest.Version)
		logger.Infof("Release note: \n\n%s", latest.ReleaseNotes)
	}

	return nil
}
