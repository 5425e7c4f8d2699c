package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tmm/internal/domain"
	"tmm/internal/fsutil"
	"tmm/internal/loader"
	"tmm/internal/logging"
	"tmm/internal/profile"
	"tmm/internal/storage/cache"
)

// Hooks let the caller interleave profile state mutation with the
// engine's file work while keeping locking and persistence on its side.
type Hooks struct {
	// BeforePlace runs after a step's archive is fetched but before its
	// files are placed. Update steps use it to remove the version being
	// replaced, which shares the new version's directories.
	BeforePlace func(step Step) error
	// Commit records a completed step into profile state.
	Commit func(step Step) error
}

// Installer executes install plans: cache lookup, download, extraction,
// layout normalization and placement into the profile tree. Plans run
// strictly sequentially; a failed step halts the remainder but completed
// steps stay installed.
type Installer struct {
	cache      *cache.Cache
	downloader *Downloader
	extractor  *Extractor
	cancel     *CancelToken
	progress   *ProgressBroadcaster
}

// NewInstaller creates an installer around the shared cache, cancel token
// and progress broadcaster.
func NewInstaller(c *cache.Cache, d *Downloader, cancel *CancelToken, progress *ProgressBroadcaster) *Installer {
	return &Installer{
		cache:      c,
		downloader: d,
		extractor:  NewExtractor(),
		cancel:     cancel,
		progress:   progress,
	}
}

// Run executes a plan against the profile. Each step is fetched (cache or
// network), placed into the profile tree, then committed via commit. The
// error of a failed step is annotated with the mod it belonged to.
func (i *Installer) Run(ctx context.Context, plan Plan, prof *profile.Profile, hooks Hooks) error {
	log := logging.GetLogger("installer")

	var totalBytes, completedBytes int64
	for _, step := range plan.Steps {
		totalBytes += step.Mod.Version.FileSize
	}

	for index, step := range plan.Steps {
		fullName := step.Mod.Package.FullName()

		publish := func(task TaskKind, dlTotal, dlDone int64) {
			var fraction float64
			if totalBytes > 0 {
				fraction = float64(completedBytes+dlDone) / float64(totalBytes)
			}
			i.progress.Publish(InstallProgress{
				Task:          task,
				CurrentName:   fullName,
				TotalProgress: fraction,
				InstalledMods: index,
				TotalMods:     len(plan.Steps),
				TotalBytes:    dlTotal,
				Downloaded:    dlDone,
			})
		}

		if err := i.installStep(ctx, step, prof, hooks, publish); err != nil {
			publish(TaskError, 0, 0)
			return fmt.Errorf("installing %s: %w", step.Mod.Version.FullName, err)
		}

		if err := hooks.Commit(step); err != nil {
			publish(TaskError, 0, 0)
			return fmt.Errorf("recording %s: %w", step.Mod.Version.FullName, err)
		}

		completedBytes += step.Mod.Version.FileSize
		log.Info().
			Str("mod", step.Mod.Version.FullName).
			Str("profile", prof.Name).
			Msg("installed mod")
	}

	i.progress.Publish(InstallProgress{
		Task:          TaskDone,
		TotalProgress: 1,
		InstalledMods: len(plan.Steps),
		TotalMods:     len(plan.Steps),
	})
	return nil
}

func (i *Installer) installStep(ctx context.Context, step Step, prof *profile.Profile, hooks Hooks, publish func(TaskKind, int64, int64)) error {
	// The downloader polls the token per chunk, but cache-hit steps never
	// reach it, so check at the step boundary too.
	if i.cancel.Cancelled() {
		return domain.ErrCancelled
	}

	fullName := step.Mod.Package.FullName()
	version := step.Mod.Version.VersionNumber

	if !i.cache.Exists(fullName, version) {
		if err := i.fetch(ctx, step, prof.Loader, publish); err != nil {
			return err
		}
	}

	if hooks.BeforePlace != nil {
		if err := hooks.BeforePlace(step); err != nil {
			return err
		}
	}

	publish(TaskInstalling, 0, 0)
	return i.place(prof, fullName, i.cache.Path(fullName, version))
}

// fetch downloads and extracts a mod archive into the cache. Any failure,
// including cancellation, removes the cache entry so no partial artifact
// is ever reused.
func (i *Installer) fetch(ctx context.Context, step Step, kind loader.Kind, publish func(TaskKind, int64, int64)) error {
	fullName := step.Mod.Package.FullName()
	version := step.Mod.Version.VersionNumber

	publish(TaskDownloading, step.Mod.Version.FileSize, 0)

	archive, err := os.CreateTemp("", "tmm-download-*.zip")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	archivePath := archive.Name()
	archive.Close()
	defer os.Remove(archivePath)

	err = i.downloader.Download(ctx, step.Mod.Version.DownloadURL, archivePath, i.cancel, func(total, downloaded int64) {
		publish(TaskDownloading, total, downloaded)
	})
	if err != nil {
		return err
	}

	publish(TaskExtracting, 0, 0)

	dir, err := i.cache.Prepare(fullName, version)
	if err != nil {
		return err
	}
	if err := i.extractor.Extract(archivePath, dir); err != nil {
		_ = i.cache.Delete(fullName, version)
		return err
	}
	if err := i.extractor.Normalize(dir, kind); err != nil {
		_ = i.cache.Delete(fullName, version)
		return err
	}

	return nil
}

// place copies a cached mod into the profile tree following the loader's
// subdir rules. The loader's own package bypasses the rule table and
// installs at the profile root.
func (i *Installer) place(prof *profile.Profile, fullName, cacheDir string) error {
	if prof.Loader.IsLoaderPackage(fullName) {
		return i.placeLoaderPackage(prof, cacheDir)
	}
	return i.placeWithRules(prof, fullName, cacheDir)
}

func (i *Installer) placeWithRules(prof *profile.Profile, fullName, cacheDir string) error {
	kind := prof.Loader
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cacheDir, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(cacheDir, entry.Name())

		if entry.IsDir() {
			if err := i.placeDir(prof, kind, fullName, srcPath, entry.Name()); err != nil {
				return err
			}
			continue
		}

		if isIgnoredFile(kind, entry.Name()) {
			continue
		}
		if err := i.placeFile(prof, kind, fullName, srcPath, entry.Name()); err != nil {
			return err
		}
	}

	return nil
}

func (i *Installer) placeDir(prof *profile.Profile, kind loader.Kind, fullName, srcPath, name string) error {
	sub, ok := kind.MatchSubdir(name)
	if !ok {
		// Unknown directories land inside the mod's folder under the
		// catch-all subdir.
		sub = kind.DefaultSubdir()
		dst := filepath.Join(prof.Path, filepath.FromSlash(sub.Target), fullName, name)
		return fsutil.CopyDir(srcPath, dst)
	}

	target := filepath.Join(prof.Path, filepath.FromSlash(sub.Target))

	switch sub.Mode {
	case loader.ModeTrack, loader.ModeUntracked:
		return fsutil.CopyDir(srcPath, target)
	case loader.ModeSeparateFlatten:
		return fsutil.CopyDir(flattenOnce(srcPath), filepath.Join(target, fullName))
	default: // ModeSeparate
		return fsutil.CopyDir(srcPath, filepath.Join(target, fullName))
	}
}

func (i *Installer) placeFile(prof *profile.Profile, kind loader.Kind, fullName, srcPath, name string) error {
	sub, ok := kind.MatchSubdir(name)
	if !ok {
		sub = kind.DefaultSubdir()
	}

	target := filepath.Join(prof.Path, filepath.FromSlash(sub.Target))
	if sub.Mode == loader.ModeTrack || sub.Mode == loader.ModeUntracked {
		return fsutil.CopyFile(srcPath, filepath.Join(target, name))
	}
	return fsutil.CopyFile(srcPath, filepath.Join(target, fullName, name))
}

// placeLoaderPackage installs the mod loader's own distribution:
// directories are merged at the profile root and top-level files (the
// injector binaries and doorstop config) are copied beside where the game
// executable will look for them.
func (i *Installer) placeLoaderPackage(prof *profile.Profile, cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cacheDir, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(cacheDir, entry.Name())

		if entry.IsDir() {
			if err := fsutil.CopyDir(srcPath, filepath.Join(prof.Path, entry.Name())); err != nil {
				return err
			}
			continue
		}

		if isIgnoredFile(prof.Loader, entry.Name()) {
			continue
		}
		if err := fsutil.CopyFile(srcPath, filepath.Join(prof.Path, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

// flattenOnce returns dir's sole subdirectory when dir contains nothing
// else, stripping one level of packaging nesting; otherwise dir itself.
func flattenOnce(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 || !entries[0].IsDir() {
		return dir
	}
	return filepath.Join(dir, entries[0].Name())
}

func isIgnoredFile(kind loader.Kind, name string) bool {
	for _, ignored := range kind.IgnoredFiles() {
		if strings.EqualFold(name, ignored) {
			return true
		}
	}
	return false
}
