package updater

import (
	"context"
	"crypto"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	update "github.com/inconshreveable/go-update"
)

// DefaultBaseURL is where release manifests and binaries are published.
const DefaultBaseURL = "https://releases.hfdetect.dev"

const downloadTimeout = 5 * time.Minute

// Client performs self-updates of the running binary.
type Client struct {
	BaseURL string
	Store   *Store
	HTTP    *http.Client

	// CurrentVersion is the running build's version string; updates to the
	// same version are skipped.
	CurrentVersion string

	// execPath overrides the resolved executable path in tests.
	execPath string
}

// Result describes what an Update call did.
type Result struct {
	Updated     bool
	FromVersion string
	ToVersion   string
	Channel     string
	BackupPath  string
}

// Update checks the configured channel for a newer release and applies it in
// place. The previous binary is kept next to the config so Rollback can
// restore it. A failing beta update falls back to the stable channel before
// giving up.
func (c *Client) Update(ctx context.Context) (Result, error) {
	cfg, err := c.Store.Load()
	if err != nil {
		return Result{}, err
	}
	res, err := c.updateFromChannel(ctx, cfg, cfg.Channel)
	if err != nil && cfg.Channel == ChannelBeta {
		stableRes, stableErr := c.updateFromChannel(ctx, cfg, ChannelStable)
		if stableErr == nil {
			return stableRes, nil
		}
		return Result{}, fmt.Errorf("beta update failed (%v); stable fallback also failed: %w", err, stableErr)
	}
	return res, err
}

func (c *Client) updateFromChannel(ctx context.Context, cfg Config, channel string) (Result, error) {
	manifest, err := FetchManifest(ctx, c.HTTP, c.baseURL(), channel)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		FromVersion: c.CurrentVersion,
		ToVersion:   manifest.Version,
		Channel:     channel,
	}
	if manifest.Version == c.CurrentVersion {
		return res, nil
	}

	build, ok := manifest.BuildFor(runtime.GOOS, runtime.GOARCH)
	if !ok {
		return Result{}, fmt.Errorf("release %s has no build for %s/%s", manifest.Version, runtime.GOOS, runtime.GOARCH)
	}
	checksum, err := DecodeHex(build.Full.SHA256)
	if err != nil {
		return Result{}, err
	}

	target, err := c.resolveExecPath()
	if err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(c.Store.Dir(), 0o755); err != nil {
		return Result{}, fmt.Errorf("create backup dir: %w", err)
	}
	backup := filepath.Join(c.Store.Dir(), "hfdetect.previous")

	opts := update.Options{
		TargetPath:  target,
		TargetMode:  0o755,
		Checksum:    checksum,
		Hash:        crypto.SHA256,
		OldSavePath: backup,
	}
	if err := opts.CheckPermissions(); err != nil {
		return Result{}, fmt.Errorf("insufficient permissions to update %s: %w", target, err)
	}

	body, err := c.download(ctx, build.Full.URL)
	if err != nil {
		return Result{}, err
	}
	defer body.Close()

	if err := update.Apply(body, opts); err != nil {
		if rerr := update.RollbackError(err); rerr != nil {
			return Result{}, fmt.Errorf("update failed and rollback failed, binary may be corrupt at %s: %w", target, rerr)
		}
		return Result{}, fmt.Errorf("apply update: %w", err)
	}

	cfg.PreviousVersion = c.CurrentVersion
	cfg.LastAppliedVersion = manifest.Version
	cfg.BackupPath = backup
	cfg.LastAppliedAt = time.Now().UTC()
	if err := c.Store.Save(cfg); err != nil {
		return Result{}, fmt.Errorf("update applied but recording it failed: %w", err)
	}

	res.Updated = true
	res.BackupPath = backup
	return res, nil
}

// Rollback restores the binary saved by the last successful Update.
func (c *Client) Rollback() (Result, error) {
	cfg, err := c.Store.Load()
	if err != nil {
		return Result{}, err
	}
	if cfg.BackupPath == "" {
		return Result{}, fmt.Errorf("no previous binary recorded to roll back to")
	}
	backup, err := os.Open(cfg.BackupPath)
	if err != nil {
		return Result{}, fmt.Errorf("open backup: %w", err)
	}
	defer backup.Close()

	target, err := c.resolveExecPath()
	if err != nil {
		return Result{}, err
	}
	opts := update.Options{TargetPath: target, TargetMode: 0o755}
	if err := update.Apply(backup, opts); err != nil {
		return Result{}, fmt.Errorf("restore previous binary: %w", err)
	}

	res := Result{
		Updated:     true,
		FromVersion: cfg.LastAppliedVersion,
		ToVersion:   cfg.PreviousVersion,
		Channel:     cfg.Channel,
	}
	cfg.LastAppliedVersion = cfg.PreviousVersion
	cfg.PreviousVersion = ""
	cfg.BackupPath = ""
	if err := c.Store.Save(cfg); err != nil {
		return res, fmt.Errorf("rollback applied but recording it failed: %w", err)
	}
	return res, nil
}

func (c *Client) baseURL() string {
	if strings.TrimSpace(c.BaseURL) != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) resolveExecPath() (string, error) {
	if c.execPath != "" {
		return c.execPath, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve executable symlink: %w", err)
	}
	return resolved, nil
}

func (c *Client) download(ctx context.Context, url string) (io.ReadCloser, error) {
	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "hfdetect-updater")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s downloading %s", resp.Status, url)
	}
	return resp.Body, nil
}
