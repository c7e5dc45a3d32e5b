package firmware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/go-github/v57/github"
	nanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/oauth2"
)

// Default upstream firmware repository.
const (
	DefaultOwner = "meshtastic"
	DefaultRepo  = "firmware"
)

// treeDirName is the directory under the client's base dir holding the
// current configuration tree.
const treeDirName = "tree"

// Client fetches firmware configuration trees from GitHub and keeps the
// local copy fresh. All methods are safe for concurrent use; Refresh
// excludes readers for the duration of the final swap only.
type Client struct {
	gh       *github.Client
	download *downloader
	owner    string
	repo     string
	baseDir  string
	logger   *slog.Logger

	mu sync.RWMutex
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	owner      string
	repo       string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// WithRepository overrides the upstream repository.
// Default is meshtastic/firmware.
func WithRepository(owner, repo string) ClientOption {
	return func(c *clientConfig) {
		c.owner = owner
		c.repo = repo
	}
}

// WithToken sets a GitHub access token. Anonymous access works but is
// rate-limited aggressively.
func WithToken(token string) ClientOption {
	return func(c *clientConfig) {
		c.token = token
	}
}

// WithHTTPClient sets the HTTP client used for API calls and downloads.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// NewClient creates a firmware client that stores trees under baseDir.
func NewClient(baseDir string, opts ...ClientOption) *Client {
	cfg := clientConfig{
		owner:  DefaultOwner,
		repo:   DefaultRepo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	httpClient := cfg.httpClient
	if cfg.token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	return &Client{
		gh:       github.NewClient(httpClient),
		download: newDownloader(cfg.httpClient),
		owner:    cfg.owner,
		repo:     cfg.repo,
		baseDir:  baseDir,
		logger:   cfg.logger,
	}
}

// Tags lists the repository's release tags, newest first as reported by
// GitHub, for the firmware-version selector.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var tags []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := c.gh.Repositories.ListTags(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list tags for %s/%s: %w", c.owner, c.repo, err)
		}
		for _, tag := range page {
			tags = append(tags, tag.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return tags, nil
}

// DefaultBranch returns the repository's default branch name, the ref used
// when no explicit firmware version is selected.
func (c *Client) DefaultBranch(ctx context.Context) (string, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, c.owner, c.repo)
	if err != nil {
		return "", fmt.Errorf("get repository %s/%s: %w", c.owner, c.repo, err)
	}
	return repo.GetDefaultBranch(), nil
}

// Refresh downloads the source archive for ref and atomically replaces
// the local configuration tree with its .ini files. In-flight Snapshot
// readers finish against the old tree before the swap.
func (c *Client) Refresh(ctx context.Context, ref string) error {
	opID, err := nanoid.New()
	if err != nil {
		return fmt.Errorf("generate refresh id: %w", err)
	}
	logger := c.logger.With("op", opID, "ref", ref)
	logger.Info("refreshing firmware tree")

	url, _, err := c.gh.Repositories.GetArchiveLink(ctx, c.owner, c.repo, github.Tarball,
		&github.RepositoryContentGetOptions{Ref: ref}, 3)
	if err != nil {
		return fmt.Errorf("resolve archive link for %s: %w", ref, err)
	}

	archive, err := c.download.fetch(ctx, url.String())
	if err != nil {
		return err
	}
	defer archive.Close()

	staging := filepath.Join(c.baseDir, treeDirName+".staging-"+opID)
	defer os.RemoveAll(staging)

	written, err := extractConfigTree(archive, staging)
	if err != nil {
		return fmt.Errorf("extract archive for %s: %w", ref, err)
	}
	logger.Info("extracted configuration files", "files", written)

	return c.swap(staging)
}

// swap moves a staged tree into place.
func (c *Client) swap(staging string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := filepath.Join(c.baseDir, treeDirName)
	if err := os.RemoveAll(current); err != nil {
		return fmt.Errorf("remove previous tree: %w", err)
	}
	if err := os.Rename(staging, current); err != nil {
		return fmt.Errorf("install new tree: %w", err)
	}
	return nil
}

// TreeDir returns the path of the current configuration tree.
func (c *Client) TreeDir() string {
	return filepath.Join(c.baseDir, treeDirName)
}

// Snapshot runs fn against the current tree root while holding off
// concurrent refreshes, so a resolution pass never races a tree swap.
// It returns ErrNoTree when nothing has been fetched yet.
func (c *Client) Snapshot(fn func(root string) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	root := c.TreeDir()
	if _, err := os.Stat(root); err != nil {
		return ErrNoTree
	}
	return fn(root)
}
