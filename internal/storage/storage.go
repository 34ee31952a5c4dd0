package storage

import (
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"

	"beatfolio/internal/logging"
)

// Namespaces under the public root.
const (
	CoversNamespace = "covers"
	AudioNamespace  = "audio"
)

// PublicDisk persists uploaded assets under a public root and returns
// URL paths for them. When a mirror directory is configured and exists as
// a real directory (not a symlink), every write is duplicated there;
// this covers hosts where a symlinked public storage dir is unsupported.
type PublicDisk struct {
	root      string
	baseURL   string
	mirrorDir string
}

// NewPublicDisk creates a public disk rooted at root. baseURL is the URL
// prefix returned for stored assets, typically "/storage".
func NewPublicDisk(root, baseURL, mirrorDir string) *PublicDisk {
	return &PublicDisk{
		root:      root,
		baseURL:   baseURL,
		mirrorDir: mirrorDir,
	}
}

// Save writes data under namespace/filename and returns the public URL
// path. Mirroring failure is fatal: a half-mirrored asset would serve from
// one host and 404 from the other.
func (d *PublicDisk) Save(namespace, filename string, data []byte) (string, error) {
	dir := filepath.Join(d.root, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create storage directory")
	}

	target := filepath.Join(dir, filename)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", errors.Wrap(err, "write asset")
	}

	if err := d.mirror(namespace, filename, data); err != nil {
		return "", err
	}

	return path.Join(d.baseURL, namespace, filename), nil
}

// mirror duplicates the asset into the mirror directory when that path is
// a real directory. A symlink (or absent path) skips mirroring entirely.
func (d *PublicDisk) mirror(namespace, filename string, data []byte) error {
	if d.mirrorDir == "" {
		return nil
	}

	info, err := os.Lstat(d.mirrorDir)
	if err != nil || !info.IsDir() {
		// Lstat does not follow symlinks, so a symlinked mirror path
		// reports as non-directory and is skipped.
		logging.Debugf("Mirror path %s not a real directory, skipping mirror", d.mirrorDir)
		return nil
	}

	dir := filepath.Join(d.mirrorDir, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create mirror directory")
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return errors.Wrap(err, "write mirror asset")
	}

	return nil
}

// Root returns the public root directory.
func (d *PublicDisk) Root() string {
	return d.root
}
