package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// FileBackend stores assets on a filesystem rooted at a single directory.
// URIs use the backend name as a scheme ("public://logo.png") so a
// reference carries which backend holds the bytes. PublicURL is only set
// when the backend has a URL prefix it is served under; a private backend
// leaves it empty.
type FileBackend struct {
	name      string
	fs        afero.Fs
	urlPrefix string
}

var _ Backend = (*FileBackend)(nil)

// NewFileBackend returns a backend writing beneath root on the OS
// filesystem.
func NewFileBackend(name, root, urlPrefix string) *FileBackend {
	return NewFileBackendWithFs(name,
		afero.NewBasePathFs(afero.NewOsFs(), root), urlPrefix)
}

// NewFileBackendWithFs is the injectable constructor used in tests.
func NewFileBackendWithFs(name string, fs afero.Fs, urlPrefix string) *FileBackend {
	return &FileBackend{name: name, fs: fs, urlPrefix: urlPrefix}
}

func (b *FileBackend) Name() string { return b.name }

// Fs exposes the underlying filesystem so the standalone server can serve
// public assets over HTTP.
func (b *FileBackend) Fs() afero.Fs { return b.fs }

func (b *FileBackend) Write(ctx context.Context, name string, r io.Reader) (*StoredAsset, error) {
	fname, err := cleanAssetName(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Keep the declared filename but never clobber an existing asset:
	// concurrent uploads of the same name get distinct files.
	target := fname
	if exists, err := afero.Exists(b.fs, target); err != nil {
		return nil, fmt.Errorf("error probing %q: %w", target, err)
	} else if exists {
		target = dedupeName(fname)
	}

	if err := afero.WriteReader(b.fs, target, r); err != nil {
		return nil, fmt.Errorf("error writing %q: %w", target, err)
	}

	info, err := b.fs.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("error stating %q: %w", target, err)
	}

	asset := &StoredAsset{
		ID:      uuid.New(),
		Name:    fname,
		Backend: b.name,
		URI:     fmt.Sprintf("%s://%s", b.name, target),
		Size:    info.Size(),
	}
	if b.urlPrefix != "" {
		asset.PublicURL = strings.TrimSuffix(b.urlPrefix, "/") + "/" + target
	}
	return asset, nil
}

func (b *FileBackend) Remove(_ context.Context, uri string) error {
	target := strings.TrimPrefix(uri, b.name+"://")
	if target == uri || target == "" {
		return fmt.Errorf("uri %q does not belong to backend %q", uri, b.name)
	}
	return b.fs.Remove(target)
}

// cleanAssetName reduces a declared filename to a bare base name and
// rejects anything that could escape the backend root. Upload names come
// straight from the client and are never trusted as paths.
func cleanAssetName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	if base == "" || base == "." || base == ".." || base == "/" {
		return "", fmt.Errorf("invalid asset name %q", name)
	}
	return base, nil
}

// dedupeName inserts a short random suffix before the extension.
func dedupeName(name string) string {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s-%s%s", stem, uuid.New().String()[:8], ext)
}
