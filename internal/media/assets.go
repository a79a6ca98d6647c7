package media

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
)

var (
	ErrOutsideRoot      = errors.New("asset is outside the assets root")
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// AssetResolver maps local image references to files under a root directory.
type AssetResolver struct {
	root string
}

func NewAssetResolver(root string) (*AssetResolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &AssetResolver{root: abs}, nil
}

func (a *AssetResolver) Root() string {
	return a.root
}

// Resolve returns the absolute path for ref. Relative references are taken
// from the root; absolute ones (including file:// URIs) must point inside it.
func (a *AssetResolver) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)

	if strings.HasPrefix(strings.ToLower(ref), "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", err
		}
		ref = u.Path
	}

	var path string
	if filepath.IsAbs(ref) {
		path = filepath.Clean(ref)
	} else {
		path = filepath.Join(a.root, filepath.FromSlash(ref))
	}

	rel, err := filepath.Rel(a.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}

	if !IsSupportedImage(path) {
		return "", ErrUnsupportedImage
	}

	return path, nil
}
