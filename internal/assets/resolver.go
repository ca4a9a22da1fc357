package assets

import "errors"

// Resolver tries a custom filesystem loader first (when configured)
// and falls back to the embedded assets on not-found.
type Resolver struct {
	custom   Loader // nil when no custom path configured
	embedded Loader
}

// NewResolver creates a Resolver. An empty customBasePath uses only
// embedded assets.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// LoadStyle loads a stylesheet, custom-first.
func (r *Resolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(l Loader) (string, error) {
		return l.LoadStyle(name)
	})
}

// LoadCover loads a cover template, custom-first.
func (r *Resolver) LoadCover(name string) (string, error) {
	return r.loadWithFallback(func(l Loader) (string, error) {
		return l.LoadCover(name)
	})
}

// loadWithFallback falls back to embedded only on not-found errors;
// validation and I/O errors surface immediately.
func (r *Resolver) loadWithFallback(loadFn func(Loader) (string, error)) (string, error) {
	if r.custom == nil {
		return loadFn(r.embedded)
	}
	content, err := loadFn(r.custom)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, ErrStyleNotFound) && !errors.Is(err, ErrCoverNotFound) {
		return "", err
	}
	return loadFn(r.embedded)
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
