// Package gitclone clones remote repositories so their contents can be used
// for context generation.
package gitclone

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
)

const (
	// errorDestinationExistsFormat reports an already-populated destination.
	errorDestinationExistsFormat = "destination %s already exists"
	// errorCloneFormat reports a failed clone.
	errorCloneFormat = "cloning %s into %s: %w"
)

// Options configures a repository clone.
type Options struct {
	URL         string
	Destination string
	Depth       int
}

// Clone performs a plain clone of the repository at options.URL into
// options.Destination. An existing destination is refused so a previously
// cloned repository is never overwritten.
func Clone(ctx context.Context, options Options) error {
	if _, statError := os.Stat(options.Destination); statError == nil {
		return fmt.Errorf(errorDestinationExistsFormat, options.Destination)
	}

	cloneOptions := &git.CloneOptions{
		URL:      options.URL,
		Depth:    options.Depth,
		Progress: os.Stderr,
	}
	if _, cloneError := git.PlainCloneContext(ctx, options.Destination, false, cloneOptions); cloneError != nil {
		return fmt.Errorf(errorCloneFormat, options.URL, options.Destination, cloneError)
	}
	return nil
}
