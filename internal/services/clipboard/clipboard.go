// Package clipboard copies generated context documents to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier is the clipboard abstraction consumed by the CLI commands.
type Copier interface {
	Copy(text string) error
}

// Service is the production Copier backed by github.com/atotto/clipboard.
type Service struct{}

// NewService returns the system clipboard service.
func NewService() *Service {
	return &Service{}
}

// Copy places text on the system clipboard.
func (service *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
