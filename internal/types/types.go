// Package types defines cross-package data structures used by the reprompt CLI.
package types

import "fmt"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"
	NodeTypeBinary    = "binary"
)

// ConfigurationError reports a fatal configuration problem such as a missing
// repository root. It aborts the whole operation before any output is produced.
type ConfigurationError struct {
	Field  string
	Detail string
	Err    error
}

// Error renders the configuration failure with its offending field.
func (configurationError *ConfigurationError) Error() string {
	if configurationError.Err != nil {
		return fmt.Sprintf("configuration %s: %s: %v", configurationError.Field, configurationError.Detail, configurationError.Err)
	}
	return fmt.Sprintf("configuration %s: %s", configurationError.Field, configurationError.Detail)
}

// Unwrap exposes the wrapped cause for errors.Is and errors.As.
func (configurationError *ConfigurationError) Unwrap() error {
	return configurationError.Err
}

// NewConfigurationError constructs a ConfigurationError for the named field.
func NewConfigurationError(fieldName string, detail string, cause error) *ConfigurationError {
	return &ConfigurationError{Field: fieldName, Detail: detail, Err: cause}
}

// SectionDefinition names a static text file and the Markdown section title
// under which its content is embedded.
type SectionDefinition struct {
	File  string `mapstructure:"file"`
	Title string `mapstructure:"title"`
}

// FileReport captures the outcome of embedding one whitelisted file.
type FileReport struct {
	RelativePath string
	AbsolutePath string
	Type         string
	SizeBytes    int64
	Tokens       int
}

// DocumentSummary aggregates information about the generated document.
type DocumentSummary struct {
	TotalFiles  int
	TotalBytes  int64
	TotalTokens int
	Model       string
}
