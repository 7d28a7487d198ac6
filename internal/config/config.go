// Package config loads and validates the typed reprompt configuration.
// Configuration is resolved once at the program boundary and passed down as a
// value; nothing reads ambient global state.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/PR0M3TH3AN/RePrompt/internal/types"
	"github.com/PR0M3TH3AN/RePrompt/internal/utils"
)

const (
	// ConfigFileName is the default configuration file looked up in the working directory.
	ConfigFileName = "config.yaml"

	// DefaultOutputFileName is the generated context document name.
	DefaultOutputFileName = "repo-context.md"
	// DefaultStaticDirectoryName holds the static boilerplate text files.
	DefaultStaticDirectoryName = "static_files"
	// DefaultTokenizerModelName selects the tokenizer used for token counting.
	DefaultTokenizerModelName = "gpt-4o"

	// defaultOverviewFileName and defaultOverviewSectionTitle describe the leading static section.
	defaultOverviewFileName     = "overview.txt"
	defaultOverviewSectionTitle = "Overview"
	// defaultImportantInfoFileName and defaultImportantInfoSectionTitle describe the second static section.
	defaultImportantInfoFileName     = "important_info.txt"
	defaultImportantInfoSectionTitle = "Important Information"
	// defaultTodoFileName and defaultTodoSectionTitle describe the trailing to-do section.
	defaultTodoFileName     = "to-do_list.txt"
	defaultTodoSectionTitle = "To-Do List"
)

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled bool   `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// Configuration is the validated, explicit configuration consumed by every
// command. Field semantics follow the configuration file keys.
type Configuration struct {
	Root            string                    `mapstructure:"root"`
	Output          string                    `mapstructure:"output"`
	Files           []string                  `mapstructure:"files"`
	Exclude         []string                  `mapstructure:"exclude"`
	StaticDirectory string                    `mapstructure:"static_dir"`
	Sections        []types.SectionDefinition `mapstructure:"sections"`
	Todo            types.SectionDefinition   `mapstructure:"todo"`
	Clipboard       bool                      `mapstructure:"clipboard"`
	Tokens          TokenConfiguration        `mapstructure:"tokens"`
}

// LoadOptions controls how the configuration file is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// DefaultConfiguration returns the configuration applied when no file or flag
// overrides a field. The defaults mirror the canonical config.yaml layout.
func DefaultConfiguration() Configuration {
	return Configuration{
		Root:            ".",
		Output:          DefaultOutputFileName,
		StaticDirectory: DefaultStaticDirectoryName,
		Sections: []types.SectionDefinition{
			{File: defaultOverviewFileName, Title: defaultOverviewSectionTitle},
			{File: defaultImportantInfoFileName, Title: defaultImportantInfoSectionTitle},
		},
		Todo:   types.SectionDefinition{File: defaultTodoFileName, Title: defaultTodoSectionTitle},
		Tokens: TokenConfiguration{Model: DefaultTokenizerModelName},
	}
}

// Load reads the configuration file and overlays it onto the defaults. A
// missing default file yields the defaults; a missing explicit file is an
// error because the caller asked for that exact path.
func Load(options LoadOptions) (Configuration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return Configuration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	configurationPath, explicitPathRequested := resolveConfigurationPath(workingDirectory, options.ExplicitFilePath)

	merged := DefaultConfiguration()

	fileInfo, statError := os.Stat(configurationPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			if explicitPathRequested {
				return Configuration{}, types.NewConfigurationError("config", fmt.Sprintf("configuration file %s not found", configurationPath), statError)
			}
			return merged, nil
		}
		return Configuration{}, fmt.Errorf("stat configuration %s: %w", configurationPath, statError)
	}
	if fileInfo.IsDir() {
		return Configuration{}, types.NewConfigurationError("config", fmt.Sprintf("configuration path %s is a directory", configurationPath), nil)
	}

	reader := viper.New()
	reader.SetConfigFile(configurationPath)
	if readError := reader.ReadInConfig(); readError != nil {
		return Configuration{}, fmt.Errorf("read configuration from %s: %w", configurationPath, readError)
	}

	var loaded Configuration
	if decodeError := reader.Unmarshal(&loaded); decodeError != nil {
		return Configuration{}, fmt.Errorf("decode configuration from %s: %w", configurationPath, decodeError)
	}

	merged = merged.Merge(loaded)
	return merged, nil
}

// resolveConfigurationPath returns the configuration file path and whether it
// was requested explicitly.
func resolveConfigurationPath(workingDirectory string, explicitPath string) (string, bool) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, true
		}
		return filepath.Join(workingDirectory, explicitPath), true
	}
	return filepath.Join(workingDirectory, ConfigFileName), false
}

// Merge overlays non-zero fields of override onto the receiver and returns the
// combined configuration.
func (configuration Configuration) Merge(override Configuration) Configuration {
	result := configuration
	if override.Root != "" {
		result.Root = override.Root
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if len(override.Files) > 0 {
		result.Files = append([]string{}, override.Files...)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.StaticDirectory != "" {
		result.StaticDirectory = override.StaticDirectory
	}
	if len(override.Sections) > 0 {
		result.Sections = append([]types.SectionDefinition{}, override.Sections...)
	}
	if override.Todo.File != "" {
		result.Todo = override.Todo
	}
	if override.Clipboard {
		result.Clipboard = true
	}
	if override.Tokens.Enabled {
		result.Tokens.Enabled = true
	}
	if override.Tokens.Model != "" {
		result.Tokens.Model = override.Tokens.Model
	}
	return result
}

// Validate checks the configuration once at the boundary. The repository root
// must exist and be a directory; exclusion patterns are deduplicated.
func (configuration *Configuration) Validate() error {
	absoluteRootPath, absolutePathError := filepath.Abs(configuration.Root)
	if absolutePathError != nil {
		return types.NewConfigurationError("root", fmt.Sprintf("resolving %s", configuration.Root), absolutePathError)
	}
	rootInfo, rootStatError := os.Stat(absoluteRootPath)
	if rootStatError != nil {
		return types.NewConfigurationError("root", fmt.Sprintf("repository root %s does not exist", configuration.Root), rootStatError)
	}
	if !rootInfo.IsDir() {
		return types.NewConfigurationError("root", fmt.Sprintf("repository root %s is not a directory", configuration.Root), nil)
	}
	configuration.Root = absoluteRootPath
	configuration.Exclude = utils.DeduplicatePatterns(configuration.Exclude)
	return nil
}
