// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PR0M3TH3AN/RePrompt/internal/config"
	"github.com/PR0M3TH3AN/RePrompt/internal/document"
	"github.com/PR0M3TH3AN/RePrompt/internal/gitclone"
	"github.com/PR0M3TH3AN/RePrompt/internal/services/clipboard"
	"github.com/PR0M3TH3AN/RePrompt/internal/tokenizer"
	"github.com/PR0M3TH3AN/RePrompt/internal/tree"
	"github.com/PR0M3TH3AN/RePrompt/internal/utils"
)

const (
	configFlagName    = "config"
	fileFlagName      = "file"
	fileFlagShorthand = "f"
	exclusionFlagName = "e"
	staticDirFlagName = "static-dir"
	outputFlagName    = "output"
	copyFlagName      = "copy"
	tokensFlagName    = "tokens"
	modelFlagName     = "model"
	depthFlagName     = "depth"
	versionFlagName   = "version"
	versionTemplate   = "reprompt version: %s\n"

	rootUse              = "reprompt"
	rootShortDescription = "reprompt command line interface"
	rootLongDescription  = `reprompt concatenates selected repository files and static boilerplate
into a single Markdown document for pasting into an AI assistant prompt.
It renders a whitelist directory tree, embeds file contents with
language-tagged code fences, and can copy the result to the clipboard.`

	generateUse              = "generate [root]"
	generateAlias            = "g"
	generateShortDescription = "generate the repository context document (" + generateAlias + ")"
	generateLongDescription  = `Build the full context document for a repository root.
Sections, whitelist, and exclusions come from config.yaml and flags.`
	generateUsageExample = `  # Generate repo-context.md for the current directory
  reprompt generate

  # Whitelist two files and print to stdout
  reprompt generate -f main.go -f go.mod --output - .`

	treeUse              = "tree [root]"
	treeAlias            = "t"
	treeShortDescription = "print the whitelist directory tree (" + treeAlias + ")"
	treeLongDescription  = `Render only the directory tree restricted to the whitelisted files
and the ancestor directories needed to reach them.`
	treeUsageExample = `  # Tree for the files listed in config.yaml
  reprompt tree

  # Tree for an explicit whitelist, excluding vendor
  reprompt tree -f cmd/app/main.go -e vendor .`

	cloneUse              = "clone <url> <directory>"
	cloneShortDescription = "clone a repository for context generation"
	cloneLongDescription  = `Clone a remote repository into a local directory so its files can be
whitelisted for context generation.`

	configFlagDescription    = "configuration file path"
	fileFlagDescription      = "whitelist a file relative to the repository root"
	exclusionFlagDescription = "exclude ancestor directories matching pattern"
	staticDirFlagDescription = "directory containing static section files"
	outputFlagDescription    = "output file path ('-' for stdout)"
	copyFlagDescription      = "copy the result to the system clipboard"
	tokensFlagDescription    = "include token counts"
	modelFlagDescription     = "tokenizer model to use for token counting"
	depthFlagDescription     = "clone depth (0 for full history)"
	versionFlagDescription   = "display application version"

	stdoutOutputPath         = "-"
	outputFilePermissions    = 0o644
	contextCreatedFormat     = "Context file created: %s"
	copiedToClipboardMessage = "Copied to clipboard"
	warningLogFormat         = "Warning: %s"
	errorWriteOutputFormat   = "writing output to %s: %w"
)

// Execute runs the reprompt application.
func Execute(loggerInstance *zap.Logger) error {
	rootCommand := createRootCommand(loggerInstance)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(loggerInstance *zap.Logger) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createGenerateCommand(loggerInstance),
		createTreeCommand(loggerInstance),
		createCloneCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// selectionOptions stores flag values shared by generate and tree.
type selectionOptions struct {
	configurationPath string
	selectedFiles     []string
	exclusionPatterns []string
	staticDirectory   string
}

// addSelectionFlags registers the shared whitelist and exclusion flags.
func addSelectionFlags(command *cobra.Command, options *selectionOptions) {
	command.Flags().StringVar(&options.configurationPath, configFlagName, "", configFlagDescription)
	command.Flags().StringArrayVarP(&options.selectedFiles, fileFlagName, fileFlagShorthand, nil, fileFlagDescription)
	command.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	command.Flags().StringVar(&options.staticDirectory, staticDirFlagName, "", staticDirFlagDescription)
}

// resolveConfiguration loads the configuration file and overlays flag values.
func resolveConfiguration(options selectionOptions, rootArgument string) (config.Configuration, error) {
	configuration, loadError := config.Load(config.LoadOptions{ExplicitFilePath: options.configurationPath})
	if loadError != nil {
		return config.Configuration{}, loadError
	}
	override := config.Configuration{
		Root:            rootArgument,
		Files:           options.selectedFiles,
		StaticDirectory: options.staticDirectory,
	}
	configuration = configuration.Merge(override)
	// flag exclusions extend the configured set instead of replacing it
	for _, exclusionPattern := range options.exclusionPatterns {
		if !utils.ContainsString(configuration.Exclude, exclusionPattern) {
			configuration.Exclude = append(configuration.Exclude, exclusionPattern)
		}
	}
	if validationError := configuration.Validate(); validationError != nil {
		return config.Configuration{}, validationError
	}
	return configuration, nil
}

// createGenerateCommand returns the generate subcommand.
func createGenerateCommand(loggerInstance *zap.Logger) *cobra.Command {
	var selection selectionOptions
	var outputPath string
	var copyEnabled bool
	var tokensEnabled bool
	var tokenModel string = config.DefaultTokenizerModelName

	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootArgument := ""
			if len(arguments) == 1 {
				rootArgument = arguments[0]
			}
			configuration, configurationError := resolveConfiguration(selection, rootArgument)
			if configurationError != nil {
				return configurationError
			}
			if command.Flags().Changed(outputFlagName) {
				configuration.Output = outputPath
			}
			if copyEnabled {
				configuration.Clipboard = true
			}
			if tokensEnabled {
				configuration.Tokens.Enabled = true
			}
			if command.Flags().Changed(modelFlagName) {
				configuration.Tokens.Model = tokenModel
			}
			return runGenerate(command.Context(), loggerInstance, configuration)
		},
	}

	addSelectionFlags(generateCommand, &selection)
	generateCommand.Flags().StringVar(&outputPath, outputFlagName, config.DefaultOutputFileName, outputFlagDescription)
	generateCommand.Flags().BoolVar(&copyEnabled, copyFlagName, false, copyFlagDescription)
	generateCommand.Flags().BoolVar(&tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	generateCommand.Flags().StringVar(&tokenModel, modelFlagName, config.DefaultTokenizerModelName, modelFlagDescription)
	return generateCommand
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand(loggerInstance *zap.Logger) *cobra.Command {
	var selection selectionOptions
	var copyEnabled bool

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootArgument := ""
			if len(arguments) == 1 {
				rootArgument = arguments[0]
			}
			configuration, configurationError := resolveConfiguration(selection, rootArgument)
			if configurationError != nil {
				return configurationError
			}
			return runTree(loggerInstance, configuration, copyEnabled)
		},
	}

	addSelectionFlags(treeCommand, &selection)
	treeCommand.Flags().BoolVar(&copyEnabled, copyFlagName, false, copyFlagDescription)
	return treeCommand
}

// createCloneCommand returns the clone subcommand.
func createCloneCommand() *cobra.Command {
	var cloneDepth int

	cloneCommand := &cobra.Command{
		Use:   cloneUse,
		Short: cloneShortDescription,
		Long:  cloneLongDescription,
		Args:  cobra.ExactArgs(2),
		RunE: func(command *cobra.Command, arguments []string) error {
			return gitclone.Clone(command.Context(), gitclone.Options{
				URL:         arguments[0],
				Destination: arguments[1],
				Depth:       cloneDepth,
			})
		},
	}

	cloneCommand.Flags().IntVar(&cloneDepth, depthFlagName, 0, depthFlagDescription)
	return cloneCommand
}

// runGenerate builds the context document and delivers it to the configured
// output file, stdout, and optionally the clipboard.
func runGenerate(ctx context.Context, loggerInstance *zap.Logger, configuration config.Configuration) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var tokenCounter tokenizer.Counter
	var tokenModel string
	if configuration.Tokens.Enabled {
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(configuration.Tokens.Model)
		if counterError != nil {
			return counterError
		}
		tokenCounter = createdCounter
		tokenModel = resolvedModel
	}

	generator := &document.Generator{
		Configuration: configuration,
		TokenCounter:  tokenCounter,
		TokenModel:    tokenModel,
	}
	documentText, warnings, generateError := generator.Generate(ctx)
	if generateError != nil {
		return generateError
	}
	logWarnings(loggerInstance, warnings)

	if configuration.Output == stdoutOutputPath {
		fmt.Print(documentText)
	} else {
		if writeError := os.WriteFile(configuration.Output, []byte(documentText), outputFilePermissions); writeError != nil {
			return fmt.Errorf(errorWriteOutputFormat, configuration.Output, writeError)
		}
		loggerInstance.Info(fmt.Sprintf(contextCreatedFormat, configuration.Output))
	}

	if configuration.Clipboard {
		if copyError := clipboard.NewService().Copy(documentText); copyError != nil {
			return copyError
		}
		loggerInstance.Info(copiedToClipboardMessage)
	}
	return nil
}

// runTree renders only the whitelist tree to stdout.
func runTree(loggerInstance *zap.Logger, configuration config.Configuration, copyEnabled bool) error {
	treeBuilder := &tree.Builder{
		Root:              configuration.Root,
		ExclusionPatterns: configuration.Exclude,
	}
	treeResult, treeBuildError := treeBuilder.Build(configuration.Files)
	if treeBuildError != nil {
		return treeBuildError
	}
	logWarnings(loggerInstance, treeResult.Warnings)

	renderedTree := strings.Join(treeResult.Lines, "\n") + "\n"
	fmt.Print(renderedTree)

	if copyEnabled || configuration.Clipboard {
		if copyError := clipboard.NewService().Copy(renderedTree); copyError != nil {
			return copyError
		}
		loggerInstance.Info(copiedToClipboardMessage)
	}
	return nil
}

// logWarnings reports recoverable warnings without interrupting processing.
func logWarnings(loggerInstance *zap.Logger, warnings []string) {
	for _, warningMessage := range warnings {
		loggerInstance.Warn(fmt.Sprintf(warningLogFormat, warningMessage))
	}
}
