package cli

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// TestRootCommandWiring verifies the subcommands and aliases are registered.
func TestRootCommandWiring(testingHandle *testing.T) {
	rootCommand := createRootCommand(zap.NewNop())

	expectedCommands := map[string]string{
		"generate": "g",
		"tree":     "t",
		"clone":    "",
	}
	for commandName, expectedAlias := range expectedCommands {
		subCommand, _, findError := rootCommand.Find([]string{commandName})
		if findError != nil || subCommand == nil || subCommand.Name() != commandName {
			testingHandle.Fatalf("command %s not registered: %v", commandName, findError)
		}
		if expectedAlias != "" && !subCommand.HasAlias(expectedAlias) {
			testingHandle.Fatalf("command %s missing alias %s", commandName, expectedAlias)
		}
	}
	if rootCommand.PersistentFlags().Lookup("version") == nil {
		testingHandle.Fatalf("version flag not registered")
	}
}

// TestResolveConfigurationMergesExclusions verifies that flag exclusions
// extend the configured exclusion set.
func TestResolveConfigurationMergesExclusions(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	configurationPath := filepath.Join(testingHandle.TempDir(), "config.yaml")
	configurationContent := "root: " + rootDirectory + "\nexclude:\n  - vendor\n"
	if writeError := os.WriteFile(configurationPath, []byte(configurationContent), 0o644); writeError != nil {
		testingHandle.Fatalf("writing configuration: %v", writeError)
	}

	options := selectionOptions{
		configurationPath: configurationPath,
		exclusionPatterns: []string{"dist", "vendor"},
	}
	configuration, resolveError := resolveConfiguration(options, "")
	if resolveError != nil {
		testingHandle.Fatalf("resolveConfiguration error: %v", resolveError)
	}
	if len(configuration.Exclude) != 2 {
		testingHandle.Fatalf("expected merged exclusions [vendor dist], got %q", configuration.Exclude)
	}
	if configuration.Exclude[0] != "vendor" || configuration.Exclude[1] != "dist" {
		testingHandle.Fatalf("unexpected exclusion order: %q", configuration.Exclude)
	}
}

// TestGenerateCommandFlags verifies the generate command flag surface.
func TestGenerateCommandFlags(testingHandle *testing.T) {
	generateCommand := createGenerateCommand(zap.NewNop())

	for _, flagName := range []string{configFlagName, fileFlagName, exclusionFlagName, staticDirFlagName, outputFlagName, copyFlagName, tokensFlagName, modelFlagName} {
		if generateCommand.Flags().Lookup(flagName) == nil {
			testingHandle.Fatalf("generate command missing flag %s", flagName)
		}
	}
}
