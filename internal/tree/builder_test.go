package tree_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/PR0M3TH3AN/RePrompt/internal/tree"
	"github.com/PR0M3TH3AN/RePrompt/internal/types"
)

const (
	nestedFilePath  = "a/b/c.txt"
	siblingFilePath = "a/d.txt"
	missingFilePath = "a/ghost.txt"
)

// writeRepositoryFile creates the file and its parent directories under root.
func writeRepositoryFile(testingHandle *testing.T, rootDirectory string, relativePath string) {
	testingHandle.Helper()
	absolutePath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
	if makeDirError := os.MkdirAll(filepath.Dir(absolutePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir for %s: %v", relativePath, makeDirError)
	}
	if writeError := os.WriteFile(absolutePath, []byte("content"), 0o644); writeError != nil {
		testingHandle.Fatalf("write %s: %v", relativePath, writeError)
	}
}

// assertLines compares rendered lines against the expectation.
func assertLines(testingHandle *testing.T, actualLines []string, expectedLines []string) {
	testingHandle.Helper()
	if len(actualLines) != len(expectedLines) {
		testingHandle.Fatalf("expected %d lines, got %d: %q", len(expectedLines), len(actualLines), actualLines)
	}
	for lineIndex, expectedLine := range expectedLines {
		if actualLines[lineIndex] != expectedLine {
			testingHandle.Fatalf("line %d: expected %q, got %q", lineIndex, expectedLine, actualLines[lineIndex])
		}
	}
}

// TestBuildNestedWhitelist verifies depth, ordering, and connector rendering
// for a nested whitelist without exclusions.
func TestBuildNestedWhitelist(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeRepositoryFile(testingHandle, rootDirectory, nestedFilePath)
	writeRepositoryFile(testingHandle, rootDirectory, siblingFilePath)

	builder := &tree.Builder{Root: rootDirectory}
	result, buildError := builder.Build([]string{nestedFilePath, siblingFilePath})
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(result.Warnings) != 0 {
		testingHandle.Fatalf("unexpected warnings: %q", result.Warnings)
	}
	assertLines(testingHandle, result.Lines, []string{
		".",
		"    ├── a/",
		"        ├── b/",
		"            ├── c.txt",
		"        ├── d.txt",
	})
}

// TestBuildEmptyWhitelist verifies the root-only tree and its warning.
func TestBuildEmptyWhitelist(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()

	builder := &tree.Builder{Root: rootDirectory}
	result, buildError := builder.Build(nil)
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	assertLines(testingHandle, result.Lines, []string{"."})
	if len(result.Warnings) != 1 {
		testingHandle.Fatalf("expected one warning, got %q", result.Warnings)
	}
}

// TestBuildMissingRoot verifies the fatal configuration error.
func TestBuildMissingRoot(testingHandle *testing.T) {
	missingRoot := filepath.Join(testingHandle.TempDir(), "does-not-exist")

	builder := &tree.Builder{Root: missingRoot}
	_, buildError := builder.Build([]string{nestedFilePath})
	if buildError == nil {
		testingHandle.Fatalf("expected error for missing root")
	}
	var configurationError *types.ConfigurationError
	if !errors.As(buildError, &configurationError) {
		testingHandle.Fatalf("expected ConfigurationError, got %v", buildError)
	}
}

// TestBuildMissingSelectedFile verifies that missing whitelist entries are
// dropped with exactly one warning while siblings still render.
func TestBuildMissingSelectedFile(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeRepositoryFile(testingHandle, rootDirectory, siblingFilePath)

	builder := &tree.Builder{Root: rootDirectory}
	result, buildError := builder.Build([]string{missingFilePath, siblingFilePath})
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(result.Warnings) != 1 {
		testingHandle.Fatalf("expected one warning, got %q", result.Warnings)
	}
	assertLines(testingHandle, result.Lines, []string{
		".",
		"    ├── a/",
		"        ├── d.txt",
	})
}

// TestBuildExclusionStopsClimb verifies the match-and-stop rule: the matched
// ancestor is pruned, the file attaches to its nearest kept ancestor, and the
// sibling chain is unaffected.
func TestBuildExclusionStopsClimb(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeRepositoryFile(testingHandle, rootDirectory, nestedFilePath)
	writeRepositoryFile(testingHandle, rootDirectory, siblingFilePath)

	builder := &tree.Builder{Root: rootDirectory, ExclusionPatterns: []string{"b"}}
	result, buildError := builder.Build([]string{nestedFilePath, siblingFilePath})
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	assertLines(testingHandle, result.Lines, []string{
		".",
		"    ├── a/",
		"        ├── c.txt",
		"        ├── d.txt",
	})
}

// TestBuildExclusionKeepsNearerAncestors verifies that ancestors collected
// before the exclusion match remain kept.
func TestBuildExclusionKeepsNearerAncestors(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeRepositoryFile(testingHandle, rootDirectory, "a/b/c/deep.txt")

	builder := &tree.Builder{Root: rootDirectory, ExclusionPatterns: []string{"b"}}
	result, buildError := builder.Build([]string{"a/b/c/deep.txt"})
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	assertLines(testingHandle, result.Lines, []string{
		".",
		"    ├── c/",
		"        ├── deep.txt",
	})
}

// TestBuildGlobExclusion verifies glob-style exclusion patterns.
func TestBuildGlobExclusion(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeRepositoryFile(testingHandle, rootDirectory, "node_modules/pkg/index.js")
	writeRepositoryFile(testingHandle, rootDirectory, "src/main.js")

	builder := &tree.Builder{Root: rootDirectory, ExclusionPatterns: []string{"node_*"}}
	result, buildError := builder.Build([]string{"node_modules/pkg/index.js", "src/main.js"})
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	assertLines(testingHandle, result.Lines, []string{
		".",
		"    ├── pkg/",
		"        ├── index.js",
		"    ├── src/",
		"        ├── main.js",
	})
}

// TestBuildDirectoriesBeforeFiles verifies the sibling ordering rule.
func TestBuildDirectoriesBeforeFiles(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeRepositoryFile(testingHandle, rootDirectory, "aardvark.txt")
	writeRepositoryFile(testingHandle, rootDirectory, "zoo/keeper.txt")

	builder := &tree.Builder{Root: rootDirectory}
	result, buildError := builder.Build([]string{"aardvark.txt", "zoo/keeper.txt"})
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	assertLines(testingHandle, result.Lines, []string{
		".",
		"    ├── zoo/",
		"        ├── keeper.txt",
		"    ├── aardvark.txt",
	})
}

// TestBuildDeduplicatesSelection verifies duplicate whitelist entries collapse.
func TestBuildDeduplicatesSelection(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeRepositoryFile(testingHandle, rootDirectory, siblingFilePath)

	builder := &tree.Builder{Root: rootDirectory}
	result, buildError := builder.Build([]string{siblingFilePath, siblingFilePath, "./" + siblingFilePath})
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	assertLines(testingHandle, result.Lines, []string{
		".",
		"    ├── a/",
		"        ├── d.txt",
	})
}

// TestBuildIdempotent verifies identical inputs produce identical output.
func TestBuildIdempotent(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeRepositoryFile(testingHandle, rootDirectory, nestedFilePath)
	writeRepositoryFile(testingHandle, rootDirectory, siblingFilePath)

	builder := &tree.Builder{Root: rootDirectory, ExclusionPatterns: []string{"vendor"}}
	firstResult, firstError := builder.Build([]string{nestedFilePath, siblingFilePath})
	if firstError != nil {
		testingHandle.Fatalf("first Build error: %v", firstError)
	}
	secondResult, secondError := builder.Build([]string{nestedFilePath, siblingFilePath})
	if secondError != nil {
		testingHandle.Fatalf("second Build error: %v", secondError)
	}
	assertLines(testingHandle, secondResult.Lines, firstResult.Lines)
}

// TestBuildRejectsEscapingSelection verifies that whitelist entries resolving
// outside the repository root are dropped with one warning while valid
// siblings still render.
func TestBuildRejectsEscapingSelection(testingHandle *testing.T) {
	parentDirectory := testingHandle.TempDir()
	rootDirectory := filepath.Join(parentDirectory, "repo")
	if makeDirError := os.MkdirAll(rootDirectory, 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir root: %v", makeDirError)
	}
	if writeError := os.WriteFile(filepath.Join(parentDirectory, "outside.txt"), []byte("content"), 0o644); writeError != nil {
		testingHandle.Fatalf("write outside file: %v", writeError)
	}
	writeRepositoryFile(testingHandle, rootDirectory, siblingFilePath)

	builder := &tree.Builder{Root: rootDirectory}
	result, buildError := builder.Build([]string{"../outside.txt", siblingFilePath})
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(result.Warnings) != 1 {
		testingHandle.Fatalf("expected one warning, got %q", result.Warnings)
	}
	assertLines(testingHandle, result.Lines, []string{
		".",
		"    ├── a/",
		"        ├── d.txt",
	})
}

// TestBuildRejectsAbsoluteSelection verifies that absolute whitelist entries
// are dropped with a warning.
func TestBuildRejectsAbsoluteSelection(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeRepositoryFile(testingHandle, rootDirectory, siblingFilePath)

	builder := &tree.Builder{Root: rootDirectory}
	result, buildError := builder.Build([]string{filepath.ToSlash(filepath.Join(rootDirectory, siblingFilePath))})
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(result.Warnings) != 1 {
		testingHandle.Fatalf("expected one warning, got %q", result.Warnings)
	}
	assertLines(testingHandle, result.Lines, []string{"."})
}

// TestBuildDirectorySelectionWarns verifies that a selected directory is not
// treated as a whitelist file.
func TestBuildDirectorySelectionWarns(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	if makeDirError := os.MkdirAll(filepath.Join(rootDirectory, "a"), 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir: %v", makeDirError)
	}

	builder := &tree.Builder{Root: rootDirectory}
	result, buildError := builder.Build([]string{"a"})
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(result.Warnings) != 1 {
		testingHandle.Fatalf("expected one warning, got %q", result.Warnings)
	}
	assertLines(testingHandle, result.Lines, []string{"."})
}
