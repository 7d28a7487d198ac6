// Package tree builds whitelist-aware directory trees. Only explicitly
// selected files and the ancestor directories needed to reach them appear in
// the rendered output.
package tree

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PR0M3TH3AN/RePrompt/internal/types"
)

const (
	// rootMarker is the single line rendered for the repository root.
	rootMarker = "."
	// indentUnit is the fixed indentation prefix applied once per nesting level.
	indentUnit = "    "
	// connector is the constant glyph preceding every non-root entry.
	connector = "├── "
	// directorySuffix marks rendered directory names.
	directorySuffix = "/"

	// rootMissingDetail describes a repository root that does not exist.
	rootMissingDetail = "repository root does not exist"
	// rootNotDirectoryDetail describes a repository root that is not a directory.
	rootNotDirectoryDetail = "repository root is not a directory"

	// warningNoFilesSelected is reported when the whitelist is empty.
	warningNoFilesSelected = "no files selected; tree contains only the repository root"
	// warningMissingFileFormat is reported for whitelist entries absent on disk.
	warningMissingFileFormat = "selected file %s does not exist; skipping"
	// warningOutsideRootFormat is reported for whitelist entries escaping the root.
	warningOutsideRootFormat = "selected path %s is outside the repository root; skipping"
	// warningNotRegularFileFormat is reported for whitelist entries that are not regular files.
	warningNotRegularFileFormat = "selected path %s is not a regular file; skipping"
)

// Builder renders whitelist trees for a single repository root.
type Builder struct {
	Root              string
	ExclusionPatterns []string
}

// Result carries the rendered tree lines and any non-fatal warnings gathered
// while validating whitelist entries.
type Result struct {
	Lines    []string
	Warnings []string
}

// treeEntry is one kept directory or selected file keyed by its
// slash-separated path relative to the root.
type treeEntry struct {
	relativePath string
	name         string
	isDirectory  bool
}

// Build validates the repository root and the whitelist, prunes ancestor
// chains with the exclusion patterns, and renders the resulting tree. The
// output is deterministic for identical inputs and disk state.
func (builder *Builder) Build(selectedFiles []string) (Result, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(builder.Root)
	if absolutePathError != nil {
		return Result{}, types.NewConfigurationError("root", rootMissingDetail, absolutePathError)
	}
	rootInfo, rootStatError := os.Stat(absoluteRootPath)
	if rootStatError != nil {
		return Result{}, types.NewConfigurationError("root", rootMissingDetail, rootStatError)
	}
	if !rootInfo.IsDir() {
		return Result{}, types.NewConfigurationError("root", rootNotDirectoryDetail, nil)
	}

	result := Result{}

	validFiles := builder.validateSelectedFiles(absoluteRootPath, selectedFiles, &result.Warnings)
	if len(validFiles) == 0 {
		if len(selectedFiles) == 0 {
			result.Warnings = append(result.Warnings, warningNoFilesSelected)
		}
		result.Lines = []string{rootMarker}
		return result, nil
	}

	keptDirectories := builder.collectKeptDirectories(validFiles)
	children := buildAdjacency(keptDirectories, validFiles)
	result.Lines = renderTree(children)
	return result, nil
}

// validateSelectedFiles resolves whitelist entries against the root, dropping
// missing, irregular, or root-escaping entries with one warning each and
// collapsing duplicates. The returned relative paths use forward slashes.
func (builder *Builder) validateSelectedFiles(absoluteRootPath string, selectedFiles []string, warnings *[]string) []string {
	seenPaths := make(map[string]struct{}, len(selectedFiles))
	var validFiles []string
	for _, selectedFile := range selectedFiles {
		trimmedEntry := strings.TrimSpace(selectedFile)
		if trimmedEntry == "" {
			continue
		}
		relativePath := path.Clean(filepath.ToSlash(trimmedEntry))
		if _, alreadySeen := seenPaths[relativePath]; alreadySeen {
			continue
		}
		seenPaths[relativePath] = struct{}{}

		if escapesRoot(relativePath) {
			*warnings = append(*warnings, fmt.Sprintf(warningOutsideRootFormat, relativePath))
			continue
		}

		absoluteFilePath := filepath.Join(absoluteRootPath, filepath.FromSlash(relativePath))
		fileInfo, fileStatError := os.Stat(absoluteFilePath)
		if fileStatError != nil {
			*warnings = append(*warnings, fmt.Sprintf(warningMissingFileFormat, relativePath))
			continue
		}
		if !fileInfo.Mode().IsRegular() {
			*warnings = append(*warnings, fmt.Sprintf(warningNotRegularFileFormat, relativePath))
			continue
		}
		validFiles = append(validFiles, relativePath)
	}
	sort.Strings(validFiles)
	return validFiles
}

// escapesRoot reports whether the cleaned relative path refers outside the
// repository root.
func escapesRoot(relativePath string) bool {
	return path.IsAbs(relativePath) || relativePath == ".." || strings.HasPrefix(relativePath, "../")
}

// collectKeptDirectories walks every file's ancestor chain from the nearest
// ancestor upward toward the root. The first ancestor matching an exclusion
// pattern stops the climb for that chain: the matched directory is not kept
// and no more distant ancestor is added, while nearer ancestors collected
// before the match remain kept. The root is always kept.
func (builder *Builder) collectKeptDirectories(validFiles []string) map[string]struct{} {
	keptDirectories := map[string]struct{}{rootMarker: {}}
	for _, relativeFilePath := range validFiles {
		ancestorPath := path.Dir(relativeFilePath)
		for ancestorPath != rootMarker && ancestorPath != directorySuffix {
			if matchesExclusion(ancestorPath, builder.ExclusionPatterns) {
				break
			}
			keptDirectories[ancestorPath] = struct{}{}
			ancestorPath = path.Dir(ancestorPath)
		}
	}
	return keptDirectories
}

// matchesExclusion reports whether the candidate directory matches any
// exclusion pattern: a glob match on the slash-relative path, a glob match on
// the directory's own name, or substring containment of the pattern in the
// name. A trailing slash on a pattern is ignored.
func matchesExclusion(relativeDirectoryPath string, exclusionPatterns []string) bool {
	directoryName := path.Base(relativeDirectoryPath)
	for _, exclusionPattern := range exclusionPatterns {
		trimmedPattern := strings.TrimSuffix(strings.TrimSpace(exclusionPattern), directorySuffix)
		if trimmedPattern == "" {
			continue
		}
		if pathMatched, matchError := path.Match(trimmedPattern, relativeDirectoryPath); matchError == nil && pathMatched {
			return true
		}
		if nameMatched, matchError := path.Match(trimmedPattern, directoryName); matchError == nil && nameMatched {
			return true
		}
		if strings.Contains(directoryName, trimmedPattern) {
			return true
		}
	}
	return false
}

// buildAdjacency assembles a parent-to-children index over the kept
// directories and the valid files. A node whose immediate parent was pruned
// attaches to its nearest kept ancestor instead.
func buildAdjacency(keptDirectories map[string]struct{}, validFiles []string) map[string][]treeEntry {
	children := make(map[string][]treeEntry)
	appended := make(map[string]struct{})

	appendEntry := func(entry treeEntry) {
		if _, exists := appended[entry.relativePath]; exists {
			return
		}
		appended[entry.relativePath] = struct{}{}
		parentPath := nearestKeptAncestor(entry.relativePath, keptDirectories)
		children[parentPath] = append(children[parentPath], entry)
	}

	for keptDirectory := range keptDirectories {
		if keptDirectory == rootMarker {
			continue
		}
		appendEntry(treeEntry{
			relativePath: keptDirectory,
			name:         path.Base(keptDirectory),
			isDirectory:  true,
		})
	}
	for _, relativeFilePath := range validFiles {
		appendEntry(treeEntry{
			relativePath: relativeFilePath,
			name:         path.Base(relativeFilePath),
			isDirectory:  false,
		})
	}

	for parentPath := range children {
		sortEntries(children[parentPath])
	}
	return children
}

// nearestKeptAncestor returns the closest ancestor of relativePath present in
// the kept set, falling back to the root.
func nearestKeptAncestor(relativePath string, keptDirectories map[string]struct{}) string {
	ancestorPath := path.Dir(relativePath)
	for ancestorPath != rootMarker && ancestorPath != directorySuffix {
		if _, isKept := keptDirectories[ancestorPath]; isKept {
			return ancestorPath
		}
		ancestorPath = path.Dir(ancestorPath)
	}
	return rootMarker
}

// sortEntries orders siblings directories-first and case-insensitively by
// name within each group.
func sortEntries(entries []treeEntry) {
	sort.SliceStable(entries, func(firstIndex, secondIndex int) bool {
		first := entries[firstIndex]
		second := entries[secondIndex]
		if first.isDirectory != second.isDirectory {
			return first.isDirectory
		}
		firstName := strings.ToLower(first.name)
		secondName := strings.ToLower(second.name)
		if firstName != secondName {
			return firstName < secondName
		}
		return first.name < second.name
	})
}

// renderTree emits the root marker followed by a depth-first walk of the
// adjacency index, one indented line per kept directory or file.
func renderTree(children map[string][]treeEntry) []string {
	lines := []string{rootMarker}
	var emit func(parentPath string, level int)
	emit = func(parentPath string, level int) {
		for _, entry := range children[parentPath] {
			renderedName := entry.name
			if entry.isDirectory {
				renderedName += directorySuffix
			}
			lines = append(lines, strings.Repeat(indentUnit, level)+connector+renderedName)
			if entry.isDirectory {
				emit(entry.relativePath, level+1)
			}
		}
	}
	emit(rootMarker, 1)
	return lines
}
