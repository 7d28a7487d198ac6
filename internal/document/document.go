// Package document assembles the repository context document: header, static
// boilerplate sections, the whitelist directory tree, and the content of every
// selected file, concatenated into a single Markdown text.
package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PR0M3TH3AN/RePrompt/internal/config"
	"github.com/PR0M3TH3AN/RePrompt/internal/tokenizer"
	"github.com/PR0M3TH3AN/RePrompt/internal/tree"
	"github.com/PR0M3TH3AN/RePrompt/internal/types"
	"github.com/PR0M3TH3AN/RePrompt/internal/utils"
)

const (
	documentTitle         = "# Repository Context"
	generatedOnFormat     = "Generated on: %s"
	treeSectionTitle      = "## Directory Tree with Exclusions"
	filesSectionTitle     = "## Important Files"
	summarySectionTitle   = "## Token Summary"
	sectionTitleFormat    = "## %s"
	fencedBlockDelimiter  = "```"
	binaryFileNoteFormat  = "*Binary file (%s) cannot be displayed.*"
	fileReadErrorFormat   = "*Error reading file: %v*"
	missingFileNoteFormat = "*File `%s` not found, skipping...*"
	outsideRootNoteFormat = "*File `%s` is outside the repository root, skipping...*"
	sectionReadErrFormat  = "*Error reading %s: %v*"

	warningMissingStaticFileFormat = "static file %s not found; skipping section %q"
	warningFileReadFormat          = "reading %s: %v"
	warningTokenCountFormat        = "counting tokens for %s: %v"

	// tokenCountConcurrencyLimit bounds concurrent token counting goroutines.
	tokenCountConcurrencyLimit = 8
)

// Generator builds the context document for one validated configuration.
type Generator struct {
	Configuration config.Configuration
	TokenCounter  tokenizer.Counter
	TokenModel    string
	// Now supplies the header timestamp; time.Now when nil.
	Now func() time.Time
}

// Generate assembles the document and returns its text together with every
// non-fatal warning gathered along the way. A missing repository root surfaces
// as a ConfigurationError from the tree build; a context cancelled during
// token counting aborts the document as well.
func (generator *Generator) Generate(ctx context.Context) (string, []string, error) {
	treeBuilder := &tree.Builder{
		Root:              generator.Configuration.Root,
		ExclusionPatterns: generator.Configuration.Exclude,
	}
	treeResult, treeBuildError := treeBuilder.Build(generator.Configuration.Files)
	if treeBuildError != nil {
		return "", nil, treeBuildError
	}

	warnings := append([]string{}, treeResult.Warnings...)

	var buffer bytes.Buffer
	generator.writeHeader(&buffer)

	for _, sectionDefinition := range generator.Configuration.Sections {
		generator.writeStaticSection(&buffer, sectionDefinition, &warnings)
	}

	writeTreeSection(&buffer, treeResult.Lines)

	reports := generator.writeImportantFiles(&buffer, &warnings)

	if generator.TokenCounter != nil {
		if tokenCountError := generator.countTokens(ctx, reports, &warnings); tokenCountError != nil {
			return "", nil, tokenCountError
		}
		writeSummarySection(&buffer, summarize(reports, generator.TokenModel))
	}

	if generator.Configuration.Todo.File != "" {
		generator.writeStaticSection(&buffer, generator.Configuration.Todo, &warnings)
	}

	return buffer.String(), warnings, nil
}

// writeHeader emits the document title and generation date.
func (generator *Generator) writeHeader(buffer *bytes.Buffer) {
	now := time.Now
	if generator.Now != nil {
		now = generator.Now
	}
	buffer.WriteString(documentTitle + "\n\n")
	buffer.WriteString(fmt.Sprintf(generatedOnFormat, utils.FormatDate(now())) + "\n\n")
}

// writeStaticSection embeds one static boilerplate file under its section
// title. A missing file drops the whole section with a warning; a read error
// keeps the section header and records the failure inline.
func (generator *Generator) writeStaticSection(buffer *bytes.Buffer, sectionDefinition types.SectionDefinition, warnings *[]string) {
	staticFilePath := sectionDefinition.File
	if !filepath.IsAbs(staticFilePath) {
		staticFilePath = filepath.Join(generator.Configuration.StaticDirectory, staticFilePath)
	}

	if _, statError := os.Stat(staticFilePath); statError != nil {
		*warnings = append(*warnings, fmt.Sprintf(warningMissingStaticFileFormat, staticFilePath, sectionDefinition.Title))
		return
	}

	buffer.WriteString(fmt.Sprintf(sectionTitleFormat, sectionDefinition.Title) + "\n\n")
	content, readError := os.ReadFile(staticFilePath)
	if readError != nil {
		buffer.WriteString(fmt.Sprintf(sectionReadErrFormat, filepath.Base(staticFilePath), readError) + "\n\n")
		*warnings = append(*warnings, fmt.Sprintf(warningFileReadFormat, staticFilePath, readError))
		return
	}
	buffer.WriteString(strings.TrimRight(string(content), "\n") + "\n\n")
}

// writeTreeSection embeds the rendered whitelist tree inside a fenced block.
func writeTreeSection(buffer *bytes.Buffer, treeLines []string) {
	buffer.WriteString(treeSectionTitle + "\n\n")
	buffer.WriteString(fencedBlockDelimiter + "\n")
	for _, treeLine := range treeLines {
		buffer.WriteString(treeLine + "\n")
	}
	buffer.WriteString(fencedBlockDelimiter + "\n\n")
}

// writeImportantFiles embeds each whitelisted file in configuration order and
// returns a report per successfully embedded file. Missing and root-escaping
// entries render an inline note only; the tree build over the same whitelist
// already reported them as warnings.
func (generator *Generator) writeImportantFiles(buffer *bytes.Buffer, warnings *[]string) []*types.FileReport {
	buffer.WriteString(filesSectionTitle + "\n\n")

	seenPaths := make(map[string]struct{}, len(generator.Configuration.Files))
	var reports []*types.FileReport
	for _, selectedFile := range generator.Configuration.Files {
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
			buffer.WriteString(fmt.Sprintf(outsideRootNoteFormat, relativePath) + "\n\n")
			continue
		}

		absoluteFilePath := filepath.Join(generator.Configuration.Root, filepath.FromSlash(relativePath))
		fileInfo, fileStatError := os.Stat(absoluteFilePath)
		if fileStatError != nil || !fileInfo.Mode().IsRegular() {
			buffer.WriteString(fmt.Sprintf(missingFileNoteFormat, relativePath) + "\n\n")
			continue
		}

		report := generator.writeFileContent(buffer, relativePath, absoluteFilePath, fileInfo.Size(), warnings)
		reports = append(reports, report)
	}
	return reports
}

// escapesRoot reports whether the cleaned relative path refers outside the
// repository root.
func escapesRoot(relativePath string) bool {
	return path.IsAbs(relativePath) || relativePath == ".." || strings.HasPrefix(relativePath, "../")
}

// writeFileContent embeds one file as a language-tagged fenced block. Binary
// files render a placeholder note instead of raw bytes; read errors render an
// inline note and never abort the document.
func (generator *Generator) writeFileContent(buffer *bytes.Buffer, relativePath string, absoluteFilePath string, sizeBytes int64, warnings *[]string) *types.FileReport {
	report := &types.FileReport{
		RelativePath: relativePath,
		AbsolutePath: absoluteFilePath,
		Type:         types.NodeTypeFile,
		SizeBytes:    sizeBytes,
	}

	buffer.WriteString(fmt.Sprintf(sectionTitleFormat, relativePath) + "\n")
	fenceLanguage := fenceLanguageForPath(relativePath)
	buffer.WriteString(fencedBlockDelimiter + fenceLanguage + "\n")

	if hasBinaryExtension(relativePath) || utils.IsFileBinary(absoluteFilePath) {
		report.Type = types.NodeTypeBinary
		buffer.WriteString(fmt.Sprintf(binaryFileNoteFormat, filepath.Ext(relativePath)) + "\n")
	} else {
		content, readError := os.ReadFile(absoluteFilePath)
		if readError != nil {
			buffer.WriteString(fmt.Sprintf(fileReadErrorFormat, readError) + "\n")
			*warnings = append(*warnings, fmt.Sprintf(warningFileReadFormat, absoluteFilePath, readError))
		} else {
			buffer.WriteString(strings.TrimRight(string(content), "\n") + "\n")
		}
	}

	buffer.WriteString(fencedBlockDelimiter + "\n\n")
	return report
}

// countTokens fills in token counts for the embedded text files using a
// bounded number of concurrent workers. Per-file failures downgrade to
// warnings; context cancellation is returned as an error.
func (generator *Generator) countTokens(ctx context.Context, reports []*types.FileReport, warnings *[]string) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(tokenCountConcurrencyLimit)

	countErrors := make([]error, len(reports))
	for index, report := range reports {
		if report.Type == types.NodeTypeBinary {
			continue
		}
		currentIndex := index
		currentReport := report
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return groupCtx.Err()
			}
			countResult, countError := tokenizer.CountFile(generator.TokenCounter, currentReport.AbsolutePath)
			if countError != nil {
				countErrors[currentIndex] = countError
				return nil
			}
			if countResult.Counted {
				currentReport.Tokens = countResult.Tokens
			}
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return waitError
	}

	for index, countError := range countErrors {
		if countError != nil {
			*warnings = append(*warnings, fmt.Sprintf(warningTokenCountFormat, reports[index].RelativePath, countError))
		}
	}
	return nil
}

// summarize aggregates the embedded file reports into a document summary.
func summarize(reports []*types.FileReport, tokenModel string) types.DocumentSummary {
	summary := types.DocumentSummary{Model: tokenModel}
	for _, report := range reports {
		summary.TotalFiles++
		summary.TotalBytes += report.SizeBytes
		summary.TotalTokens += report.Tokens
	}
	return summary
}

// writeSummarySection emits the aggregate file, size, and token counts.
func writeSummarySection(buffer *bytes.Buffer, summary types.DocumentSummary) {
	fileLabel := "files"
	if summary.TotalFiles == 1 {
		fileLabel = "file"
	}
	buffer.WriteString(summarySectionTitle + "\n\n")
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	buffer.WriteString(fmt.Sprintf("%d %s, %s, %d tokens%s\n\n",
		summary.TotalFiles, fileLabel, utils.FormatFileSize(summary.TotalBytes), summary.TotalTokens, modelSuffix))
}
