package tokenizer_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PR0M3TH3AN/RePrompt/internal/tokenizer"
)

// wordCounter is a deterministic Counter used instead of a real encoding.
type wordCounter struct{}

func (wordCounter) Name() string { return "words" }

func (wordCounter) CountString(input string) (int, error) {
	if input == "" {
		return 0, nil
	}
	return len(strings.Fields(input)), nil
}

// TestCountBytes verifies counting of text, empty, and binary content.
func TestCountBytes(testingHandle *testing.T) {
	counter := wordCounter{}

	textResult, textError := tokenizer.CountBytes(counter, []byte("two words"))
	if textError != nil {
		testingHandle.Fatalf("CountBytes error: %v", textError)
	}
	if !textResult.Counted || textResult.Tokens != 2 {
		testingHandle.Fatalf("unexpected text result: %+v", textResult)
	}

	emptyResult, emptyError := tokenizer.CountBytes(counter, nil)
	if emptyError != nil {
		testingHandle.Fatalf("CountBytes error on empty: %v", emptyError)
	}
	if !emptyResult.Counted || emptyResult.Tokens != 0 {
		testingHandle.Fatalf("unexpected empty result: %+v", emptyResult)
	}

	binaryResult, binaryError := tokenizer.CountBytes(counter, []byte{0x00, 0x01})
	if binaryError != nil {
		testingHandle.Fatalf("CountBytes error on binary: %v", binaryError)
	}
	if binaryResult.Counted {
		testingHandle.Fatalf("binary content should not be counted: %+v", binaryResult)
	}
}

// TestCountBytesNilCounter verifies the nil-counter error.
func TestCountBytesNilCounter(testingHandle *testing.T) {
	if _, countError := tokenizer.CountBytes(nil, []byte("text")); countError == nil {
		testingHandle.Fatalf("expected error for nil counter")
	}
}

// TestCountFile verifies counting file content from disk.
func TestCountFile(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	filePath := filepath.Join(rootDirectory, "sample.txt")
	if writeError := os.WriteFile(filePath, []byte("one two three"), 0o644); writeError != nil {
		testingHandle.Fatalf("writing sample file: %v", writeError)
	}

	result, countError := tokenizer.CountFile(wordCounter{}, filePath)
	if countError != nil {
		testingHandle.Fatalf("CountFile error: %v", countError)
	}
	if !result.Counted || result.Tokens != 3 {
		testingHandle.Fatalf("unexpected result: %+v", result)
	}

	if _, missingError := tokenizer.CountFile(wordCounter{}, filepath.Join(rootDirectory, "absent.txt")); missingError == nil {
		testingHandle.Fatalf("expected error for missing file")
	}
}
