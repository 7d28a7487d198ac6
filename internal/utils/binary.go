package utils

import (
	"bytes"
	"io"
	"os"
	"unicode/utf8"
)

// binarySniffLimit caps how many leading bytes are inspected when classifying
// file content.
const binarySniffLimit = 8000

// IsBinary reports whether data looks like binary rather than UTF-8 text.
// Invalid UTF-8 or an embedded NUL byte classifies the content as binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	return bytes.IndexByte(data, 0) >= 0
}

// IsFileBinary samples the leading bytes of the file at path and reports
// whether they look binary. Unreadable files are reported as text so the
// caller surfaces the read error itself.
func IsFileBinary(path string) bool {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		return false
	}
	defer fileHandle.Close()

	sample := make([]byte, binarySniffLimit)
	bytesRead, readError := fileHandle.Read(sample)
	if readError != nil && readError != io.EOF {
		return false
	}
	return IsBinary(sample[:bytesRead])
}
