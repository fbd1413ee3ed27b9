// Package output validates incoming documents and decides where converted
// workbooks are saved.
package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DefaultMaxBytes is the largest accepted upload (200 MiB)
const DefaultMaxBytes int64 = 200 << 20

// DefaultSuffix is appended to the source base name
const DefaultSuffix = "_processed"

var (
	ErrEmptyFile = errors.New("file is empty")
	ErrTooLarge  = errors.New("file exceeds the size limit")
	ErrNotPDF    = errors.New("file is not a PDF document")
)

var pdfMagic = []byte("%PDF")

// ValidateUpload rejects empty input, input larger than maxBytes and input
// without the PDF header. maxBytes <= 0 disables the size check.
func ValidateUpload(data []byte, maxBytes int64) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return errors.Wrapf(ErrTooLarge, "%d bytes > %d", len(data), maxBytes)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return ErrNotPDF
	}
	return nil
}

// ValidateFile applies ValidateUpload to a file on disk, reading only the
// header once the size is known
func ValidateFile(path string, maxBytes int64) error {
	st, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(err, "stat input")
	}
	if st.Size() == 0 {
		return ErrEmptyFile
	}
	if maxBytes > 0 && st.Size() > maxBytes {
		return errors.Wrapf(ErrTooLarge, "%d bytes > %d", st.Size(), maxBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer f.Close()

	head := make([]byte, len(pdfMagic))
	n, _ := f.Read(head)
	return ValidateUpload(head[:n], 0)
}

// DefaultDir returns ~/Downloads when it exists, otherwise the temp dir
func DefaultDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, "Downloads")
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return dir
		}
	}
	return os.TempDir()
}

// OutputName derives the workbook name from the source file name
func OutputName(sourceName, suffix string) string {
	base := filepath.Base(sourceName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + suffix + ".xlsx"
}

// UniquePath returns a path in dir that does not exist yet:
// <base><suffix>.xlsx, then <base><suffix>_1.xlsx, _2 and so on
func UniquePath(dir, sourceName, suffix string) string {
	name := OutputName(sourceName, suffix)
	candidate := filepath.Join(dir, name)
	stem := strings.TrimSuffix(name, ".xlsx")
	for i := 1; exists(candidate); i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d.xlsx", stem, i))
	}
	return candidate
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteFile creates path exclusively and writes data, so an existing file
// is never overwritten
func WriteFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrap(err, "write output")
	}
	return errors.Wrap(f.Close(), "close output")
}

// Save writes data to a collision-free path in dir and returns the path.
// A racing writer that takes the chosen name causes one retry with the
// next free name.
func Save(dir, sourceName, suffix string, data []byte) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		path := UniquePath(dir, sourceName, suffix)
		err := WriteFile(path, data)
		if err == nil {
			return path, nil
		}
		if !os.IsExist(errors.Cause(err)) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}
