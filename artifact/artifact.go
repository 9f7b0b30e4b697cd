// Package artifact manages the files a run leaves in its output directory.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pivolan/sales_analyzer/apperrors"
)

// EnsureDir creates the output directory and its parents when absent.
func EnsureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return apperrors.New(apperrors.CodeIO, fmt.Sprintf("output path %s is not a directory", dir))
		}
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.IOWrap(err, "create output directory "+dir)
	}
	return nil
}

// WriteAtomic writes data to dir/name through a temp file in the same
// directory, so an existing file is either fully replaced or left alone.
func WriteAtomic(dir, name string, data []byte) (string, error) {
	target := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", apperrors.IOWrap(err, "create temp file for "+target)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", apperrors.IOWrap(err, "write "+target)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", apperrors.IOWrap(err, "write "+target)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return "", apperrors.IOWrap(err, "write "+target)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", apperrors.IOWrap(err, "move file into "+target)
	}
	return target, nil
}
