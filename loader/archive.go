package loader

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
)

// openSource opens path for reading and transparently decompresses .gz,
// .lz4 and .zip inputs. For zip archives the largest file entry is read.
// The source file is never modified.
func openSource(path string) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return openZip(path)
	case ".gz":
		return openGzip(path)
	case ".lz4":
		return openLZ4(path)
	}
	return os.Open(path)
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var first error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func openZip(path string) (io.ReadCloser, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}

	var largestFile *zip.File
	var largestSize uint64
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largestFile == nil || f.UncompressedSize64 > largestSize {
			largestFile = f
			largestSize = f.UncompressedSize64
		}
	}
	if largestFile == nil {
		r.Close()
		return nil, fmt.Errorf("zip archive %s has no files", path)
	}

	rc, err := largestFile.Open()
	if err != nil {
		r.Close()
		return nil, err
	}
	return &multiCloser{Reader: rc, closers: []io.Closer{r, rc}}, nil
}

func openGzip(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	gr, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &multiCloser{Reader: gr, closers: []io.Closer{file, gr}}, nil
}

func openLZ4(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &multiCloser{Reader: lz4.NewReader(file), closers: []io.Closer{file}}, nil
}
