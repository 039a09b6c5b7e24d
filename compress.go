package main

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// compressionExtension returns the file extension for a given compression algorithm
func compressionExtension(algorithm string) (string, error) {
	switch algorithm {
	case "":
		return "", nil
	case "gzip":
		return ".gz", nil
	case "zlib":
		return ".zlib", nil
	case "bzip2":
		return ".bz2", nil
	case "snappy":
		return ".snappy", nil
	case "s2":
		return ".s2", nil
	case "zstd":
		return ".zst", nil
	case "zip":
		return ".zip", nil
	default:
		return "", fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

// newCompressionWriter wraps output with the requested algorithm.
// The zip writer is non-nil only for the zip container, which needs its
// own close.
func newCompressionWriter(algorithm, entryName string, output io.Writer) (io.Writer, *zip.Writer, error) {
	switch algorithm {
	case "gzip":
		return gzip.NewWriter(output), nil, nil
	case "zlib":
		return zlib.NewWriter(output), nil, nil
	case "bzip2":
		writer, err := bzip2.NewWriter(output, &bzip2.WriterConfig{})
		return writer, nil, err
	case "snappy":
		return snappy.NewBufferedWriter(output), nil, nil
	case "s2":
		return s2.NewWriter(output), nil, nil
	case "zstd":
		writer, err := zstd.NewWriter(output)
		return writer, nil, err
	case "zip":
		zipWriter := zip.NewWriter(output)
		entry, err := zipWriter.Create(entryName)
		if err != nil {
			_ = zipWriter.Close()
			return nil, nil, fmt.Errorf("failed to create zip entry: %w", err)
		}
		return entry, zipWriter, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

// writeArtifact writes content to path, appending the algorithm's
// extension and compressing when one is configured. Pre-existing content
// is overwritten.
func writeArtifact(path, algorithm string, content []byte) error {
	extension, err := compressionExtension(algorithm)
	if err != nil {
		return err
	}

	output, err := os.Create(path + extension)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		_ = output.Close()
	}()

	if algorithm == "" {
		_, err = output.Write(content)
		return err
	}

	compressedWriter, zipWriter, err := newCompressionWriter(algorithm, filepath.Base(path), output)
	if err != nil {
		return fmt.Errorf("failed to create compression writer: %w", err)
	}
	if _, err := compressedWriter.Write(content); err != nil {
		return err
	}

	if zipWriter != nil {
		if err := zipWriter.Close(); err != nil {
			return fmt.Errorf("failed to close zip writer: %w", err)
		}
		return nil
	}
	if wc, ok := compressedWriter.(io.WriteCloser); ok {
		return wc.Close()
	}
	return nil
}
