// Package fileio reads and writes the text buffers the codec works on.
//
// The codec itself consumes and produces decoded strings; this package owns
// the boundary concerns: charset decoding for the legacy encodings EDI files
// ship in, and transparent gzip for .gz paths.
package fileio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// decoderFor maps an encoding name to its charmap decoder. UTF-8 needs none.
func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin-1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "cp1252", "windows-1252":
		return charmap.Windows1252.NewDecoder(), nil
	}
	return nil, fmt.Errorf("unsupported encoding: %s", name)
}

// isGzip reports whether path names a gzip-compressed file.
func isGzip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}

// ReadFile reads path into a decoded string. A .gz extension selects gzip
// decompression; enc names the charset of the (decompressed) bytes.
func ReadFile(path, enc string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if isGzip(path) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return "", fmt.Errorf("open gzip %s: %w", path, err)
		}
		defer func() { _ = zr.Close() }()
		r = zr
	}
	return ReadAll(r, enc)
}

// ReadAll decodes everything from r using the named charset.
func ReadAll(r io.Reader, enc string) (string, error) {
	dec, err := decoderFor(enc)
	if err != nil {
		return "", err
	}
	if dec != nil {
		r = transform.NewReader(r, dec)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile writes data to path in one piece, gzip-compressing when the path
// ends in .gz. Output is always UTF-8.
func WriteFile(path, data string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if isGzip(path) {
		zw := gzip.NewWriter(f)
		if _, err := io.WriteString(zw, data); err != nil {
			_ = zw.Close()
			_ = f.Close()
			return err
		}
		if err := zw.Close(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}

	if _, err := io.WriteString(f, data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
