// Package upload spools multipart uploads to disk for the lifetime of a request.
package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// sniffLen matches the number of bytes http.DetectContentType inspects.
const sniffLen = 512

// TempFile is an upload copied into the spool directory. Callers must defer
// Release immediately after a successful Spool.
type TempFile struct {
	Path        string
	Size        int64
	ContentType string
	Filename    string
}

// Spool copies the uploaded part into dir under a unique name and sniffs its
// content type. On error nothing is left on disk.
func Spool(fh *multipart.FileHeader, dir string) (*TempFile, error) {
	if fh == nil {
		return nil, errors.New("upload: nil file header")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	path := filepath.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	tf := &TempFile{Path: path, Filename: fh.Filename}
	n, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = tf.Release()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tf.Size = n

	if tf.ContentType, err = sniff(path); err != nil {
		_ = tf.Release()
		return nil, err
	}
	return tf, nil
}

// ReadAll returns the spooled bytes.
func (t *TempFile) ReadAll() ([]byte, error) {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return nil, fmt.Errorf("read temp file: %w", err)
	}
	return data, nil
}

// IsImage reports whether the sniffed content type is an image type.
func (t *TempFile) IsImage() bool {
	return strings.HasPrefix(t.ContentType, "image/")
}

// Release removes the file. It is safe to call more than once.
func (t *TempFile) Release() error {
	if t == nil || t.Path == "" {
		return nil
	}
	if err := os.Remove(t.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove temp file: %w", err)
	}
	return nil
}

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open temp file: %w", err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("read temp file: %w", err)
	}
	return http.DetectContentType(head[:n]), nil
}
