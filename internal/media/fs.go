package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type FSUploader struct { // implements Uploader
	dir           string
	publicBaseURL string
}

func NewFSUploader(dir, publicBaseURL string) *FSUploader {
	return &FSUploader{
		dir:           dir,
		publicBaseURL: publicBaseURL,
	}
}

func (u *FSUploader) UploadImage(ctx context.Context, file io.Reader, contextHint string) (string, error) {
	name := uuid.New().String()

	dir := filepath.Join(u.dir, contextHint)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return u.publicBaseURL + contextHint + "/" + name, nil
}
