// Package media provides the image upload collaborator consumed by the
// editor. The editor only ever stores the returned URL; where the bytes
// live is this package's concern.
package media

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
)

// ErrUploadFailed wraps any backend failure. The editor treats it as
// recoverable: the block keeps its previous URL and the operator can
// re-trigger the upload.
var ErrUploadFailed = errors.New("image upload failed")

// Uploader stores an image and returns its public URL. contextHint is
// an opaque string (typically the draft or post id) backends may use to
// organize objects.
type Uploader interface {
	UploadImage(ctx context.Context, file io.Reader, contextHint string) (string, error)
}

var mediaLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	mediaLogger = l
}
