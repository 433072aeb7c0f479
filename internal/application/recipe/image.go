package recipe

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/foodgram/backend/internal/domain/shared"
	_ "golang.org/x/image/webp"
)

// MaxImageBytes caps the decoded size of an uploaded recipe image
const MaxImageBytes = 5 << 20

// ImageStorage keeps recipe images under opaque keys
type ImageStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	DownloadURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ErrInvalidImage is returned for data URIs that are not a supported image
var ErrInvalidImage = shared.NewDomainError("INVALID_IMAGE", "Image must be a base64 data URI of a png, jpeg, gif or webp picture")

// imageFormats maps the data URI subtype to the decoder format name and
// the file extension stored in the key
var imageFormats = map[string]struct{ format, ext string }{
	"png":  {"png", "png"},
	"jpeg": {"jpeg", "jpg"},
	"jpg":  {"jpeg", "jpg"},
	"gif":  {"gif", "gif"},
	"webp": {"webp", "webp"},
}

// DecodedImage is a validated upload
type DecodedImage struct {
	Data        []byte
	Ext         string
	ContentType string
}

// DecodeImage parses "data:image/<type>;base64,<payload>" and checks that
// the payload really is a picture of the declared type.
func DecodeImage(dataURI string) (*DecodedImage, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(dataURI), ",")
	if !ok {
		return nil, ErrInvalidImage
	}
	mediaType, ok := strings.CutPrefix(header, "data:")
	if !ok {
		return nil, ErrInvalidImage
	}
	mediaType, ok = strings.CutSuffix(mediaType, ";base64")
	if !ok {
		return nil, ErrInvalidImage
	}
	subtype, ok := strings.CutPrefix(strings.ToLower(mediaType), "image/")
	if !ok {
		return nil, ErrInvalidImage
	}
	kind, ok := imageFormats[subtype]
	if !ok {
		return nil, ErrInvalidImage
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+3 {
		return nil, shared.NewDomainError("INVALID_IMAGE", fmt.Sprintf("Image cannot exceed %d bytes", MaxImageBytes))
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, ErrInvalidImage
	}
	if len(data) > MaxImageBytes {
		return nil, shared.NewDomainError("INVALID_IMAGE", fmt.Sprintf("Image cannot exceed %d bytes", MaxImageBytes))
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || format != kind.format {
		return nil, ErrInvalidImage
	}

	return &DecodedImage{
		Data:        data,
		Ext:         kind.ext,
		ContentType: "image/" + kind.format,
	}, nil
}
