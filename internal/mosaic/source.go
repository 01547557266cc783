package mosaic

import (
	"bytes"
	"fmt"
	"image"
	"mime"
	"net/http"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// DetectMimeType sniffs the MIME type of file content.
func DetectMimeType(data []byte) string {
	mediaType, _, err := mime.ParseMediaType(http.DetectContentType(data))
	if err != nil {
		return "application/octet-stream"
	}
	return mediaType
}

// DecodeSource checks data against the accepted MIME types and decodes it.
func DecodeSource(data []byte, cfg *Config) (image.Image, error) {
	mimeType := DetectMimeType(data)
	if !cfg.Accepts(mimeType) {
		return nil, fmt.Errorf("%w: file type %s not accepted", ErrUnsupportedInput, mimeType)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedInput)
	}
	return img, nil
}
