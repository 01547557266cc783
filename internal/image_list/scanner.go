package image_list

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"mosaic/internal/mosaic"
)

// sniffLen is how much of a file is read to detect its type.
const sniffLen = 512

type ImageInfo struct {
	Path     string
	Name     string
	MimeType string
	Bytes    int64
}

// Scanner finds the files of a directory a mosaic client accepts.
type Scanner struct {
	dir    string
	accept func(mimeType string) bool
	logger *zap.Logger
	images []ImageInfo
}

func New(dir string, cfg *mosaic.Config, logger *zap.Logger) *Scanner {
	return &Scanner{
		dir:    dir,
		accept: cfg.Accepts,
		logger: logger,
		images: []ImageInfo{},
	}
}

// Scan lists the accepted images of the directory, sorted by name. Hidden
// files, subdirectories and files of other types are skipped.
func (s *Scanner) Scan() error {
	s.images = []ImageInfo{}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read image directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("Error getting file info", zap.String("path", path), zap.Error(err))
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		mimeType, err := sniff(path)
		if err != nil {
			s.logger.Warn("Failed to read file", zap.String("path", path), zap.Error(err))
			continue
		}
		if !s.accept(mimeType) {
			s.logger.Debug("Skipping file", zap.String("path", path), zap.String("mime_type", mimeType))
			continue
		}

		s.images = append(s.images, ImageInfo{
			Path:     path,
			Name:     entry.Name(),
			MimeType: mimeType,
			Bytes:    info.Size(),
		})
	}

	sort.Slice(s.images, func(i, j int) bool { return s.images[i].Name < s.images[j].Name })
	return nil
}

func (s *Scanner) GetImages() []ImageInfo {
	return s.images
}

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	return mosaic.DetectMimeType(head[:n]), nil
}
