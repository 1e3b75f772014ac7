package output

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Sink stores a rendered image and reports where it went
type Sink interface {
	Write(ctx context.Context, name string, img image.Image) (string, error)
}

// EncodePNG encodes an image as PNG bytes
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// FileSink writes images below a directory. The file format follows the
// name's extension (png, jpg, gif, bmp, tif).
type FileSink struct {
	Dir string
}

// NewFileSink creates a sink writing below dir
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// Write saves img to Dir/name, creating directories as needed
func (fs *FileSink) Write(ctx context.Context, name string, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(fs.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return path, nil
}

// MultiSink writes to every sink in order, stopping at the first error
type MultiSink []Sink

// Write returns the location reported by the last sink
func (ms MultiSink) Write(ctx context.Context, name string, img image.Image) (string, error) {
	var location string
	for _, sink := range ms {
		loc, err := sink.Write(ctx, name, img)
		if err != nil {
			return "", err
		}
		location = loc
	}
	return location, nil
}
