package features

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zlib"
)

// CompressionRatio is len(zlib(text)) / len(text) over the UTF-8 bytes, at
// the default compression level. Empty text has ratio 0.
func CompressionRatio(text string) (float64, error) {
	raw := []byte(text)
	if len(raw) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
	if err != nil {
		return 0, fmt.Errorf("failed to create zlib writer: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return 0, fmt.Errorf("failed to compress text: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("failed to flush compressed text: %w", err)
	}
	return float64(buf.Len()) / float64(len(raw)), nil
}
