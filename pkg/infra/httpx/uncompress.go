package httpx

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// AcceptEncoding is what model sidecars may compress logits payloads with.
const AcceptEncoding = "zstd, br, gzip, deflate"

// DecodeChain decodes a body according to a Content-Encoding header value.
// Chained encodings ("gzip, br") are undone right to left. deflate accepts
// both zlib-wrapped and raw streams. It reports whether the body changed.
func DecodeChain(contentEncoding string, body []byte) ([]byte, bool, error) {
	if contentEncoding == "" {
		return body, false, nil
	}
	encodings := strings.Split(contentEncoding, ",")
	changed := false
	for i := len(encodings) - 1; i >= 0; i-- {
		var (
			out []byte
			err error
		)
		switch strings.TrimSpace(strings.ToLower(encodings[i])) {
		case "br":
			out, err = io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		case "gzip":
			out, err = readAllClose(gzip.NewReader(bytes.NewReader(body)))
		case "zstd":
			out, err = decodeZstd(body)
		case "deflate":
			out, err = readAllClose(zlib.NewReader(bytes.NewReader(body)))
			if err != nil {
				out, err = readAllClose(flate.NewReader(bytes.NewReader(body)), nil)
			}
		case "compress", "identity", "":
			continue
		default:
			return nil, false, fmt.Errorf("unsupported content-encoding: %q", encodings[i])
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to decode %s body: %w", strings.TrimSpace(encodings[i]), err)
		}
		body = out
		changed = true
	}
	return body, changed, nil
}

func readAllClose(r io.ReadCloser, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(r)
	cerr := r.Close()
	if err != nil {
		return nil, err
	}
	return out, cerr
}

func decodeZstd(body []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(body, nil)
}
