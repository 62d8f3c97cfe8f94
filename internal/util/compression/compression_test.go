package compression

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	compressors := map[string]Compressor{
		"zstd": ZstdCompressor{},
		"gzip": GzipCompressor{},
	}

	inputs := map[string][]byte{
		"empty":    {},
		"document": []byte(`{"blocks":[{"id":"a","type":"paragraph","data":{"text":"Hello","styles":{}}}]}`),
		"binary":   {0x00, 0xff, 0x00, 0xff, 0x7f},
		"large":    bytes.Repeat([]byte("block content "), 4096),
	}

	for cname, c := range compressors {
		t.Run(cname, func(t *testing.T) {
			for iname, input := range inputs {
				t.Run(iname, func(t *testing.T) {
					compressed, err := c.Compress(input)
					if err != nil {
						t.Fatalf("Compress failed: %v", err)
					}

					decompressed, err := c.Decompress(compressed)
					if err != nil {
						t.Fatalf("Decompress failed: %v", err)
					}

					if !bytes.Equal(decompressed, input) {
						t.Errorf("Round trip mismatch: got %d bytes, want %d bytes", len(decompressed), len(input))
					}
				})
			}
		})
	}
}

func TestZstdDeterministic(t *testing.T) {
	c := ZstdCompressor{}
	data := []byte(`{"blocks":[{"id":"a","type":"heading","data":{"text":"Title","level":2,"styles":{}}}]}`)

	first, err := c.Compress(data)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	second, err := c.Compress(data)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	// Content hashes are computed over the compressed bytes, so the
	// same input must always compress to the same output.
	if !bytes.Equal(first, second) {
		t.Error("Expected identical output for identical input")
	}
}

func TestDecompressGarbage(t *testing.T) {
	for name, c := range map[string]Compressor{"zstd": ZstdCompressor{}, "gzip": GzipCompressor{}} {
		t.Run(name, func(t *testing.T) {
			if _, err := c.Decompress([]byte("not compressed data")); err == nil {
				t.Error("Expected error decompressing garbage input")
			}
		})
	}
}
