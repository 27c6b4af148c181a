package assets

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/minio/crc64nvme"
	"github.com/rs/zerolog/log"
)

func checksum(data []byte) string {
	h := crc64nvme.New()
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func writeManifest(path string, res *Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	log.Debug().Str("path", path).Int("outputs", len(res.Outputs)).Msg("Wrote manifest")
	return nil
}

// precompress writes a zstd compressed copy of contents next to path.
func precompress(path string, contents []byte) error {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create encoder: %w", err)
	}
	defer enc.Close()

	compressed := enc.EncodeAll(contents, make([]byte, 0, len(contents)))
	if err := os.WriteFile(path+".zst", compressed, 0600); err != nil {
		return fmt.Errorf("failed to write compressed output: %w", err)
	}

	log.Debug().
		Str("file", path).
		Int("original_bytes", len(contents)).
		Int("compressed_bytes", len(compressed)).
		Msg("Precompressed output")
	return nil
}
