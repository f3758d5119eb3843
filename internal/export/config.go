package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ironsheep/image-export/internal/storage"
)

// Manifest describes the shape and element type of a binary export.
type Manifest struct {
	Dims  []int  `json:"dims"`
	DType string `json:"dtype"`
}

// Encode renders the manifest as 2-space indented JSON with dims on one line:
//
//	{
//	  "dims": [4, 4],
//	  "dtype": "int16"
//	}
func (m Manifest) Encode() []byte {
	var b bytes.Buffer
	b.WriteString("{\n  \"dims\": [")
	for i, d := range m.Dims {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(d))
	}
	b.WriteString("],\n  \"dtype\": ")
	dtype, _ := json.Marshal(m.DType)
	b.Write(dtype)
	b.WriteString("\n}")
	return b.Bytes()
}

// DecodeManifest parses manifest JSON as written by WriteConfig.
func DecodeManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m, nil
}

// WriteConfig writes the manifest {"dims": dims, "dtype": dtype} to
// opts.Name (default conf.json) under path, then writes the empty SUCCESS
// marker. The marker write is issued only after the manifest write returned
// successfully; readers treat the destination as complete once SUCCESS exists.
func WriteConfig(ctx context.Context, path string, dims []int, dtype string, opts ConfigOptions) error {
	name := opts.Name
	if name == "" {
		name = DefaultConfigName
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	wopts := storage.WriterOptions{Overwrite: opts.Overwrite, Credentials: opts.Credentials}

	conf, err := storage.NewFileWriter(ctx, path, name, wopts)
	if err != nil {
		return err
	}
	manifest := Manifest{Dims: append([]int{}, dims...), DType: dtype}
	if err := conf.Write(ctx, manifest.Encode()); err != nil {
		return err
	}

	success, err := storage.NewFileWriter(ctx, path, SuccessMarker, wopts)
	if err != nil {
		return err
	}
	if err := success.WriteString(ctx, ""); err != nil {
		return err
	}

	log.DebugContext(ctx, "manifest written", "path", path, "name", name, "dims", dims, "dtype", dtype)
	return nil
}
