package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/image-export/internal/config"
	"github.com/ironsheep/image-export/internal/server"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.LogLevelEnv, "")

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	// A nil slice makes cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "image-export dev\n") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestPNGCommand(t *testing.T) {
	src := t.TempDir()
	a := writePNG(t, src, "a.png", 5, 3)
	b := writePNG(t, src, "b.png", 5, 3)
	dest := t.TempDir()

	out, _, err := runCLI(t, "", "png", dest, a, b, "--prefix", "slice")
	if err != nil {
		t.Fatalf("png failed: %v", err)
	}
	if !strings.Contains(out, "wrote 2 images") {
		t.Errorf("unexpected output: %q", out)
	}
	for _, name := range []string{"slice-00000.png", "slice-00001.png"} {
		if _, err := os.Stat(filepath.Join(dest, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}

	if _, _, err := runCLI(t, "", "png", dest, a, b, "--prefix", "slice"); err == nil {
		t.Error("second export without --overwrite should fail")
	}
	if _, _, err := runCLI(t, "", "png", dest, a, b, "--prefix", "slice", "--overwrite"); err != nil {
		t.Errorf("export with --overwrite failed: %v", err)
	}
}

func TestPNGCommandRejectsPrefixWithSeparator(t *testing.T) {
	src := t.TempDir()
	a := writePNG(t, src, "a.png", 4, 4)
	parent := t.TempDir()
	dest := filepath.Join(parent, "out")

	if _, _, err := runCLI(t, "", "png", dest, a, "--prefix", "../x"); err == nil {
		t.Fatal("expected error for --prefix ../x")
	}
	if entries, _ := os.ReadDir(parent); len(entries) != 0 {
		t.Errorf("files written outside the destination: %d entries", len(entries))
	}
}

func TestBinaryInspectAndTIFF(t *testing.T) {
	src := t.TempDir()
	a := writePNG(t, src, "a.png", 4, 4)
	bin := t.TempDir()

	if _, _, err := runCLI(t, "", "binary", bin, a); err != nil {
		t.Fatalf("binary failed: %v", err)
	}

	out, _, err := runCLI(t, "", "inspect", bin)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	var info server.BinaryInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("inspect output is not JSON: %v\n%s", err, out)
	}
	if info.Images != 1 || info.DType != "uint8" || info.Bytes != 16 {
		t.Errorf("unexpected info: %+v", info)
	}

	tifDir := t.TempDir()
	if _, _, err := runCLI(t, "", "tiff", tifDir, "--from-binary", bin, "--compression", "deflate"); err != nil {
		t.Fatalf("tiff failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tifDir, "image-00000.tif")); err != nil {
		t.Errorf("tif missing: %v", err)
	}
}

func TestConfigCommand(t *testing.T) {
	dest := t.TempDir()
	if _, _, err := runCLI(t, "", "config", dest, "--dims", "4,4", "--dtype", "int16"); err != nil {
		t.Fatalf("config failed: %v", err)
	}
	conf, err := os.ReadFile(filepath.Join(dest, "conf.json"))
	if err != nil {
		t.Fatalf("conf.json missing: %v", err)
	}
	if string(conf) != "{\n  \"dims\": [4, 4],\n  \"dtype\": \"int16\"\n}" {
		t.Errorf("conf.json: got %q", conf)
	}
	if _, err := os.Stat(filepath.Join(dest, "SUCCESS")); err != nil {
		t.Errorf("SUCCESS missing: %v", err)
	}

	// Rewriting the manifest replaces it unless --overwrite=false.
	if _, _, err := runCLI(t, "", "config", dest, "--dims", "8", "--dtype", "uint8"); err != nil {
		t.Fatalf("second config failed: %v", err)
	}
	conf, _ = os.ReadFile(filepath.Join(dest, "conf.json"))
	if !strings.Contains(string(conf), `"uint8"`) {
		t.Errorf("conf.json not replaced: %q", conf)
	}
	if _, _, err := runCLI(t, "", "config", dest, "--dims", "8", "--dtype", "uint8", "--overwrite=false"); err == nil {
		t.Error("--overwrite=false should conflict with the existing manifest")
	}
}

func TestCommandErrors(t *testing.T) {
	dest := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"no sources", []string{"png", dest}},
		{"bad compression", []string{"tiff", dest, "--from-binary", dest, "--compression", "lzw"}},
		{"incomplete binary", []string{"inspect", dest}},
		{"missing dtype", []string{"config", dest, "--dims", "2"}},
		{"bad config file", []string{"--config", filepath.Join(dest, "bad.toml"), "png", dest, "x.png"}},
	}
	if err := os.WriteFile(filepath.Join(dest, "bad.toml"), []byte("[export\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runCLI(t, "", tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}

func TestServeCommand(t *testing.T) {
	out, _, err := runCLI(t, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`+"\n", "serve")
	if err != nil {
		t.Fatalf("serve failed: %v", err)
	}
	var resp struct {
		Result struct {
			Tools []server.Tool `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(resp.Result.Tools) != 5 {
		t.Errorf("tools: got %d, want 5", len(resp.Result.Tools))
	}
}

func TestRootServesByDefault(t *testing.T) {
	out, _, err := runCLI(t, `{"jsonrpc":"2.0","id":"x","method":"ping"}`+"\n")
	if err != nil {
		t.Fatalf("root failed: %v", err)
	}
	if !strings.Contains(out, `"id":"x"`) {
		t.Errorf("unexpected output: %q", out)
	}
}
