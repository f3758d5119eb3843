package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw    string
		scheme string
		host   string
		path   string
	}{
		{"/data/out", "file", "", "/data/out"},
		{"relative/dir", "file", "", "relative/dir"},
		{"file:///data/out", "file", "", "/data/out"},
		{"s3://bucket/images/run1/", "s3", "bucket", "images/run1"},
		{"S3://bucket", "s3", "bucket", ""},
		{"minio://localhost:9000/bucket/prefix", "minio", "localhost:9000", "bucket/prefix"},
		{"mem://scratch", "mem", "scratch", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			loc, err := ParseLocation(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.raw, loc.Raw)
			require.Equal(t, tt.scheme, loc.Scheme)
			require.Equal(t, tt.host, loc.Host)
			require.Equal(t, tt.path, loc.Path)
		})
	}
}

func TestParseLocation_Invalid(t *testing.T) {
	for _, raw := range []string{"", "s3:///no-bucket", "file://"} {
		_, err := ParseLocation(raw)
		require.Error(t, err, raw)
	}
}

func TestOpen_UnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "gopher://host/x", nil)
	require.Error(t, err)
}

func TestSchemes(t *testing.T) {
	require.Subset(t, Schemes(), []string{"file", "mem", "minio", "s3"})
}

func TestRegister_Custom(t *testing.T) {
	mem := NewMemoryStore()
	Register("custom-test", func(context.Context, Location, *Credentials) (Store, error) {
		return mem, nil
	})

	w, err := NewParallelWriter(context.Background(), "custom-test://anything", WriterOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), "a.bin", []byte{1}))

	ok, err := mem.Exists(context.Background(), "a.bin")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLocalStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "nested", "out")
	store := NewLocalStore(root)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Empty(t, names)

	require.NoError(t, store.Put(ctx, "image-00001.bin", []byte("one")))
	require.NoError(t, store.Put(ctx, "image-00000.bin", []byte("zero")))
	require.NoError(t, store.Put(ctx, "conf.json", []byte("{}")))

	data, err := os.ReadFile(filepath.Join(root, "image-00000.bin"))
	require.NoError(t, err)
	require.Equal(t, "zero", string(data))

	got, err := store.Get(ctx, "image-00001.bin")
	require.NoError(t, err)
	require.Equal(t, "one", string(got))

	ok, err := store.Exists(ctx, "conf.json")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Exists(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	names, err = store.List(ctx, "image-")
	require.NoError(t, err)
	require.Equal(t, []string{"image-00000.bin", "image-00001.bin"}, names)
}

func TestLocalStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	require.NoError(t, store.Put(ctx, "f", []byte("first")))
	require.NoError(t, store.Put(ctx, "f", []byte("second")))

	got, err := store.Get(ctx, "f")
	require.NoError(t, err)
	require.Equal(t, "second", string(got))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"f"}, names, "temp files must not linger")
}

func TestMemoryStore_CopiesBuffers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	buf := []byte{1, 2, 3}
	require.NoError(t, store.Put(ctx, "x", buf))
	buf[0] = 9

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, got)

	got[1] = 9
	again, _ := store.Get(ctx, "x")
	require.Equal(t, []byte{1, 2, 3}, again)

	require.NoError(t, store.Delete(ctx, "x"))
	_, err = store.Get(ctx, "x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNamedMemoryStore_Shared(t *testing.T) {
	ctx := context.Background()
	w, err := NewParallelWriter(ctx, "mem://shared-test/run", WriterOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Write(ctx, "a", []byte("hi")))

	got, err := NamedMemoryStore("shared-test/run").Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "hi", string(got))
}

func TestParallelWriter_Overwrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	w, err := NewParallelWriter(ctx, dir, WriterOptions{})
	require.NoError(t, err)
	require.Equal(t, dir, w.Path())
	require.NoError(t, w.Write(ctx, "a.png", []byte("v1")))

	err = w.Write(ctx, "a.png", []byte("v2"))
	require.ErrorIs(t, err, ErrExists)

	var we *WriterError
	require.True(t, errors.As(err, &we))
	require.Equal(t, "a.png", we.Name)
	require.Equal(t, dir, we.Path)

	ow, err := NewParallelWriter(ctx, dir, WriterOptions{Overwrite: true})
	require.NoError(t, err)
	require.NoError(t, ow.Write(ctx, "a.png", []byte("v2")))

	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	require.Equal(t, "v2", string(data))
}

func TestParallelWriter_Concurrent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	w, err := NewParallelWriter(ctx, dir, WriterOptions{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = w.Write(ctx, filepath.Base(t.Name())+string(rune('a'+i)), []byte{byte(i)})
		}()
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 20)
}

func TestNewParallelWriter_BadPath(t *testing.T) {
	_, err := NewParallelWriter(context.Background(), "", WriterOptions{})
	var we *WriterError
	require.ErrorAs(t, err, &we)
}

func TestFileWriter(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fw, err := NewFileWriter(ctx, dir, "SUCCESS", WriterOptions{})
	require.NoError(t, err)
	require.Equal(t, "SUCCESS", fw.Name())
	require.NoError(t, fw.WriteString(ctx, ""))

	info, err := os.Stat(filepath.Join(dir, "SUCCESS"))
	require.NoError(t, err)
	require.Zero(t, info.Size())

	require.ErrorIs(t, fw.WriteString(ctx, ""), ErrExists)
}

func TestOpenS3_BuildsStore(t *testing.T) {
	creds := &Credentials{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:4566",
	}
	store, err := Open(context.Background(), "s3://bucket/exports/run1", creds)
	require.NoError(t, err)

	s3s, ok := store.(*S3Store)
	require.True(t, ok)
	require.Equal(t, "bucket", s3s.bucket)
	require.Equal(t, "exports/run1", s3s.prefix)
	require.Equal(t, "exports/run1/conf.json", s3s.key("conf.json"))
}

func TestOpenMinio_BuildsStore(t *testing.T) {
	creds := &Credentials{AccessKeyID: "minioadmin", SecretAccessKey: "minioadmin", Insecure: true}
	store, err := Open(context.Background(), "minio://localhost:9000/bucket/a/b", creds)
	require.NoError(t, err)

	ms, ok := store.(*MinioStore)
	require.True(t, ok)
	require.Equal(t, "bucket", ms.bucket)
	require.Equal(t, "a/b", ms.prefix)
	require.Equal(t, "a/b/image-00000.tif", ms.key("image-00000.tif"))

	_, err = Open(context.Background(), "minio://localhost:9000", creds)
	require.Error(t, err)
}

func TestWriterError_Message(t *testing.T) {
	err := &WriterError{Path: "/out", Name: "image-00000.png", Err: ErrExists}
	require.Contains(t, err.Error(), "image-00000.png")
	require.Contains(t, err.Error(), "/out")

	err = &WriterError{Path: "s3://b", Err: errors.New("no creds")}
	require.Contains(t, err.Error(), "failed to open writer")
}
