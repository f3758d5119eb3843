package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements Store with the MinIO client, for MinIO and other
// S3-compatible servers (Ceph, Garage, SeaweedFS).
type MinioStore struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioStore creates a store writing into bucket under rootPrefix.
func NewMinioStore(client *minio.Client, bucket, rootPrefix string) *MinioStore {
	return &MinioStore{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

// openMinio handles minio://host[:port]/bucket/prefix paths.
func openMinio(_ context.Context, loc Location, creds *Credentials) (Store, error) {
	bucket, prefix, _ := strings.Cut(loc.Path, "/")
	if bucket == "" {
		return nil, fmt.Errorf("invalid minio destination %q: missing bucket", loc.Raw)
	}

	opts := &minio.Options{Secure: true}
	if creds.static() {
		opts.Creds = miniocreds.NewStaticV4(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken)
	} else {
		opts.Creds = miniocreds.NewEnvMinio()
	}
	if creds != nil {
		opts.Secure = !creds.Insecure
		opts.Region = creds.Region
	}

	client, err := minio.New(loc.Host, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return NewMinioStore(client, bucket, prefix), nil
}

func (s *MinioStore) key(name string) string {
	return path.Join(s.prefix, name)
}

// Put uploads data as a single object.
func (s *MinioStore) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	return err
}

// Get downloads the object stored under name.
func (s *MinioStore) Get(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, s.translate(name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.translate(name, err)
	}
	return data, nil
}

// Exists stats the object stored under name.
func (s *MinioStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, s.key(name), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isMinioNotFound(err) {
		return false, nil
	}
	return false, err
}

// List returns object names under the root prefix.
func (s *MinioStore) List(ctx context.Context, prefix string) ([]string, error) {
	root := s.prefix
	if root != "" && !strings.HasSuffix(root, "/") {
		root += "/"
	}

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    root + prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if name := strings.TrimPrefix(obj.Key, root); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *MinioStore) translate(name string, err error) error {
	if isMinioNotFound(err) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return err
}

func isMinioNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}
