package storage

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Location is a parsed destination path.
type Location struct {
	// Raw is the path exactly as given.
	Raw string
	// Scheme is the lower-cased URI scheme, or "file" for plain paths.
	Scheme string
	// Host is the URI authority: the bucket for s3, the endpoint for minio,
	// the store name for mem. Empty for local paths.
	Host string
	// Path is the filesystem path for local locations and the slash-trimmed
	// key path for everything else.
	Path string
}

// ParseLocation classifies a destination path by its scheme.
//
// Paths without "://" are local filesystem paths. The result depends only on
// the string; no backend is contacted.
func ParseLocation(raw string) (Location, error) {
	if raw == "" {
		return Location{}, fmt.Errorf("empty destination path")
	}
	if !strings.Contains(raw, "://") {
		return Location{Raw: raw, Scheme: "file", Path: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("invalid destination %q: %w", raw, err)
	}
	loc := Location{Raw: raw, Scheme: strings.ToLower(u.Scheme), Host: u.Host}
	if loc.Scheme == "file" {
		loc.Path = u.Path
		if loc.Path == "" {
			return Location{}, fmt.Errorf("invalid destination %q: missing path", raw)
		}
		return loc, nil
	}

	loc.Path = strings.Trim(u.Path, "/")
	if loc.Host == "" {
		return Location{}, fmt.Errorf("invalid destination %q: missing host", raw)
	}
	return loc, nil
}

// Opener constructs a Store for a parsed location.
type Opener func(ctx context.Context, loc Location, creds *Credentials) (Store, error)

var (
	openersMu sync.RWMutex
	openers   = map[string]Opener{}
)

// Register makes a backend available for a scheme. Registering the same
// scheme again replaces the previous opener.
func Register(scheme string, open Opener) {
	openersMu.Lock()
	openers[strings.ToLower(scheme)] = open
	openersMu.Unlock()
}

// Schemes returns the registered schemes in sorted order.
func Schemes() []string {
	openersMu.RLock()
	defer openersMu.RUnlock()
	out := make([]string, 0, len(openers))
	for s := range openers {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Open returns the Store for path, chosen by its scheme.
func Open(ctx context.Context, path string, creds *Credentials) (Store, error) {
	loc, err := ParseLocation(path)
	if err != nil {
		return nil, err
	}

	openersMu.RLock()
	open, ok := openers[loc.Scheme]
	openersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown storage scheme %q (no backend registered)", loc.Scheme)
	}
	return open(ctx, loc, creds)
}

func init() {
	Register("file", openLocal)
	Register("mem", openMemory)
	Register("s3", openS3)
	Register("minio", openMinio)
}
