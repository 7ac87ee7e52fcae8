package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const S3Prefix = "s3://"

// Location is either a local file path or an s3://bucket/key url.
type Location struct {
	Bucket string
	Key    string
	S3     bool
}

func ParseLocation(loc string) (Location, error) {
	if !strings.HasPrefix(loc, S3Prefix) {
		if loc == "" {
			return Location{}, fmt.Errorf("empty location")
		}
		return Location{Key: loc}, nil
	}

	bucket, key, _ := strings.Cut(strings.TrimPrefix(loc, S3Prefix), "/")
	if bucket == "" || key == "" {
		return Location{}, fmt.Errorf("invalid s3 location '%s', expected s3://bucket/key", loc)
	}
	return Location{Bucket: bucket, Key: key, S3: true}, nil
}

func (l Location) String() string {
	if l.S3 {
		return S3Prefix + l.Bucket + "/" + l.Key
	}
	return l.Key
}

// Resolver reads and writes locations, creating the S3 provider the first
// time an s3:// location is used.
type Resolver struct {
	local Provider
	s3Cfg *S3ProviderConfig

	mu      sync.Mutex
	s3      Provider
	buckets map[string]bool
}

func NewResolver(s3Cfg *S3ProviderConfig) *Resolver {
	return &Resolver{local: NewLocalProvider(""), s3Cfg: s3Cfg}
}

// NewResolverWithProviders is used when the providers are already built,
// for example in tests.
func NewResolverWithProviders(local, s3 Provider) *Resolver {
	return &Resolver{local: local, s3: s3}
}

func (r *Resolver) provider(loc Location) (Provider, error) {
	if !loc.S3 {
		return r.local, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.s3 == nil {
		if r.s3Cfg == nil {
			return nil, fmt.Errorf("s3 is not configured, cannot access %s", loc)
		}
		provider, err := NewS3Provider(r.s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("error creating s3 provider: %w", err)
		}
		r.s3 = provider
	}
	return r.s3, nil
}

func (r *Resolver) ReadLocation(ctx context.Context, location string) ([]byte, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	provider, err := r.provider(loc)
	if err != nil {
		return nil, err
	}
	data, err := provider.GetObject(ctx, loc.Bucket, loc.Key)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", loc, err)
	}
	return data, nil
}

func (r *Resolver) WriteLocation(ctx context.Context, location string, data io.Reader) error {
	loc, err := ParseLocation(location)
	if err != nil {
		return err
	}
	provider, err := r.provider(loc)
	if err != nil {
		return err
	}
	if loc.S3 {
		r.ensureBucket(ctx, provider, loc.Bucket)
	}
	if err := provider.PutObject(ctx, loc.Bucket, loc.Key, data); err != nil {
		return fmt.Errorf("error writing %s: %w", loc, err)
	}
	return nil
}

// WriteLocationWith buffers everything write produces and stores it at
// location.
func (r *Resolver) WriteLocationWith(ctx context.Context, location string, write func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	return r.WriteLocation(ctx, location, &buf)
}

// ensureBucket creates an s3 bucket the first time it is written to. A failure
// is only logged, the write reports whether the bucket is usable.
func (r *Resolver) ensureBucket(ctx context.Context, provider Provider, bucket string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.buckets[bucket] {
		return
	}
	if err := provider.CreateBucket(ctx, bucket); err != nil {
		slog.Warn("could not create bucket", "bucket", bucket, "error", err)
		return
	}
	if r.buckets == nil {
		r.buckets = map[string]bool{}
	}
	r.buckets[bucket] = true
}

// ExpandLocation lists the .json objects of a collection location, sorted by
// name. A collection is a local directory or an s3:// location ending in "/".
// Any other location expands to itself.
func (r *Resolver) ExpandLocation(ctx context.Context, location string) ([]string, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	var bucket, prefix string
	switch {
	case loc.S3 && strings.HasSuffix(loc.Key, "/"):
		bucket, prefix = loc.Bucket, loc.Key
	case !loc.S3 && isDir(loc.Key):
		bucket = loc.Key
	default:
		return []string{location}, nil
	}

	provider, err := r.provider(loc)
	if err != nil {
		return nil, err
	}
	objects, err := provider.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", loc, err)
	}

	var locations []string
	for _, obj := range objects {
		if !strings.HasSuffix(obj.Name, ".json") {
			continue
		}
		if loc.S3 {
			locations = append(locations, Location{Bucket: bucket, Key: obj.Name, S3: true}.String())
		} else {
			locations = append(locations, filepath.Join(bucket, filepath.FromSlash(obj.Name)))
		}
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("no .json objects found in %s", loc)
	}
	sort.Strings(locations)
	return locations, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
