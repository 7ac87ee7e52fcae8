package storage

import (
	"context"
	"io"
)

type Object struct {
	Name string
	Size int64
}

// Provider stores objects under bucket/key. Input corpora, Label Studio
// exports and generated datasets are read and written through it.
type Provider interface {
	CreateBucket(ctx context.Context, bucket string) error

	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	PutObject(ctx context.Context, bucket, key string, data io.Reader) error

	ListObjects(ctx context.Context, bucket, prefix string) ([]Object, error)
}
