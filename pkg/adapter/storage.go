package adapter

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

const archiveObjectPrefix = "archives/"

// Storage is the interface for raw archive retention. Uploaded archives are
// kept verbatim, keyed by upload ID, so a processed upload can be re-examined
// later.
type Storage interface {
	// SaveArchive stores the raw bytes of an uploaded archive
	SaveArchive(ctx context.Context, uploadID string, data []byte) error
	// OpenArchive reads back a previously stored archive
	OpenArchive(ctx context.Context, uploadID string) (io.ReadCloser, error)
}

// storageClient implements Storage interface using Cloud Storage
type storageClient struct {
	bucketName string
	client     *storage.Client
}

// NewStorage creates a new Cloud Storage client
func NewStorage(ctx context.Context, bucketName string) (Storage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &storageClient{
		bucketName: bucketName,
		client:     client,
	}, nil
}

func (s *storageClient) SaveArchive(ctx context.Context, uploadID string, data []byte) error {
	obj := s.client.Bucket(s.bucketName).Object(archiveObjectPrefix + uploadID)
	w := obj.NewWriter(ctx)
	w.ContentType = "application/zip"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write archive", goerr.V("uploadID", uploadID))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize archive", goerr.V("uploadID", uploadID))
	}

	return nil
}

func (s *storageClient) OpenArchive(ctx context.Context, uploadID string) (io.ReadCloser, error) {
	obj := s.client.Bucket(s.bucketName).Object(archiveObjectPrefix + uploadID)
	r, err := obj.NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read archive", goerr.V("uploadID", uploadID))
	}

	return r, nil
}
