package imagefetch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioFetcher retrieves images from object storage. URLs take the form
// minio://bucket/object/key.
type MinioFetcher struct {
	client *minio.Client
}

// NewMinioFetcher connects to the given MinIO endpoint.
func NewMinioFetcher(endpoint, accessKeyID, secretAccessKey string, useSSL bool) (*MinioFetcher, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %v", err)
	}
	return &MinioFetcher{client: client}, nil
}

func (f *MinioFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	bucket, object, err := splitMinioURL(url)
	if err != nil {
		return nil, err
	}
	obj, err := f.client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return data, nil
}

func splitMinioURL(url string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(url, "minio://")
	if !ok {
		return "", "", fmt.Errorf("%w: not a minio url: %s", ErrFetch, url)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("%w: malformed minio url: %s", ErrFetch, url)
	}
	return bucket, object, nil
}
