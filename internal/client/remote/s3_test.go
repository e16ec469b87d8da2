package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedPut struct {
	method      string
	path        string
	contentType string
	body        []byte
}

func fakeS3(t *testing.T, status int) (*httptest.Server, func() []capturedPut) {
	t.Helper()
	var (
		mu   sync.Mutex
		puts []capturedPut
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		puts = append(puts, capturedPut{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        body,
		})
		mu.Unlock()
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedPut {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedPut(nil), puts...)
	}
}

func newTestBlobStore(t *testing.T, endpoint string) *S3BlobStore {
	t.Helper()
	bs, err := NewS3BlobStore(context.Background(), S3Config{
		BaseEndpoint: endpoint,
		Region:       "us-east-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		MaxAttempts:  1,
	})
	require.NoError(t, err)
	return bs
}

func TestUploadBinary_PutsObjectPathStyle(t *testing.T) {
	srv, puts := fakeS3(t, http.StatusOK)
	bs := newTestBlobStore(t, srv.URL)

	data := []byte{0xff, 0xd8, 0xff, 0xe0}
	path, err := bs.UploadBinary(context.Background(), "site-media", "u1/proj-1/m1.jpg", data, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "u1/proj-1/m1.jpg", path)

	got := puts()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/site-media/u1/proj-1/m1.jpg", got[0].path)
	assert.Equal(t, "image/jpeg", got[0].contentType)
	assert.Equal(t, data, got[0].body)
}

func TestUploadBinary_ServerErrorIsUploadFailed(t *testing.T) {
	srv, puts := fakeS3(t, http.StatusInternalServerError)
	bs := newTestBlobStore(t, srv.URL)

	_, err := bs.UploadBinary(context.Background(), "site-media", "k", []byte("x"), "")
	require.ErrorIs(t, err, common.ErrUploadFailed)
	assert.Len(t, puts(), 1)
}

func TestNewS3BlobStore_ConfigLoadError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3BlobStore(context.Background(), S3Config{Region: "us-east-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config")
}

func TestNewS3BlobStore_AppliesEndpointOptions(t *testing.T) {
	origNew := newS3ClientFromConfig
	t.Cleanup(func() { newS3ClientFromConfig = origNew })

	var applied s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&applied)
		}
		return origNew(cfg, optFns...)
	}

	_, err := NewS3BlobStore(context.Background(), S3Config{BaseEndpoint: "http://minio:9000", Region: "us-east-1"})
	require.NoError(t, err)
	require.NotNil(t, applied.BaseEndpoint)
	assert.Equal(t, "http://minio:9000", *applied.BaseEndpoint)
	assert.True(t, applied.UsePathStyle)
}
