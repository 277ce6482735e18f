package storage

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestS3Store creates an S3 store backed by an in-memory gofakes3 server
func newTestS3Store(t *testing.T, prefix string) *S3Store {
	t.Helper()

	faker := gofakes3.New(s3mem.New())
	ts := httptest.NewServer(faker.Server())
	t.Cleanup(ts.Close)

	ctx := context.Background()
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		),
	)
	require.NoError(t, err)

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(ts.URL)
		o.UsePathStyle = true
	})

	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String("certs")})
	require.NoError(t, err)

	return NewS3StoreFromClient(client, "certs", prefix)
}

func TestS3StoreSaveOpenDelete(t *testing.T) {
	store := newTestS3Store(t, "certificates/")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "advanced_certificate_0a1b2c3d.pdf", []byte("%PDF-1.3 s3"), "application/pdf"))

	obj, err := store.Open(ctx, "advanced_certificate_0a1b2c3d.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, obj.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 s3", string(data))
	assert.Equal(t, "application/pdf", obj.ContentType)

	require.NoError(t, store.Delete(ctx, "advanced_certificate_0a1b2c3d.pdf"))
	_, err = store.Open(ctx, "advanced_certificate_0a1b2c3d.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3StoreOpenMissing(t *testing.T) {
	store := newTestS3Store(t, "")

	_, err := store.Open(context.Background(), "nope.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3StoreListStripsPrefix(t *testing.T) {
	store := newTestS3Store(t, "certificates/")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a.pdf", []byte("a"), "application/pdf"))
	require.NoError(t, store.Save(ctx, "b.pdf", []byte("bb"), "application/pdf"))

	objects, err := store.List(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(objects))
	for _, obj := range objects {
		names = append(names, obj.Name)
		assert.False(t, obj.ModTime.IsZero())
	}
	assert.ElementsMatch(t, []string{"a.pdf", "b.pdf"}, names)
}

func TestS3StoreRejectsInvalidNames(t *testing.T) {
	store := newTestS3Store(t, "")
	assert.ErrorIs(t, store.Save(context.Background(), "../x.pdf", []byte("x"), "application/pdf"), ErrInvalidName)
}
