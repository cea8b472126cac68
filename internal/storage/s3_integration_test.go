//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everlightos/federation/internal/testutil"
)

func TestIntegration_S3Client_RoundTrip(t *testing.T) {
	ctx := context.Background()
	rc := testutil.NewRustFSContainer(ctx, t)
	defer rc.Terminate(ctx)

	client, err := NewS3Client(ctx, S3ClientConfig{
		Endpoint:        rc.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     "rustfsadmin",
		SecretAccessKey: "rustfsadmin",
		Bucket:          "federation-test",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	require.NoError(t, client.EnsureBucket(ctx))

	require.NoError(t, client.Put(ctx, "voyagers-chunks/one.md", []byte("# One"), "text/markdown"))
	require.NoError(t, client.Put(ctx, "other/two.txt", []byte("two"), "text/plain"))

	objects, err := client.List(ctx, "voyagers-chunks/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "voyagers-chunks/one.md", objects[0].Key)
	assert.Equal(t, int64(5), objects[0].Size)

	body, ok, err := client.Get(ctx, "voyagers-chunks/one.md")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "# One", string(body))

	_, ok, err = client.Get(ctx, "voyagers-chunks/none.md")
	require.NoError(t, err)
	assert.False(t, ok)
}
