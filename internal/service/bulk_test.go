package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/everlightos/federation/internal/domain"
)

type bulkMocks struct {
	objects  *MockObjectStore
	embedder *MockEmbedder
	store    *MockKnowledgeStore
	index    *MockVectorIndex
}

func newBulkService() (*BulkIngestService, bulkMocks) {
	m := bulkMocks{
		objects:  new(MockObjectStore),
		embedder: new(MockEmbedder),
		store:    new(MockKnowledgeStore),
		index:    new(MockVectorIndex),
	}
	svc := NewBulkIngestService(m.objects, plainExtractor{}, m.embedder, m.store, m.index, BulkConfig{
		Folder:      "voyagers-chunks",
		MaxFiles:    10,
		TitlePrefix: "Voyagers: ",
		Tags:        []string{"voyagers", "chunks", "foundational"},
	}, nil)
	return svc, m
}

func objectsN(n int) []domain.BucketObject {
	out := make([]domain.BucketObject, n)
	for i := range out {
		out[i] = domain.BucketObject{Key: "voyagers-chunks/chunk_" + string(rune('a'+i)) + ".md", Size: int64(10 + i)}
	}
	return out
}

func TestBulkIngestService_Ingest_NoFiles(t *testing.T) {
	svc, m := newBulkService()
	m.objects.On("List", mock.Anything, "voyagers-chunks/").Return([]domain.BucketObject{}, nil)

	out, err := svc.Ingest(context.Background(), BulkInput{})

	require.NoError(t, err)
	assert.False(t, out.Found)
	assert.Equal(t, "voyagers-chunks", out.FolderPath)
	assert.Zero(t, out.TotalFound)
	m.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.index.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestBulkIngestService_Ingest_ProcessesUpToMax(t *testing.T) {
	svc, m := newBulkService()
	objs := objectsN(5)

	m.objects.On("List", mock.Anything, "custom/").Return(objs, nil)
	m.objects.On("Get", mock.Anything, mock.Anything).Return([]byte("text"), true, nil)
	m.embedder.On("Embed", mock.Anything, "text").Return([]float32{0.1}, nil)
	m.store.On("Create", mock.Anything, mock.MatchedBy(func(k *domain.KnowledgeItem) bool {
		return k.Title == "Voyagers: chunk a" || k.Title == "Voyagers: chunk b" || k.Title == "Voyagers: chunk c"
	})).Return(nil)
	m.index.On("Upsert", mock.Anything, mock.MatchedBy(func(v domain.EmbeddingVector) bool {
		return v.Metadata["chunk_type"] == ChunkTypeParsed
	})).Return(nil)

	out, err := svc.Ingest(context.Background(), BulkInput{FolderPath: "custom/", MaxFiles: 3})

	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Equal(t, 5, out.TotalFound)
	assert.Equal(t, 3, out.Processed)
	assert.Zero(t, out.Failed)
	require.Len(t, out.Files, 3)
	assert.Equal(t, "voyagers-chunks/chunk_a.md", out.Files[0].Source)
	assert.Equal(t, int64(10), out.Files[0].Size)
	m.objects.AssertNumberOfCalls(t, "Get", 3)
}

func TestBulkIngestService_Ingest_FailuresAreCounted(t *testing.T) {
	svc, m := newBulkService()
	objs := objectsN(4)

	m.objects.On("List", mock.Anything, "voyagers-chunks/").Return(objs, nil)
	m.objects.On("Get", mock.Anything, objs[0].Key).Return([]byte("ok"), true, nil)
	m.objects.On("Get", mock.Anything, objs[1].Key).Return(nil, false, errors.New("read timeout"))
	m.objects.On("Get", mock.Anything, objs[2].Key).Return(nil, false, nil)
	m.objects.On("Get", mock.Anything, objs[3].Key).Return([]byte("bad"), true, nil)
	m.embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	m.store.On("Create", mock.Anything, mock.MatchedBy(func(k *domain.KnowledgeItem) bool {
		return k.Content == "ok"
	})).Return(nil)
	m.store.On("Create", mock.Anything, mock.MatchedBy(func(k *domain.KnowledgeItem) bool {
		return k.Content == "bad"
	})).Return(errors.New("constraint violation"))
	m.index.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	out, err := svc.Ingest(context.Background(), BulkInput{MaxFiles: 0})

	require.NoError(t, err)
	assert.Equal(t, 1, out.Processed)
	assert.Equal(t, 2, out.Failed)
	assert.LessOrEqual(t, out.Processed+out.Failed, min(10, out.TotalFound))
}

func TestBulkIngestService_Ingest_BlankObjectSkipsWrites(t *testing.T) {
	svc, m := newBulkService()
	obj := domain.BucketObject{Key: "voyagers-chunks/empty.md", Size: 2}

	m.objects.On("List", mock.Anything, "voyagers-chunks/").Return([]domain.BucketObject{obj}, nil)
	m.objects.On("Get", mock.Anything, obj.Key).Return([]byte("\n\n"), true, nil)

	out, err := svc.Ingest(context.Background(), BulkInput{})

	require.NoError(t, err)
	assert.Zero(t, out.Processed)
	assert.Equal(t, 1, out.Failed)
	m.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.embedder.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything)
}

func TestBulkIngestService_Ingest_SourceAndTags(t *testing.T) {
	svc, m := newBulkService()
	obj := domain.BucketObject{Key: "voyagers-chunks/Book_One-Part-2.txt", Size: 3}

	m.objects.On("List", mock.Anything, "voyagers-chunks/").Return([]domain.BucketObject{obj}, nil)
	m.objects.On("Get", mock.Anything, obj.Key).Return([]byte("abc"), true, nil)
	m.embedder.On("Embed", mock.Anything, "abc").Return([]float32{0.1}, nil)
	m.store.On("Create", mock.Anything, mock.MatchedBy(func(k *domain.KnowledgeItem) bool {
		return k.Title == "Voyagers: Book One Part 2" &&
			k.Source == "s3://one-bucket-everlightos/voyagers-chunks/Book_One-Part-2.txt" &&
			assert.ObjectsAreEqual([]string{"voyagers", "chunks", "foundational"}, k.Tags)
	})).Return(nil)
	m.index.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	out, err := svc.Ingest(context.Background(), BulkInput{})

	require.NoError(t, err)
	assert.Equal(t, 1, out.Processed)
	m.store.AssertExpectations(t)
}

func TestBulkIngestService_Ingest_ListError(t *testing.T) {
	svc, m := newBulkService()
	m.objects.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("bucket missing"))

	_, err := svc.Ingest(context.Background(), BulkInput{})
	assert.ErrorContains(t, err, "bucket missing")
}

func TestFolderPrefix(t *testing.T) {
	assert.Equal(t, "voyagers-chunks/", FolderPrefix("voyagers-chunks"))
	assert.Equal(t, "voyagers-chunks/", FolderPrefix("voyagers-chunks/"))
	assert.Equal(t, "a/b/", FolderPrefix("a/b"))
}

func TestBucketService_List(t *testing.T) {
	objects := new(MockObjectStore)
	svc := NewBucketService(objects)
	listed := []domain.BucketObject{{Key: "x/1"}, {Key: "y/2"}}

	objects.On("List", mock.Anything, "").Return(listed, nil)

	got, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, listed, got)
	objects.AssertNumberOfCalls(t, "List", 1)
}
