package snapshots_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"case-mirror/core/database"
	"case-mirror/core/mirror"
	"case-mirror/core/storage/mocks"
	"case-mirror/feature/cases/models"
	"case-mirror/feature/cases/store"
	"case-mirror/feature/snapshots"
)

const bucket = "case-mirror"

// setupStore creates an in-memory mirror seeded with count cases.
func setupStore(t *testing.T, count int) *store.Store {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Case{}))

	st := store.New(db)
	for id := int64(1); id <= int64(count); id++ {
		err := st.Save(context.Background(), mirror.Record{
			ID:      id,
			Version: 1,
			Payload: json.RawMessage(fmt.Sprintf(`{"id":%d,"logical_timestamp":1}`, id)),
		})
		assert.NoError(t, err)
	}
	return st
}

// setupFileStore creates a file-backed WAL mirror, where the archive's
// committed read can run beside an open page transaction.
func setupFileStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000",
		filepath.Join(t.TempDir(), "cases.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Case{}))
	return store.New(db)
}

func objectChannel(infos ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(infos))
	for _, info := range infos {
		ch <- info
	}
	close(ch)
	return ch
}

func TestArchiveWritesMirrorDocument(t *testing.T) {
	st := setupStore(t, 3)

	var written []byte
	var objectName string
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, bucket).Return(true, nil)
	mockClient.On("PutObject", mock.Anything, bucket, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			objectName = args.String(2)
			data, err := io.ReadAll(args.Get(3).(io.Reader))
			assert.NoError(t, err)
			written = data
		}).
		Return(minio.UploadInfo{}, nil)
	mockClient.On("ListObjects", mock.Anything, bucket, mock.Anything).Return(objectChannel())

	svc := snapshots.NewService(mockClient, bucket, st, 10, zap.NewNop())
	name, err := svc.Archive(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, objectName, name)
	assert.True(t, strings.HasPrefix(name, "snapshots/cases-"))
	assert.True(t, strings.HasSuffix(name, ".json"))

	var doc struct {
		TakenAt string `json:"taken_at"`
		Count   int    `json:"count"`
		Cases   []struct {
			ID               int64           `json:"id"`
			LogicalTimestamp int64           `json:"logical_timestamp"`
			Payload          json.RawMessage `json:"payload"`
		} `json:"cases"`
	}
	assert.NoError(t, json.Unmarshal(written, &doc))
	assert.Equal(t, 3, doc.Count)
	assert.Len(t, doc.Cases, 3)
	assert.Equal(t, int64(1), doc.Cases[0].ID)
	assert.JSONEq(t, `{"id":1,"logical_timestamp":1}`, string(doc.Cases[0].Payload))

	_, err = time.Parse(time.RFC3339, doc.TakenAt)
	assert.NoError(t, err)

	mockClient.AssertExpectations(t)
}

func TestArchiveReadsCommittedStateOnly(t *testing.T) {
	st := setupFileStore(t)
	ctx := context.Background()
	assert.NoError(t, st.Save(ctx, mirror.Record{
		ID:      1,
		Version: 1,
		Payload: json.RawMessage(`{"id":1,"logical_timestamp":1}`),
	}))

	// Stage a page without committing it, as a pass in flight would.
	assert.NoError(t, st.Insert(ctx, mirror.Record{
		ID:      2,
		Version: 7,
		Payload: json.RawMessage(`{"id":2,"logical_timestamp":7}`),
	}))

	var written []byte
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, bucket).Return(true, nil)
	mockClient.On("PutObject", mock.Anything, bucket, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			data, err := io.ReadAll(args.Get(3).(io.Reader))
			assert.NoError(t, err)
			written = data
		}).
		Return(minio.UploadInfo{}, nil)
	mockClient.On("ListObjects", mock.Anything, bucket, mock.Anything).Return(objectChannel())

	svc := snapshots.NewService(mockClient, bucket, st, 10, zap.NewNop())
	_, err := svc.Archive(ctx)
	assert.NoError(t, err)

	var doc struct {
		Count int `json:"count"`
		Cases []struct {
			ID int64 `json:"id"`
		} `json:"cases"`
	}
	assert.NoError(t, json.Unmarshal(written, &doc))
	assert.Equal(t, 1, doc.Count)
	assert.Len(t, doc.Cases, 1)
	assert.Equal(t, int64(1), doc.Cases[0].ID)

	// The page rolls back. The archive already matched what was committed.
	assert.NoError(t, st.Rollback())
	total, err := st.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestArchiveCreatesMissingBucket(t *testing.T) {
	st := setupStore(t, 1)

	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, bucket).Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, bucket, mock.Anything).Return(nil)
	mockClient.On("PutObject", mock.Anything, bucket, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	mockClient.On("ListObjects", mock.Anything, bucket, mock.Anything).Return(objectChannel())

	svc := snapshots.NewService(mockClient, bucket, st, 10, zap.NewNop())
	_, err := svc.Archive(context.Background())
	assert.NoError(t, err)

	mockClient.AssertExpectations(t)
}

func TestArchivePrunesBeyondRetention(t *testing.T) {
	st := setupStore(t, 1)

	stored := objectChannel(
		minio.ObjectInfo{Key: "snapshots/cases-20260101T000000Z-aa.json"},
		minio.ObjectInfo{Key: "snapshots/cases-20260102T000000Z-bb.json"},
		minio.ObjectInfo{Key: "snapshots/cases-20260103T000000Z-cc.json"},
		minio.ObjectInfo{Key: "snapshots/cases-20260104T000000Z-dd.json"},
	)

	var removed []string
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, bucket).Return(true, nil)
	mockClient.On("PutObject", mock.Anything, bucket, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	mockClient.On("ListObjects", mock.Anything, bucket, mock.Anything).Return(stored)
	mockClient.On("RemoveObjects", mock.Anything, bucket, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			for obj := range args.Get(2).(<-chan minio.ObjectInfo) {
				removed = append(removed, obj.Key)
			}
		}).
		Return(nil)

	svc := snapshots.NewService(mockClient, bucket, st, 2, zap.NewNop())
	_, err := svc.Archive(context.Background())
	assert.NoError(t, err)

	// The two oldest go, the two newest stay.
	assert.Equal(t, []string{
		"snapshots/cases-20260101T000000Z-aa.json",
		"snapshots/cases-20260102T000000Z-bb.json",
	}, removed)
}

func TestListReturnsNewestFirst(t *testing.T) {
	st := setupStore(t, 0)

	mockClient := new(mocks.Client)
	mockClient.On("ListObjects", mock.Anything, bucket, mock.Anything).Return(objectChannel(
		minio.ObjectInfo{Key: "snapshots/cases-20260102T000000Z-bb.json", Size: 20},
		minio.ObjectInfo{Key: "snapshots/cases-20260103T000000Z-cc.json", Size: 30},
		minio.ObjectInfo{Key: "snapshots/cases-20260101T000000Z-aa.json", Size: 10},
	))

	svc := snapshots.NewService(mockClient, bucket, st, 10, zap.NewNop())
	list, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, "cases-20260103T000000Z-cc.json", list[0].Name)
	assert.Equal(t, int64(30), list[0].Size)
	assert.Equal(t, "cases-20260101T000000Z-aa.json", list[2].Name)
}

func TestListSurfacesListingErrors(t *testing.T) {
	st := setupStore(t, 0)

	mockClient := new(mocks.Client)
	mockClient.On("ListObjects", mock.Anything, bucket, mock.Anything).Return(objectChannel(
		minio.ObjectInfo{Err: fmt.Errorf("access denied")},
	))

	svc := snapshots.NewService(mockClient, bucket, st, 10, zap.NewNop())
	_, err := svc.List(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestDownloadStreamsDocument(t *testing.T) {
	st := setupStore(t, 0)

	mockClient := new(mocks.Client)
	mockClient.On("GetObject", mock.Anything, bucket, "snapshots/cases-x.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(`{"count":0}`)), nil)

	svc := snapshots.NewService(mockClient, bucket, st, 10, zap.NewNop())
	obj, err := svc.Download(context.Background(), "cases-x.json")
	assert.NoError(t, err)
	defer obj.Close()

	data, err := io.ReadAll(obj)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"count":0}`, string(data))
}

func TestRemoveDeletesObject(t *testing.T) {
	st := setupStore(t, 0)

	mockClient := new(mocks.Client)
	mockClient.On("RemoveObject", mock.Anything, bucket, "snapshots/cases-x.json", mock.Anything).Return(nil)

	svc := snapshots.NewService(mockClient, bucket, st, 10, zap.NewNop())
	assert.NoError(t, svc.Remove(context.Background(), "cases-x.json"))
	mockClient.AssertExpectations(t)
}

// Compile-time check that the service satisfies the synchronizer's
// archiver contract.
var _ mirror.Archiver = (*snapshots.Service)(nil)
