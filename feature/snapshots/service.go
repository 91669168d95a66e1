package snapshots

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"case-mirror/core/storage"
	"case-mirror/feature/cases/store"
)

// prefix is where snapshot objects live inside the bucket.
const prefix = "snapshots/"

// Service takes, lists and removes mirror snapshots.
type Service struct {
	client    storage.Client
	bucket    string
	store     *store.Store
	retention int
	logger    *zap.Logger
}

// NewService creates a new snapshots service.
func NewService(client storage.Client, bucket string, store *store.Store, retention int, logger *zap.Logger) *Service {
	return &Service{
		client:    client,
		bucket:    bucket,
		store:     store,
		retention: retention,
		logger:    logger,
	}
}

// document is the JSON layout of one snapshot object.
type document struct {
	TakenAt string  `json:"taken_at"`
	Count   int     `json:"count"`
	Cases   []entry `json:"cases"`
}

// entry is one mirrored case inside a snapshot, with the merge keys lifted
// out of the payload.
type entry struct {
	ID               int64           `json:"id"`
	LogicalTimestamp int64           `json:"logical_timestamp"`
	Payload          json.RawMessage `json:"payload"`
}

// Snapshot describes one stored snapshot object.
type Snapshot struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Archive writes the committed mirror content to the bucket as one JSON
// document, prunes snapshots beyond the retention count and returns the
// written object name. A reconciliation page still in flight is invisible
// to the snapshot.
func (s *Service) Archive(ctx context.Context) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	cur, err := s.store.ScanCommitted(ctx, 0)
	if err != nil {
		return "", fmt.Errorf("failed to open mirror scan: %w", err)
	}
	defer cur.Close()

	doc := document{
		TakenAt: time.Now().UTC().Format(time.RFC3339),
		Cases:   make([]entry, 0),
	}
	for {
		rec, ok, err := cur.Next(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to read mirror: %w", err)
		}
		if !ok {
			break
		}
		doc.Cases = append(doc.Cases, entry{
			ID:               rec.ID,
			LogicalTimestamp: rec.Version,
			Payload:          rec.Payload,
		})
	}
	doc.Count = len(doc.Cases)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	objectName := fmt.Sprintf("%scases-%s-%s.json",
		prefix,
		time.Now().UTC().Format("20060102T150405Z"),
		uuid.New().String()[:8])

	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	s.logger.Info("Snapshot written",
		zap.String("object", objectName),
		zap.Int("cases", doc.Count))

	if err := s.prune(ctx); err != nil {
		// Retention failures never fail the snapshot itself.
		s.logger.Warn("Snapshot retention prune failed", zap.Error(err))
	}

	return objectName, nil
}

// List returns the stored snapshots, newest first.
func (s *Service) List(ctx context.Context) ([]Snapshot, error) {
	infos, err := s.listObjects(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(infos))
	for _, info := range infos {
		snapshots = append(snapshots, Snapshot{
			Name:         strings.TrimPrefix(info.Key, prefix),
			Size:         info.Size,
			LastModified: info.LastModified,
		})
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Name > snapshots[j].Name
	})
	return snapshots, nil
}

// Download streams one snapshot document by its name (without the bucket
// prefix).
func (s *Service) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, prefix+name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", name, err)
	}
	return obj, nil
}

// Remove deletes one snapshot by its name (without the bucket prefix).
func (s *Service) Remove(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, prefix+name, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove snapshot %s: %w", name, err)
	}
	s.logger.Info("Snapshot removed", zap.String("object", prefix+name))
	return nil
}

func (s *Service) listObjects(ctx context.Context) ([]minio.ObjectInfo, error) {
	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}

	var infos []minio.ObjectInfo
	for info := range s.client.ListObjects(ctx, s.bucket, opts) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", info.Err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// prune removes the oldest snapshots beyond the retention count. The
// timestamp in the object name makes lexicographic order chronological.
func (s *Service) prune(ctx context.Context) error {
	if s.retention <= 0 {
		return nil
	}

	infos, err := s.listObjects(ctx)
	if err != nil {
		return err
	}
	if len(infos) <= s.retention {
		return nil
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	stale := infos[:len(infos)-s.retention]

	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, obj := range stale {
		objectsCh <- obj
	}
	close(objectsCh)

	errorsCh := s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{})

	failed := 0
	for removeErr := range errorsCh {
		failed++
		s.logger.Warn("Failed to remove stale snapshot",
			zap.String("object", removeErr.ObjectName),
			zap.Error(removeErr.Err))
	}

	s.logger.Info("Pruned stale snapshots",
		zap.Int("removed", len(stale)-failed),
		zap.Int("kept", s.retention))
	return nil
}

// ensureBucket creates the bucket on first use.
func (s *Service) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("Created snapshot bucket", zap.String("bucket", s.bucket))
	return nil
}
