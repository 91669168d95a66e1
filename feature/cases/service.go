package cases

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"case-mirror/core/mirror"
	"case-mirror/core/upstream"
	"case-mirror/feature/cases/models"
	"case-mirror/feature/cases/store"
)

const (
	defaultListLimit = 20
	maxListLimit     = 1000
)

// Service coordinates case operations between the upstream registry and the
// local mirror. Writes go to the registry first and reach the mirror only
// after the registry accepted them; reads never leave the mirror.
type Service struct {
	client upstream.Client
	store  *store.Store
	syncer *mirror.Synchronizer
	logger *zap.Logger
}

// NewService creates a new cases service.
func NewService(client upstream.Client, store *store.Store, syncer *mirror.Synchronizer, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		syncer: syncer,
		logger: logger,
	}
}

// Create registers a new case in the registry and mirrors the result.
func (s *Service) Create(ctx context.Context, in upstream.CaseCreate) (*upstream.Case, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	created, err := s.client.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.mirrorCase(ctx, created); err != nil {
		return nil, fmt.Errorf("case %d created upstream but not mirrored: %w", created.ID, err)
	}
	return created, nil
}

// Update changes a case in the registry and mirrors the result.
func (s *Service) Update(ctx context.Context, id int64, in upstream.CaseUpdate) (*upstream.Case, error) {
	updated, err := s.client.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if err := s.mirrorCase(ctx, updated); err != nil {
		return nil, fmt.Errorf("case %d updated upstream but not mirrored: %w", id, err)
	}
	return updated, nil
}

// Delete removes a case from the registry and the mirror. A case the
// registry no longer knows is still removed locally so both sides converge.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, id); err != nil {
		if !upstream.IsNotFound(err) {
			return err
		}
		s.logger.Info("Case already gone upstream, removing mirror row", zap.Int64("case_id", id))
	}
	return s.store.Remove(ctx, id)
}

// Get returns one mirrored case.
func (s *Service) Get(ctx context.Context, id int64) (*models.Case, error) {
	return s.store.Get(ctx, id)
}

// PageMeta is the pagination block of a local listing, shaped like the
// registry's envelope.
type PageMeta struct {
	Limit      int     `json:"limit"`
	Next       *string `json:"next"`
	Offset     int     `json:"offset"`
	Previous   *string `json:"previous"`
	TotalCount int64   `json:"total_count"`
}

// CasePage is one page of mirrored cases. Objects carry the stored
// registry payloads verbatim.
type CasePage struct {
	Meta    PageMeta          `json:"meta"`
	Objects []json.RawMessage `json:"objects"`
}

// List returns one page of the mirror in id order.
func (s *Service) List(ctx context.Context, limit, offset int) (*CasePage, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	page := &CasePage{
		Meta: PageMeta{
			Limit:      limit,
			Offset:     offset,
			TotalCount: total,
		},
		Objects: make([]json.RawMessage, 0, len(rows)),
	}
	for _, row := range rows {
		page.Objects = append(page.Objects, json.RawMessage(row.Blob))
	}

	if int64(offset+limit) < total {
		next := fmt.Sprintf("/cases?limit=%d&offset=%d", limit, offset+limit)
		page.Meta.Next = &next
	}
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		previous := fmt.Sprintf("/cases?limit=%d&offset=%d", limit, prev)
		page.Meta.Previous = &previous
	}
	return page, nil
}

// SyncNow runs one reconciliation pass immediately. Concurrent calls share
// a single pass.
func (s *Service) SyncNow(ctx context.Context) (*mirror.Stats, error) {
	return s.syncer.SyncNow(ctx)
}

// mirrorCase lands a registry response in the mirror.
func (s *Service) mirrorCase(ctx context.Context, c *upstream.Case) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode case %d: %w", c.ID, err)
	}
	return s.store.Save(ctx, mirror.Record{
		ID:      c.ID,
		Version: c.LogicalTimestamp,
		Payload: payload,
	})
}
