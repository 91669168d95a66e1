package mocks

import (
	"context"

	"case-mirror/core/mirror"
	"case-mirror/core/upstream"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of upstream.Client
type Client struct {
	mock.Mock
}

func (m *Client) FetchPage(ctx context.Context, limit, offset int) (mirror.Page, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).(mirror.Page), args.Error(1)
}

func (m *Client) Pages() mirror.PageIter {
	args := m.Called()
	if it, ok := args.Get(0).(mirror.PageIter); ok {
		return it
	}
	return nil
}

func (m *Client) Get(ctx context.Context, id int64) (*upstream.Case, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*upstream.Case); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Create(ctx context.Context, in upstream.CaseCreate) (*upstream.Case, error) {
	args := m.Called(ctx, in)
	if c, ok := args.Get(0).(*upstream.Case); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Update(ctx context.Context, id int64, in upstream.CaseUpdate) (*upstream.Case, error) {
	args := m.Called(ctx, id, in)
	if c, ok := args.Get(0).(*upstream.Case); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
