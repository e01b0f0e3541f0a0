package mock

import (
	"context"

	"github.com/fwojciec/searchcrawl"
)

var _ searchcrawl.QueueService = (*QueueService)(nil)

// QueueService is a mock implementation of searchcrawl.QueueService.
type QueueService struct {
	ReplaceQueueFn func(ctx context.Context, entries []searchcrawl.FrontierEntry) error
	LoadQueueFn    func(ctx context.Context) ([]searchcrawl.FrontierEntry, error)
}

func (s *QueueService) ReplaceQueue(ctx context.Context, entries []searchcrawl.FrontierEntry) error {
	return s.ReplaceQueueFn(ctx, entries)
}

func (s *QueueService) LoadQueue(ctx context.Context) ([]searchcrawl.FrontierEntry, error) {
	return s.LoadQueueFn(ctx)
}
