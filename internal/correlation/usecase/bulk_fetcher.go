package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

// BulkFetcherOptions tunes how ids are split across metadata reads.
type BulkFetcherOptions struct {
	ChunkSize   int
	MaxParallel int
}

type bulkFetcher struct {
	reader repository.MetadataReader
	opts   BulkFetcherOptions
	log    logger.Logger
}

// NewBulkFetcher returns a BulkFetcher reading through reader.
func NewBulkFetcher(reader repository.MetadataReader, opts BulkFetcherOptions, log logger.Logger) repository.BulkFetcher {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 25
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = 1
	}
	return &bulkFetcher{reader: reader, opts: opts, log: log.WithComponent("bulk_fetcher")}
}

// FetchBulk reads every id and returns the records in the order of ids.
// Empty and repeated ids are ignored. An item failing only with tolerated
// codes is dropped; any other item failure fails the whole call.
func (f *bulkFetcher) FetchBulk(ctx context.Context, kind string, ids []string, toleratedErrorCodes []string) ([]model.Record, error) {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return []model.Record{}, nil
	}
	tolerated := make(map[string]struct{}, len(toleratedErrorCodes))
	for _, code := range toleratedErrorCodes {
		tolerated[code] = struct{}{}
	}

	chunks := chunkIDs(unique, f.opts.ChunkSize)
	results := make([][]model.Record, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.MaxParallel)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			items, err := f.reader.ReadMetadata(gctx, kind, chunk)
			if err != nil {
				return err
			}
			kept, err := f.keep(gctx, kind, items, tolerated)
			if err != nil {
				return err
			}
			results[i] = kept
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.Record, 0, len(unique))
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func (f *bulkFetcher) keep(ctx context.Context, kind string, items []repository.MetadataReadResult, tolerated map[string]struct{}) ([]model.Record, error) {
	kept := make([]model.Record, 0, len(items))
	for _, item := range items {
		if len(item.Errors) == 0 {
			kept = append(kept, item.Record)
			continue
		}
		for _, apiErr := range item.Errors {
			if _, ok := tolerated[apiErr.ErrorCode]; !ok {
				return nil, apperrors.NewUpstreamError(fmt.Sprintf("reading %s %s failed: %s", kind, item.ID, apiErr.Message)).
					WithCode(apiErr.ErrorCode).
					WithComponent("bulk_fetcher").
					WithDetail("id", item.ID)
			}
		}
		f.log.WithContext(ctx).Debug("Dropped metadata item with tolerated error",
			zap.String("kind", kind), zap.String("id", item.ID), zap.String("error_code", item.Errors[0].ErrorCode))
	}
	return kept, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		key := model.CaseSafeID(id)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func chunkIDs(ids []string, size int) [][]string {
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
