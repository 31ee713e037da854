package salesforce

import (
	"context"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
)

// maxParallelQueries bounds the queries of one batch in flight.
const maxParallelQueries = 4

type queryResponse struct {
	TotalSize      int            `json:"totalSize"`
	Done           bool           `json:"done"`
	NextRecordsURL string         `json:"nextRecordsUrl"`
	Records        []model.Record `json:"records"`
}

var _ repository.QueryRunner = (*Client)(nil)

// RunQueries executes every query and returns their rowsets in input order.
// Queries of a batch run concurrently.
func (c *Client) RunQueries(ctx context.Context, queries []model.Query) ([]model.RowSet, error) {
	out := make([]model.RowSet, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelQueries)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			records, err := c.query(gctx, q)
			if err != nil {
				return err
			}
			out[i] = model.RowSet{Records: records}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) query(ctx context.Context, q model.Query) ([]model.Record, error) {
	path := c.dataPath("/query")
	if q.Tooling {
		path = c.toolingPath("/query")
	}
	path += "?q=" + url.QueryEscape(q.SOQL)

	records := make([]model.Record, 0)
	for path != "" {
		var resp queryResponse
		if err := c.get(ctx, path, &resp); err != nil {
			return nil, err
		}
		records = append(records, resp.Records...)
		path = ""
		if q.QueryMore && !resp.Done && resp.NextRecordsURL != "" {
			path = resp.NextRecordsURL
		}
	}
	c.log.WithContext(ctx).Debug("Query done", zap.Bool("tooling", q.Tooling), zap.Int("records", len(records)))
	return records, nil
}
