package salesforce

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
)

type compositeSubrequest struct {
	Method      string `json:"method"`
	URL         string `json:"url"`
	ReferenceID string `json:"referenceId"`
}

type compositeRequest struct {
	AllOrNone        bool                  `json:"allOrNone"`
	CompositeRequest []compositeSubrequest `json:"compositeRequest"`
}

type compositeSubresponse struct {
	Body           json.RawMessage `json:"body"`
	HTTPStatusCode int             `json:"httpStatusCode"`
	ReferenceID    string          `json:"referenceId"`
}

type compositeResponse struct {
	CompositeResponse []compositeSubresponse `json:"compositeResponse"`
}

var _ repository.MetadataReader = (*Client)(nil)

// ReadMetadata reads the tooling record of every id in one composite call.
// The caller keeps ids within the composite subrequest limit.
func (c *Client) ReadMetadata(ctx context.Context, kind string, ids []string) ([]repository.MetadataReadResult, error) {
	req := compositeRequest{CompositeRequest: make([]compositeSubrequest, 0, len(ids))}
	for _, id := range ids {
		req.CompositeRequest = append(req.CompositeRequest, compositeSubrequest{
			Method:      "GET",
			URL:         c.toolingPath("/sobjects/" + url.PathEscape(kind) + "/" + url.PathEscape(id)),
			ReferenceID: id,
		})
	}

	var resp compositeResponse
	if err := c.post(ctx, c.toolingPath("/composite"), req, &resp); err != nil {
		return nil, err
	}

	results := make([]repository.MetadataReadResult, 0, len(resp.CompositeResponse))
	for _, sub := range resp.CompositeResponse {
		result := repository.MetadataReadResult{ID: sub.ReferenceID}
		if sub.HTTPStatusCode >= 200 && sub.HTTPStatusCode <= 299 {
			if err := json.Unmarshal(sub.Body, &result.Record); err != nil {
				result.Errors = []repository.APIError{{ErrorCode: "INVALID_RESPONSE", Message: err.Error()}}
			}
		} else if err := json.Unmarshal(sub.Body, &result.Errors); err != nil || len(result.Errors) == 0 {
			result.Errors = []repository.APIError{{ErrorCode: "HTTP_" + strconv.Itoa(sub.HTTPStatusCode), Message: string(sub.Body)}}
		}
		results = append(results, result)
	}
	return results, nil
}
