package salesforce

import (
	"context"
	"net/url"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
)

var (
	_ repository.SchemaDescriber = (*Client)(nil)
	_ repository.RecordCounter   = (*Client)(nil)
)

// Describe returns the describe payload of objectName.
func (c *Client) Describe(ctx context.Context, objectName string) (*model.SObjectDescribe, error) {
	var d model.SObjectDescribe
	if err := c.get(ctx, c.dataPath("/sobjects/"+url.PathEscape(objectName)+"/describe"), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

type recordCountResponse struct {
	SObjects []struct {
		Count int64  `json:"count"`
		Name  string `json:"name"`
	} `json:"sObjects"`
}

// RecordCount returns the approximate record count of objectName. Objects
// the org does not report on count as zero.
func (c *Client) RecordCount(ctx context.Context, objectName string) (int64, error) {
	var resp recordCountResponse
	if err := c.get(ctx, c.dataPath("/limits/recordCount?sObjects="+url.QueryEscape(objectName)), &resp); err != nil {
		return 0, err
	}
	for _, s := range resp.SObjects {
		if s.Name == objectName {
			return s.Count, nil
		}
	}
	return 0, nil
}
