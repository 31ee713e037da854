package salesforce

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/config"
	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

// Client talks to the REST and tooling surfaces of one org.
type Client struct {
	instanceURL string
	accessToken string
	apiVersion  string
	timeout     time.Duration
	log         logger.Logger
}

// NewClient creates a client for the org described by cfg.
func NewClient(cfg config.SalesforceConfig, log logger.Logger) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		instanceURL: strings.TrimRight(cfg.InstanceURL, "/"),
		accessToken: cfg.AccessToken,
		apiVersion:  cfg.APIVersion,
		timeout:     timeout,
		log:         log.WithComponent("salesforce_client"),
	}
}

// dataPath returns the versioned REST path for suffix.
func (c *Client) dataPath(suffix string) string {
	return "/services/data/v" + c.apiVersion + suffix
}

func (c *Client) toolingPath(suffix string) string {
	return c.dataPath("/tooling" + suffix)
}

// errorBody is the error payload of the REST surfaces.
type errorBody struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, dst interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.do(ctx, fiber.Get(c.instanceURL+path), path, dst)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, dst interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.do(ctx, fiber.Post(c.instanceURL+path).JSON(body), path, dst)
}

// do sends the request built by agent. The agent is released by Bytes.
func (c *Client) do(ctx context.Context, agent *fiber.Agent, path string, dst interface{}) error {
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON).Timeout(c.timeout)
	if c.accessToken != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.accessToken)
	}

	started := time.Now()
	code, body, errs := agent.Bytes()
	log := c.log.WithContext(ctx)
	if len(errs) > 0 {
		log.Error("Request failed", zap.String("path", path), zap.Error(errs[0]))
		return apperrors.NewUpstreamError("request to " + path + " failed").WithCause(errs[0]).WithComponent("salesforce_client")
	}
	log.Debug("Request done", zap.String("path", path), zap.Int("status", code), zap.Duration("elapsed", time.Since(started)))

	if code < 200 || code > 299 {
		return responseError(path, code, body)
	}
	if dst == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.NewUpstreamError("invalid response from " + path).WithCause(err).WithComponent("salesforce_client")
	}
	return nil
}

func responseError(path string, status int, body []byte) error {
	var errs []errorBody
	_ = json.Unmarshal(body, &errs)
	msg := fmt.Sprintf("%s returned HTTP %d", path, status)
	appErr := apperrors.NewUpstreamError(msg).WithComponent("salesforce_client").WithDetail("status", status)
	if len(errs) > 0 {
		appErr.Message = msg + ": " + errs[0].Message
		appErr = appErr.WithCode(errs[0].ErrorCode)
	}
	return appErr
}
