package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/usecase"
	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

// mockUsecase implements usecase.CorrelationUsecase with overridable functions.
type mockUsecase struct {
	RunFlowsFn        func(ctx context.Context, useCache bool) (*usecase.FlowsResult, error)
	RunObjectFn       func(ctx context.Context, apiName string, useCache bool) (*usecase.ObjectResult, error)
	InvalidateCacheFn func(ctx context.Context, dataset string, params model.RunParameters) error
	ListSnapshotsFn   func(ctx context.Context, dataset string, limit int64) ([]*model.Snapshot, error)
}

func (m *mockUsecase) RunFlows(ctx context.Context, useCache bool) (*usecase.FlowsResult, error) {
	return m.RunFlowsFn(ctx, useCache)
}
func (m *mockUsecase) RunObject(ctx context.Context, apiName string, useCache bool) (*usecase.ObjectResult, error) {
	return m.RunObjectFn(ctx, apiName, useCache)
}
func (m *mockUsecase) InvalidateCache(ctx context.Context, dataset string, params model.RunParameters) error {
	return m.InvalidateCacheFn(ctx, dataset, params)
}
func (m *mockUsecase) ListSnapshots(ctx context.Context, dataset string, limit int64) ([]*model.Snapshot, error) {
	return m.ListSnapshotsFn(ctx, dataset, limit)
}

func newTestApp(uc usecase.CorrelationUsecase) *fiber.App {
	app := fiber.New()
	app.Get("/health", Health)
	NewCorrelationHandler(uc, logger.NewNopLogger()).RegisterRoutes(app)
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHealth(t *testing.T) {
	app := newTestApp(&mockUsecase{})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "HEALTHY", decodeBody(t, resp.Body)["status"])
}

func TestGetFlows_Success(t *testing.T) {
	var gotCache bool
	uc := &mockUsecase{
		RunFlowsFn: func(ctx context.Context, useCache bool) (*usecase.FlowsResult, error) {
			gotCache = useCache
			defs := model.NewIDMap[model.FlowDefinition](1)
			_ = defs.Insert("300000000000001", model.FlowDefinition{ID: "300000000000001AAA", Name: "Onboarding"})
			return &usecase.FlowsResult{RunInfo: usecase.RunInfo{RunID: "run-1", Dataset: model.DatasetFlows}, Definitions: defs}, nil
		},
	}
	app := newTestApp(uc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/flows?cache=false", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, gotCache)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "run-1", body["runId"])
	defs, ok := body["definitions"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, defs, "300000000000001AAA")
}

func TestGetFlows_UpstreamFailure(t *testing.T) {
	uc := &mockUsecase{
		RunFlowsFn: func(ctx context.Context, useCache bool) (*usecase.FlowsResult, error) {
			return nil, apperrors.NewUpstreamError("composite read failed").WithCode("INVALID_SESSION_ID")
		},
	}
	app := newTestApp(uc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/flows", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, string(apperrors.ErrorTypeUpstream), body["error"])
	assert.Equal(t, "INVALID_SESSION_ID", body["code"])
}

func TestGetObject(t *testing.T) {
	uc := &mockUsecase{
		RunObjectFn: func(ctx context.Context, apiName string, useCache bool) (*usecase.ObjectResult, error) {
			if apiName != "Account" {
				return nil, apperrors.NewNotFoundError("entity definition for " + apiName)
			}
			assert.True(t, useCache)
			return &usecase.ObjectResult{
				RunInfo: usecase.RunInfo{RunID: "run-2", Dataset: model.DatasetObject},
				Object:  &model.SObject{APIName: "Account"},
			}, nil
		},
	}
	app := newTestApp(uc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/objects/Account", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/objects/Nope__c", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, string(apperrors.ErrorTypeNotFound), decodeBody(t, resp.Body)["error"])
}

func TestInvalidateCache(t *testing.T) {
	var (
		gotDataset string
		gotParams  model.RunParameters
	)
	uc := &mockUsecase{
		InvalidateCacheFn: func(ctx context.Context, dataset string, params model.RunParameters) error {
			gotDataset, gotParams = dataset, params
			return nil
		},
	}
	app := newTestApp(uc)

	t.Run("object", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/cache?dataset=object&object=Case", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		assert.Equal(t, model.DatasetObject, gotDataset)
		assert.Equal(t, "Case", gotParams.Object)
	})

	t.Run("all", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/cache", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "", gotDataset)
	})

	t.Run("object_without_name", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/cache?dataset=object", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown_dataset", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/cache?dataset=apex", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestListSnapshots(t *testing.T) {
	var (
		gotDataset string
		gotLimit   int64
	)
	uc := &mockUsecase{
		ListSnapshotsFn: func(ctx context.Context, dataset string, limit int64) ([]*model.Snapshot, error) {
			gotDataset, gotLimit = dataset, limit
			return []*model.Snapshot{{RunID: "run-1", Dataset: dataset}}, nil
		},
	}
	app := newTestApp(uc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/snapshots/flows?limit=5", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, model.DatasetFlows, gotDataset)
	assert.Equal(t, int64(5), gotLimit)
	assert.EqualValues(t, 1, decodeBody(t, resp.Body)["count"])

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/snapshots?limit=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
