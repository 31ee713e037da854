package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
)

func newScorer(t *testing.T) *CELScorer {
	t.Helper()
	s, err := NewDefaultScorer(Options{MinAPIVersion: 40})
	require.NoError(t, err)
	return s
}

func TestComputeScore_FlowDefinition(t *testing.T) {
	s := newScorer(t)

	def, err := model.NewFlowDefinition(model.FlowDefinitionParams{
		ID:              "300000000000001",
		APIVersion:      30,
		ActiveVersionID: "301000000000001",
		LatestVersionID: "301000000000002",
		Type:            "Workflow",
		Description:     "",
	})
	require.NoError(t, err)

	score, err := s.ComputeScore(context.Background(), def)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3, 4}, score.BadReasonIDs)
	assert.Equal(t, []string{"description", "apiVersion", "isProcessBuilder", "isLatestCurrentVersion"}, score.BadFields)
	assert.Equal(t, 4, score.Value)
}

func TestComputeScore_CleanFlowDefinition(t *testing.T) {
	s := newScorer(t)
	version, err := model.NewFlowVersion(model.FlowVersionParams{ID: "301000000000001", TotalNodeCount: 12, APIVersion: 60})
	require.NoError(t, err)
	def, err := model.NewFlowDefinition(model.FlowDefinitionParams{
		ID:              "300000000000001",
		APIVersion:      60,
		ActiveVersionID: "301000000000001",
		LatestVersionID: "301000000000001",
		Type:            "Flow",
		Description:     "Handles onboarding",
		CurrentVersion:  &version,
	})
	require.NoError(t, err)

	score, err := s.ComputeScore(context.Background(), def)
	require.NoError(t, err)
	assert.Zero(t, score.Value)
	assert.Empty(t, score.BadReasonIDs)
}

func TestComputeScore_TooManyNodes(t *testing.T) {
	s := newScorer(t)
	version, err := model.NewFlowVersion(model.FlowVersionParams{ID: "301000000000001", TotalNodeCount: 51})
	require.NoError(t, err)
	def, err := model.NewFlowDefinition(model.FlowDefinitionParams{
		ID: "300000000000001", ActiveVersionID: "301000000000001", LatestVersionID: "301000000000001",
		Description: "d", CurrentVersion: &version,
	})
	require.NoError(t, err)

	score, err := s.ComputeScore(context.Background(), def)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, score.BadReasonIDs)
}

func TestComputeScore_SubResources(t *testing.T) {
	s := newScorer(t)

	limit, err := model.NewLimit(model.LimitParams{ID: "Account.CustomFields", Max: 100, Remaining: 10})
	require.NoError(t, err)
	score, err := s.ComputeScore(context.Background(), limit)
	require.NoError(t, err)
	assert.Equal(t, []int{8}, score.BadReasonIDs)

	rule, err := model.NewValidationRule(model.ValidationRuleParams{ID: "03d000000000001", Description: "x"})
	require.NoError(t, err)
	score, err = s.ComputeScore(context.Background(), rule)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, score.BadReasonIDs)

	layout, err := model.NewLayout(model.LayoutParams{ID: "00h000000000001"})
	require.NoError(t, err)
	score, err = s.ComputeScore(context.Background(), layout)
	require.NoError(t, err)
	assert.Zero(t, score.Value)
}

func TestNewCELScorer_RejectsInvalidRules(t *testing.T) {
	_, err := NewCELScorer([]Rule{{ID: 1, Kinds: []model.EntityKind{model.KindLayout}, Expression: `e.name ==`}}, Options{})
	assert.Error(t, err)

	_, err = NewCELScorer([]Rule{{ID: 2, Kinds: []model.EntityKind{model.KindLayout}, Expression: `1 + 1`}}, Options{})
	assert.Error(t, err)
}

func TestComputeScore_EvaluationError(t *testing.T) {
	s, err := NewCELScorer([]Rule{{ID: 1, Kinds: []model.EntityKind{model.KindLayout}, Expression: `e.missing == "x"`}}, Options{})
	require.NoError(t, err)

	layout, err := model.NewLayout(model.LayoutParams{ID: "00h000000000001"})
	require.NoError(t, err)
	_, err = s.ComputeScore(context.Background(), layout)
	require.Error(t, err)
	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
}
