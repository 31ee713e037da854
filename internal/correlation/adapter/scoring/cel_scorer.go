package scoring

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
	apperrors "github.com/vinodmerwade/OrgCheck/internal/shared/errors"
)

// Rule flags an entity when Expression evaluates to true. Expressions see
// the entity attributes as e and the configured thresholds as variables.
type Rule struct {
	ID          int
	Description string
	Field       string
	Kinds       []model.EntityKind
	Expression  string
}

type compiledRule struct {
	Rule
	program cel.Program
}

// CELScorer scores entities with a fixed rule set.
type CELScorer struct {
	rules  map[model.EntityKind][]compiledRule
	params map[string]interface{}
}

var _ repository.Scorer = (*CELScorer)(nil)

// Options are the thresholds exposed to rule expressions.
type Options struct {
	MinAPIVersion float64
}

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("e", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("minApiVersion", cel.DoubleType),
	)
}

// NewCELScorer compiles rules. A rule that does not compile or does not
// return a boolean is rejected.
func NewCELScorer(rules []Rule, opts Options) (*CELScorer, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	s := &CELScorer{
		rules:  make(map[model.EntityKind][]compiledRule),
		params: map[string]interface{}{"minApiVersion": opts.MinAPIVersion},
	}
	for _, r := range rules {
		ast, issues := env.Compile(r.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("CEL compilation error in rule %d: %w", r.ID, issues.Err())
		}
		if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
			return nil, fmt.Errorf("rule %d does not return a boolean", r.ID)
		}
		program, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("failed to create CEL program for rule %d: %w", r.ID, err)
		}
		for _, kind := range r.Kinds {
			s.rules[kind] = append(s.rules[kind], compiledRule{Rule: r, program: program})
		}
	}
	return s, nil
}

// NewDefaultScorer returns a scorer using DefaultRules.
func NewDefaultScorer(opts Options) (*CELScorer, error) {
	return NewCELScorer(DefaultRules(), opts)
}

// ComputeScore evaluates every rule of the entity kind. Each matching rule
// adds one point and records its field and id.
func (s *CELScorer) ComputeScore(ctx context.Context, entity model.Scorable) (model.Score, error) {
	if err := ctx.Err(); err != nil {
		return model.Score{}, err
	}
	rules := s.rules[entity.Kind()]
	if len(rules) == 0 {
		return model.Score{}, nil
	}

	vars := map[string]interface{}{"e": entity.ScoreAttributes()}
	for k, v := range s.params {
		vars[k] = v
	}

	var score model.Score
	for _, r := range rules {
		out, _, err := r.program.Eval(vars)
		if err != nil {
			return model.Score{}, apperrors.NewInternalError(fmt.Sprintf("rule %d failed on %s", r.ID, entity.Kind())).
				WithCause(err).WithComponent("scoring")
		}
		bad, ok := out.Value().(bool)
		if !ok {
			return model.Score{}, apperrors.NewInternalError(fmt.Sprintf("rule %d did not return a boolean", r.ID)).WithComponent("scoring")
		}
		if bad {
			score.Value++
			score.BadFields = append(score.BadFields, r.Field)
			score.BadReasonIDs = append(score.BadReasonIDs, r.ID)
		}
	}
	return score, nil
}
