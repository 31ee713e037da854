package usecase

import (
	"context"
	"time"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/model"
	"github.com/vinodmerwade/OrgCheck/internal/correlation/domain/repository"
	"github.com/vinodmerwade/OrgCheck/internal/shared/utils"
)

type nopReporter struct{}

func (nopReporter) Report(context.Context, model.Progress) {}

func reporterOrNop(r repository.ProgressReporter) repository.ProgressReporter {
	if r == nil {
		return nopReporter{}
	}
	return r
}

func report(ctx context.Context, r repository.ProgressReporter, dataset, stage, message string) {
	runID, _ := utils.GetRunIDFromContext(ctx)
	r.Report(ctx, model.Progress{
		RunID:   runID,
		Dataset: dataset,
		Stage:   stage,
		Message: message,
		At:      time.Now().UTC(),
	})
}
