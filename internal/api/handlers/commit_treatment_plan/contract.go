package commit_treatment_plan

import (
	"context"

	commitPlan "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/commit_treatment_plan"
)

type CommitTreatmentPlanUseCase interface {
	Execute(ctx context.Context, req *commitPlan.Request) (*commitPlan.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
