// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/quantdesk/quantdesk/internal/report"
	"github.com/quantdesk/quantdesk/pkg/logger"
)

// ReportJob writes the daily monitoring report on weekday evenings.
type ReportJob struct {
	generator *report.Generator
	logger    *logger.Logger
	schedule  string
}

func NewReportJob(gen *report.Generator, log *logger.Logger, schedule string) *ReportJob {
	return &ReportJob{
		generator: gen,
		logger:    log,
		schedule:  schedule,
	}
}

func (j *ReportJob) Name() string {
	return "daily_report"
}

func (j *ReportJob) Schedule() string {
	return j.schedule
}

func (j *ReportJob) Run(ctx context.Context) error {
	path, err := j.generator.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generate daily report: %w", err)
	}
	j.logger.WithField("path", path).Info("Daily report job finished")
	return nil
}
