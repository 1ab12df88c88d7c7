package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quantdesk/quantdesk/internal/report"
	"github.com/quantdesk/quantdesk/internal/scheduler"
	"github.com/quantdesk/quantdesk/internal/scheduler/jobs"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the job scheduler",
	Long: `Runs the cron scheduler in the foreground.

Jobs:
  daily_report  - daily monitoring report (weekday evenings by default)

Example:
  quant scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	sched := scheduler.New(a.log)

	gen := report.NewGenerator(a.provider, a.log, a.cfg.Report)
	if err := sched.AddJob(jobs.NewReportJob(gen, a.log, a.cfg.Report.Schedule)); err != nil {
		return fmt.Errorf("register report job: %w", err)
	}

	sched.Start()
	fmt.Println("✅ Scheduler running")
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
