// Package scheduler runs the periodic report jobs.
package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Eursukkul/room-booking/internal/report"
	"github.com/Eursukkul/room-booking/internal/service"
	"github.com/Eursukkul/room-booking/pkg/storage"
)

const jobTimeout = 2 * time.Minute

// DailyReportJob renders the unfiltered agenda of the current day and stores
// it as daily-YYYY-MM-DD.pdf.
type DailyReportJob struct {
	reports service.ReportService
	store   storage.ReportStore
	now     func() time.Time
}

func NewDailyReportJob(reports service.ReportService, store storage.ReportStore) *DailyReportJob {
	return &DailyReportJob{reports: reports, store: store, now: time.Now}
}

// Run builds and stores the report. It returns the stored name.
func (j *DailyReportJob) Run(ctx context.Context) (string, error) {
	day := j.now()
	agenda, err := j.reports.Daily(ctx, day, service.AgendaFilter{})
	if err != nil {
		return "", fmt.Errorf("daily agenda: %w", err)
	}

	var buf bytes.Buffer
	if err := report.RenderDailyPDF(&buf, *agenda); err != nil {
		return "", fmt.Errorf("render daily pdf: %w", err)
	}

	name := report.FileName(day)
	if err := j.store.Save(ctx, name, &buf, int64(buf.Len()), "application/pdf"); err != nil {
		return "", err
	}
	return name, nil
}

type Scheduler struct {
	cron *cron.Cron
}

// Start schedules job on spec, a standard five-field cron expression.
func Start(spec string, job *DailyReportJob) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		name, err := job.Run(ctx)
		if err != nil {
			log.Printf("[Scheduler] daily report failed: %v", err)
			return
		}
		log.Printf("[Scheduler] daily report stored as %s", name)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}

	c.Start()
	log.Printf("[Scheduler] daily report scheduled: %s", spec)
	return &Scheduler{cron: c}, nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
