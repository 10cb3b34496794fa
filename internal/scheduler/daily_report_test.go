package scheduler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/report"
	"github.com/Eursukkul/room-booking/internal/service"
)

// --- Mock ReportService ---

type mockReports struct {
	dailyFn func(ctx context.Context, day time.Time, filter service.AgendaFilter) (*report.DailyAgenda, error)
}

func (m *mockReports) Dashboard(ctx context.Context, day time.Time, filter service.AgendaFilter) ([]models.Reservation, error) {
	return nil, nil
}
func (m *mockReports) Daily(ctx context.Context, day time.Time, filter service.AgendaFilter) (*report.DailyAgenda, error) {
	return m.dailyFn(ctx, day, filter)
}

// --- Mock ReportStore ---

type memStore struct {
	files map[string][]byte
	types map[string]string
}

func (m *memStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if m.files == nil {
		m.files = map[string][]byte{}
		m.types = map[string]string{}
	}
	m.files[name] = b
	m.types[name] = contentType
	return nil
}

func (m *memStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.files[name])), nil
}

func TestDailyReportJob_Run(t *testing.T) {
	var gotFilter service.AgendaFilter
	reports := &mockReports{
		dailyFn: func(ctx context.Context, day time.Time, filter service.AgendaFilter) (*report.DailyAgenda, error) {
			gotFilter = filter
			return &report.DailyAgenda{Day: day, Filters: []string{"Status: All"}}, nil
		},
	}
	store := &memStore{}
	job := NewDailyReportJob(reports, store)
	job.now = func() time.Time { return time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC) }

	name, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "daily-2026-03-10.pdf", name)
	assert.True(t, strings.HasPrefix(string(store.files[name]), "%PDF"))
	assert.Equal(t, "application/pdf", store.types[name])
	assert.Empty(t, gotFilter.Statuses)
	assert.Nil(t, gotFilter.SectorID)
}

func TestDailyReportJob_AgendaError(t *testing.T) {
	reports := &mockReports{
		dailyFn: func(ctx context.Context, day time.Time, filter service.AgendaFilter) (*report.DailyAgenda, error) {
			return nil, errors.New("db down")
		},
	}
	store := &memStore{}
	job := NewDailyReportJob(reports, store)

	_, err := job.Run(context.Background())

	assert.ErrorContains(t, err, "db down")
	assert.Empty(t, store.files)
}

func TestStart_InvalidCronExpression(t *testing.T) {
	_, err := Start("not a cron", NewDailyReportJob(&mockReports{}, &memStore{}))
	assert.Error(t, err)
}

func TestStart_Stop(t *testing.T) {
	s, err := Start("0 6 * * *", NewDailyReportJob(&mockReports{}, &memStore{}))
	require.NoError(t, err)
	s.Stop()
}
