package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/report"
	"github.com/Eursukkul/room-booking/internal/repository"
)

// AgendaFilter selects reservations for the dashboard, the calendar and the
// daily report. Empty fields select everything.
type AgendaFilter struct {
	Statuses []models.ReservationStatus
	SectorID *uint
	SpaceID  *uint
}

type ReportService interface {
	Dashboard(ctx context.Context, day time.Time, filter AgendaFilter) ([]models.Reservation, error)
	Daily(ctx context.Context, day time.Time, filter AgendaFilter) (*report.DailyAgenda, error)
}

type reportService struct {
	sectorRepo      repository.SectorRepository
	spaceRepo       repository.SpaceRepository
	reservationRepo repository.ReservationRepository
}

func NewReportService(sectorRepo repository.SectorRepository, spaceRepo repository.SpaceRepository, reservationRepo repository.ReservationRepository) ReportService {
	return &reportService{sectorRepo: sectorRepo, spaceRepo: spaceRepo, reservationRepo: reservationRepo}
}

// DayBounds returns [00:00, 24:00) of day in its own location.
func DayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

// Dashboard lists the non-cancelled reservations starting on day.
func (s *reportService) Dashboard(ctx context.Context, day time.Time, filter AgendaFilter) ([]models.Reservation, error) {
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
	}
	from, to := DayBounds(day)
	return s.reservationRepo.List(ctx, repository.ReservationFilter{
		Statuses:         filter.Statuses,
		SectorID:         filter.SectorID,
		SpaceID:          filter.SpaceID,
		StartFrom:        &from,
		StartBefore:      &to,
		ExcludeCancelled: true,
	})
}

// Daily builds the printable agenda: the dashboard selection grouped by
// sector, ordered by sector then start.
func (s *reportService) Daily(ctx context.Context, day time.Time, filter AgendaFilter) (*report.DailyAgenda, error) {
	filters, err := s.describe(ctx, day, filter)
	if err != nil {
		return nil, err
	}

	reservations, err := s.Dashboard(ctx, day, filter)
	if err != nil {
		return nil, err
	}

	groups := map[uint]*report.SectorGroup{}
	for _, r := range reservations {
		var sectorID uint
		name := "Unassigned"
		if r.Space != nil {
			sectorID = r.Space.SectorID
			if r.Space.Sector != nil {
				name = r.Space.Sector.Name
			}
		}
		g, ok := groups[sectorID]
		if !ok {
			g = &report.SectorGroup{SectorID: sectorID, Sector: name}
			groups[sectorID] = g
		}
		g.Reservations = append(g.Reservations, r)
	}

	agenda := &report.DailyAgenda{Day: day, Filters: filters}
	for _, g := range groups {
		sort.SliceStable(g.Reservations, func(i, j int) bool {
			return g.Reservations[i].StartAt.Before(g.Reservations[j].StartAt)
		})
		agenda.Groups = append(agenda.Groups, *g)
	}
	sort.Slice(agenda.Groups, func(i, j int) bool {
		return agenda.Groups[i].SectorID < agenda.Groups[j].SectorID
	})
	return agenda, nil
}

func (s *reportService) describe(ctx context.Context, day time.Time, filter AgendaFilter) ([]string, error) {
	status := "All"
	if len(filter.Statuses) > 0 {
		parts := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			parts[i] = string(st)
		}
		status = strings.Join(parts, ", ")
	}

	sector := "All"
	if filter.SectorID != nil {
		found, err := s.sectorRepo.FindByID(ctx, *filter.SectorID)
		if err != nil {
			return nil, notFound(err, ErrSectorNotFound)
		}
		sector = found.Name
	}

	space := "All"
	if filter.SpaceID != nil {
		found, err := s.spaceRepo.FindByID(ctx, *filter.SpaceID)
		if err != nil {
			return nil, notFound(err, ErrSpaceNotFound)
		}
		space = found.Name
	}

	return []string{
		"Date: " + day.Format("02/01/2006"),
		"Status: " + status,
		"Sector: " + sector,
		"Space: " + space,
	}, nil
}
