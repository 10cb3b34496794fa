package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eursukkul/room-booking/internal/dto"
	"github.com/Eursukkul/room-booking/internal/middleware"
	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/repository"
	"github.com/Eursukkul/room-booking/internal/service"
)

func newContext(method, target, body string, user *models.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		middleware.SetCurrentUser(c, user)
	}
	return c, rec
}

func assertHTTPCode(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T (%v)", err, err)
	assert.Equal(t, code, he.Code)
}

func catalogWithSpace() *mockCatalogService {
	return &mockCatalogService{
		getSpaceFn: func(ctx context.Context, id uint) (*models.Space, error) {
			if id != 1 {
				return nil, service.ErrSpaceNotFound
			}
			return sampleSpace(), nil
		},
	}
}

func newReservationHandler(svc *mockReservationService) *ReservationHandler {
	return NewReservationHandler(svc, catalogWithSpace(), &mockAuditRepo{}, time.UTC)
}

// --- CreateReservation ---

func TestCreateReservation_Success(t *testing.T) {
	var gotStart, gotEnd time.Time
	var gotActor *models.User
	svc := &mockReservationService{
		createFn: func(ctx context.Context, space *models.Space, actor *models.User, start, end time.Time, reason string) (*models.Reservation, error) {
			gotStart, gotEnd, gotActor = start, end, actor
			return &models.Reservation{ID: 1, SpaceID: space.ID, UserID: actor.ID, StartAt: start, EndAt: end, Reason: reason, Status: models.StatusPending}, nil
		},
	}
	h := newReservationHandler(svc)

	body := `{"space_id":1,"date":"2026-03-10","start":"09:00","end":"10:00","reason":" Reunião "}`
	c, rec := newContext(http.MethodPost, "/api/v1/reservations", body, requester)

	err := h.CreateReservation(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, at(9, 0), gotStart)
	assert.Equal(t, at(10, 0), gotEnd)
	assert.Equal(t, requester.ID, gotActor.ID)

	var resp dto.ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusPending, resp.Status)
	assert.Equal(t, "Reunião", resp.Reason)
	assert.Equal(t, "Auditório", resp.Space)
	assert.Equal(t, "Bloco Norte", resp.Sector)
}

func TestCreateReservation_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"locked", service.ErrSpaceLocked, http.StatusConflict},
		{"conflict", fmt.Errorf("%w: reservation 3 (APPROVED)", service.ErrTimeConflict), http.StatusConflict},
		{"invalid window", service.ErrInvalidWindow, http.StatusBadRequest},
		{"db", fmt.Errorf("db connection failed"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockReservationService{
				createFn: func(ctx context.Context, space *models.Space, actor *models.User, start, end time.Time, reason string) (*models.Reservation, error) {
					return nil, tc.err
				},
			}
			h := newReservationHandler(svc)
			body := `{"space_id":1,"start_at":"2026-03-10T09:00:00Z","end_at":"2026-03-10T10:00:00Z"}`
			c, _ := newContext(http.MethodPost, "/api/v1/reservations", body, requester)

			assertHTTPCode(t, h.CreateReservation(c), tc.want)
		})
	}
}

func TestCreateReservation_BadRequests(t *testing.T) {
	h := newReservationHandler(&mockReservationService{})

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{"space_id":`, http.StatusBadRequest},
		{"missing space", `{"date":"2026-03-10","start":"09:00","end":"10:00"}`, http.StatusBadRequest},
		{"missing window", `{"space_id":1,"date":"2026-03-10"}`, http.StatusBadRequest},
		{"bad clock", `{"space_id":1,"date":"2026-03-10","start":"9am","end":"10:00"}`, http.StatusBadRequest},
		{"long reason", `{"space_id":1,"date":"2026-03-10","start":"09:00","end":"10:00","reason":"` + strings.Repeat("a", 301) + `"}`, http.StatusBadRequest},
		{"unknown space", `{"space_id":9,"date":"2026-03-10","start":"09:00","end":"10:00"}`, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/api/v1/reservations", tc.body, requester)
			assertHTTPCode(t, h.CreateReservation(c), tc.want)
		})
	}
}

// --- Conflicts ---

func TestFindConflicts_PartitionsByStatus(t *testing.T) {
	var gotFrom, gotTo time.Time
	svc := &mockReservationService{
		conflictsFn: func(ctx context.Context, spaceID uint, from, to time.Time) ([]models.Reservation, error) {
			gotFrom, gotTo = from, to
			return []models.Reservation{
				{ID: 3, SpaceID: spaceID, StartAt: at(9, 30), EndAt: at(10, 0), Status: models.StatusPending},
				{ID: 2, SpaceID: spaceID, StartAt: at(10, 30), EndAt: at(12, 0), Status: models.StatusApproved},
			}, nil
		},
	}
	h := newReservationHandler(svc)
	c, rec := newContext(http.MethodGet, "/api/v1/conflicts?space_id=1&start=2026-03-10T09:00&end=2026-03-10T11:00", "", requester)

	err := h.FindConflicts(c)

	require.NoError(t, err)
	assert.Equal(t, at(9, 0), gotFrom)
	assert.Equal(t, at(11, 0), gotTo)

	var resp dto.ConflictsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Pending, 1)
	require.Len(t, resp.Approved, 1)
	assert.Equal(t, uint(3), resp.Pending[0].ID)
	assert.Equal(t, uint(2), resp.Approved[0].ID)
}

func TestFindConflicts_Errors(t *testing.T) {
	svc := &mockReservationService{
		conflictsFn: func(ctx context.Context, spaceID uint, from, to time.Time) ([]models.Reservation, error) {
			if !from.Before(to) {
				return nil, service.ErrInvalidWindow
			}
			return nil, service.ErrSpaceNotFound
		},
	}
	h := newReservationHandler(svc)

	c, _ := newContext(http.MethodGet, "/api/v1/conflicts?start=2026-03-10T09:00&end=2026-03-10T11:00", "", requester)
	assertHTTPCode(t, h.FindConflicts(c), http.StatusBadRequest)

	c, _ = newContext(http.MethodGet, "/api/v1/conflicts?space_id=1&start=yesterday&end=2026-03-10T11:00", "", requester)
	assertHTTPCode(t, h.FindConflicts(c), http.StatusBadRequest)

	c, _ = newContext(http.MethodGet, "/api/v1/conflicts?space_id=1&start=2026-03-10T11:00&end=2026-03-10T09:00", "", requester)
	assertHTTPCode(t, h.FindConflicts(c), http.StatusBadRequest)

	c, _ = newContext(http.MethodGet, "/api/v1/conflicts?space_id=9&start=2026-03-10T09:00&end=2026-03-10T11:00", "", requester)
	assertHTTPCode(t, h.FindConflicts(c), http.StatusNotFound)
}

// --- Status transitions ---

func TestReject_PassesNote(t *testing.T) {
	var gotNote *string
	svc := &mockReservationService{
		setStatusFn: func(ctx context.Context, id uint, status models.ReservationStatus, note *string, actor *models.User) (*models.Reservation, error) {
			gotNote = note
			if note == nil || *note == "" {
				return nil, service.ErrRejectionNoteRequired
			}
			return &models.Reservation{ID: id, Status: status, RejectionNote: note}, nil
		},
	}
	h := newReservationHandler(svc)

	c, _ := newContext(http.MethodPost, "/", `{"note":""}`, scheduler)
	c.SetParamNames("id")
	c.SetParamValues("4")
	assertHTTPCode(t, h.Reject(c), http.StatusBadRequest)

	c, rec := newContext(http.MethodPost, "/", `{"note":"Sala em manutenção"}`, scheduler)
	c.SetParamNames("id")
	c.SetParamValues("4")
	require.NoError(t, h.Reject(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotNote)
	assert.Equal(t, "Sala em manutenção", *gotNote)
}

func TestReject_NoteTooLong(t *testing.T) {
	svc := &mockReservationService{
		setStatusFn: func(ctx context.Context, id uint, status models.ReservationStatus, note *string, actor *models.User) (*models.Reservation, error) {
			if note != nil && utf8.RuneCountInString(*note) > models.MaxTextLength {
				return nil, service.ErrRejectionNoteTooLong
			}
			return &models.Reservation{ID: id, Status: status, RejectionNote: note}, nil
		},
	}
	h := newReservationHandler(svc)

	body := `{"note":"` + strings.Repeat("x", models.MaxTextLength+1) + `"}`
	c, _ := newContext(http.MethodPost, "/", body, scheduler)
	c.SetParamNames("id")
	c.SetParamValues("4")

	assertHTTPCode(t, h.Reject(c), http.StatusBadRequest)
}

func TestSetStatus_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", service.ErrReservationNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"transition", fmt.Errorf("%w: CANCELLED to CANCELLED", service.ErrInvalidTransition), http.StatusBadRequest},
		{"note too long", service.ErrRejectionNoteTooLong, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockReservationService{
				setStatusFn: func(ctx context.Context, id uint, status models.ReservationStatus, note *string, actor *models.User) (*models.Reservation, error) {
					return nil, tc.err
				},
			}
			h := newReservationHandler(svc)
			c, _ := newContext(http.MethodPost, "/", "", requester)
			c.SetParamNames("id")
			c.SetParamValues("1")

			assertHTTPCode(t, h.Cancel(c), tc.want)
		})
	}
}

func TestGetReservation_InvalidID(t *testing.T) {
	h := newReservationHandler(&mockReservationService{})
	c, _ := newContext(http.MethodGet, "/", "", requester)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	assertHTTPCode(t, h.GetReservation(c), http.StatusBadRequest)
}

func TestUpdateReservation(t *testing.T) {
	var got service.UpdateReservationInput
	svc := &mockReservationService{
		updateFn: func(ctx context.Context, id uint, in service.UpdateReservationInput, actor *models.User) (*models.Reservation, error) {
			got = in
			return &models.Reservation{ID: id, SpaceID: in.SpaceID, StartAt: in.StartAt, EndAt: in.EndAt, Status: models.StatusApproved}, nil
		},
	}
	h := newReservationHandler(svc)
	c, rec := newContext(http.MethodPut, "/", `{"space_id":1,"date":"2026-03-10","start":"14:00","end":"15:30","reason":"Banca"}`, scheduler)
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.UpdateReservation(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, at(14, 0), got.StartAt)
	assert.Equal(t, at(15, 30), got.EndAt)
	assert.Equal(t, "Banca", got.Reason)
}

func TestListReservations_PassesFilter(t *testing.T) {
	var got repository.ReservationFilter
	svc := &mockReservationService{
		listFn: func(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error) {
			got = filter
			return []models.Reservation{{ID: 1, Status: models.StatusPending}}, nil
		},
	}
	h := newReservationHandler(svc)
	c, rec := newContext(http.MethodGet, "/api/v1/reservations?status=PENDING&status=APPROVED&sector_id=2", "", requester)

	require.NoError(t, h.ListReservations(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []models.ReservationStatus{models.StatusPending, models.StatusApproved}, got.Statuses)
	require.NotNil(t, got.SectorID)
	assert.Equal(t, uint(2), *got.SectorID)
	assert.Nil(t, got.SpaceID)

	c, _ = newContext(http.MethodGet, "/api/v1/reservations?status=RECUSADO", "", requester)
	assertHTTPCode(t, h.ListReservations(c), http.StatusBadRequest)
}

func TestAuditTrail_Empty(t *testing.T) {
	h := newReservationHandler(&mockReservationService{})
	c, rec := newContext(http.MethodGet, "/", "", scheduler)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.AuditTrail(c))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

// --- Routing ---

func TestRoutes_ApproverOnly(t *testing.T) {
	called := false
	svc := &mockReservationService{
		setStatusFn: func(ctx context.Context, id uint, status models.ReservationStatus, note *string, actor *models.User) (*models.Reservation, error) {
			called = true
			return &models.Reservation{ID: id, Status: status}, nil
		},
	}
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler

	actor := requester
	asActor := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			middleware.SetCurrentUser(c, actor)
			return next(c)
		}
	}
	newReservationHandler(svc).RegisterRoutes(e.Group("/api/v1", asActor))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/1/approve", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)

	actor = scheduler
	req = httptest.NewRequest(http.MethodPost, "/api/v1/reservations/1/approve", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
