package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rickb777/date"

	"github.com/i474232898/route-schedule-sync/internal/schedule"
)

func newMockPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return newPostgres(sqlx.NewDb(db, "sqlmock"), "schema1", "mixalot"), mock
}

func sampleRouteRecord() schedule.RouteRecord {
	return schedule.RouteRecord{
		RouteDateTime:       time.Date(2024, time.March, 10, 23, 35, 0, 0, time.UTC),
		Duration:            1302,
		VehicleLabel:        "Transit Van",
		VehicleRegistration: "777",
		Distance:            1234,
		DriverName:          "Mia Green",
	}
}

func TestDeleteDayDeletesStopsBeforeRoutes(t *testing.T) {
	pg, mock := newMockPostgres(t)
	day := date.New(2024, time.March, 10)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM mixalot.route_stop WHERE route_date_time::date = $1")).
		WithArgs(day.String()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schema1.route WHERE route_date_time::date = $1")).
		WithArgs(day.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := pg.DeleteDay(context.Background(), day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteDayWithNoRowsIsNoError(t *testing.T) {
	pg, mock := newMockPostgres(t)
	day := date.New(2024, time.March, 10)

	mock.ExpectExec("DELETE FROM mixalot.route_stop").
		WithArgs(day.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM schema1.route").
		WithArgs(day.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := pg.DeleteDay(context.Background(), day); err != nil {
		t.Fatalf("deleting an empty day must be a no-op, got %v", err)
	}
}

func TestInsertRoutesEmptyBatchIsNoop(t *testing.T) {
	pg, mock := newMockPostgres(t)

	if err := pg.InsertRoutes(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := pg.InsertStops(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no statements expected for empty batches: %v", err)
	}
}

func TestInsertRoutesBulkInsert(t *testing.T) {
	pg, mock := newMockPostgres(t)

	second := sampleRouteRecord()
	second.DriverName = "Lou Reyes"
	records := []schedule.RouteRecord{sampleRouteRecord(), second}

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO schema1.route (route_date_time,duration,vehicle_label,vehicle_registration,driver_serial,distance,driver_name) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14)")).
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := pg.InsertRoutes(context.Background(), records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertStopsBulkInsert(t *testing.T) {
	pg, mock := newMockPostgres(t)

	stop := schedule.StopRecord{
		RouteDateTime:  time.Date(2024, time.March, 10, 23, 35, 0, 0, time.UTC),
		DriverName:     "Mia Green",
		LocationName:   "Transit Station",
		ScheduleAt:     time.Date(2024, time.March, 10, 23, 35, 0, 0, time.UTC),
		Longitude:      111.11,
		Latitude:       33.33,
		StopNumber:     1,
		LocationNumber: 2,
	}

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO mixalot.route_stop (route_date_time,driver_name,location_name,schedule_at,longitude,address,latitude,stop_number,order_number,location_number) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := pg.InsertStops(context.Background(), []schedule.StopRecord{stop}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSecondInsertPassSurfacesDuplicate(t *testing.T) {
	pg, mock := newMockPostgres(t)
	records := []schedule.RouteRecord{sampleRouteRecord()}

	mock.ExpectExec("INSERT INTO schema1.route").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO schema1.route").
		WillReturnError(&pq.Error{Code: "23505"})

	if err := pg.InsertRoutes(context.Background(), records); err != nil {
		t.Fatalf("first insert pass should succeed: %v", err)
	}
	err := pg.InsertRoutes(context.Background(), records)
	if !errors.Is(err, schedule.ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord on the second pass, got %v", err)
	}
}

func TestInsertStopsDuplicate(t *testing.T) {
	pg, mock := newMockPostgres(t)

	mock.ExpectExec("INSERT INTO mixalot.route_stop").
		WillReturnError(&pq.Error{Code: "23505"})

	err := pg.InsertStops(context.Background(), []schedule.StopRecord{{}})
	if !errors.Is(err, schedule.ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord, got %v", err)
	}
}

func TestInsertRoutesOtherErrorsPassThrough(t *testing.T) {
	pg, mock := newMockPostgres(t)

	bad := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO schema1.route").WillReturnError(bad)

	err := pg.InsertRoutes(context.Background(), []schedule.RouteRecord{sampleRouteRecord()})
	if !errors.Is(err, bad) {
		t.Fatalf("expected raw error to pass through, got %v", err)
	}
	if errors.Is(err, schedule.ErrDuplicateRecord) {
		t.Fatal("non-unique-violation errors must not map to ErrDuplicateRecord")
	}
}
