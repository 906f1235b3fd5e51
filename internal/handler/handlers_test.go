package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/dance-studio-admin/internal/billing"
	"github.com/iliyamo/dance-studio-admin/internal/idgen"
	"github.com/iliyamo/dance-studio-admin/internal/model"
	"github.com/iliyamo/dance-studio-admin/internal/queue"
	"github.com/iliyamo/dance-studio-admin/internal/schedule"
	"github.com/iliyamo/dance-studio-admin/internal/state"
)

type recorder struct {
	mu     sync.Mutex
	events []queue.StudioEvent
}

func (r *recorder) Publish(_ context.Context, ev queue.StudioEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []queue.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]queue.EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

type fixture struct {
	e      *echo.Echo
	store  *state.Store
	events *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := state.Seed()
	require.NoError(t, err)
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	store := state.NewStore(s, idgen.NewSequence(100), loc)
	store.SetClock(func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) })
	rec := &recorder{}
	h := NewStudioHandler(store, rec, schedule.DefaultWindow)

	e := echo.New()
	e.Validator = NewValidator()
	v1 := e.Group("/v1")
	v1.GET("/students", h.ListStudents)
	v1.POST("/students", h.CreateStudent)
	v1.GET("/students/:id", h.GetStudent)
	v1.PUT("/students/:id", h.UpdateStudent)
	v1.GET("/instructors", h.ListInstructors)
	v1.POST("/instructors", h.CreateInstructor)
	v1.PUT("/instructors/:id", h.UpdateInstructor)
	v1.DELETE("/instructors/:id", h.DeleteInstructor)
	v1.GET("/classes", h.ListClasses)
	v1.POST("/classes", h.CreateClass)
	v1.PUT("/classes/:id", h.UpdateClass)
	v1.GET("/classes/:id/occupancy", h.ClassOccupancy)
	v1.GET("/schedule/board", h.Board)
	v1.GET("/schedule/layout", h.Layout)
	v1.GET("/schedule/upcoming", h.Upcoming)
	v1.GET("/schedule.ics", h.Calendar)
	v1.GET("/payments", h.Ledger)
	v1.POST("/payments", h.RecordPayment)
	v1.GET("/payments/export.xlsx", h.ExportLedger)
	return &fixture{e: e, store: store, events: rec}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCreateStudentDefaults(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/v1/students", `{"name":"Ana","email":"ana@email.com","active":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	st := decode[model.Student](t, rec)
	assert.Equal(t, "stu_101", st.ID)
	assert.Equal(t, float64(state.DefaultMonthlyFee), st.MonthlyFee)
	assert.Equal(t, state.DefaultPaymentMethod, st.PaymentMethod)
	assert.Equal(t, []string{}, st.EnrolledClassIDs)
	assert.Len(t, f.store.Snapshot().Students, 4)
	assert.Equal(t, []queue.EventType{queue.StudentCreated}, f.events.types())
}

func TestCreateStudentValidation(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/v1/students", `{"email":"not-an-email","birth_date":"20/05/1998","monthly_fee":-1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}](t, rec)
	assert.Equal(t, "validation failed", body.Error)
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields["birth_date"], "YYYY-MM-DD")
	assert.Contains(t, body.Fields, "monthly_fee")
	assert.Len(t, f.store.Snapshot().Students, 3)
	assert.Empty(t, f.events.types())
}

func TestUpdateStudent(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPut, "/v1/students/stu_3", `{"name":"Eva Williams","monthly_fee":19,"payment_method":"Bizum","active":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st, _ := f.store.Snapshot().StudentByID("stu_3")
	assert.True(t, st.Active)
	assert.Equal(t, []string{}, st.EnrolledClassIDs)

	rec = f.do(http.MethodPut, "/v1/students/stu_404", `{"name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListStudentsFilters(t *testing.T) {
	f := newFixture(t)
	got := decode[[]model.Student](t, f.do(http.MethodGet, "/v1/students?class_id=cls_2", ""))
	require.Len(t, got, 1)
	assert.Equal(t, "stu_1", got[0].ID)

	got = decode[[]model.Student](t, f.do(http.MethodGet, "/v1/students?active=false", ""))
	require.Len(t, got, 1)
	assert.Equal(t, "stu_3", got[0].ID)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/v1/students?active=maybe", "").Code)
}

func TestDeleteAssignedInstructorConflicts(t *testing.T) {
	f := newFixture(t)
	before := f.store.Snapshot()

	rec := f.do(http.MethodDelete, "/v1/instructors/inst_1", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, state.ErrInstructorAssigned.Error(), body["error"])
	assert.ElementsMatch(t, []any{"cls_2", "cls_4"}, body["class_ids"])

	after := f.store.Snapshot()
	assert.Equal(t, before.Instructors, after.Instructors)
	assert.Equal(t, before.Classes, after.Classes)
	assert.Empty(t, f.events.types())
}

func TestDeleteInstructorListsClassesAssignedMeanwhile(t *testing.T) {
	f := newFixture(t)
	in := decode[model.Instructor](t, f.do(http.MethodPost, "/v1/instructors", `{"name":"Lina Park"}`))
	rec := f.do(http.MethodPost, "/v1/classes", `{"name":"Salsa","instructor_id":"`+in.ID+`","category":"Modern Dance","days":["Monday"],"start_time":"09:00","end_time":"10:00","capacity":12}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	cl := decode[model.DanceClass](t, rec)

	rec = f.do(http.MethodDelete, "/v1/instructors/"+in.ID, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, []any{cl.ID}, body["class_ids"])
}

func TestDeleteFreeInstructor(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/v1/instructors", `{"name":"Lina Park"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	in := decode[model.Instructor](t, rec)
	assert.True(t, in.Active)
	assert.Equal(t, "2026-10-19", in.HireDate)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/v1/instructors/"+in.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/v1/instructors/"+in.ID, "").Code)
	assert.Equal(t, []queue.EventType{queue.InstructorCreated, queue.InstructorDeleted}, f.events.types())
}

func TestUpdateInstructorKeepsActiveAndHireDate(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPut, "/v1/instructors/inst_3", `{"name":"Kenji Tanaka","rate_per_class":50}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	in := decode[model.Instructor](t, rec)
	assert.False(t, in.Active)
	assert.Equal(t, "2021-03-10", in.HireDate)
	assert.Equal(t, 50.0, in.RatePerClass)
}

func TestCreateClassValidation(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/v1/classes", `{"name":"Salsa","instructor_id":"inst_2","category":"Latin","days":["Monday","Funday"],"start_time":"9:00","end_time":"10:00"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, rec)
	assert.Contains(t, body.Fields, "category")
	assert.Contains(t, body.Fields, "days[1]")
	assert.Contains(t, body.Fields, "start_time")

	rec = f.do(http.MethodPost, "/v1/classes", `{"name":"Salsa","instructor_id":"inst_2","category":"Modern Dance","days":["Monday"],"start_time":"09:00","end_time":"10:00","capacity":12}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cl := decode[model.DanceClass](t, rec)
	assert.Equal(t, "cls_101", cl.ID)

	got := decode[[]model.DanceClass](t, f.do(http.MethodGet, "/v1/classes?day=Monday", ""))
	assert.Len(t, got, 2)
}

func TestClassOccupancy(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/v1/classes/cls_2/occupancy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Occupancy schedule.Occupancy `json:"occupancy"`
		Enrolled  string             `json:"enrolled"`
	}](t, rec)
	assert.Equal(t, 1, body.Occupancy.Enrolled)
	assert.Equal(t, schedule.IndicatorLow, body.Occupancy.Indicator)
	assert.Equal(t, "Alicia Johnson", body.Enrolled)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/v1/classes/nope/occupancy", "").Code)
}

func TestBoardAndLayout(t *testing.T) {
	f := newFixture(t)
	board := decode[schedule.Board](t, f.do(http.MethodGet, "/v1/schedule/board", ""))
	assert.Len(t, board.Blocks, 8)
	assert.Len(t, board.TimeSlots, 13)

	blocks := decode[[]schedule.Block](t, f.do(http.MethodGet, "/v1/schedule/layout", ""))
	assert.Len(t, blocks, 8)
}

func TestUpcomingAndCalendar(t *testing.T) {
	f := newFixture(t)
	occ := decode[[]schedule.Occurrence](t, f.do(http.MethodGet, "/v1/schedule/upcoming?days=1", ""))
	require.Len(t, occ, 1)
	assert.Equal(t, "cls_2", occ[0].ClassID)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/v1/schedule/upcoming?days=0", "").Code)

	rec := f.do(http.MethodGet, "/v1/schedule.ics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/calendar"))
	assert.Equal(t, 5, strings.Count(rec.Body.String(), "BEGIN:VEVENT"))
}

func TestLedgerAndPayments(t *testing.T) {
	f := newFixture(t)
	entries := decode[[]billing.Entry](t, f.do(http.MethodGet, "/v1/payments", ""))
	require.Len(t, entries, 5)
	assert.Equal(t, "2024-07-05", entries[0].Date)
	assert.Equal(t, "2024-05-15", entries[4].Date)

	rec := f.do(http.MethodPost, "/v1/payments", `{"student_id":"stu_404","amount":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/v1/payments", `{"student_id":"stu_1","amount":80}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[model.Payment](t, rec)
	assert.Equal(t, "2026-10-19", p.Date)
	assert.Equal(t, state.DefaultPaymentType, p.Type)

	entries = decode[[]billing.Entry](t, f.do(http.MethodGet, "/v1/payments?student_id=stu_1", ""))
	require.Len(t, entries, 3)
	assert.Equal(t, p.ID, entries[0].TransactionID)
	assert.Equal(t, []queue.EventType{queue.PaymentRecorded}, f.events.types())
}

func TestExportLedger(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/v1/payments/export.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "ledger-2026-10-19.xlsx")

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(billing.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}
