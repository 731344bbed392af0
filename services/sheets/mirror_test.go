package sheets

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"agendamento/database"
	schedulerRepo "agendamento/database/repository/scheduler"
	"agendamento/models"

	"go.uber.org/zap"
)

// fakeSheets keeps tabs as row slices and understands the A1 ranges the
// mirror produces.
type fakeSheets struct {
	mu   sync.Mutex
	tabs map[string][][]interface{}
	fail error
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{tabs: map[string][][]interface{}{}}
}

var rangeRe = regexp.MustCompile(`^'(.+)'!([A-Z])(\d*)(?::([A-Z])(\d*))?$`)

func parseRange(rng string) (tab string, row int, err error) {
	m := rangeRe.FindStringSubmatch(rng)
	if m == nil {
		return "", 0, fmt.Errorf("bad range %q", rng)
	}
	if m[3] != "" {
		row, _ = strconv.Atoi(m[3])
	}
	return m[1], row, nil
}

func (f *fakeSheets) SheetTitles(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	var out []string
	for t := range f.tabs {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeSheets) AddSheet(ctx context.Context, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tabs[title] = nil
	return nil
}

func (f *fakeSheets) GetValues(ctx context.Context, rng string) ([][]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tab, row, err := parseRange(rng)
	if err != nil {
		return nil, err
	}
	rows := f.tabs[tab]
	if row > 0 {
		if row > len(rows) {
			return nil, nil
		}
		return rows[row-1 : row], nil
	}
	return append([][]interface{}(nil), rows...), nil
}

func (f *fakeSheets) UpdateValues(ctx context.Context, rng string, values [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tab, row, err := parseRange(rng)
	if err != nil {
		return err
	}
	for len(f.tabs[tab]) < row {
		f.tabs[tab] = append(f.tabs[tab], nil)
	}
	f.tabs[tab][row-1] = stringify(values[0])
	return nil
}

func (f *fakeSheets) AppendValues(ctx context.Context, rng string, values [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	tab, _, err := parseRange(rng)
	if err != nil {
		return err
	}
	for _, v := range values {
		f.tabs[tab] = append(f.tabs[tab], stringify(v))
	}
	return nil
}

// stringify mimics the API returning formatted strings.
func stringify(row []interface{}) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func newStore(t *testing.T) schedulerRepo.SchedulerRepository {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	repo := schedulerRepo.NewGormSchedulerRepo(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return repo
}

func booking(id int, hour string) models.Booking {
	return models.Booking{
		ID:            id,
		CityID:        7,
		CityName:      "Itupeva",
		CompanyName:   "Cargas Norte",
		VehiclePlate:  "XYZ9A88",
		InvoiceNumber: "NF-77",
		DriverName:    "Pedro",
		BookingDate:   "2025-04-02",
		BookingTime:   hour,
		Status:        models.StatusConfirmed,
		CreatedAt:     time.Date(2025, time.March, 30, 10, 0, 0, 0, time.UTC),
	}
}

func TestAppendThenRestorePreservesIDs(t *testing.T) {
	api := newFakeSheets()
	ctx := context.Background()
	source := New(api, newStore(t), Options{Logger: zap.NewNop()})

	for _, b := range []models.Booking{booking(12, "08:00"), booking(40, "13:00")} {
		if err := source.AppendBooking(ctx, b); err != nil {
			t.Fatalf("AppendBooking: %v", err)
		}
	}
	slot := "09:00"
	if err := source.AppendUnavailability(ctx, models.Unavailability{
		CityID: 1, CityName: "Fortaleza", UnavailableDate: "2025-04-03", UnavailableTime: &slot, Reason: "doca fechada",
	}); err != nil {
		t.Fatalf("AppendUnavailability: %v", err)
	}
	if got := len(api.tabs["Agendamentos"]); got != 3 {
		t.Fatalf("bookings tab rows = %d, want header plus 2", got)
	}

	fresh := newStore(t)
	target := New(api, fresh, Options{Logger: zap.NewNop()})
	report, err := target.RestoreAll(ctx)
	if err != nil {
		t.Fatalf("RestoreAll: %v", err)
	}
	if report.BookingsRestored != 2 || report.UnavailabilitiesRestored != 1 {
		t.Fatalf("report = %+v", report)
	}

	got, err := fresh.GetBooking(ctx, 40)
	if err != nil {
		t.Fatalf("GetBooking(40): %v", err)
	}
	if got.CityID != 7 || got.BookingTime != "13:00" || got.CompanyName != "Cargas Norte" {
		t.Errorf("restored = %+v", got)
	}
	blocks, err := fresh.ListUnavailabilities(ctx, 1, "2025-04-03")
	if err != nil {
		t.Fatalf("ListUnavailabilities: %v", err)
	}
	if len(blocks) != 1 || blocks[0].UnavailableTime == nil || *blocks[0].UnavailableTime != "09:00" {
		t.Errorf("blocks = %+v", blocks)
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	api := newFakeSheets()
	ctx := context.Background()
	store := newStore(t)
	m := New(api, store, Options{Logger: zap.NewNop()})

	if err := m.AppendBooking(ctx, booking(3, "10:00")); err != nil {
		t.Fatalf("AppendBooking: %v", err)
	}
	if err := m.AppendUnavailability(ctx, models.Unavailability{CityID: 2, CityName: "João Pessoa", UnavailableDate: "2025-04-04", Reason: "greve"}); err != nil {
		t.Fatalf("AppendUnavailability: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := m.RestoreAll(ctx); err != nil {
			t.Fatalf("RestoreAll #%d: %v", i+1, err)
		}
	}
	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.Bookings != 1 || counts.Unavailabilities != 1 {
		t.Fatalf("counts = %+v, want 1 and 1", counts)
	}
}

func TestRestoreSkipsBadRows(t *testing.T) {
	api := newFakeSheets()
	api.tabs["Agendamentos"] = [][]interface{}{
		bookingHeader,
		{"5", "Empresa A", "AAA1111", "NF1", "Ana", "2025-04-02", "08:00", "Natal", "confirmed", ""},
		{"", "Empresa B", "BBB2222", "NF2", "Bia", "2025-04-02", "09:00", "Natal", "confirmed", ""},
		{"x7", "Empresa C", "CCC3333", "NF3", "Caio", "2025-04-02", "10:00", "Natal", "confirmed", ""},
		{"8", "Empresa D", "DDD4444", "NF4", "Davi", "2025-04-02", "11:00", "Curitiba", "confirmed", ""},
		{"9", "Empresa E", "EEE5555", "NF5", "Eva", "2025-04-02", "13:00", "poços", "cancelled", ""},
	}
	ctx := context.Background()
	store := newStore(t)
	report, err := New(api, store, Options{Logger: zap.NewNop()}).RestoreAll(ctx)
	if err != nil {
		t.Fatalf("RestoreAll: %v", err)
	}
	if report.BookingsRestored != 2 || report.BookingsSkipped != 3 {
		t.Fatalf("report = %+v, want 2 restored and 3 skipped", report)
	}
	b, err := store.GetBooking(ctx, 9)
	if err != nil {
		t.Fatalf("GetBooking(9): %v", err)
	}
	if b.CityID != 5 || b.Status != models.StatusCancelled {
		t.Errorf("substring match = %+v, want Poços de Caldas cancelled", b)
	}
}

func TestUpdateBookingRewritesRow(t *testing.T) {
	api := newFakeSheets()
	ctx := context.Background()
	m := New(api, newStore(t), Options{Logger: zap.NewNop()})

	b := booking(21, "14:00")
	if err := m.AppendBooking(ctx, b); err != nil {
		t.Fatalf("AppendBooking: %v", err)
	}
	b.Status = models.StatusCancelled
	if err := m.UpdateBooking(ctx, b); err != nil {
		t.Fatalf("UpdateBooking: %v", err)
	}
	rows := api.tabs["Agendamentos"]
	if len(rows) != 2 || rows[1][8] != models.StatusCancelled {
		t.Fatalf("rows = %v, want the existing row updated in place", rows)
	}

	if err := m.UpdateBooking(ctx, booking(22, "15:00")); err != nil {
		t.Fatalf("UpdateBooking unknown id: %v", err)
	}
	if len(api.tabs["Agendamentos"]) != 3 {
		t.Fatalf("unknown id should append a row")
	}
}

func TestDetachedPushFailureIsSwallowed(t *testing.T) {
	api := newFakeSheets()
	api.fail = errors.New("quota exceeded")
	m := New(api, newStore(t), Options{Logger: zap.NewNop(), Timeout: time.Second})

	m.BookingCreated(booking(1, "08:00"))
	m.Wait()
	if len(api.tabs) != 0 {
		t.Fatalf("tabs = %v, want nothing written", api.tabs)
	}
}

func TestNilMirrorIsDisabled(t *testing.T) {
	var m *Mirror
	if m.Enabled() {
		t.Fatalf("nil mirror reports enabled")
	}
	m.BookingCreated(booking(1, "08:00"))
	m.Wait()
	if _, err := m.RestoreAll(context.Background()); !errors.Is(err, ErrDisabled) {
		t.Fatalf("RestoreAll err = %v, want ErrDisabled", err)
	}
}

func TestRestoreKeepsCancelledDuplicate(t *testing.T) {
	api := newFakeSheets()
	api.tabs["Agendamentos"] = [][]interface{}{
		bookingHeader,
		{"4", "Empresa A", "AAA1111", "NF1", "Ana", "2025-04-02", "08:00", "Natal", "cancelled", ""},
		{"4", "Empresa A", "AAA1111", "NF1", "Ana", "2025-04-02", "08:00", "Natal", "confirmed", ""},
		{"6", "Empresa B", "BBB2222", "NF2", "Bia", "2025-04-02", "09:00", "Natal", "confirmed", ""},
		{"6", "Empresa B", "BBB2222", "NF2", "Bruna", "2025-04-02", "09:00", "Natal", "confirmed", ""},
	}
	ctx := context.Background()
	store := newStore(t)
	report, err := New(api, store, Options{Logger: zap.NewNop()}).RestoreAll(ctx)
	if err != nil {
		t.Fatalf("RestoreAll: %v", err)
	}
	if report.BookingsRestored != 2 {
		t.Fatalf("report = %+v, want 2 restored", report)
	}
	b, err := store.GetBooking(ctx, 4)
	if err != nil {
		t.Fatalf("GetBooking(4): %v", err)
	}
	if b.Status != models.StatusCancelled {
		t.Errorf("status = %s, want cancelled", b.Status)
	}
	b, err = store.GetBooking(ctx, 6)
	if err != nil {
		t.Fatalf("GetBooking(6): %v", err)
	}
	if b.DriverName != "Bruna" {
		t.Errorf("driver = %s, want the later row", b.DriverName)
	}
}

func TestRestoreOnStartupPolicy(t *testing.T) {
	sheetRows := func() map[string][][]interface{} {
		return map[string][][]interface{}{"Agendamentos": {
			bookingHeader,
			{"30", "Empresa S", "SSS3030", "NF30", "Sara", "2025-04-02", "10:00", "Natal", "confirmed", ""},
		}}
	}
	ctx := context.Background()

	cases := []struct {
		name     string
		populate bool
		always   bool
		fail     bool
		want     bool
	}{
		{name: "empty store restores", want: true},
		{name: "populated store skips", populate: true},
		{name: "always restores populated store", populate: true, always: true, want: true},
		{name: "api failure is swallowed", fail: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newFakeSheets()
			api.tabs = sheetRows()
			if tc.fail {
				api.fail = errors.New("backend error")
			}
			store := newStore(t)
			if tc.populate {
				existing := booking(1, "08:00")
				if err := store.UpsertBooking(ctx, &existing); err != nil {
					t.Fatalf("UpsertBooking: %v", err)
				}
			}

			New(api, store, Options{Logger: zap.NewNop()}).RestoreOnStartup(ctx, tc.always)

			_, err := store.GetBooking(ctx, 30)
			if got := err == nil; got != tc.want {
				t.Fatalf("booking 30 restored = %v, want %v (err %v)", got, tc.want, err)
			}
		})
	}
}
