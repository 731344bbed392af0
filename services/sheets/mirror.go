// Package sheets mirrors bookings and unavailabilities into a Google
// spreadsheet and restores them from it.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"agendamento/config"
	schedulerRepo "agendamento/database/repository/scheduler"
	"agendamento/models"
	"agendamento/utils"

	"go.uber.org/zap"
)

// ErrDisabled is returned by operations on a mirror that is not configured.
var ErrDisabled = errors.New("google sheets mirror is not configured")

const wholeDay = "Dia Inteiro"

var (
	bookingHeader = []interface{}{
		"ID", "Empresa", "Placa", "Nota Fiscal", "Motorista",
		"Data", "Hora", "Cidade", "Status", "Data Criação",
	}
	unavailabilityHeader = []interface{}{
		"Cidade ID", "Cidade", "Data Indisponível", "Horário", "Motivo", "Data Registro",
	}
)

// MirrorError wraps a failed spreadsheet call.
type MirrorError struct {
	Op  string
	Err error
}

func (e *MirrorError) Error() string {
	return fmt.Sprintf("sheets %s: %v", e.Op, e.Err)
}

func (e *MirrorError) Unwrap() error {
	return e.Err
}

// Options configures a Mirror.
type Options struct {
	BookingsTab       string
	UnavailabilityTab string
	Timeout           time.Duration
	Logger            *zap.Logger
}

// Mirror keeps the spreadsheet in step with the store. A nil *Mirror is a
// valid, disabled mirror.
type Mirror struct {
	api     SheetsAPI
	repo    schedulerRepo.SchedulerRepository
	opts    Options
	logger  *zap.Logger
	pending sync.WaitGroup

	mu      sync.Mutex
	ensured map[string]bool
}

// New wraps api. Empty options fall back to the default tab names.
func New(api SheetsAPI, repo schedulerRepo.SchedulerRepository, opts Options) *Mirror {
	if opts.BookingsTab == "" {
		opts.BookingsTab = "Agendamentos"
	}
	if opts.UnavailabilityTab == "" {
		opts.UnavailabilityTab = "Indisponibilidades"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &Mirror{
		api:     api,
		repo:    repo,
		opts:    opts,
		logger:  logger.With(zap.String("component", "sheets")),
		ensured: make(map[string]bool),
	}
}

// NewFromConfig returns nil when the spreadsheet id is unset or the
// credentials file is missing.
func NewFromConfig(ctx context.Context, cfg config.Config, repo schedulerRepo.SchedulerRepository) (*Mirror, error) {
	if cfg.SheetsSpreadsheetID == "" {
		utils.GetLogger().Info("Google Sheets mirror disabled: GOOGLE_SHEETS_SPREADSHEET_ID not set")
		return nil, nil
	}
	if _, err := os.Stat(cfg.SheetsCredentialsPath); err != nil {
		utils.GetLogger().Info("Google Sheets mirror disabled: credentials file not found",
			zap.String("path", cfg.SheetsCredentialsPath))
		return nil, nil
	}
	api, err := NewGoogleSheets(ctx, cfg.SheetsCredentialsPath, cfg.SheetsSpreadsheetID)
	if err != nil {
		return nil, err
	}
	return New(api, repo, Options{
		BookingsTab:       cfg.SheetsBookingsTab,
		UnavailabilityTab: cfg.SheetsUnavailabilityTab,
		Timeout:           cfg.SheetsTimeout(),
	}), nil
}

// Enabled reports whether writes reach a spreadsheet.
func (m *Mirror) Enabled() bool {
	return m != nil && m.api != nil
}

// Ping checks that the spreadsheet is reachable.
func (m *Mirror) Ping(ctx context.Context) error {
	if !m.Enabled() {
		return utils.ErrCheckDisabled
	}
	if _, err := m.api.SheetTitles(ctx); err != nil {
		return &MirrorError{Op: "ping", Err: err}
	}
	return nil
}

// Wait blocks until detached pushes have finished.
func (m *Mirror) Wait() {
	if m != nil {
		m.pending.Wait()
	}
}

func rangeOf(tab, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(tab, "'", "''"), cells)
}

// ensureTab creates the tab and its header row once per process.
func (m *Mirror) ensureTab(ctx context.Context, tab string, header []interface{}, lastCol string) error {
	m.mu.Lock()
	done := m.ensured[tab]
	m.mu.Unlock()
	if done {
		return nil
	}

	titles, err := m.api.SheetTitles(ctx)
	if err != nil {
		return &MirrorError{Op: "list tabs", Err: err}
	}
	if !contains(titles, tab) {
		if err := m.api.AddSheet(ctx, tab); err != nil {
			return &MirrorError{Op: "create tab " + tab, Err: err}
		}
	}
	first, err := m.api.GetValues(ctx, rangeOf(tab, "A1:"+lastCol+"1"))
	if err != nil {
		return &MirrorError{Op: "read header " + tab, Err: err}
	}
	if len(first) == 0 || len(first[0]) == 0 {
		if err := m.api.UpdateValues(ctx, rangeOf(tab, "A1:"+lastCol+"1"), [][]interface{}{header}); err != nil {
			return &MirrorError{Op: "write header " + tab, Err: err}
		}
	}

	m.mu.Lock()
	m.ensured[tab] = true
	m.mu.Unlock()
	return nil
}

func bookingRow(b models.Booking) []interface{} {
	return []interface{}{
		b.ID,
		b.CompanyName,
		b.VehiclePlate,
		b.InvoiceNumber,
		b.DriverName,
		b.BookingDate,
		b.BookingTime,
		b.CityName,
		b.Status,
		b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func unavailabilityRow(u models.Unavailability) []interface{} {
	slot := wholeDay
	if u.UnavailableTime != nil && *u.UnavailableTime != "" {
		slot = *u.UnavailableTime
	}
	return []interface{}{
		u.CityID,
		u.CityName,
		u.UnavailableDate,
		slot,
		u.Reason,
		u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// AppendBooking adds a row for b.
func (m *Mirror) AppendBooking(ctx context.Context, b models.Booking) error {
	if !m.Enabled() {
		return ErrDisabled
	}
	if err := m.ensureTab(ctx, m.opts.BookingsTab, bookingHeader, "J"); err != nil {
		return err
	}
	if err := m.api.AppendValues(ctx, rangeOf(m.opts.BookingsTab, "A:J"), [][]interface{}{bookingRow(b)}); err != nil {
		return &MirrorError{Op: "append booking", Err: err}
	}
	return nil
}

// UpdateBooking overwrites the row whose column A holds b.ID, appending when
// no such row exists.
func (m *Mirror) UpdateBooking(ctx context.Context, b models.Booking) error {
	if !m.Enabled() {
		return ErrDisabled
	}
	if err := m.ensureTab(ctx, m.opts.BookingsTab, bookingHeader, "J"); err != nil {
		return err
	}
	ids, err := m.api.GetValues(ctx, rangeOf(m.opts.BookingsTab, "A:A"))
	if err != nil {
		return &MirrorError{Op: "scan booking ids", Err: err}
	}
	want := strconv.Itoa(b.ID)
	for i, row := range ids {
		if len(row) > 0 && cell(row, 0) == want {
			n := i + 1
			rng := rangeOf(m.opts.BookingsTab, fmt.Sprintf("A%d:J%d", n, n))
			if err := m.api.UpdateValues(ctx, rng, [][]interface{}{bookingRow(b)}); err != nil {
				return &MirrorError{Op: "update booking", Err: err}
			}
			return nil
		}
	}
	return m.AppendBooking(ctx, b)
}

// AppendUnavailability adds a row for u.
func (m *Mirror) AppendUnavailability(ctx context.Context, u models.Unavailability) error {
	if !m.Enabled() {
		return ErrDisabled
	}
	if err := m.ensureTab(ctx, m.opts.UnavailabilityTab, unavailabilityHeader, "F"); err != nil {
		return err
	}
	if err := m.api.AppendValues(ctx, rangeOf(m.opts.UnavailabilityTab, "A:F"), [][]interface{}{unavailabilityRow(u)}); err != nil {
		return &MirrorError{Op: "append unavailability", Err: err}
	}
	return nil
}

// detach runs push after the request has been answered. Failures are only logged.
// Pushes are not ordered: an update racing the append of the same booking can
// add a second row for its id, which RestoreAll reconciles.
func (m *Mirror) detach(op string, id int, push func(ctx context.Context) error) {
	if !m.Enabled() {
		return
	}
	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), m.opts.Timeout)
		defer cancel()
		if err := push(ctx); err != nil {
			m.logger.Warn("Spreadsheet push failed", zap.String("op", op), zap.Int("id", id), zap.Error(err))
			return
		}
		m.logger.Debug("Spreadsheet push done", zap.String("op", op), zap.Int("id", id))
	}()
}

func (m *Mirror) BookingCreated(b models.Booking) {
	m.detach("append booking", b.ID, func(ctx context.Context) error { return m.AppendBooking(ctx, b) })
}

func (m *Mirror) BookingChanged(b models.Booking) {
	m.detach("update booking", b.ID, func(ctx context.Context) error { return m.UpdateBooking(ctx, b) })
}

func (m *Mirror) UnavailabilityCreated(u models.Unavailability) {
	m.detach("append unavailability", u.ID, func(ctx context.Context) error { return m.AppendUnavailability(ctx, u) })
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
