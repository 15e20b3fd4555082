package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/0xniki/rezzy-backend/internal/model"
	"github.com/0xniki/rezzy-backend/internal/repository"
)

// ── Mock TableRepository ──

type mockTableRepo struct {
	tables   map[string]*model.Table
	assigned map[string]bool // 有分配记录的桌位
	nextSeq  int
}

func newMockTableRepo() *mockTableRepo {
	return &mockTableRepo{
		tables:   make(map[string]*model.Table),
		assigned: make(map[string]bool),
	}
}

func (m *mockTableRepo) Create(_ context.Context, table *model.Table) error {
	if table.TableID == "" {
		m.nextSeq++
		table.TableID = fmt.Sprintf("table-%03d", m.nextSeq)
	}
	for _, t := range m.tables {
		if t.TableNumber == table.TableNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	m.syncChairs(table)
	m.tables[table.TableID] = table
	return nil
}

// syncChairs 维持椅子数量等于 max_capacity，缩容时保留最早创建的椅子
func (m *mockTableRepo) syncChairs(table *model.Table) {
	sort.SliceStable(table.Chairs, func(i, j int) bool {
		return table.Chairs[i].CreatedAt.Before(table.Chairs[j].CreatedAt)
	})
	for len(table.Chairs) < table.MaxCapacity {
		table.Chairs = append(table.Chairs, model.Chair{
			ChairID:   fmt.Sprintf("%s-chair-%d", table.TableID, len(table.Chairs)+1),
			TableID:   table.TableID,
			CreatedAt: time.Now().Add(time.Duration(len(table.Chairs)) * time.Millisecond),
		})
	}
	if len(table.Chairs) > table.MaxCapacity {
		table.Chairs = table.Chairs[:table.MaxCapacity]
	}
}

func (m *mockTableRepo) GetByID(_ context.Context, id string) (*model.Table, error) {
	if t, ok := m.tables[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTableRepo) List(_ context.Context, filter repository.TableFilter) ([]model.Table, error) {
	var result []model.Table
	for _, t := range m.tables {
		if filter.MinCapacity != nil && t.MinCapacity < *filter.MinCapacity {
			continue
		}
		if filter.MaxCapacity != nil && t.MaxCapacity < *filter.MaxCapacity {
			continue
		}
		if filter.IsShared != nil && t.IsShared != *filter.IsShared {
			continue
		}
		if filter.Location != nil && (t.Location == nil || *t.Location != *filter.Location) {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TableNumber < result[j].TableNumber })
	return result, nil
}

func (m *mockTableRepo) ListFitting(_ context.Context, partySize int) ([]model.Table, error) {
	var result []model.Table
	for _, t := range m.tables {
		if t.MinCapacity <= partySize && t.MaxCapacity >= partySize {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TableNumber < result[j].TableNumber })
	return result, nil
}

func (m *mockTableRepo) GetByIDsForUpdate(_ context.Context, ids []string) ([]model.Table, error) {
	var result []model.Table
	for _, id := range ids {
		if t, ok := m.tables[id]; ok {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TableID < result[j].TableID })
	return result, nil
}

func (m *mockTableRepo) Update(_ context.Context, table *model.Table) error {
	existing, ok := m.tables[table.TableID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, t := range m.tables {
		if t.TableID != table.TableID && t.TableNumber == table.TableNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	existing.TableNumber = table.TableNumber
	existing.MinCapacity = table.MinCapacity
	existing.MaxCapacity = table.MaxCapacity
	existing.IsShared = table.IsShared
	existing.Location = table.Location
	m.syncChairs(existing)
	return nil
}

func (m *mockTableRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.tables[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.tables, id)
	return nil
}

func (m *mockTableRepo) HasAssignments(_ context.Context, id string) (bool, error) {
	return m.assigned[id], nil
}

// ── Mock CustomerRepository ──

type mockCustomerRepo struct {
	customers map[string]*model.Customer
	nextSeq   int
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{customers: make(map[string]*model.Customer)}
}

func (m *mockCustomerRepo) Create(_ context.Context, customer *model.Customer) error {
	if customer.CustomerID == "" {
		m.nextSeq++
		customer.CustomerID = fmt.Sprintf("customer-%03d", m.nextSeq)
	}
	m.customers[customer.CustomerID] = customer
	return nil
}

func (m *mockCustomerRepo) GetByID(_ context.Context, id string) (*model.Customer, error) {
	if c, ok := m.customers[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCustomerRepo) GetByEmail(_ context.Context, email string) (*model.Customer, error) {
	for _, c := range m.customers {
		if c.Email != nil && *c.Email == email {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCustomerRepo) GetByPhone(_ context.Context, phone string) (*model.Customer, error) {
	for _, c := range m.customers {
		if c.Phone != nil && *c.Phone == phone {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ReservationRepository ──

type mockReservationRepo struct {
	reservations map[string]*model.Reservation
	assignments  map[string][]string // reservation_id → table_ids
	customers    *mockCustomerRepo
	tables       *mockTableRepo
	nextSeq      int
}

func newMockReservationRepo(customers *mockCustomerRepo, tables *mockTableRepo) *mockReservationRepo {
	return &mockReservationRepo{
		reservations: make(map[string]*model.Reservation),
		assignments:  make(map[string][]string),
		customers:    customers,
		tables:       tables,
	}
}

func (m *mockReservationRepo) Create(_ context.Context, reservation *model.Reservation, tableIDs []string) error {
	if reservation.ReservationID == "" {
		m.nextSeq++
		reservation.ReservationID = fmt.Sprintf("reservation-%03d", m.nextSeq)
	}
	reservation.CreatedAt = time.Now()
	m.reservations[reservation.ReservationID] = reservation
	m.assignments[reservation.ReservationID] = append([]string(nil), tableIDs...)
	for _, tid := range tableIDs {
		m.tables.assigned[tid] = true
	}
	return nil
}

// hydrate 模拟 Preload：填充 Customer 与 Tables 关联
func (m *mockReservationRepo) hydrate(res *model.Reservation) *model.Reservation {
	out := *res
	if c, ok := m.customers.customers[res.CustomerID]; ok {
		out.Customer = c
	}
	out.Tables = nil
	for _, tid := range m.assignments[res.ReservationID] {
		if t, ok := m.tables.tables[tid]; ok {
			out.Tables = append(out.Tables, *t)
		}
	}
	return &out
}

func (m *mockReservationRepo) GetByID(_ context.Context, id string) (*model.Reservation, error) {
	if r, ok := m.reservations[id]; ok {
		return m.hydrate(r), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) List(_ context.Context, filter repository.ReservationFilter) ([]model.Reservation, int64, error) {
	var result []model.Reservation
	for _, r := range m.reservations {
		if filter.DateFrom != nil && model.FormatDate(r.ReservationDate) < *filter.DateFrom {
			continue
		}
		if filter.DateTo != nil && model.FormatDate(r.ReservationDate) > *filter.DateTo {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.CustomerID != nil && r.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.TableID != nil {
			found := false
			for _, tid := range m.assignments[r.ReservationID] {
				if tid == *filter.TableID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		result = append(result, *m.hydrate(r))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ReservationDate.Equal(result[j].ReservationDate) {
			return result[i].ReservationDate.Before(result[j].ReservationDate)
		}
		return result[i].StartTime < result[j].StartTime
	})
	total := int64(len(result))
	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			result = nil
		} else {
			result = result[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, total, nil
}

func (m *mockReservationRepo) ListActiveByDate(_ context.Context, date string) ([]model.Reservation, error) {
	var result []model.Reservation
	for _, r := range m.reservations {
		if model.FormatDate(r.ReservationDate) != date || !model.IsBlockingStatus(r.Status) {
			continue
		}
		result = append(result, *m.hydrate(r))
	}
	return result, nil
}

func (m *mockReservationRepo) Update(_ context.Context, reservation *model.Reservation) error {
	existing, ok := m.reservations[reservation.ReservationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.PartySize = reservation.PartySize
	existing.ReservationDate = reservation.ReservationDate
	existing.StartTime = reservation.StartTime
	existing.DurationMinutes = reservation.DurationMinutes
	existing.Notes = reservation.Notes
	existing.Status = reservation.Status
	return nil
}

func (m *mockReservationRepo) UpdateStatus(_ context.Context, id, status string) error {
	if r, ok := m.reservations[id]; ok {
		r.Status = status
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) ReplaceAssignments(_ context.Context, reservationID string, tableIDs []string) error {
	if _, ok := m.reservations[reservationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.assignments[reservationID] = append([]string(nil), tableIDs...)
	return nil
}

func (m *mockReservationRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.reservations[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.reservations, id)
	delete(m.assignments, id)
	return nil
}

// ── Mock HoursRepository ──

type mockHoursRepo struct {
	hours map[int]*model.RestaurantHours
}

func newMockHoursRepo() *mockHoursRepo {
	return &mockHoursRepo{hours: make(map[int]*model.RestaurantHours)}
}

func (m *mockHoursRepo) List(_ context.Context) ([]model.RestaurantHours, error) {
	var result []model.RestaurantHours
	for _, h := range m.hours {
		result = append(result, *h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DayOfWeek < result[j].DayOfWeek })
	return result, nil
}

func (m *mockHoursRepo) GetByDay(_ context.Context, dayOfWeek int) (*model.RestaurantHours, error) {
	if h, ok := m.hours[dayOfWeek]; ok {
		return h, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHoursRepo) Upsert(_ context.Context, hours *model.RestaurantHours) error {
	if hours.HoursID == "" {
		hours.HoursID = fmt.Sprintf("hours-%d", hours.DayOfWeek)
	}
	m.hours[hours.DayOfWeek] = hours
	return nil
}

// ── Mock SpecialHoursRepository ──

type mockSpecialHoursRepo struct {
	specials map[string]*model.SpecialHours // key: date
}

func newMockSpecialHoursRepo() *mockSpecialHoursRepo {
	return &mockSpecialHoursRepo{specials: make(map[string]*model.SpecialHours)}
}

func (m *mockSpecialHoursRepo) List(_ context.Context, dateFrom, dateTo *string) ([]model.SpecialHours, error) {
	var result []model.SpecialHours
	for _, sp := range m.specials {
		if dateFrom != nil && model.FormatDate(sp.Date) < *dateFrom {
			continue
		}
		if dateTo != nil && model.FormatDate(sp.Date) > *dateTo {
			continue
		}
		result = append(result, *sp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *mockSpecialHoursRepo) GetByDate(_ context.Context, date string) (*model.SpecialHours, error) {
	if sp, ok := m.specials[date]; ok {
		return sp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSpecialHoursRepo) Upsert(_ context.Context, special *model.SpecialHours) error {
	if special.SpecialHoursID == "" {
		special.SpecialHoursID = "special-" + model.FormatDate(special.Date)
	}
	m.specials[model.FormatDate(special.Date)] = special
	return nil
}

func (m *mockSpecialHoursRepo) Delete(_ context.Context, id string) error {
	for date, sp := range m.specials {
		if sp.SpecialHoursID == id {
			delete(m.specials, date)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock TxManager ──

// mockTxManager 在同一套内存仓储上执行回调，不提供真正的隔离与回滚
type mockTxManager struct {
	repo *repository.Repository
}

func (m *mockTxManager) Transaction(_ context.Context, fn func(txRepo *repository.Repository) error) error {
	return fn(m.repo)
}

// ── 测试辅助 ──

// newTestRepository 组装全套内存仓储
func newTestRepository() *repository.Repository {
	tables := newMockTableRepo()
	customers := newMockCustomerRepo()
	repo := &repository.Repository{
		Table:        tables,
		Customer:     customers,
		Reservation:  newMockReservationRepo(customers, tables),
		Hours:        newMockHoursRepo(),
		SpecialHours: newMockSpecialHoursRepo(),
	}
	repo.Tx = &mockTxManager{repo: repo}
	return repo
}
