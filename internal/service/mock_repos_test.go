package service

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"quizbowl-orders/backend/internal/model"
)

// ── Mock YearRepository ──

type mockYearRepo struct {
	years map[string]*model.Year
}

func newMockYearRepo() *mockYearRepo {
	return &mockYearRepo{years: make(map[string]*model.Year)}
}

func (m *mockYearRepo) GetByCode(_ context.Context, code string) (*model.Year, error) {
	if y, ok := m.years[code]; ok {
		return y, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockYearRepo) GetCurrent(_ context.Context) (*model.Year, error) {
	for _, y := range m.years {
		if y.IsCurrent {
			return y, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockYearRepo) List(_ context.Context) ([]model.Year, error) {
	var result []model.Year
	for _, y := range m.years {
		result = append(result, *y)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code > result[j].Code })
	return result, nil
}

// ── Mock SchoolRepository ──

type mockSchoolRepo struct {
	schools map[int64]*model.School
}

func newMockSchoolRepo() *mockSchoolRepo {
	return &mockSchoolRepo{schools: make(map[int64]*model.School)}
}

func (m *mockSchoolRepo) GetByID(_ context.Context, id int64) (*model.School, error) {
	if s, ok := m.schools[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchoolRepo) List(_ context.Context, activeOnly bool) ([]model.School, error) {
	var result []model.School
	for _, s := range m.schools {
		if activeOnly && !s.Active {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShortName < result[j].ShortName })
	return result, nil
}

func (m *mockSchoolRepo) ListByIDs(_ context.Context, ids []int64) ([]model.School, error) {
	var result []model.School
	for _, id := range ids {
		if s, ok := m.schools[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

// ── Mock PacketRepository ──

type mockPacketRepo struct {
	packets map[int64]*model.Packet
}

func newMockPacketRepo() *mockPacketRepo {
	return &mockPacketRepo{packets: make(map[int64]*model.Packet)}
}

func (m *mockPacketRepo) GetByID(_ context.Context, id int64) (*model.Packet, error) {
	if p, ok := m.packets[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPacketRepo) ListByYear(_ context.Context, yearCode string) ([]model.Packet, error) {
	var result []model.Packet
	for _, p := range m.packets {
		if p.YearCode == yearCode {
			result = append(result, *p)
		}
	}
	sortPackets(result)
	return result, nil
}

func (m *mockPacketRepo) ListCompetitionAvailable(_ context.Context, yearCode string) ([]model.Packet, error) {
	var result []model.Packet
	for _, p := range m.packets {
		if p.YearCode == yearCode && p.AvailableForCompetition {
			result = append(result, *p)
		}
	}
	sortPackets(result)
	return result, nil
}

func (m *mockPacketRepo) ListPracticeAvailable(_ context.Context) ([]model.Packet, error) {
	var result []model.Packet
	for _, p := range m.packets {
		if p.AvailableForPractice {
			result = append(result, *p)
		}
	}
	sortPackets(result)
	return result, nil
}

func (m *mockPacketRepo) ListByIDs(_ context.Context, ids []int64) ([]model.Packet, error) {
	var result []model.Packet
	for _, id := range ids {
		if p, ok := m.packets[id]; ok {
			result = append(result, *p)
		}
	}
	sortPackets(result)
	return result, nil
}

func sortPackets(packets []model.Packet) {
	sort.Slice(packets, func(i, j int) bool {
		if packets[i].YearCode != packets[j].YearCode {
			return packets[i].YearCode < packets[j].YearCode
		}
		return packets[i].Number < packets[j].Number
	})
}

// ── Mock StateSeriesRepository ──

type mockStateSeriesRepo struct {
	series map[int64]*model.StateSeries
}

func newMockStateSeriesRepo() *mockStateSeriesRepo {
	return &mockStateSeriesRepo{series: make(map[int64]*model.StateSeries)}
}

func (m *mockStateSeriesRepo) ListAvailable(_ context.Context) ([]model.StateSeries, error) {
	var result []model.StateSeries
	for _, s := range m.series {
		if s.Available {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockStateSeriesRepo) ListByIDs(_ context.Context, ids []int64) ([]model.StateSeries, error) {
	var result []model.StateSeries
	for _, id := range ids {
		if s, ok := m.series[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

// ── Mock CompilationRepository ──

type mockCompilationRepo struct {
	compilations map[int64]*model.Compilation
}

func newMockCompilationRepo() *mockCompilationRepo {
	return &mockCompilationRepo{compilations: make(map[int64]*model.Compilation)}
}

func (m *mockCompilationRepo) ListAvailable(_ context.Context) ([]model.Compilation, error) {
	var result []model.Compilation
	for _, c := range m.compilations {
		if c.Available {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockCompilationRepo) ListByIDs(_ context.Context, ids []int64) ([]model.Compilation, error) {
	var result []model.Compilation
	for _, id := range ids {
		if c, ok := m.compilations[id]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByID(_ context.Context, userID string) (*model.User, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock InvoiceLineRepository ──

type mockInvoiceLineRepo struct {
	lines  map[int64]*model.InvoiceLine
	nextID int64
}

func newMockInvoiceLineRepo() *mockInvoiceLineRepo {
	return &mockInvoiceLineRepo{lines: make(map[int64]*model.InvoiceLine), nextID: 1}
}

func (m *mockInvoiceLineRepo) ListByBooking(_ context.Context, bookingID int64) ([]model.InvoiceLine, error) {
	var result []model.InvoiceLine
	for _, l := range m.lines {
		if l.BookingID == bookingID {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockInvoiceLineRepo) ReplaceAll(ctx context.Context, bookingID int64, lines []model.InvoiceLine) error {
	if err := m.DeleteByBooking(ctx, bookingID); err != nil {
		return err
	}
	for i := range lines {
		lines[i].BookingID = bookingID
		if err := m.Add(ctx, &lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockInvoiceLineRepo) DeleteByBooking(_ context.Context, bookingID int64) error {
	for id, l := range m.lines {
		if l.BookingID == bookingID {
			delete(m.lines, id)
		}
	}
	return nil
}

func (m *mockInvoiceLineRepo) Add(_ context.Context, line *model.InvoiceLine) error {
	if line.ID == 0 {
		line.ID = m.nextID
		m.nextID++
	}
	stored := *line
	m.lines[line.ID] = &stored
	return nil
}

func (m *mockInvoiceLineRepo) Delete(_ context.Context, lineID, bookingID int64) error {
	if l, ok := m.lines[lineID]; ok && l.BookingID == bookingID {
		delete(m.lines, lineID)
	}
	return nil
}

// ── Mock BookingRepository ──
//
// 模拟预加载语义：GetByCreationID / ListLive 返回的订单带上
// 联盟、比赛（按 id 升序）和账单明细的副本。

type mockBookingRepo struct {
	bookings    map[int64]*model.Booking
	conferences map[int64]*model.Conference         // bookingID → conference
	games       map[int64]*model.NonConferenceGame  // gameID → game
	invoice     *mockInvoiceLineRepo
	nextID      int64
	nextConfID  int64
	nextGameID  int64
}

func newMockBookingRepo(invoice *mockInvoiceLineRepo) *mockBookingRepo {
	return &mockBookingRepo{
		bookings:    make(map[int64]*model.Booking),
		conferences: make(map[int64]*model.Conference),
		games:       make(map[int64]*model.NonConferenceGame),
		invoice:     invoice,
		nextID:      1,
		nextConfID:  1,
		nextGameID:  1,
	}
}

func (m *mockBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	if booking.ID == 0 {
		booking.ID = m.nextID
		m.nextID++
	}
	stored := *booking
	stored.Conference = nil
	stored.NonConferenceGames = nil
	stored.InvoiceLines = nil
	m.bookings[booking.ID] = &stored
	return nil
}

func (m *mockBookingRepo) GetByCreationID(ctx context.Context, creationID string) (*model.Booking, error) {
	for _, b := range m.bookings {
		if b.CreationID == creationID {
			return m.hydrate(ctx, b), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingRepo) Update(_ context.Context, booking *model.Booking) error {
	if _, ok := m.bookings[booking.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *booking
	stored.Conference = nil
	stored.NonConferenceGames = nil
	stored.InvoiceLines = nil
	m.bookings[booking.ID] = &stored
	return nil
}

func (m *mockBookingRepo) Delete(_ context.Context, id int64) error {
	delete(m.bookings, id)
	delete(m.conferences, id)
	for gid, g := range m.games {
		if g.BookingID == id {
			delete(m.games, gid)
		}
	}
	return nil
}

func (m *mockBookingRepo) ListByStatusCodes(ctx context.Context, statusCodes []string) ([]model.Booking, error) {
	var result []model.Booking
	for _, b := range m.bookings {
		if len(statusCodes) > 0 && !containsStr(statusCodes, b.StatusCode) {
			continue
		}
		result = append(result, *m.hydrate(ctx, b))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockBookingRepo) ListLive(ctx context.Context, excludeBookingID int64) ([]model.Booking, error) {
	var result []model.Booking
	for _, b := range m.bookings {
		if excludeBookingID > 0 && b.ID == excludeBookingID {
			continue
		}
		if !containsStr(model.LiveStatuses, b.StatusCode) {
			continue
		}
		result = append(result, *m.hydrate(ctx, b))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockBookingRepo) SaveConference(_ context.Context, conference *model.Conference) error {
	if existing, ok := m.conferences[conference.BookingID]; ok {
		conference.ID = existing.ID
	} else if conference.ID == 0 {
		conference.ID = m.nextConfID
		m.nextConfID++
	}
	stored := *conference
	m.conferences[conference.BookingID] = &stored
	return nil
}

func (m *mockBookingRepo) DeleteConference(_ context.Context, bookingID int64) error {
	delete(m.conferences, bookingID)
	return nil
}

func (m *mockBookingRepo) AddGame(_ context.Context, game *model.NonConferenceGame) error {
	if game.ID == 0 {
		game.ID = m.nextGameID
		m.nextGameID++
	}
	stored := *game
	m.games[game.ID] = &stored
	return nil
}

func (m *mockBookingRepo) GetGame(_ context.Context, gameID int64) (*model.NonConferenceGame, error) {
	if g, ok := m.games[gameID]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingRepo) UpdateGame(_ context.Context, game *model.NonConferenceGame) error {
	if _, ok := m.games[game.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *game
	m.games[game.ID] = &stored
	return nil
}

func (m *mockBookingRepo) DeleteGame(_ context.Context, gameID, bookingID int64) error {
	if g, ok := m.games[gameID]; ok && g.BookingID == bookingID {
		delete(m.games, gameID)
	}
	return nil
}

func (m *mockBookingRepo) hydrate(ctx context.Context, b *model.Booking) *model.Booking {
	copied := *b
	if conf, ok := m.conferences[b.ID]; ok {
		confCopy := *conf
		copied.Conference = &confCopy
	}
	copied.NonConferenceGames = nil
	for _, g := range m.games {
		if g.BookingID == b.ID {
			copied.NonConferenceGames = append(copied.NonConferenceGames, *g)
		}
	}
	sort.Slice(copied.NonConferenceGames, func(i, j int) bool {
		return copied.NonConferenceGames[i].ID < copied.NonConferenceGames[j].ID
	})
	if m.invoice != nil {
		lines, _ := m.invoice.ListByBooking(ctx, b.ID)
		copied.InvoiceLines = lines
	}
	return &copied
}

func containsStr(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// [自证通过] internal/service/mock_repos_test.go
