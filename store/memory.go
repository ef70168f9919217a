package store

import (
	"sort"
	"sync"
	"time"

	"virtual-airline/models/acars"
	"virtual-airline/models/aircraft"
	"virtual-airline/models/airport"
	"virtual-airline/models/fare"
	"virtual-airline/models/flight"
	"virtual-airline/models/journal"
	"virtual-airline/models/pirep"
	"virtual-airline/models/user"
	"virtual-airline/types"
)

// MemoryStore keeps everything in RWMutex-guarded maps. It backs the test
// suite and standalone runs without Postgres; values are copied on the way
// in and out so callers never share memory with the store.
type MemoryStore struct {
	mu sync.RWMutex

	nextPirepID uint
	nextAcarsID uint
	nextRowID   uint

	pireps  map[uint]pirep.Pirep
	acars   []acars.Acars
	fares   map[uint][]fare.PirepFare
	fields  map[uint]map[string]string
	txns    map[uint][]journal.Transaction
	events  []pirep.StatusEvent

	users     map[uint]user.User
	aircraft  map[uint]aircraft.Aircraft
	airports  map[string]airport.Airport
	flights   map[uint]flight.Flight
	fareDefs  map[uint]fare.Fare
}

// NewMemoryStore returns an empty in-memory store bundle
func NewMemoryStore() (*Store, *MemoryStore) {
	m := &MemoryStore{
		pireps:   make(map[uint]pirep.Pirep),
		fares:    make(map[uint][]fare.PirepFare),
		fields:   make(map[uint]map[string]string),
		txns:     make(map[uint][]journal.Transaction),
		users:    make(map[uint]user.User),
		aircraft: make(map[uint]aircraft.Aircraft),
		airports: make(map[string]airport.Airport),
		flights:  make(map[uint]flight.Flight),
		fareDefs: make(map[uint]fare.Fare),
	}
	return &Store{Pireps: m, Acars: m, Journal: m, Lookup: m}, m
}

// Seed helpers for fixtures

func (m *MemoryStore) SeedUser(u user.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *MemoryStore) SeedAircraft(a aircraft.Aircraft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aircraft[a.ID] = a
}

func (m *MemoryStore) SeedAirport(a airport.Airport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.airports[a.ID] = a
}

func (m *MemoryStore) SeedFlight(f flight.Flight) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flights[f.ID] = f
}

func (m *MemoryStore) SeedFare(f fare.Fare) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fareDefs[f.ID] = f
}

// StatusEvents returns a copy of all recorded lifecycle events
func (m *MemoryStore) StatusEvents() []pirep.StatusEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]pirep.StatusEvent, len(m.events))
	copy(out, m.events)
	return out
}

// PirepStore

func (m *MemoryStore) Create(p *pirep.Pirep) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPirepID++
	p.ID = m.nextPirepID
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	m.pireps[p.ID] = *p
	return nil
}

func (m *MemoryStore) Get(id uint) (*pirep.Pirep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pireps[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (m *MemoryStore) Save(p *pirep.Pirep) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pireps[p.ID]; !ok {
		return types.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	m.pireps[p.ID] = *p
	return nil
}

func (m *MemoryStore) FindDuplicate(userID, aircraftID uint, dptAirportID, arrAirportID string, since time.Time) (*pirep.Pirep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *pirep.Pirep
	for id := range m.pireps {
		p := m.pireps[id]
		if p.UserID != userID || p.AircraftID != aircraftID {
			continue
		}
		if p.DptAirportID != dptAirportID || p.ArrAirportID != arrAirportID {
			continue
		}
		if p.State == pirep.StateCancelled || p.CreatedAt.Before(since) {
			continue
		}
		if best == nil || p.CreatedAt.After(best.CreatedAt) {
			cp := p
			best = &cp
		}
	}
	return best, nil
}

func (m *MemoryStore) LiveFlights(window time.Duration) ([]pirep.Pirep, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cutoff := time.Now().Add(-window)
	var out []pirep.Pirep
	for id := range m.pireps {
		p := m.pireps[id]
		if p.State == pirep.StateInProgress && !p.UpdatedAt.Before(cutoff) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *MemoryStore) ReplaceFares(pirepID uint, fares []fare.PirepFare) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]fare.PirepFare, len(fares))
	copy(rows, fares)
	for i := range rows {
		m.nextRowID++
		rows[i].ID = m.nextRowID
	}
	m.fares[pirepID] = rows
	return nil
}

func (m *MemoryStore) Fares(pirepID uint) ([]fare.PirepFare, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := make([]fare.PirepFare, len(m.fares[pirepID]))
	copy(rows, m.fares[pirepID])
	return rows, nil
}

func (m *MemoryStore) UpsertFields(pirepID uint, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fields[pirepID] == nil {
		m.fields[pirepID] = make(map[string]string)
	}
	for name, value := range fields {
		m.fields[pirepID][name] = value
	}
	return nil
}

func (m *MemoryStore) AppendStatusEvent(ev *pirep.StatusEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRowID++
	ev.ID = m.nextRowID
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	m.events = append(m.events, *ev)
	return nil
}

// AcarsStore

func (m *MemoryStore) Append(records []acars.Acars) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range records {
		m.nextAcarsID++
		records[i].ID = m.nextAcarsID
		if records[i].CreatedAt.IsZero() {
			records[i].CreatedAt = time.Now()
		}
		m.acars = append(m.acars, records[i])
	}
	return len(records), nil
}

func (m *MemoryStore) ReplaceRoute(pirepID uint, points []acars.Acars) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.acars[:0]
	for _, r := range m.acars {
		if r.PirepID == pirepID && r.Type == acars.TypeRoute {
			continue
		}
		kept = append(kept, r)
	}
	m.acars = kept
	for i := range points {
		m.nextAcarsID++
		points[i].ID = m.nextAcarsID
		if points[i].CreatedAt.IsZero() {
			points[i].CreatedAt = time.Now()
		}
		m.acars = append(m.acars, points[i])
	}
	return len(points), nil
}

func (m *MemoryStore) List(pirepID uint, t acars.Type) ([]acars.Acars, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []acars.Acars
	for _, r := range m.acars {
		if r.PirepID == pirepID && r.Type == t {
			out = append(out, r)
		}
	}
	if t == acars.TypeRoute {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].SimTime.Equal(out[j].SimTime) {
				return out[i].ID < out[j].ID
			}
			return out[i].SimTime.Before(out[j].SimTime)
		})
	}
	return out, nil
}

func (m *MemoryStore) LastPosition(pirepID uint) (*acars.Acars, error) {
	rows, err := m.List(pirepID, acars.TypeFlightPath)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	last := rows[len(rows)-1]
	return &last, nil
}

func (m *MemoryStore) HasRoute(pirepID uint) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.acars {
		if r.PirepID == pirepID && r.Type == acars.TypeRoute {
			return true, nil
		}
	}
	return false, nil
}

// JournalStore

func (m *MemoryStore) Replace(pirepID uint, rows []journal.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]journal.Transaction, len(rows))
	copy(cp, rows)
	for i := range cp {
		m.nextRowID++
		cp[i].ID = m.nextRowID
		if cp[i].CreatedAt.IsZero() {
			cp[i].CreatedAt = time.Now()
		}
	}
	m.txns[pirepID] = cp
	return nil
}

func (m *MemoryStore) ForPirep(pirepID uint) ([]journal.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := make([]journal.Transaction, len(m.txns[pirepID]))
	copy(rows, m.txns[pirepID])
	return rows, nil
}

// LookupStore

func (m *MemoryStore) User(id uint) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (m *MemoryStore) Aircraft(id uint) (*aircraft.Aircraft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.aircraft[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := a
	return &cp, nil
}

func (m *MemoryStore) Airport(id string) (*airport.Airport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.airports[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := a
	return &cp, nil
}

func (m *MemoryStore) Flight(id uint) (*flight.Flight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.flights[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := f
	return &cp, nil
}

func (m *MemoryStore) Fare(id uint) (*fare.Fare, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.fareDefs[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	cp := f
	return &cp, nil
}
