package pirep

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-airline/config"
	acarsModel "virtual-airline/models/acars"
	aircraftModel "virtual-airline/models/aircraft"
	airportModel "virtual-airline/models/airport"
	fareModel "virtual-airline/models/fare"
	flightModel "virtual-airline/models/flight"
	"virtual-airline/models/journal"
	pirepModel "virtual-airline/models/pirep"
	userModel "virtual-airline/models/user"
	"virtual-airline/services/finance"
	"virtual-airline/store"
	"virtual-airline/types"
	pirepTypes "virtual-airline/types/pirep"
)

// countingRecalculator wraps the real finance service and counts triggers
type countingRecalculator struct {
	mu    sync.Mutex
	inner *finance.Service
	calls int
}

func (c *countingRecalculator) Recalculate(p *pirepModel.Pirep) ([]journal.Transaction, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.Recalculate(p)
}

func (c *countingRecalculator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fixture struct {
	svc     *Service
	store   *store.Store
	mem     *store.MemoryStore
	finance *countingRecalculator
}

func newFixture(t *testing.T, settings config.Settings) *fixture {
	t.Helper()
	st, mem := store.NewMemoryStore()

	mem.SeedUser(userModel.User{
		ID: 42, Uuid: "u-42", Username: "jdoe", Name: "J. Doe",
		CurrentAirportID: "KJFK", RankLevel: 3, PayRate: 50,
	})
	mem.SeedAircraft(aircraftModel.Aircraft{
		ID: 7, ICAO: "B738", Registration: "N123VA",
		AirportID: "KJFK", MinRankLevel: 2, Active: true,
	})
	mem.SeedAircraft(aircraftModel.Aircraft{
		ID: 9, ICAO: "B77W", Registration: "N777VA",
		AirportID: "KLAX", MinRankLevel: 9, Active: true,
	})
	mem.SeedAirport(airportModel.Airport{ID: "KJFK", Name: "Kennedy", GroundHandlingCost: 100, FuelJetAPrice: 0.9})
	mem.SeedAirport(airportModel.Airport{ID: "KLAX", Name: "Los Angeles", GroundHandlingCost: 120})
	mem.SeedFare(fareModel.Fare{ID: 1, Code: "Y", Name: "Economy", Price: 100, Cost: 20, Capacity: 180})
	mem.SeedFlight(flightModel.Flight{ID: 5, Airline: "VA", FlightNumber: "VA123",
		DptAirportID: "KJFK", ArrAirportID: "KLAX", Route: "WAVEY EMJAY HAPIE"})

	fin := &countingRecalculator{inner: finance.New(st, settings)}
	return &fixture{
		svc:     New(st, fin, settings, nil),
		store:   st,
		mem:     mem,
		finance: fin,
	}
}

func defaultSettings() config.Settings {
	return config.Settings{
		DuplicateLookback:  24 * time.Hour,
		LiveTrackingWindow: 2 * time.Hour,
		DefaultFuelPrice:   0.85,
	}
}

func prefileReq() pirepTypes.PrefileRequest {
	return pirepTypes.PrefileRequest{
		UserID:       42,
		AircraftID:   7,
		DptAirportID: "KJFK",
		ArrAirportID: "KLAX",
		FlightNumber: "VA123",
	}
}

func TestPrefileCreatesInProgress(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)

	assert.Equal(t, pirepModel.StateInProgress, p.State)
	assert.Equal(t, pirepModel.StatusInitiated, p.Status)
	assert.False(t, p.Cancelled())
	assert.Nil(t, p.SubmittedAt)
	assert.NotZero(t, p.ID)
}

func TestPrefileValidation(t *testing.T) {
	f := newFixture(t, defaultSettings())

	req := prefileReq()
	req.DptAirportID = ""
	_, err := f.svc.Prefile(req)
	assert.ErrorIs(t, err, types.ErrValidationFailed)
}

func TestPrefileUnknownUser(t *testing.T) {
	f := newFixture(t, defaultSettings())

	req := prefileReq()
	req.UserID = 999
	_, err := f.svc.Prefile(req)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestPrefileGuardUserNotAtDeparture(t *testing.T) {
	settings := defaultSettings()
	settings.OnlyFlightsFromCurrentAirport = true
	f := newFixture(t, settings)

	req := prefileReq()
	req.DptAirportID = "KBOS"
	_, err := f.svc.Prefile(req)
	assert.ErrorIs(t, err, types.ErrUserNotAtDepartureAirport)

	// From the pilot's actual airport the guard passes
	_, err = f.svc.Prefile(prefileReq())
	assert.NoError(t, err)
}

func TestPrefileGuardAircraftRank(t *testing.T) {
	settings := defaultSettings()
	settings.RestrictAircraftToRank = true
	f := newFixture(t, settings)

	req := prefileReq()
	req.AircraftID = 9 // needs rank 9, pilot has 3
	_, err := f.svc.Prefile(req)
	assert.ErrorIs(t, err, types.ErrAircraftPermissionDenied)
}

func TestPrefileGuardAircraftNotAtDeparture(t *testing.T) {
	settings := defaultSettings()
	settings.OnlyAircraftAtDptAirport = true
	f := newFixture(t, settings)

	req := prefileReq()
	req.AircraftID = 9 // parked at KLAX
	_, err := f.svc.Prefile(req)
	assert.ErrorIs(t, err, types.ErrAircraftNotAtDepartureAirport)
}

func TestPrefileIdempotent(t *testing.T) {
	f := newFixture(t, defaultSettings())

	first, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)

	second, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "identical prefile inside the window must reuse the PIREP")
}

func TestPrefileAfterCancelCreatesNew(t *testing.T) {
	f := newFixture(t, defaultSettings())

	first, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)

	_, err = f.svc.Cancel(first.ID, "jdoe")
	require.NoError(t, err)

	second, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestUpdateCancelledFails(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)
	_, err = f.svc.Cancel(p.ID, "")
	require.NoError(t, err)

	ft := 95
	_, err = f.svc.Update(p.ID, pirepTypes.UpdateRequest{FlightTime: &ft})
	assert.ErrorIs(t, err, types.ErrPirepCancelled)
}

func TestUpdateAircraftRechecksPermission(t *testing.T) {
	settings := defaultSettings()
	settings.RestrictAircraftToRank = true
	f := newFixture(t, settings)

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)

	heavy := uint(9)
	_, err = f.svc.Update(p.ID, pirepTypes.UpdateRequest{AircraftID: &heavy})
	assert.ErrorIs(t, err, types.ErrAircraftPermissionDenied)

	// Guard failure aborted before persistence
	stored, err := f.svc.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), stored.AircraftID)
}

func TestFileTransition(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)

	ft, fuel := 330, 8200.0
	result, err := f.svc.File(p.ID, pirepTypes.FileRequest{
		FlightTime: &ft,
		FuelUsed:   &fuel,
		Fares:      []pirepTypes.FareSelection{{FareID: 1, Count: 120}},
	})
	require.NoError(t, err)
	require.Empty(t, result.Warnings)

	filed := result.Pirep
	assert.Equal(t, pirepModel.StatePending, filed.State)
	assert.Equal(t, pirepModel.StatusArrived, filed.Status)
	require.NotNil(t, filed.SubmittedAt)
	assert.Equal(t, time.UTC, filed.SubmittedAt.Location())

	txns, err := f.store.Journal.ForPirep(p.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, txns, "filing must produce finance transactions")
}

func TestFileSubmittedAtSetOnce(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)

	first, err := f.svc.File(p.ID, pirepTypes.FileRequest{})
	require.NoError(t, err)
	stamp := *first.Pirep.SubmittedAt

	time.Sleep(10 * time.Millisecond)
	second, err := f.svc.File(p.ID, pirepTypes.FileRequest{})
	require.NoError(t, err)
	assert.True(t, stamp.Equal(*second.Pirep.SubmittedAt), "submitted_at is a one-way ratchet")
}

func TestFileCancelledFails(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)
	_, err = f.svc.Cancel(p.ID, "")
	require.NoError(t, err)

	_, err = f.svc.File(p.ID, pirepTypes.FileRequest{})
	assert.ErrorIs(t, err, types.ErrPirepCancelled)
}

func TestFileFinanceFailureIsWarning(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)

	// Unknown fare makes the downstream fare update fail; the transition
	// itself must still land.
	ft := 120
	result, err := f.svc.File(p.ID, pirepTypes.FileRequest{
		FlightTime: &ft,
		Fares:      []pirepTypes.FareSelection{{FareID: 999, Count: 10}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Warnings)
	assert.Equal(t, pirepModel.StatePending, result.Pirep.State)
	require.NotNil(t, result.Pirep.SubmittedAt)
}

func TestFileSynthesizesRoute(t *testing.T) {
	f := newFixture(t, defaultSettings())

	req := prefileReq()
	flightID := uint(5)
	req.FlightID = &flightID
	p, err := f.svc.Prefile(req)
	require.NoError(t, err)

	_, err = f.svc.File(p.ID, pirepTypes.FileRequest{})
	require.NoError(t, err)

	points, err := f.store.Acars.List(p.ID, acarsModel.TypeRoute)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "WAVEY", points[0].Name)
	assert.Equal(t, 0, points[0].Order)
	assert.Equal(t, "HAPIE", points[2].Name)
}

func TestCancelIdempotent(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)

	first, err := f.svc.Cancel(p.ID, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, pirepModel.StateCancelled, first.State)
	assert.Equal(t, pirepModel.StatusCancelled, first.Status)
	assert.True(t, first.Cancelled())

	second, err := f.svc.Cancel(p.ID, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, pirepModel.StateCancelled, second.State)
}

func TestCancelArrivedPirep(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)
	_, err = f.svc.File(p.ID, pirepTypes.FileRequest{})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, pirepModel.StateCancelled, cancelled.State)
	assert.Equal(t, pirepModel.StatusCancelled, cancelled.Status)
}

func TestAcceptRetriggersFinance(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)
	ft := 330
	_, err = f.svc.File(p.ID, pirepTypes.FileRequest{
		FlightTime: &ft,
		Fares:      []pirepTypes.FareSelection{{FareID: 1, Count: 100}},
	})
	require.NoError(t, err)
	before := f.finance.count()

	accepted, err := f.svc.Accept(p.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, pirepModel.StateAccepted, accepted.State)
	assert.Equal(t, before+1, f.finance.count())
}

func TestRejectDropsPilotPay(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)
	ft := 330
	_, err = f.svc.File(p.ID, pirepTypes.FileRequest{
		FlightTime: &ft,
		Fares:      []pirepTypes.FareSelection{{FareID: 1, Count: 100}},
	})
	require.NoError(t, err)

	_, err = f.svc.Reject(p.ID, "admin")
	require.NoError(t, err)

	txns, err := f.store.Journal.ForPirep(p.ID)
	require.NoError(t, err)
	for _, txn := range txns {
		assert.NotEqual(t, journal.GroupPilotPay, txn.Group)
		assert.NotEqual(t, journal.GroupFareRevenue, txn.Group)
	}
}

func TestAcceptFromInProgressFails(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)

	_, err = f.svc.Accept(p.ID, "admin")
	assert.ErrorIs(t, err, types.ErrValidationFailed)
}

func TestMarkAirborneIdempotent(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkAirborne(p.ID))
	after, err := f.svc.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, pirepModel.StatusAirborne, after.Status)

	require.NoError(t, f.svc.MarkAirborne(p.ID))
	again, err := f.svc.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, pirepModel.StatusAirborne, again.Status)
}

func TestConcurrentFileSingleSubmission(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)

	ft := 200
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.File(p.ID, pirepTypes.FileRequest{FlightTime: &ft})
		}()
	}
	wg.Wait()

	filed, err := f.svc.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, pirepModel.StatePending, filed.State)
	assert.Equal(t, pirepModel.StatusArrived, filed.Status)
	require.NotNil(t, filed.SubmittedAt)

	// Recomputation supersedes, so however the calls interleave the
	// journal holds exactly one deterministic transaction set
	txns, err := f.store.Journal.ForPirep(p.ID)
	require.NoError(t, err)
	groups := map[string]int{}
	for _, txn := range txns {
		groups[txn.Group]++
	}
	assert.LessOrEqual(t, groups[journal.GroupPilotPay], 1)
}

func TestConcurrentOpsOnDifferentPireps(t *testing.T) {
	f := newFixture(t, defaultSettings())

	// Distinct airport pairs dodge the duplicate detector
	arrivals := []string{"KLAX", "KSFO", "KORD", "KSEA"}
	var wg sync.WaitGroup
	ids := make([]uint, len(arrivals))
	for i, arr := range arrivals {
		wg.Add(1)
		go func(i int, arr string) {
			defer wg.Done()
			req := prefileReq()
			req.ArrAirportID = arr
			p, err := f.svc.Prefile(req)
			if assert.NoError(t, err) {
				ids[i] = p.ID
			}
		}(i, arr)
	}
	wg.Wait()

	seen := map[uint]bool{}
	for _, id := range ids {
		assert.NotZero(t, id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestFileAcceptedPirepFails(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)
	ft := 200
	_, err = f.svc.File(p.ID, pirepTypes.FileRequest{FlightTime: &ft})
	require.NoError(t, err)
	_, err = f.svc.Accept(p.ID, "admin")
	require.NoError(t, err)

	_, err = f.svc.File(p.ID, pirepTypes.FileRequest{FlightTime: &ft})
	assert.ErrorIs(t, err, types.ErrValidationFailed)

	after, err := f.svc.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, pirepModel.StateAccepted, after.State, "a dispositioned report never reopens")
}

func TestUpdateAcceptedPirepFails(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)
	_, err = f.svc.File(p.ID, pirepTypes.FileRequest{})
	require.NoError(t, err)
	_, err = f.svc.Reject(p.ID, "admin")
	require.NoError(t, err)

	route := "WAVEY EMJAY"
	_, err = f.svc.Update(p.ID, pirepTypes.UpdateRequest{Route: &route})
	assert.ErrorIs(t, err, types.ErrValidationFailed)

	after, err := f.svc.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, pirepModel.StateRejected, after.State)
	assert.Empty(t, after.Route)
}

func TestRecalculateFinanceUsesCurrentSnapshot(t *testing.T) {
	f := newFixture(t, defaultSettings())

	p, err := f.svc.Prefile(prefileReq())
	require.NoError(t, err)
	ft := 330
	fuel := 1000.0
	_, err = f.svc.File(p.ID, pirepTypes.FileRequest{
		FlightTime: &ft,
		FuelUsed:   &fuel,
		Fares:      []pirepTypes.FareSelection{{FareID: 1, Count: 100}},
	})
	require.NoError(t, err)
	_, err = f.svc.Reject(p.ID, "admin")
	require.NoError(t, err)

	before := f.finance.count()
	txns, err := f.svc.RecalculateFinance(p.ID)
	require.NoError(t, err)
	assert.Equal(t, before+1, f.finance.count())

	// Computed from the rejected snapshot, not the pre-disposition one
	for _, txn := range txns {
		assert.NotEqual(t, journal.GroupPilotPay, txn.Group)
		assert.NotEqual(t, journal.GroupFareRevenue, txn.Group)
	}
}

func TestRecalculateFinanceUnknownPirep(t *testing.T) {
	f := newFixture(t, defaultSettings())

	_, err := f.svc.RecalculateFinance(12345)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
