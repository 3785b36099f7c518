package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/services"
	"github.com/chachabrian/tvdefleet-backend/internal/store"
	mock_store "github.com/chachabrian/tvdefleet-backend/internal/store/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type memRepo struct {
	saved map[string]*models.State
	saves int
}

func (r *memRepo) Load(_ context.Context, name string) (*models.State, error) {
	st, ok := r.saved[name]
	if !ok {
		return nil, store.ErrSnapshotNotFound
	}
	return st.Clone(), nil
}

func (r *memRepo) Save(_ context.Context, name string, st *models.State) error {
	r.saved[name] = st.Clone()
	r.saves++
	return nil
}

type inbox struct {
	mu      sync.Mutex
	batches [][]models.AppNotification
}

func (i *inbox) Deliver(_ context.Context, n []models.AppNotification) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.batches = append(i.batches, n)
	return nil
}

func (i *inbox) all() []models.AppNotification {
	i.mu.Lock()
	defer i.mu.Unlock()
	var out []models.AppNotification
	for _, b := range i.batches {
		out = append(out, b...)
	}
	return out
}

func fixtureState() *models.State {
	return &models.State{
		Drivers: []models.Driver{
			{ID: "d1", FullName: "João Silva", Email: "joao@fleet.pt", Status: models.DriverActive, CommissionType: models.CommissionVariable, CommissionValue: 25},
			{ID: "d2", FullName: "Maria Santos", Status: models.DriverActive, CommissionType: models.CommissionFixed, CommissionValue: 100},
		},
		Vehicles: []models.Vehicle{
			{ID: "v1", Brand: "Toyota", Model: "Corolla", Plate: "AA-11-BB", Status: models.VehicleMaintenance, InsuranceExpiry: "2026-03-20", InspectionExpiry: "2027-01-01"},
		},
		Expenses: []models.Expense{
			{ID: "e1", DriverID: "d1", Category: models.ExpenseFuel, Amount: 45.50, Status: models.ExpenseApproved},
			{ID: "e2", DriverID: "d1", Category: models.ExpenseRental, Amount: 200, Status: models.ExpenseApproved},
		},
		Rentals: []models.Rental{
			{ID: "r1", VehicleID: "v1", DailyRate: 35, Status: models.RentalAvailable, InterestedDrivers: []string{"João Silva", "Maria Santos"}},
			{ID: "r2", VehicleID: "v1", DailyRate: 65, Status: models.RentalRented, InterestedDrivers: []string{}},
		},
		Payments: []models.Payment{
			{ID: "p1", DriverID: "d1", Driver: "João Silva", Period: "16/02 - 23/02", Gross: 600, Net: 392.2, Status: models.PaymentPending},
			{ID: "p2", Driver: "Maria Santos", Period: "16/02 - 23/02", Gross: 750, Net: 650, Status: models.PaymentProcessing},
			{ID: "p3", Driver: "Ana Oliveira", Period: "23/02 - 02/03", Gross: 400, Net: 300, Status: models.PaymentPending},
		},
		Settings: models.DefaultSettings(),
	}
}

func newTestStore(t *testing.T) (*store.Store, *memRepo, *inbox) {
	t.Helper()
	repo := &memRepo{saved: map[string]*models.State{store.SnapshotName: fixtureState()}}
	sink := &inbox{}
	s := store.New(repo,
		store.WithClock(func() time.Time { return testNow }),
		store.WithSink(sink),
	)
	require.NoError(t, s.Load(context.Background()))
	return s, repo, sink
}

func TestLoad_SeedsEmptyDatabase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_store.NewMockSnapshotRepository(ctrl)
	repo.EXPECT().Load(gomock.Any(), store.SnapshotName).Return(nil, store.ErrSnapshotNotFound)
	repo.EXPECT().Save(gomock.Any(), store.SnapshotName, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, st *models.State) error {
			require.Len(t, st.Users, 1)
			assert.Equal(t, "boss@fleet.pt", st.Users[0].Email)
			assert.Equal(t, models.RoleAdmin, st.Users[0].Role)
			assert.NotEmpty(t, st.Users[0].PasswordHash)
			assert.Equal(t, models.DefaultSettings(), st.Settings)
			assert.Empty(t, st.Drivers)
			return nil
		})

	s := store.New(repo, store.WithAdmin("boss@fleet.pt", "s3cret"))
	require.NoError(t, s.Load(context.Background()))

	user, err := s.Authenticate("BOSS@fleet.pt", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Empty(t, user.PasswordHash)

	_, err = s.Authenticate("boss@fleet.pt", "wrong")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)
}

func TestLoad_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_store.NewMockSnapshotRepository(ctrl)
	repo.EXPECT().Load(gomock.Any(), store.SnapshotName).Return(nil, errors.New("connection refused"))

	s := store.New(repo)
	err := s.Load(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestFailedSaveLeavesStateUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_store.NewMockSnapshotRepository(ctrl)
	repo.EXPECT().Load(gomock.Any(), store.SnapshotName).Return(fixtureState(), nil)
	repo.EXPECT().Save(gomock.Any(), store.SnapshotName, gomock.Any()).Return(errors.New("disk full")).Times(2)

	sink := &inbox{}
	s := store.New(repo, store.WithSink(sink), store.WithClock(func() time.Time { return testNow }))
	require.NoError(t, s.Load(context.Background()))

	_, err := s.TransitionPayment(context.Background(), "p1", models.PaymentPaid)
	assert.ErrorContains(t, err, "disk full")

	_, err = s.AddVehicle(context.Background(), models.Vehicle{Plate: "ZZ-99-ZZ"})
	assert.Error(t, err)

	p, err := s.Payment("p1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, p.Status)
	assert.Len(t, s.Vehicles(), 1)
	assert.Empty(t, s.Notifications())
	assert.Empty(t, sink.all())
}

func TestApproveRental(t *testing.T) {
	s, _, _ := newTestStore(t)

	rental, expense, err := s.ApproveRental(context.Background(), "r1", "d1", "2026-06-10")
	require.NoError(t, err)

	assert.Equal(t, 245.0, expense.Amount)
	assert.Equal(t, models.ExpenseRental, expense.Category)
	assert.Equal(t, models.ExpenseApproved, expense.Status)
	assert.Equal(t, "d1", expense.DriverID)
	assert.Equal(t, "2026-03-10", expense.Date)
	assert.Equal(t, "Aluguel Semanal - Viatura AA-11-BB", expense.Description)

	assert.Equal(t, models.RentalRented, rental.Status)
	assert.Equal(t, "d1", rental.DriverID)
	assert.Equal(t, "2026-03-10", rental.StartDate)
	assert.Equal(t, "2026-06-10", rental.EndDate)
	assert.Equal(t, []string{"Maria Santos"}, rental.InterestedDrivers)

	v, err := s.Vehicle("v1")
	require.NoError(t, err)
	assert.Equal(t, "d1", v.CurrentDriverID)
	assert.Equal(t, models.VehicleActive, v.Status)

	assert.Equal(t, expense, s.Expenses()[0])
	assert.Len(t, s.Expenses(), 3)
}

func TestApproveRental_RemovesInterestIgnoringCase(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpdateRental(ctx, "r1", func(r *models.Rental) error {
		r.InterestedDrivers = []string{"joão silva", "Maria Santos"}
		return nil
	})
	require.NoError(t, err)

	rental, _, err := s.ApproveRental(ctx, "r1", "d1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Maria Santos"}, rental.InterestedDrivers)
}

func TestApproveRental_UnknownDriver(t *testing.T) {
	s, repo, _ := newTestStore(t)

	_, _, err := s.ApproveRental(context.Background(), "r1", "nobody", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 0, repo.saves)
}

func TestRequestAndRejectRental(t *testing.T) {
	s, repo, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.RequestRental(ctx, "r2", "Pedro Costa")
	assert.ErrorIs(t, err, store.ErrRentalUnavailable)

	r, err := s.RequestRental(ctx, "r1", "Pedro Costa")
	require.NoError(t, err)
	assert.Equal(t, []string{"João Silva", "Maria Santos", "Pedro Costa"}, r.InterestedDrivers)

	r, err = s.RequestRental(ctx, "r1", "pedro costa")
	require.NoError(t, err)
	assert.Len(t, r.InterestedDrivers, 3)
	assert.Equal(t, 1, repo.saves)

	r, err = s.RejectRental(ctx, "r1", "João Silva")
	require.NoError(t, err)
	assert.Equal(t, []string{"Maria Santos", "Pedro Costa"}, r.InterestedDrivers)
	assert.Equal(t, models.RentalAvailable, r.Status)
}

func TestTransitionPayment_AlwaysNotifies(t *testing.T) {
	s, _, sink := newTestStore(t)
	ctx := context.Background()

	p, err := s.TransitionPayment(ctx, "p1", models.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, p.Status)

	p, err = s.TransitionPayment(ctx, "p1", models.PaymentPending)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, p.Status)

	delivered := sink.all()
	require.Len(t, delivered, 2)
	assert.Equal(t, "O pagamento de João Silva (16/02 - 23/02) foi marcado como Pago.", delivered[0].Message)
	assert.Equal(t, "O pagamento de João Silva (16/02 - 23/02) foi marcado como Pendente.", delivered[1].Message)

	inbox := s.Notifications()
	require.Len(t, inbox, 2)
	assert.Equal(t, delivered[1].ID, inbox[0].ID)

	_, err = s.TransitionPayment(ctx, "missing", models.PaymentPaid)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBulkMarkPaid(t *testing.T) {
	s, _, sink := newTestStore(t)

	changed, err := s.BulkMarkPaid(context.Background(), []string{"p1", "p2", "p3", "unknown"})
	require.NoError(t, err)
	require.Len(t, changed, 2)

	statuses := map[string]models.PaymentStatus{}
	for _, p := range s.Payments() {
		statuses[p.ID] = p.Status
	}
	assert.Equal(t, models.PaymentPaid, statuses["p1"])
	assert.Equal(t, models.PaymentProcessing, statuses["p2"])
	assert.Equal(t, models.PaymentPaid, statuses["p3"])

	delivered := sink.all()
	require.Len(t, delivered, 1)
	assert.Equal(t, "Pagamentos Processados", delivered[0].Title)
	assert.Equal(t, "2 pagamentos foram marcados como Pagos.", delivered[0].Message)

	changed, err = s.BulkMarkPaid(context.Background(), []string{"p1"})
	require.NoError(t, err)
	assert.Empty(t, changed)
	assert.Len(t, sink.all(), 1)
}

func TestPayAllPending(t *testing.T) {
	s, _, _ := newTestStore(t)

	changed, err := s.PayAllPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, changed, 2)
	for _, p := range s.Payments() {
		assert.NotEqual(t, models.PaymentPending, p.Status)
	}
}

func TestImportEarnings(t *testing.T) {
	s, repo, sink := newTestStore(t)

	rows := []services.EarningRow{
		{DriverName: "joão silva", Gross: 600},
		{DriverName: "Desconhecido Total", Gross: 100},
		{DriverName: "", Gross: 50},
	}
	result, err := s.ImportEarnings(context.Background(), rows, models.PlatformUber, "02/03 - 09/03")
	require.NoError(t, err)
	require.Len(t, result.Payments, 2)
	assert.Equal(t, []string{"Desconhecido Total"}, result.UnknownDrivers)

	// 600 - 25% - 45.50 fuel - 200 rental
	assert.Equal(t, 204.5, result.Payments[0].Net)
	assert.Equal(t, 75.0, result.Payments[1].Net)

	payments := s.Payments()
	require.Len(t, payments, 5)
	assert.Equal(t, result.Payments[0].ID, payments[0].ID)
	assert.Equal(t, "p1", payments[2].ID)

	delivered := sink.all()
	require.Len(t, delivered, 1)
	assert.Equal(t, "Importação UBER Concluída", delivered[0].Title)

	saves := repo.saves
	result, err = s.ImportEarnings(context.Background(), nil, models.PlatformBolt, "02/03 - 09/03")
	require.NoError(t, err)
	assert.Empty(t, result.Payments)
	assert.Equal(t, saves, repo.saves)
	assert.Len(t, sink.all(), 1)
}

func TestPreviewNet(t *testing.T) {
	s, repo, _ := newTestStore(t)

	b := s.PreviewNet("Maria Santos", 750)
	assert.True(t, b.DriverFound)
	assert.Equal(t, 650.0, b.Net)
	assert.Equal(t, 0, repo.saves)
}

func TestAddVehicle_DuplicatePlate(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddVehicle(ctx, models.Vehicle{Plate: "aa-11-bb", Brand: "Seat"})
	assert.ErrorIs(t, err, store.ErrDuplicatePlate)

	v, err := s.AddVehicle(ctx, models.Vehicle{Plate: " CC-22-DD ", Brand: "Mercedes"})
	require.NoError(t, err)
	assert.Equal(t, "CC-22-DD", v.Plate)
	assert.Equal(t, models.VehicleActive, v.Status)
	assert.Equal(t, "2026-03-10", v.EntryDate)

	_, err = s.UpdateVehicle(ctx, v.ID, func(v *models.Vehicle) error {
		v.Plate = "AA-11-BB"
		return nil
	})
	assert.ErrorIs(t, err, store.ErrDuplicatePlate)
}

func TestToggleStatuses(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	d, err := s.ToggleDriverStatus(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.DriverSuspended, d.Status)
	d, err = s.ToggleDriverStatus(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.DriverActive, d.Status)

	v, err := s.ToggleVehicleStatus(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, models.VehicleActive, v.Status)
	v, err = s.ToggleVehicleStatus(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, models.VehicleMaintenance, v.Status)
}

func TestUpdateDriver_RejectsInvalidCommission(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, err := s.UpdateDriver(context.Background(), "d1", func(d *models.Driver) error {
		d.CommissionValue = 150
		return nil
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	d, err := s.Driver("d1")
	require.NoError(t, err)
	assert.Equal(t, 25.0, d.CommissionValue)
}

func TestAddMaintenanceEntry(t *testing.T) {
	s, _, _ := newTestStore(t)

	v, err := s.AddMaintenanceEntry(context.Background(), "v1", models.MaintenanceEntry{Type: "revisao", Cost: 120})
	require.NoError(t, err)
	require.Len(t, v.History, 1)
	assert.Equal(t, "2026-03-10", v.History[0].Date)

	_, err = s.AddMaintenanceEntry(context.Background(), "v1", models.MaintenanceEntry{Date: "10/03/2026"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSetExpenseStatus(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	e, err := s.AddExpense(ctx, models.Expense{DriverID: "d2", Category: models.ExpenseToll, Amount: 12.30})
	require.NoError(t, err)
	assert.Equal(t, models.ExpensePending, e.Status)
	assert.Equal(t, 650.0, s.PreviewNet("Maria Santos", 750).Net)

	_, err = s.SetExpenseStatus(ctx, e.ID, models.ExpenseApproved)
	require.NoError(t, err)
	assert.Equal(t, 637.7, s.PreviewNet("Maria Santos", 750).Net)

	_, err = s.SetExpenseStatus(ctx, e.ID, "archived")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRunExpirationChecks(t *testing.T) {
	s, repo, sink := newTestStore(t)

	found, err := s.RunExpirationChecks(context.Background(), testNow)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Vencimento Próximo: Seguro", found[0].Title)

	saves := repo.saves
	found, err = s.RunExpirationChecks(context.Background(), testNow)
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, saves, repo.saves)
	assert.Len(t, sink.all(), 1)
}

func TestMarkNotificationsRead(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddNotification(ctx, models.AppNotification{Title: "Teste", Message: "Olá"})
	require.NoError(t, err)

	n, err := s.MarkNotificationsRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, s.Notifications()[0].Read)

	n, err = s.MarkNotificationsRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestApplyBoltSync_Mock(t *testing.T) {
	s, _, sink := newTestStore(t)

	result, err := s.ApplyBoltSync(context.Background(), services.MockPayload(testNow))
	require.NoError(t, err)
	assert.True(t, result.IsMock)
	assert.Equal(t, len(s.Drivers()), 2+result.DriversAdded)

	delivered := sink.all()
	require.Len(t, delivered, 1)
	assert.Equal(t, "Sincronização (Modo Demo)", delivered[0].Title)
}

func TestAuthenticate_Driver(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	hash, err := models.HashPassword("motorista")
	require.NoError(t, err)
	_, err = s.UpdateDriver(ctx, "d1", func(d *models.Driver) error {
		d.PasswordHash = hash
		return nil
	})
	require.NoError(t, err)

	user, err := s.Authenticate("joao@fleet.pt", "motorista")
	require.NoError(t, err)
	assert.Equal(t, "d1", user.ID)
	assert.Equal(t, models.RoleDriver, user.Role)

	for _, d := range s.Drivers() {
		assert.Empty(t, d.PasswordHash)
	}

	_, err = s.Authenticate("joao@fleet.pt", "nope")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)
}

func TestResetAndClear(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ResetEarnings(ctx))
	expenses := s.Expenses()
	require.Len(t, expenses, 1)
	assert.Equal(t, models.ExpenseFuel, expenses[0].Category)

	_, err := s.UpdateSettings(ctx, func(cs *models.CompanySettings) error {
		cs.Name = "Frota Lisboa"
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.ClearAllData(ctx))
	st := s.Snapshot()
	assert.Empty(t, st.Drivers)
	assert.Empty(t, st.Vehicles)
	assert.Empty(t, st.Payments)
	assert.Empty(t, st.Rentals)
	require.Len(t, st.Users, 1)
	assert.Equal(t, "admin@tvdefleet.com", st.Users[0].Email)
	assert.Equal(t, "Frota Lisboa", st.Settings.Name)
}
