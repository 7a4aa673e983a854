package commands_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetActiveDeliveriesByRider(ctx context.Context, riderID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, riderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Add(ctx context.Context, r *assignment.Request) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, r *assignment.Request) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Request), args.Error(1)
}

func (m *MockAssignmentRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.Request, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Request), args.Error(1)
}

func (m *MockAssignmentRepository) GetExpiredOffers(ctx context.Context) ([]*assignment.Request, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Request), args.Error(1)
}

func (m *MockAssignmentRepository) UpdateStatusGuarded(
	ctx context.Context, id kernel.UUID, from, to assignment.Status,
) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

type MockRiderRepository struct{ mock.Mock }

func (m *MockRiderRepository) FindCandidates(
	ctx context.Context, pickup kernel.GeoPoint, radius kernel.Kilometers, excluding []kernel.UUID,
) ([]*rider.Rider, error) {
	args := m.Called(ctx, pickup, radius, excluding)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rider.Rider), args.Error(1)
}

func (m *MockRiderRepository) Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rider.Rider), args.Error(1)
}

func (m *MockRiderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*rider.Rider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rider.Rider), args.Error(1)
}

func (m *MockRiderRepository) Update(ctx context.Context, r *rider.Rider) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) AssignmentRepository() ports.AssignmentRepository {
	args := m.Called()
	return args.Get(0).(ports.AssignmentRepository)
}

func (m *MockUoW) RiderRepository() ports.RiderRepository {
	args := m.Called()
	return args.Get(0).(ports.RiderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockAssignmentUoWFactory struct{ mock.Mock }

func (m *MockAssignmentUoWFactory) Create() commands.AssignmentUoW {
	args := m.Called()
	return args.Get(0).(commands.AssignmentUoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishStatusChanged(ctx context.Context, event order.StatusChanged) {
	m.Called(ctx, event)
}

func (m *MockEventPublisher) PublishRiderAssigned(ctx context.Context, event assignment.RiderAssigned) {
	m.Called(ctx, event)
}

func (m *MockEventPublisher) PublishRequestExhausted(ctx context.Context, event assignment.RequestExhausted) {
	m.Called(ctx, event)
}

func (m *MockEventPublisher) PublishRiderLocationUpdated(ctx context.Context, event rider.LocationUpdated) {
	m.Called(ctx, event)
}

type MockPreferenceStore struct{ mock.Mock }

func (m *MockPreferenceStore) GetUserNotificationPreferences(
	ctx context.Context, userID kernel.UUID,
) (*notification.Preference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Preference), args.Error(1)
}

type MockRecipientDirectory struct{ mock.Mock }

func (m *MockRecipientDirectory) GetRecipient(
	ctx context.Context, userID kernel.UUID,
) (notification.Recipient, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(notification.Recipient), args.Error(1)
}

type MockNotificationStore struct{ mock.Mock }

func (m *MockNotificationStore) CreateOrderNotification(
	ctx context.Context, record notification.Record,
) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockChannelProvider struct {
	mock.Mock
	channel notification.Channel
}

func (m *MockChannelProvider) Channel() notification.Channel {
	return m.channel
}

func (m *MockChannelProvider) Send(ctx context.Context, contact, subject, body string) error {
	args := m.Called(ctx, contact, subject, body)
	return args.Error(0)
}

// flatDistance treats longitude difference as kilometers.
type flatDistance struct{}

func (flatDistance) Distance(from, to kernel.GeoPoint) kernel.Kilometers {
	d := from.Longitude() - to.Longitude()
	if d < 0 {
		d = -d
	}
	return kernel.Kilometers(d)
}

func testPickup(t *testing.T) kernel.GeoPoint {
	t.Helper()

	p, err := kernel.NewGeoPoint(51.5007, -0.1246)
	require.NoError(t, err)
	return p
}

func testDropoff(t *testing.T) kernel.GeoPoint {
	t.Helper()

	p, err := kernel.NewGeoPoint(51.5194, -0.1270)
	require.NoError(t, err)
	return p
}

func testOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	o, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil,
		[]order.Item{{Name: "Margherita", Quantity: 2, PriceCents: 1250}},
		testPickup(t), testDropoff(t), status, nil, time.Now(), time.Now())
	require.NoError(t, err)
	return o
}

func testRider(t *testing.T, name string) *rider.Rider {
	t.Helper()

	location, err := kernel.NewGeoPoint(51.5, -0.12)
	require.NoError(t, err)
	r, err := rider.RestoreRider(kernel.NewUUID(), name, true, location, 0, 2, 4.5, 80)
	require.NoError(t, err)
	return r
}

func testOfferedRequest(t *testing.T, riderID kernel.UUID) *assignment.Request {
	t.Helper()

	request, err := assignment.NewRequest(kernel.NewUUID(), kernel.NewUUID(), 3,
		testPickup(t), testDropoff(t), assignment.DefaultPolicy(), time.Now())
	require.NoError(t, err)
	require.NoError(t, request.Offer(riderID, time.Now()))
	return request
}
