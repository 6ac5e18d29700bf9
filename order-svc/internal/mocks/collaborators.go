package mocks

import (
	"context"

	"food-ordering/order-svc/internal/domain"
	"food-ordering/pkg/tracking"

	"github.com/stretchr/testify/mock"
)

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t testingT) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventPublisher) Publish(ctx context.Context, event tracking.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type StatusCache struct {
	mock.Mock
}

func NewStatusCache(t testingT) *StatusCache {
	m := &StatusCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StatusCache) Get(ctx context.Context, orderID int) (*tracking.Snapshot, error) {
	args := m.Called(ctx, orderID)
	snap, _ := args.Get(0).(*tracking.Snapshot)
	return snap, args.Error(1)
}

func (m *StatusCache) Set(ctx context.Context, snap tracking.Snapshot) (bool, error) {
	args := m.Called(ctx, snap)
	return args.Bool(0), args.Error(1)
}

func (m *StatusCache) Delete(ctx context.Context, orderID int) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *QRGenerator) Generate(orderID int) ([]byte, error) {
	args := m.Called(orderID)
	qr, _ := args.Get(0).([]byte)
	return qr, args.Error(1)
}

type PasswordHasher struct {
	mock.Mock
}

func NewPasswordHasher(t testingT) *PasswordHasher {
	m := &PasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Compare(hash, password string) bool {
	args := m.Called(hash, password)
	return args.Bool(0)
}

type TokenIssuer struct {
	mock.Mock
}

func NewTokenIssuer(t testingT) *TokenIssuer {
	m := &TokenIssuer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TokenIssuer) Generate(account *domain.Account) (string, error) {
	args := m.Called(account)
	return args.String(0), args.Error(1)
}
