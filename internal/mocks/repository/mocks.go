// Package repository provides testify mocks of the repository interfaces.
package repository

import (
	"context"
	"io"
	"time"

	"indicators/internal/domain/entity"
	"indicators/internal/domain/query"
	"indicators/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// TestingT is the subset of *testing.T the constructors need.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(t TestingT, m *mock.Mock) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockTransactionManager runs the callback against Factory, standing in for a committed transaction.
type MockTransactionManager struct {
	Factory repository.RepositoryFactory
}

func NewMockTransactionManager(factory repository.RepositoryFactory) *MockTransactionManager {
	return &MockTransactionManager{Factory: factory}
}

func (m *MockTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.Factory)
}

type MockRepositoryFactory struct {
	mock.Mock
}

func NewMockRepositoryFactory(t TestingT) *MockRepositoryFactory {
	m := &MockRepositoryFactory{}
	register(t, &m.Mock)

	return m
}

func (m *MockRepositoryFactory) NewUserRepository() repository.UserRepository {
	repo, _ := m.Called().Get(0).(repository.UserRepository)

	return repo
}

func (m *MockRepositoryFactory) NewGoalRepository() repository.GoalRepository {
	repo, _ := m.Called().Get(0).(repository.GoalRepository)

	return repo
}

type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository(t TestingT) *MockUserRepository {
	m := &MockUserRepository{}
	register(t, &m.Mock)

	return m
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*entity.User)

	return users, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	args := m.Called(ctx, role)
	n, _ := args.Get(0).(int64)

	return n, args.Error(1)
}

type MockGoalRepository struct {
	mock.Mock
}

func NewMockGoalRepository(t TestingT) *MockGoalRepository {
	m := &MockGoalRepository{}
	register(t, &m.Mock)

	return m
}

func (m *MockGoalRepository) List(ctx context.Context) ([]*entity.Goal, error) {
	args := m.Called(ctx)
	goals, _ := args.Get(0).([]*entity.Goal)

	return goals, args.Error(1)
}

func (m *MockGoalRepository) FindByKey(ctx context.Context, key string) (*entity.Goal, error) {
	args := m.Called(ctx, key)
	goal, _ := args.Get(0).(*entity.Goal)

	return goal, args.Error(1)
}

func (m *MockGoalRepository) Create(ctx context.Context, goal *entity.Goal) error {
	return m.Called(ctx, goal).Error(0)
}

func (m *MockGoalRepository) Update(ctx context.Context, goal *entity.Goal) error {
	return m.Called(ctx, goal).Error(0)
}

type MockKPIRepository struct {
	mock.Mock
}

func NewMockKPIRepository(t TestingT) *MockKPIRepository {
	m := &MockKPIRepository{}
	register(t, &m.Mock)

	return m
}

func (m *MockKPIRepository) Totals(ctx context.Context, from, to time.Time) (*entity.KPITotals, error) {
	args := m.Called(ctx, from, to)
	totals, _ := args.Get(0).(*entity.KPITotals)

	return totals, args.Error(1)
}

type MockDatasetRepository struct {
	mock.Mock
}

func NewMockDatasetRepository(t TestingT) *MockDatasetRepository {
	m := &MockDatasetRepository{}
	register(t, &m.Mock)

	return m
}

func (m *MockDatasetRepository) Kind() string {
	return m.Called().String(0)
}

func (m *MockDatasetRepository) Columns() []string {
	cols, _ := m.Called().Get(0).([]string)

	return cols
}

func (m *MockDatasetRepository) List(ctx context.Context, q query.ListQuery) ([]entity.Record, error) {
	args := m.Called(ctx, q)
	records, _ := args.Get(0).([]entity.Record)

	return records, args.Error(1)
}

func (m *MockDatasetRepository) Create(ctx context.Context, fields map[string]any) (entity.Record, error) {
	args := m.Called(ctx, fields)
	rec, _ := args.Get(0).(entity.Record)

	return rec, args.Error(1)
}

func (m *MockDatasetRepository) Import(ctx context.Context, r io.Reader) (int, error) {
	args := m.Called(ctx, r)

	return args.Int(0), args.Error(1)
}

// MockDatasetRegistry serves fixed repositories by kind.
type MockDatasetRegistry struct {
	Repos map[string]repository.DatasetRepository
	Order []string
}

func (m *MockDatasetRegistry) Lookup(kind string) (repository.DatasetRepository, bool) {
	repo, ok := m.Repos[kind]

	return repo, ok
}

func (m *MockDatasetRegistry) Kinds() []string {
	return m.Order
}
