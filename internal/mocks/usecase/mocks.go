// Package usecase provides testify mocks of the use case interfaces for handler tests.
package usecase

import (
	"context"
	"io"

	"indicators/internal/domain/entity"
	"indicators/internal/domain/query"
	"indicators/internal/usecase"

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

type MockAuthUsecase struct {
	mock.Mock
}

func NewMockAuthUsecase(t TestingT) *MockAuthUsecase {
	m := &MockAuthUsecase{}
	register(t, &m.Mock)

	return m
}

func (m *MockAuthUsecase) Login(ctx context.Context, input usecase.LoginInput) (*usecase.TokenPair, error) {
	args := m.Called(ctx, input)
	pair, _ := args.Get(0).(*usecase.TokenPair)

	return pair, args.Error(1)
}

func (m *MockAuthUsecase) Refresh(ctx context.Context, refreshToken string) (*usecase.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	pair, _ := args.Get(0).(*usecase.TokenPair)

	return pair, args.Error(1)
}

func (m *MockAuthUsecase) SeedAdmin(ctx context.Context) (*usecase.TokenPair, error) {
	args := m.Called(ctx)
	pair, _ := args.Get(0).(*usecase.TokenPair)

	return pair, args.Error(1)
}

func (m *MockAuthUsecase) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	args := m.Called(ctx, accessToken)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

type MockUserUsecase struct {
	mock.Mock
}

func NewMockUserUsecase(t TestingT) *MockUserUsecase {
	m := &MockUserUsecase{}
	register(t, &m.Mock)

	return m
}

func (m *MockUserUsecase) CreateUser(ctx context.Context, input usecase.CreateUserInput) (*entity.User, error) {
	args := m.Called(ctx, input)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserUsecase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*entity.User)

	return users, args.Error(1)
}

func (m *MockUserUsecase) PatchUser(ctx context.Context, id uint, input usecase.PatchUserInput) (*entity.User, error) {
	args := m.Called(ctx, id, input)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserUsecase) DeactivateUser(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type MockDatasetUsecase struct {
	mock.Mock
}

func NewMockDatasetUsecase(t TestingT) *MockDatasetUsecase {
	m := &MockDatasetUsecase{}
	register(t, &m.Mock)

	return m
}

func (m *MockDatasetUsecase) Kinds() []string {
	kinds, _ := m.Called().Get(0).([]string)

	return kinds
}

func (m *MockDatasetUsecase) List(ctx context.Context, kind string, q query.ListQuery) ([]entity.Record, error) {
	args := m.Called(ctx, kind, q)
	records, _ := args.Get(0).([]entity.Record)

	return records, args.Error(1)
}

func (m *MockDatasetUsecase) Create(ctx context.Context, kind string, fields map[string]any) (entity.Record, error) {
	args := m.Called(ctx, kind, fields)
	rec, _ := args.Get(0).(entity.Record)

	return rec, args.Error(1)
}

func (m *MockDatasetUsecase) Import(ctx context.Context, kind string, src io.Reader) (int, error) {
	args := m.Called(ctx, kind, src)

	return args.Int(0), args.Error(1)
}

// Export writes the string stubbed as the third return value, when any, before returning.
func (m *MockDatasetUsecase) Export(ctx context.Context, kind string, q query.ListQuery, w io.Writer) (int, error) {
	args := m.Called(ctx, kind, q, w)
	if len(args) > 2 {
		if _, err := io.WriteString(w, args.String(2)); err != nil {
			return 0, err
		}
	}

	return args.Int(0), args.Error(1)
}

type MockGoalUsecase struct {
	mock.Mock
}

func NewMockGoalUsecase(t TestingT) *MockGoalUsecase {
	m := &MockGoalUsecase{}
	register(t, &m.Mock)

	return m
}

func (m *MockGoalUsecase) ListGoals(ctx context.Context) ([]*entity.Goal, error) {
	args := m.Called(ctx)
	goals, _ := args.Get(0).([]*entity.Goal)

	return goals, args.Error(1)
}

func (m *MockGoalUsecase) UpsertGoal(ctx context.Context, input usecase.UpsertGoalInput) (*entity.Goal, error) {
	args := m.Called(ctx, input)
	goal, _ := args.Get(0).(*entity.Goal)

	return goal, args.Error(1)
}

func (m *MockGoalUsecase) ValueOrDefault(ctx context.Context, key string, def float64) (float64, error) {
	args := m.Called(ctx, key, def)
	v, _ := args.Get(0).(float64)

	return v, args.Error(1)
}

type MockKPIUsecase struct {
	mock.Mock
}

func NewMockKPIUsecase(t TestingT) *MockKPIUsecase {
	m := &MockKPIUsecase{}
	register(t, &m.Mock)

	return m
}

func (m *MockKPIUsecase) Overview(ctx context.Context) (*entity.KPIOverview, error) {
	args := m.Called(ctx)
	overview, _ := args.Get(0).(*entity.KPIOverview)

	return overview, args.Error(1)
}
