package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/avetrov/reporthub/internal/auth"
	"github.com/avetrov/reporthub/internal/domain"
	"github.com/avetrov/reporthub/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// mockStore satisfies repository.Store. WithinTx hands the same store back
// to the callback, so expectations set on the repos cover transactional
// calls too. beginErr simulates a transaction that cannot start, commitErr a
// commit failure after a successful callback.
type mockStore struct {
	users     *mockUserRepo
	roles     *mockRoleRepo
	userRoles *mockUserRoleRepo
	tokens    *mockTokenRepo
	reports   *mockReportRepo

	beginErr  error
	commitErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:     &mockUserRepo{},
		roles:     &mockRoleRepo{},
		userRoles: &mockUserRoleRepo{},
		tokens:    &mockTokenRepo{},
		reports:   &mockReportRepo{},
	}
}

func (s *mockStore) Users() repository.UserRepository         { return s.users }
func (s *mockStore) Roles() repository.RoleRepository         { return s.roles }
func (s *mockStore) UserRoles() repository.UserRoleRepository { return s.userRoles }
func (s *mockStore) Tokens() repository.TokenRepository       { return s.tokens }
func (s *mockStore) Reports() repository.ReportRepository     { return s.reports }

func (s *mockStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.beginErr != nil {
		return s.beginErr
	}
	if err := fn(s); err != nil {
		return err
	}
	return s.commitErr
}

func (s *mockStore) assertExpectations(t mock.TestingT) {
	s.users.AssertExpectations(t)
	s.roles.AssertExpectations(t)
	s.userRoles.AssertExpectations(t)
	s.tokens.AssertExpectations(t)
	s.reports.AssertExpectations(t)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	args := m.Called(ctx, login)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockRoleRepo struct {
	mock.Mock
}

func (m *mockRoleRepo) Create(ctx context.Context, role *domain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *mockRoleRepo) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRoleRepo) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	args := m.Called(ctx, name)
	if r := args.Get(0); r != nil {
		return r.(*domain.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRoleRepo) Update(ctx context.Context, role *domain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *mockRoleRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockUserRoleRepo struct {
	mock.Mock
}

func (m *mockUserRoleRepo) Link(ctx context.Context, userID, roleID int64) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

func (m *mockUserRoleRepo) Unlink(ctx context.Context, userID, roleID int64) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

func (m *mockUserRoleRepo) ListRolesForUser(ctx context.Context, userID int64) ([]domain.Role, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.([]domain.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) Get(ctx context.Context, userID int64) (*domain.UserToken, error) {
	args := m.Called(ctx, userID)
	if t := args.Get(0); t != nil {
		return t.(*domain.UserToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTokenRepo) Upsert(ctx context.Context, token *domain.UserToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepo) UpdateRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	args := m.Called(ctx, userID, refreshToken)
	return args.Error(0)
}

type mockReportRepo struct {
	mock.Mock
}

func (m *mockReportRepo) Create(ctx context.Context, report *domain.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *mockReportRepo) GetByID(ctx context.Context, id int64) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportRepo) GetByUserAndName(ctx context.Context, userID int64, name string) (*domain.Report, error) {
	args := m.Called(ctx, userID, name)
	if r := args.Get(0); r != nil {
		return r.(*domain.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Report, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.([]domain.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportRepo) Update(ctx context.Context, report *domain.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *mockReportRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// stubIssuer satisfies TokenIssuer with canned results.
type stubIssuer struct {
	accessToken  string
	accessErr    error
	refreshToken string
	refreshErr   error
	claims       *auth.AccessClaims
	parseErr     error

	issuedRoles []string
}

func (s *stubIssuer) IssueAccessToken(userID int64, login string, roles []string) (string, error) {
	s.issuedRoles = roles
	return s.accessToken, s.accessErr
}

func (s *stubIssuer) NewRefreshToken() (string, error) {
	return s.refreshToken, s.refreshErr
}

func (s *stubIssuer) ParseExpired(tokenString string) (*auth.AccessClaims, error) {
	return s.claims, s.parseErr
}
