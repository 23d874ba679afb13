package seed

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/craftelio/storefront/internal/auth"
	"github.com/craftelio/storefront/internal/config"
	"github.com/craftelio/storefront/internal/domain"
	"github.com/craftelio/storefront/internal/identity"
	"github.com/craftelio/storefront/internal/repository"
)

// memoryStore backs both repositories so the real identity managers can run
// without Postgres.
type memoryStore struct {
	mu        sync.Mutex
	roles     map[string]domain.Role
	users     map[string]domain.User
	userRoles map[string]map[string]bool
	nextID    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		roles:     map[string]domain.Role{},
		users:     map[string]domain.User{},
		userRoles: map[string]map[string]bool{},
	}
}

func (s *memoryStore) id(prefix string) string {
	s.nextID++
	return prefix + "-" + strconv.Itoa(s.nextID)
}

type memoryRoles struct{ *memoryStore }

func (r memoryRoles) Create(_ context.Context, role *domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[role.NormalizedName]; ok {
		return repository.ErrDuplicate
	}
	role.ID = r.id("role")
	r.roles[role.NormalizedName] = *role
	return nil
}

func (r memoryRoles) GetByNormalizedName(_ context.Context, name string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &role, nil
}

func (r memoryRoles) ExistsByNormalizedName(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.roles[name]
	return ok, nil
}

func (r memoryRoles) List(_ context.Context) ([]domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, role)
	}
	return out, nil
}

type memoryUsers struct{ *memoryStore }

func (u memoryUsers) Create(_ context.Context, user *domain.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.users {
		if existing.NormalizedUserName == user.NormalizedUserName {
			return repository.ErrDuplicate
		}
	}
	user.ID = u.id("user")
	u.users[user.ID] = *user
	return nil
}

func (u memoryUsers) Update(_ context.Context, user *domain.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	u.users[user.ID] = *user
	return nil
}

func (u memoryUsers) Delete(_ context.Context, id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(u.users, id)
	delete(u.userRoles, id)
	return nil
}

func (u memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (u memoryUsers) find(match func(domain.User) bool) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.users {
		if match(user) {
			found := user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (u memoryUsers) GetByNormalizedEmail(_ context.Context, email string) (*domain.User, error) {
	return u.find(func(user domain.User) bool { return user.NormalizedEmail == email })
}

func (u memoryUsers) GetByNormalizedUserName(_ context.Context, name string) (*domain.User, error) {
	return u.find(func(user domain.User) bool { return user.NormalizedUserName == name })
}

func (u memoryUsers) AddToRole(_ context.Context, userID, roleID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.userRoles[userID] == nil {
		u.userRoles[userID] = map[string]bool{}
	}
	u.userRoles[userID][roleID] = true
	return nil
}

func (u memoryUsers) IsInRole(_ context.Context, userID, roleID string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.userRoles[userID][roleID], nil
}

func (u memoryUsers) RoleNames(_ context.Context, userID string) ([]string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	var names []string
	for _, role := range u.roles {
		if u.userRoles[userID][role.ID] {
			names = append(names, role.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *memoryStore) roleNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.roles))
	for _, role := range s.roles {
		names = append(names, role.Name)
	}
	sort.Strings(names)
	return names
}

func (s *memoryStore) usersInRole(roleName string) []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.roles[identity.Normalize(roleName)]
	if !ok {
		return nil
	}
	var out []domain.User
	for id, roles := range s.userRoles {
		if roles[role.ID] {
			out = append(out, s.users[id])
		}
	}
	return out
}

// MockMigrator is a mock implementation of Migrator
type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) HasPending(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockMigrator) Apply(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockRoleManager is a mock implementation of RoleManager
type MockRoleManager struct {
	mock.Mock
}

func (m *MockRoleManager) RoleExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleManager) Create(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// MockUserManager is a mock implementation of UserManager
type MockUserManager struct {
	mock.Mock
}

func (m *MockUserManager) Create(ctx context.Context, user *domain.User, password string) (identity.Result, error) {
	args := m.Called(ctx, user, password)
	return args.Get(0).(identity.Result), args.Error(1)
}

func (m *MockUserManager) AddToRole(ctx context.Context, user *domain.User, roleName string) error {
	args := m.Called(ctx, user, roleName)
	return args.Error(0)
}

type countingRecorder struct {
	outcomes          []string
	migrationFailures int
}

func (r *countingRecorder) RecordSeed(outcome string) { r.outcomes = append(r.outcomes, outcome) }
func (r *countingRecorder) RecordMigrationFailure()   { r.migrationFailures++ }

func newMemorySeeder(t *testing.T, store *memoryStore, migrator Migrator, logger *zap.Logger) *Seeder {
	t.Helper()
	roles := identity.NewRoleManager(memoryRoles{store})
	users := identity.NewUserManager(memoryUsers{store}, memoryRoles{store}, auth.NewPasswordHasher(4), config.DefaultIdentityConfig())
	return NewSeeder(config.DefaultSeedConfig(), Dependencies{Migrator: migrator, Roles: roles, Users: users}, logger)
}

func noPendingMigrations() *MockMigrator {
	m := new(MockMigrator)
	m.On("HasPending", mock.Anything).Return(false, nil)
	return m
}

func TestSeedEmptyStoreProvisionsRolesAndAdmin(t *testing.T) {
	store := newMemoryStore()
	core, logs := observer.New(zapcore.InfoLevel)
	seeder := newMemorySeeder(t, store, noPendingMigrations(), zap.New(core))

	report, err := seeder.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccountCreated, report.Outcome)
	assert.Equal(t, []string{"Admin", "Employee", "Individual-Customer", "Company-Customer"}, report.RolesCreated)

	assert.Equal(t, []string{"Admin", "Company-Customer", "Employee", "Individual-Customer"}, store.roleNames())

	admins := store.usersInRole(config.RoleAdmin)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@craftelio.com", admins[0].Email)
	assert.Equal(t, "Meet Gangani", admins[0].Name)
	assert.Equal(t, "Surat", admins[0].City)
	assert.NotEqual(t, "Admin123*", admins[0].PasswordHash)

	assert.Equal(t, 1, logs.FilterMessage("admin user created successfully").Len())
}

func TestSeedIsIdempotent(t *testing.T) {
	store := newMemoryStore()
	seeder := newMemorySeeder(t, store, noPendingMigrations(), zap.NewNop())

	_, err := seeder.Seed(context.Background())
	require.NoError(t, err)

	report, err := seeder.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, report.Outcome)
	assert.Len(t, store.roleNames(), 4)
	assert.Len(t, store.users, 1)
	assert.Len(t, store.usersInRole(config.RoleAdmin), 1)
}

func TestSeedSkipsWhenAdminRoleExists(t *testing.T) {
	migrator := noPendingMigrations()
	roles := new(MockRoleManager)
	users := new(MockUserManager)
	roles.On("RoleExists", mock.Anything, config.RoleAdmin).Return(true, nil)

	seeder := NewSeeder(config.DefaultSeedConfig(), Dependencies{Migrator: migrator, Roles: roles, Users: users}, zap.NewNop())
	report, err := seeder.Seed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, report.Outcome)
	roles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "AddToRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeedLeavesExistingDataUntouched(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	rolesRepo := memoryRoles{store}
	usersRepo := memoryUsers{store}

	require.NoError(t, rolesRepo.Create(ctx, &domain.Role{Name: "Admin", NormalizedName: "ADMIN"}))
	bystander := &domain.User{UserName: "shopper", NormalizedUserName: "SHOPPER", Email: "shopper@example.com", NormalizedEmail: "SHOPPER@EXAMPLE.COM", PasswordHash: "x"}
	require.NoError(t, usersRepo.Create(ctx, bystander))

	seeder := newMemorySeeder(t, store, noPendingMigrations(), zap.NewNop())
	report, err := seeder.Seed(ctx)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, report.Outcome)
	assert.Equal(t, []string{"Admin"}, store.roleNames())
	require.Len(t, store.users, 1)
	assert.Equal(t, *bystander, store.users[bystander.ID])
	assert.Empty(t, store.usersInRole("Admin"))
}

func TestSeedAppliesPendingMigrations(t *testing.T) {
	migrator := new(MockMigrator)
	migrator.On("HasPending", mock.Anything).Return(true, nil)
	migrator.On("Apply", mock.Anything).Return(nil)

	seeder := newMemorySeeder(t, newMemoryStore(), migrator, zap.NewNop())
	report, err := seeder.Seed(context.Background())

	require.NoError(t, err)
	assert.True(t, report.MigrationsApplied)
	migrator.AssertExpectations(t)
}

func TestSeedDoesNotApplyWhenNothingPending(t *testing.T) {
	migrator := noPendingMigrations()

	seeder := newMemorySeeder(t, newMemoryStore(), migrator, zap.NewNop())
	report, err := seeder.Seed(context.Background())

	require.NoError(t, err)
	assert.False(t, report.MigrationsApplied)
	migrator.AssertNotCalled(t, "Apply", mock.Anything)
}

func TestSeedContinuesAfterMigrationFailure(t *testing.T) {
	cases := map[string]func(*MockMigrator){
		"check fails": func(m *MockMigrator) {
			m.On("HasPending", mock.Anything).Return(false, errors.New("relation schema_migrations is locked"))
		},
		"apply fails": func(m *MockMigrator) {
			m.On("HasPending", mock.Anything).Return(true, nil)
			m.On("Apply", mock.Anything).Return(errors.New("syntax error at or near"))
		},
	}

	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			migrator := new(MockMigrator)
			setup(migrator)
			store := newMemoryStore()
			core, logs := observer.New(zapcore.InfoLevel)
			recorder := &countingRecorder{}

			roles := identity.NewRoleManager(memoryRoles{store})
			users := identity.NewUserManager(memoryUsers{store}, memoryRoles{store}, auth.NewPasswordHasher(4), config.DefaultIdentityConfig())
			seeder := NewSeeder(config.DefaultSeedConfig(), Dependencies{Migrator: migrator, Roles: roles, Users: users, Recorder: recorder}, zap.New(core))

			report, err := seeder.Seed(context.Background())
			require.NoError(t, err)

			var migErr *MigrationError
			require.ErrorAs(t, report.MigrationErr, &migErr)
			assert.Equal(t, OutcomeAccountCreated, report.Outcome)
			assert.Len(t, store.roleNames(), 4)
			assert.Len(t, store.usersInRole(config.RoleAdmin), 1)
			assert.Equal(t, 1, logs.FilterMessage("an error occurred while applying migrations").Len())
			assert.Equal(t, 1, recorder.migrationFailures)
			assert.Equal(t, []string{string(OutcomeAccountCreated)}, recorder.outcomes)
		})
	}
}

func TestSeedStrictModeStopsOnMigrationFailure(t *testing.T) {
	migrator := new(MockMigrator)
	migrator.On("HasPending", mock.Anything).Return(false, errors.New("dirty"))
	roles := new(MockRoleManager)

	cfg := config.DefaultSeedConfig()
	cfg.Strict = true
	seeder := NewSeeder(cfg, Dependencies{Migrator: migrator, Roles: roles, Users: new(MockUserManager)}, zap.NewNop())

	report, err := seeder.Seed(context.Background())
	var migErr *MigrationError
	require.ErrorAs(t, err, &migErr)
	assert.Equal(t, "check", migErr.Op)
	assert.Equal(t, OutcomeMigrationFailed, report.Outcome)
	roles.AssertNotCalled(t, "RoleExists", mock.Anything, mock.Anything)
}

func TestSeedAccountFailureLogsEveryErrorAndSkipsRoleAssignment(t *testing.T) {
	roles := new(MockRoleManager)
	users := new(MockUserManager)
	roles.On("RoleExists", mock.Anything, config.RoleAdmin).Return(false, nil)
	roles.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User"), "Admin123*").Return(identity.Failed(
		identity.Error{Code: "DuplicateEmail", Description: "Email 'admin@craftelio.com' is already taken."},
		identity.Error{Code: "PasswordRequiresDigit", Description: "Passwords must have at least one digit ('0'-'9')."},
	), nil)

	core, logs := observer.New(zapcore.InfoLevel)
	seeder := NewSeeder(config.DefaultSeedConfig(), Dependencies{Migrator: noPendingMigrations(), Roles: roles, Users: users}, zap.New(core))

	report, err := seeder.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAccountCreationFailed, report.Outcome)
	assert.Len(t, report.AccountErrors, 2)
	users.AssertNotCalled(t, "AddToRole", mock.Anything, mock.Anything, mock.Anything)

	entries := logs.FilterMessage("failed to create admin user").All()
	require.Len(t, entries, 1)
	msg := entries[0].ContextMap()["errors"].(string)
	assert.Equal(t, "Email 'admin@craftelio.com' is already taken., Passwords must have at least one digit ('0'-'9').", msg)
}

func TestSeedAccountStoreErrorIsLoggedNotReturned(t *testing.T) {
	roles := new(MockRoleManager)
	users := new(MockUserManager)
	roles.On("RoleExists", mock.Anything, config.RoleAdmin).Return(false, nil)
	roles.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(identity.Result{}, errors.New("connection refused"))

	seeder := NewSeeder(config.DefaultSeedConfig(), Dependencies{Migrator: noPendingMigrations(), Roles: roles, Users: users}, zap.NewNop())
	report, err := seeder.Seed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, OutcomeAccountCreationFailed, report.Outcome)
	assert.Equal(t, []string{"connection refused"}, report.AccountErrors)
	users.AssertNotCalled(t, "AddToRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeedRoleCreationFailurePropagatesWithoutRollback(t *testing.T) {
	roles := new(MockRoleManager)
	users := new(MockUserManager)
	roles.On("RoleExists", mock.Anything, config.RoleAdmin).Return(false, nil)
	roles.On("Create", mock.Anything, config.RoleAdmin).Return(nil)
	roles.On("Create", mock.Anything, config.RoleEmployee).Return(errors.New("deadlock detected"))

	seeder := NewSeeder(config.DefaultSeedConfig(), Dependencies{Migrator: noPendingMigrations(), Roles: roles, Users: users}, zap.NewNop())
	report, err := seeder.Seed(context.Background())

	var provErr *ProvisioningError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "create role Employee", provErr.Step)
	assert.Equal(t, []string{config.RoleAdmin}, report.RolesCreated)
	assert.Equal(t, OutcomeRoleCreationFailed, report.Outcome)
	roles.AssertNotCalled(t, "Create", mock.Anything, config.RoleIndividualCustomer)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeedCreatesRolesInOrder(t *testing.T) {
	roles := new(MockRoleManager)
	users := new(MockUserManager)
	var created []string
	roles.On("RoleExists", mock.Anything, config.RoleAdmin).Return(false, nil)
	roles.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = append(created, args.String(1))
	}).Return(nil)
	users.On("Create", mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "user-1"
	}).Return(identity.Success, nil)
	users.On("AddToRole", mock.Anything, mock.MatchedBy(func(u *domain.User) bool { return u.ID == "user-1" }), config.RoleAdmin).Return(nil)

	seeder := NewSeeder(config.DefaultSeedConfig(), Dependencies{Roles: roles, Users: users}, zap.NewNop())
	report, err := seeder.Seed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, OutcomeAccountCreated, report.Outcome)
	assert.Equal(t, []string{"Admin", "Employee", "Individual-Customer", "Company-Customer"}, created)
	users.AssertExpectations(t)
}

func TestSeedUsesConfiguredAdminValues(t *testing.T) {
	store := newMemoryStore()
	cfg := config.DefaultSeedConfig()
	cfg.Admin.Email = "ops@example.com"
	cfg.Admin.UserName = ""
	cfg.Admin.Password = "Sup3r$ecret"

	roles := identity.NewRoleManager(memoryRoles{store})
	users := identity.NewUserManager(memoryUsers{store}, memoryRoles{store}, auth.NewPasswordHasher(4), config.DefaultIdentityConfig())
	seeder := NewSeeder(cfg, Dependencies{Roles: roles, Users: users}, zap.NewNop())

	_, err := seeder.Seed(context.Background())
	require.NoError(t, err)

	admins := store.usersInRole(config.RoleAdmin)
	require.Len(t, admins, 1)
	assert.Equal(t, "ops@example.com", admins[0].UserName)
	assert.True(t, users.CheckPassword(&admins[0], "Sup3r$ecret"))
}
