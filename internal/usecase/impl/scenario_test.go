package impl

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"indicators/internal/domain/entity"
	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/domain/query"
	"indicators/internal/domain/service"
	"indicators/internal/infra/auth"
	"indicators/internal/infra/persistence/postgres"
	"indicators/internal/usecase"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scenario struct {
	auth     usecase.AuthUsecase
	users    usecase.UserUsecase
	datasets usecase.DatasetUsecase
	tokens   service.TokenService
	clock    *time.Time
}

func newScenario(t *testing.T) *scenario {
	t.Helper()

	db, err := postgres.Open(sqlite.Open("file::memory:"), nil, nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.Migrate(context.Background(), db))

	cfg := newTestConfig()
	now := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	tokens, err := auth.NewJWTServiceWithClock(cfg, func() time.Time { return now })
	require.NoError(t, err)

	hasher := auth.NewBcryptHasher(cfg)
	userRepo := postgres.NewUserRepository(db)
	registry, err := postgres.NewDatasetRegistry(postgres.RegistryParams{DB: db, Logger: newDiscardLogger()})
	require.NoError(t, err)

	return &scenario{
		auth: NewAuthService(AuthServiceParams{
			TxManager:    postgres.NewTransactionManager(db),
			UserRepo:     userRepo,
			Hasher:       hasher,
			TokenService: tokens,
			Config:       cfg,
			Logger:       newDiscardLogger(),
		}),
		users:    NewUserService(UserServiceParams{UserRepo: userRepo, Hasher: hasher, Logger: newDiscardLogger()}),
		datasets: NewDatasetService(DatasetServiceParams{Registry: registry, Logger: newDiscardLogger()}),
		tokens:   tokens,
		clock:    &now,
	}
}

func TestScenario_SupervisorImportThenExport(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)

	_, err := sc.auth.SeedAdmin(ctx)
	require.NoError(t, err)

	admin, err := sc.auth.Login(ctx, usecase.LoginInput{Email: "admin@sg.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)

	_, err = sc.users.CreateUser(ctx, usecase.CreateUserInput{Email: "sup@sg.com", Password: "sup-pass", Role: entity.RoleSupervisor})
	require.NoError(t, err)

	sup, err := sc.auth.Login(ctx, usecase.LoginInput{Email: "sup@sg.com", Password: "sup-pass"})
	require.NoError(t, err)
	user, err := sc.auth.Authenticate(ctx, sup.AccessToken)
	require.NoError(t, err)
	assert.True(t, user.HasAnyRole(entity.RoleSupervisor, entity.RoleAdmin))

	csvData := "date,shift,pedidos_m2,forno_m2\n" +
		"2024-03-01,A,100,90\n" +
		"2024-03-02,A,abc,80\n" +
		"03/03/2024,B,120,110\n"
	inserted, err := sc.datasets.Import(ctx, entity.KindEntries, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	from, _ := query.ParseDate("2024-03-01")
	to, _ := query.ParseDate("2024-03-03")
	var out bytes.Buffer
	rows, err := sc.datasets.Export(ctx, entity.KindEntries, query.ListQuery{From: &from, To: &to, Limit: query.DefaultExportLimit}, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,date,shift,pedidos_m2,forno_m2,notes", lines[0])
	assert.Equal(t, "2,2024-03-03,B,120,110,", lines[1])
}

func TestScenario_ExportThenImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)

	for _, fields := range []map[string]any{
		{"date": "2024-03-01", "customer": "ACME", "type": "risco", "qty": 2.0, "description": "lote 7"},
		{"date": "2024-03-04", "customer": "Beta, Ltda", "type": "quebra", "qty": 1.5},
	} {
		_, err := sc.datasets.Create(ctx, entity.KindComplaints, fields)
		require.NoError(t, err)
	}

	q := query.ListQuery{OrderBy: "id", Limit: query.DefaultExportLimit}
	var first bytes.Buffer
	_, err := sc.datasets.Export(ctx, entity.KindComplaints, q, &first)
	require.NoError(t, err)

	inserted, err := sc.datasets.Import(ctx, entity.KindComplaints, bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	records, err := sc.datasets.List(ctx, entity.KindComplaints, q)
	require.NoError(t, err)
	require.Len(t, records, 4)
	for i := range 2 {
		original, copied := records[i], records[i+2]
		for _, name := range []string{"date", "customer", "type", "qty", "description"} {
			want, _ := original.Get(name)
			got, _ := copied.Get(name)
			assert.Equal(t, want, got, name)
		}
	}
}

func TestScenario_LoginRefreshAndDeactivation(t *testing.T) {
	ctx := context.Background()
	sc := newScenario(t)

	_, err := sc.auth.SeedAdmin(ctx)
	require.NoError(t, err)
	_, err = sc.users.CreateUser(ctx, usecase.CreateUserInput{Email: "op@sg.com", Password: "op-pass", Role: entity.RoleUser})
	require.NoError(t, err)

	login, err := sc.auth.Login(ctx, usecase.LoginInput{Email: "op@sg.com", Password: "op-pass"})
	require.NoError(t, err)
	before, err := sc.tokens.Validate(login.AccessToken, service.TokenTypeAccess)
	require.NoError(t, err)

	*sc.clock = sc.clock.Add(time.Minute)

	refreshed, err := sc.auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	after, err := sc.tokens.Validate(refreshed.AccessToken, service.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, before.Subject, after.Subject)
	assert.True(t, after.ExpiresAt.After(before.ExpiresAt))

	_, err = sc.auth.Refresh(ctx, login.AccessToken)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
	_, err = sc.auth.Authenticate(ctx, login.RefreshToken)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))

	user, err := sc.auth.Authenticate(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	require.NoError(t, sc.users.DeactivateUser(ctx, user.ID))

	_, err = sc.auth.Authenticate(ctx, refreshed.AccessToken)
	assert.True(t, errors.Is(err, domainerrors.ErrUserInactive))
	_, err = sc.auth.Refresh(ctx, refreshed.RefreshToken)
	assert.True(t, errors.Is(err, domainerrors.ErrUserInactive))
	_, err = sc.auth.Login(ctx, usecase.LoginInput{Email: "op@sg.com", Password: "op-pass"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}
