package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/sarcolor/backend/internal/handlers"
	"github.com/sarcolor/backend/internal/handlers/middleware"
	"github.com/sarcolor/backend/internal/repository"
	"github.com/sarcolor/backend/internal/repository/postgres"
	"github.com/sarcolor/backend/internal/service/auth"
	"github.com/sarcolor/backend/internal/testutil"
)

type Services struct {
	AuthService *auth.Service
	UserRepo    repository.UserRepo
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction is rolled back at test end, so the database stays clean
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		userRepo := &postgres.UserRepo{DB: tx}

		authService, err := auth.NewService(auth.Config{SecretKey: "test-secret"}, userRepo)
		require.NoError(t, err, "auth service starting error")

		router := handlers.NewRouter(
			handlers.NewAuth(authService),
			middleware.AuthMiddleware(authService),
		)

		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(srv.URL, Services{
			AuthService: authService,
			UserRepo:    userRepo,
		})
	})
}
