package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
)

// openTestDB connects to the database named by DB_CONNECTION_STRING and skips
// the test when it is not set.
func openTestDB(t *testing.T) *SQLRepository {
	t.Helper()

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("DB_CONNECTION_STRING not set; skipping Postgres integration test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.PingContext(ctx))

	repo := NewSQLRepository(db)
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func TestSQLRepository_Lifecycle(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	userID := time.Now().UnixNano()
	req := newRequest(&userID)
	req.Latitude = ptr("52.3676")
	req.Longitude = ptr("4.9041")

	created, err := repo.CreateEmergencyRequest(ctx, req)
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, "hours", created.Details["duration"])
	assert.EqualValues(t, 7, created.Details["severity"])

	got, err := repo.GetEmergencyRequest(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.Latitude)
	assert.Equal(t, "52.3676", *got.Latitude)

	updated, err := repo.UpdateEmergencyRequestStatus(ctx, created.ID, domain.StatusProcessed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessed, updated.Status)

	second, err := repo.CreateEmergencyRequest(ctx, newRequest(&userID))
	require.NoError(t, err)

	byUser, err := repo.GetEmergencyRequestsByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.Equal(t, created.ID, byUser[0].ID)
	assert.Equal(t, second.ID, byUser[1].ID)

	_, err = repo.GetEmergencyRequest(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.UpdateEmergencyRequestStatus(ctx, -1, domain.StatusCancelled)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLRepository_Users(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	username := fmt.Sprintf("user-%d", time.Now().UnixNano())
	created, err := repo.CreateUser(ctx, domain.NewUser{Username: username, Password: "secret"})
	require.NoError(t, err)

	byName, err := repo.GetUserByUsername(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = repo.CreateUser(ctx, domain.NewUser{Username: username, Password: "again"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.GetUser(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
