package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/marfund-ai-apps/vacations/internal/domain/identity"
	"github.com/marfund-ai-apps/vacations/internal/domain/shared"
	"github.com/marfund-ai-apps/vacations/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory database with the full schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func newTestUser(t *testing.T, email, name string, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser(email, name)
	require.NoError(t, err)
	require.NoError(t, user.SetRole(role))
	return user
}

func TestGormUserRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	t.Run("persists and reads back a user", func(t *testing.T) {
		user := newTestUser(t, "jane@example.com", "Jane Doe", identity.RoleEmployee)

		require.NoError(t, repo.Create(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", found.Email)
		assert.Equal(t, "Jane Doe", found.FullName)
		assert.Equal(t, identity.RoleEmployee, found.Role)
		assert.True(t, found.IsActive)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		dup := newTestUser(t, "jane@example.com", "Other Jane", identity.RoleEmployee)

		err := repo.Create(ctx, dup)
		assert.Equal(t, shared.ErrAlreadyExists, err)
	})
}

func TestGormUserRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	t.Run("persists field changes", func(t *testing.T) {
		user := newTestUser(t, "jane@example.com", "Jane Doe", identity.RoleEmployee)
		require.NoError(t, repo.Create(ctx, user))

		require.NoError(t, user.SetRole(identity.RoleManager))
		require.NoError(t, user.SetBaseVacationDays(20))
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, identity.RoleManager, found.Role)
		assert.Equal(t, 20, found.BaseVacationDays)
	})

	t.Run("persists cleared manager", func(t *testing.T) {
		manager := newTestUser(t, "boss@example.com", "Boss", identity.RoleManager)
		require.NoError(t, repo.Create(ctx, manager))

		user := newTestUser(t, "worker@example.com", "Worker", identity.RoleEmployee)
		require.NoError(t, user.SetManager(&manager.ID))
		require.NoError(t, repo.Create(ctx, user))

		require.NoError(t, user.SetManager(nil))
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, found.ManagerID)
	})

	t.Run("returns not found for unknown user", func(t *testing.T) {
		ghost := newTestUser(t, "ghost@example.com", "Ghost", identity.RoleEmployee)

		err := repo.Update(ctx, ghost)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormUserRepository_FindActiveByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := newTestUser(t, "jane@example.com", "Jane Doe", identity.RoleEmployee)
	require.NoError(t, repo.Create(ctx, user))

	t.Run("matches case-insensitively", func(t *testing.T) {
		found, err := repo.FindActiveByEmail(ctx, "Jane@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("deactivated user is not found", func(t *testing.T) {
		require.NoError(t, user.Deactivate())
		require.NoError(t, repo.Update(ctx, user))

		_, err := repo.FindActiveByEmail(ctx, "jane@example.com")
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormUserRepository_ExistsByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := newTestUser(t, "jane@example.com", "Jane Doe", identity.RoleEmployee)
	require.NoError(t, repo.Create(ctx, user))

	exists, err := repo.ExistsByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormUserRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	alice := newTestUser(t, "alice@example.com", "Alice", identity.RoleEmployee)
	bob := newTestUser(t, "bob@example.com", "Bob", identity.RoleEmployee)
	zoe := newTestUser(t, "zoe@example.com", "Zoe", identity.RoleEmployee)
	require.NoError(t, zoe.Deactivate())
	for _, u := range []*identity.User{bob, alice, zoe} {
		require.NoError(t, repo.Create(ctx, u))
	}

	t.Run("active users ordered by name", func(t *testing.T) {
		users, err := repo.FindAll(ctx, true)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Alice", users[0].FullName)
		assert.Equal(t, "Bob", users[1].FullName)
	})

	t.Run("inactive filter returns only deactivated users", func(t *testing.T) {
		users, err := repo.FindAll(ctx, false)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Zoe", users[0].FullName)
	})
}

func TestGormUserRepository_FindManagers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	employee := newTestUser(t, "emp@example.com", "Employee", identity.RoleEmployee)
	manager := newTestUser(t, "mgr@example.com", "Manager", identity.RoleManager)
	hrAdmin := newTestUser(t, "hr@example.com", "HR Admin", identity.RoleHRAdmin)
	inactiveManager := newTestUser(t, "gone@example.com", "Gone Manager", identity.RoleManager)
	require.NoError(t, inactiveManager.Deactivate())
	for _, u := range []*identity.User{employee, manager, hrAdmin, inactiveManager} {
		require.NoError(t, repo.Create(ctx, u))
	}

	managers, err := repo.FindManagers(ctx)
	require.NoError(t, err)

	emails := make([]string, len(managers))
	for i, m := range managers {
		emails[i] = m.Email
	}
	assert.ElementsMatch(t, []string{"mgr@example.com", "hr@example.com"}, emails)
}

func TestGormUserRepository_FindHRAdminEmails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	manager := newTestUser(t, "mgr@example.com", "Manager", identity.RoleManager)
	hrAdmin := newTestUser(t, "hr@example.com", "HR Admin", identity.RoleHRAdmin)
	superAdmin := newTestUser(t, "root@example.com", "Super Admin", identity.RoleSuperAdmin)
	for _, u := range []*identity.User{manager, hrAdmin, superAdmin} {
		require.NoError(t, repo.Create(ctx, u))
	}

	recipients, err := repo.FindHRAdminEmails(ctx)
	require.NoError(t, err)
	require.Len(t, recipients, 2)
	assert.Equal(t, identity.HRRecipient{Email: "hr@example.com", FullName: "HR Admin"}, recipients[0])
	assert.Equal(t, identity.HRRecipient{Email: "root@example.com", FullName: "Super Admin"}, recipients[1])
}

func TestGormUserRepository_FindByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)
}
