package repositories_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskapi/internal/models"
	"taskapi/internal/repositories"
	"taskapi/internal/testutil"
)

func TestGORMUserRepository_CreateAndLookups(t *testing.T) {
	db := testutil.OpenInMemoryDB(t)
	repo := repositories.NewGORMUserRepository(db)
	user := seedUser(t, db, "ada")

	byID, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", byID.Username)
	assert.Equal(t, "ada@example.com", byID.Email)

	byName, err := repo.GetByUsername("ada")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = repo.GetByUsername("nobody")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)

	_, err = repo.GetByID(999)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestGORMUserRepository_UniqueUsernameAndEmail(t *testing.T) {
	db := testutil.OpenInMemoryDB(t)
	repo := repositories.NewGORMUserRepository(db)
	seedUser(t, db, "ada")

	err := repo.Create(&models.User{
		FirstName: "A", LastName: "B", Username: "ada", Email: "other@example.com",
		Password: "x", DateCreated: time.Now().UTC(),
	})
	assert.Error(t, err)

	exists, err := repo.ExistsByUsernameOrEmail("ada", "new@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsernameOrEmail("new", "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsernameOrEmail("new", "new@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGORMUserRepository_UpdateTokenAndLookupByToken(t *testing.T) {
	db := testutil.OpenInMemoryDB(t)
	repo := repositories.NewGORMUserRepository(db)
	user := seedUser(t, db, "ada")

	_, err := repo.GetByToken("")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)

	token := "0123456789abcdef0123456789abcdef"
	exp := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	user.Token = &token
	user.TokenExpiration = &exp
	require.NoError(t, repo.Update(user))

	got, err := repo.GetByToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	require.NotNil(t, got.TokenExpiration)
	assert.True(t, exp.Equal(*got.TokenExpiration))

	_, err = repo.GetByToken("unknown")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestGORMUserRepository_UpdateNotFound(t *testing.T) {
	repo := repositories.NewGORMUserRepository(testutil.OpenInMemoryDB(t))

	err := repo.Update(&models.User{ID: 42, Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestGORMUserRepository_DeleteCascadesToTasks(t *testing.T) {
	db := testutil.OpenInMemoryDB(t)
	users := repositories.NewGORMUserRepository(db)
	tasks := repositories.NewGORMTaskRepository(db)
	ada := seedUser(t, db, "ada")
	bob := seedUser(t, db, "bob")
	adaTask := seedTask(t, tasks, ada, "ada's")
	bobTask := seedTask(t, tasks, bob, "bob's")

	require.NoError(t, users.Delete(ada.ID))

	_, err := users.GetByID(ada.ID)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	_, err = tasks.GetByID(adaTask.ID)
	assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
	_, err = tasks.GetByID(bobTask.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, users.Delete(ada.ID), repositories.ErrUserNotFound)
}
