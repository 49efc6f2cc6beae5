package service

import (
	"testing"

	"restocked-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *fakeUserRepo, email string) *model.User {
	t.Helper()
	u := &model.User{FirstName: "Ada", LastName: "Lovelace", Email: email}
	require.NoError(t, u.SetPassword("hunter22"))
	require.NoError(t, repo.Create(u))
	return u
}

func TestCreateUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, err := svc.CreateUser(&CreateUserInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     " Ada@Example.COM ",
		Password:  "hunter22",
	})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.NotEqual(t, uuid.Nil, user.ID)
	// stored hashed, not plaintext
	require.NotEqual(t, "hunter22", user.Password)
	require.True(t, user.CheckPassword("hunter22"))
	require.False(t, user.CheckPassword("wrong"))
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.CreateUser(&CreateUserInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "not-an-email",
		Password:  "hunter22",
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateUser(&CreateUserInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "short",
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateUserEmailTaken(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "ada@example.com")
	svc := NewUserService(repo)

	_, err := svc.CreateUser(&CreateUserInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "ADA@example.com",
		Password:  "hunter22",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateUser(t *testing.T) {
	repo := newFakeUserRepo()
	existing := seedUser(t, repo, "ada@example.com")
	svc := NewUserService(repo)

	first := "Grace"
	password := "newsecret"
	updated, err := svc.UpdateUser(existing.ID, &UpdateUserInput{
		FirstName: &first,
		Password:  &password,
	})
	require.NoError(t, err)
	require.Equal(t, "Grace", updated.FirstName)
	require.Equal(t, "Lovelace", updated.LastName)
	require.True(t, updated.CheckPassword("newsecret"))
}

func TestUpdateUserEmailConflict(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "ada@example.com")
	other := seedUser(t, repo, "grace@example.com")
	svc := NewUserService(repo)

	taken := "ada@example.com"
	_, err := svc.UpdateUser(other.ID, &UpdateUserInput{Email: &taken})
	require.ErrorIs(t, err, ErrEmailTaken)

	// keeping your own email is fine
	own := "grace@example.com"
	_, err = svc.UpdateUser(other.ID, &UpdateUserInput{Email: &own})
	require.NoError(t, err)
}

func TestUpdateUserEmptyPatch(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.UpdateUser(uuid.New(), &UpdateUserInput{})
	require.ErrorIs(t, err, ErrNoFieldsToUpdate)
}

func TestUpdateUserShortPassword(t *testing.T) {
	repo := newFakeUserRepo()
	existing := seedUser(t, repo, "ada@example.com")
	svc := NewUserService(repo)

	short := "abc"
	_, err := svc.UpdateUser(existing.ID, &UpdateUserInput{Password: &short})
	require.ErrorIs(t, err, ErrValidation)
}

func TestDeleteUser(t *testing.T) {
	repo := newFakeUserRepo()
	existing := seedUser(t, repo, "ada@example.com")
	svc := NewUserService(repo)

	require.NoError(t, svc.DeleteUser(existing.ID))
	require.ErrorIs(t, svc.DeleteUser(existing.ID), ErrUserNotFound)
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.GetUser(uuid.New())
	require.ErrorIs(t, err, ErrUserNotFound)
}
