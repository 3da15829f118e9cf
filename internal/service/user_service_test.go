package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate-api/internal/models"
	"filmorate-api/internal/repository/memory"
)

func newUserService() *UserService {
	return NewUserService(memory.NewUserRepository(), memory.NewEventRepository())
}

func createUser(t *testing.T, svc *UserService, login string) *models.User {
	t.Helper()
	user, err := svc.CreateUser(&models.User{
		Email:    login + "@example.com",
		Login:    login,
		Birthday: "1990-05-01",
	})
	require.NoError(t, err)
	return user
}

func TestCreateUserValidation(t *testing.T) {
	svc := newUserService()

	tests := []struct {
		name string
		user models.User
	}{
		{"empty login", models.User{Email: "a@b.c", Birthday: "1990-01-01"}},
		{"login with space", models.User{Email: "a@b.c", Login: "bad login", Birthday: "1990-01-01"}},
		{"empty email", models.User{Login: "ok", Birthday: "1990-01-01"}},
		{"email without at", models.User{Email: "nope", Login: "ok", Birthday: "1990-01-01"}},
		{"empty birthday", models.User{Email: "a@b.c", Login: "ok"}},
		{"birthday in the future", models.User{Email: "a@b.c", Login: "ok", Birthday: "2099-01-01"}},
		{"bad birthday format", models.User{Email: "a@b.c", Login: "ok", Birthday: "01.01.1990"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(&tt.user)
			var verr *models.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestCreateUserNameDefaultsToLogin(t *testing.T) {
	svc := newUserService()

	user, err := svc.CreateUser(&models.User{
		Email:    "a@b.c",
		Login:    "neo",
		Birthday: "1990-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "neo", user.Name)

	user, err = svc.CreateUser(&models.User{
		Email:    "t@b.c",
		Login:    "trinity",
		Name:     "   ",
		Birthday: "1990-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "trinity", user.Name)
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := newUserService()

	_, err := svc.UpdateUser(&models.User{
		ID:       42,
		Email:    "a@b.c",
		Login:    "ghost",
		Birthday: "1990-01-01",
	})
	var nferr *models.NotFoundError
	assert.ErrorAs(t, err, &nferr)
}

func TestFriendshipIsDirected(t *testing.T) {
	svc := newUserService()
	alice := createUser(t, svc, "alice")
	bob := createUser(t, svc, "bob")

	require.NoError(t, svc.AddFriend(alice.ID, bob.ID))

	friends, err := svc.GetFriends(alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)

	// Bob has not added Alice back.
	friends, err = svc.GetFriends(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestAddFriendUnknownUser(t *testing.T) {
	svc := newUserService()
	alice := createUser(t, svc, "alice")

	var nferr *models.NotFoundError
	assert.ErrorAs(t, svc.AddFriend(alice.ID, 999), &nferr)
	assert.ErrorAs(t, svc.AddFriend(999, alice.ID), &nferr)
}

func TestGetCommonFriends(t *testing.T) {
	svc := newUserService()
	alice := createUser(t, svc, "alice")
	bob := createUser(t, svc, "bob")
	carol := createUser(t, svc, "carol")

	require.NoError(t, svc.AddFriend(alice.ID, carol.ID))
	require.NoError(t, svc.AddFriend(bob.ID, carol.ID))
	require.NoError(t, svc.AddFriend(alice.ID, bob.ID))

	common, err := svc.GetCommonFriends(alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, common, 1)
	assert.Equal(t, carol.ID, common[0].ID)
}

func TestDeleteUser(t *testing.T) {
	svc := newUserService()
	alice := createUser(t, svc, "alice")

	require.NoError(t, svc.DeleteUser(alice.ID))

	_, err := svc.GetUser(alice.ID)
	var nferr *models.NotFoundError
	assert.ErrorAs(t, err, &nferr)

	assert.ErrorAs(t, svc.DeleteUser(alice.ID), &nferr)
}

func TestFeedRecordsFriendEvents(t *testing.T) {
	svc := newUserService()
	alice := createUser(t, svc, "alice")
	bob := createUser(t, svc, "bob")

	require.NoError(t, svc.AddFriend(alice.ID, bob.ID))
	require.NoError(t, svc.RemoveFriend(alice.ID, bob.ID))

	feed, err := svc.GetFeed(alice.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	assert.Equal(t, models.EventTypeFriend, feed[0].EventType)
	assert.Equal(t, models.OperationAdd, feed[0].Operation)
	assert.Equal(t, bob.ID, feed[0].EntityID)
	assert.Equal(t, models.OperationRemove, feed[1].Operation)
	assert.LessOrEqual(t, feed[0].Timestamp, feed[1].Timestamp)

	// The friend's own feed stays empty.
	feed, err = svc.GetFeed(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestRemoveAbsentFriendLogsNoEvent(t *testing.T) {
	svc := newUserService()
	alice := createUser(t, svc, "alice")
	bob := createUser(t, svc, "bob")

	require.NoError(t, svc.RemoveFriend(alice.ID, bob.ID))

	feed, err := svc.GetFeed(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}
