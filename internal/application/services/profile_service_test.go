package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/lovesinghal31/backendcourse/internal/application/command"
	"github.com/lovesinghal31/backendcourse/internal/application/interfaces"
	"github.com/lovesinghal31/backendcourse/internal/domain/entities"
	"github.com/lovesinghal31/backendcourse/internal/infrastructure"
)

type profileFixture struct {
	service interfaces.ProfileService
	repo    *fakeUserRepo
	storage *fakeStorage
}

func newProfileFixture(t *testing.T, cache *infrastructure.ProfileCache) *profileFixture {
	t.Helper()
	if cache == nil {
		cache = infrastructure.NewProfileCache(nil, time.Hour)
	}
	repo := newFakeUserRepo()
	storage := &fakeStorage{}
	return &profileFixture{
		service: NewProfileService(repo, storage, cache),
		repo:    repo,
		storage: storage,
	}
}

func (f *profileFixture) seedUser(t *testing.T, username, email string) *entities.User {
	t.Helper()
	user := entities.NewUser(username, email, "Seed User", "pw", "https://cdn/avatar.png", "")
	validated, err := entities.NewValidatedUser(user)
	require.NoError(t, err)
	created, err := f.repo.Create(context.Background(), validated)
	require.NoError(t, err)
	return created
}

func TestGetCurrentUser(t *testing.T) {
	f := newProfileFixture(t, nil)
	ctx := context.Background()
	user := f.seedUser(t, "johndoe", "john@example.com")

	result, err := f.service.GetCurrentUser(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, "johndoe", result.Result.Username)

	_, err = f.service.GetCurrentUser(ctx, uuid.New())
	assert.Equal(t, 404, apiCode(t, err))
}

func TestGetCurrentUserReadsThroughCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	f := newProfileFixture(t, infrastructure.NewProfileCache(client, time.Hour))
	ctx := context.Background()
	user := f.seedUser(t, "johndoe", "john@example.com")

	first, err := f.service.GetCurrentUser(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, "Seed User", first.Result.FullName)

	// A write that bypasses the service is invisible until the cache entry
	// is invalidated.
	f.repo.users[user.Id].FullName = "Changed Behind The Cache"
	second, err := f.service.GetCurrentUser(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, "Seed User", second.Result.FullName)

	_, err = f.service.UpdateAccountDetails(ctx, user.Id, &command.UpdateAccountCommand{
		FullName: "Fresh Name",
		Email:    "john@example.com",
	})
	require.NoError(t, err)

	third, err := f.service.GetCurrentUser(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Name", third.Result.FullName)
}

func TestUpdateAccountDetails(t *testing.T) {
	f := newProfileFixture(t, nil)
	ctx := context.Background()
	user := f.seedUser(t, "johndoe", "john@example.com")
	f.seedUser(t, "other", "other@example.com")

	_, err := f.service.UpdateAccountDetails(ctx, user.Id, &command.UpdateAccountCommand{FullName: "", Email: ""})
	assert.Equal(t, 400, apiCode(t, err))

	_, err = f.service.UpdateAccountDetails(ctx, user.Id, &command.UpdateAccountCommand{
		FullName: "John",
		Email:    "other@example.com",
	})
	assert.Equal(t, 409, apiCode(t, err))

	result, err := f.service.UpdateAccountDetails(ctx, user.Id, &command.UpdateAccountCommand{
		FullName: "John Updated",
		Email:    "john.updated@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "John Updated", result.Result.FullName)
	assert.Equal(t, "john.updated@example.com", result.Result.Email)
}

func TestUpdateAvatar(t *testing.T) {
	f := newProfileFixture(t, nil)
	ctx := context.Background()
	user := f.seedUser(t, "johndoe", "john@example.com")

	_, err := f.service.UpdateAvatar(ctx, user.Id, "")
	assert.Equal(t, 400, apiCode(t, err))

	path := tempUpload(t, "new-avatar.png")
	result, err := f.service.UpdateAvatar(ctx, user.Id, path)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/new-avatar.png", result.Result.Avatar)
	assert.NoFileExists(t, path, "temp upload is consumed")
}

func TestUpdateCoverImageUploadFailure(t *testing.T) {
	f := newProfileFixture(t, nil)
	ctx := context.Background()
	user := f.seedUser(t, "johndoe", "john@example.com")

	f.storage.failCover = true
	path := tempUpload(t, "cover.png")
	_, err := f.service.UpdateCoverImage(ctx, user.Id, path)
	assert.Equal(t, 400, apiCode(t, err))
	assert.NoFileExists(t, path, "temp upload is removed even on failure")
}

func TestGetChannelProfile(t *testing.T) {
	f := newProfileFixture(t, nil)
	ctx := context.Background()
	f.seedUser(t, "channel", "channel@example.com")
	viewer := f.seedUser(t, "viewer", "viewer@example.com")

	profile, err := f.service.GetChannelProfile(ctx, "channel", viewer.Id)
	require.NoError(t, err)
	assert.Equal(t, "channel", profile.Username)

	_, err = f.service.GetChannelProfile(ctx, "", viewer.Id)
	assert.Equal(t, 400, apiCode(t, err))

	_, err = f.service.GetChannelProfile(ctx, "ghost", viewer.Id)
	assert.Equal(t, 404, apiCode(t, err))
}

func TestGetWatchHistory(t *testing.T) {
	f := newProfileFixture(t, nil)
	ctx := context.Background()
	user := f.seedUser(t, "johndoe", "john@example.com")

	empty, err := f.service.GetWatchHistory(ctx, user.Id)
	require.NoError(t, err)
	assert.Empty(t, empty.Result)

	videoId := uuid.New()
	f.repo.watch[user.Id] = []entities.WatchEntry{{VideoId: videoId, WatchedAt: time.Now()}}

	history, err := f.service.GetWatchHistory(ctx, user.Id)
	require.NoError(t, err)
	require.Len(t, history.Result, 1)
	assert.Equal(t, videoId, history.Result[0].VideoId)
}
