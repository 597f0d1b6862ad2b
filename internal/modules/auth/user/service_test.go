package user

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/handywriterz/core/internal/database/dbtest"
	"github.com/handywriterz/core/internal/models"
	"github.com/handywriterz/core/internal/pkg/pagination"
	sessionpkg "github.com/handywriterz/core/internal/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	return NewService(dbtest.New(t), append([]Option{WithBcryptCost(bcrypt.MinCost)}, opts...)...)
}

func TestCreateHashesPasswordAndValidates(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	u, err := svc.Create(ctx, &CreateUserDTO{Username: "owner", Email: "Owner@Example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, models.ProviderSite, u.Provider)
	assert.Equal(t, "owner@example.com", u.Email)
	assert.Equal(t, "owner", u.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("correct-horse")))

	_, err = svc.Create(ctx, &CreateUserDTO{Username: "owner", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	// usernames are scoped by provider
	_, err = svc.Create(ctx, &CreateUserDTO{Username: "owner", Password: "correct-horse", Provider: models.ProviderAdmin})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, &CreateUserDTO{Username: "x", Email: "nope", Password: "short", Role: "root"})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "username")
	assert.Contains(t, verrs, "email")
	assert.Contains(t, verrs, "password")
	assert.Contains(t, verrs, "role")
}

func TestUpdateRoleNotifiesHooks(t *testing.T) {
	ctx := context.Background()
	var changed []string
	svc := newService(t, WithChangeHook(func(p models.Provider, id string) { changed = append(changed, string(p)+":"+id) }))

	site, err := svc.Create(ctx, &CreateUserDTO{Username: "reader", Password: "correct-horse"})
	require.NoError(t, err)
	admin, err := svc.Create(ctx, &CreateUserDTO{Username: "boss", Password: "correct-horse", Provider: models.ProviderAdmin})
	require.NoError(t, err)

	u, err := svc.UpdateRole(ctx, site.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role())
	assert.Equal(t, []string{"site:" + site.ID}, changed)

	reloaded, err := svc.GetByID(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, reloaded.Role())

	_, err = svc.UpdateRole(ctx, site.ID, "root")
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = svc.UpdateRole(ctx, admin.ID, models.RoleUser)
	assert.ErrorIs(t, err, ErrRoleFixed)

	missing, err := svc.UpdateRole(ctx, "nope", models.RoleUser)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteRevokesSessions(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	svc := NewService(db, WithBcryptCost(bcrypt.MinCost))

	u, err := svc.Create(ctx, &CreateUserDTO{Username: "reader", Password: "correct-horse"})
	require.NoError(t, err)
	store := sessionpkg.NewStore(db, models.ProviderSite)
	row, err := store.Issue(ctx, u.ID, "", "", 0)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	active, err := store.IsActive(ctx, u.ID, row.ID)
	require.NoError(t, err)
	assert.False(t, active)

	got, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, svc.Delete(ctx, u.ID))
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	u, err := svc.Create(ctx, &CreateUserDTO{Username: "reader", Password: "correct-horse"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, u.ID, "wrong-horse", "battery-staple"), ErrWrongPassword)
	assert.ErrorIs(t, svc.ChangePassword(ctx, u.ID, "correct-horse", "correct-horse"), ErrPasswordSameAsOld)
	require.NoError(t, svc.ChangePassword(ctx, u.ID, "correct-horse", "battery-staple"))
}

func TestListFiltersByProviderAndSearch(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	for _, dto := range []CreateUserDTO{
		{Username: "alice", Password: "correct-horse"},
		{Username: "bob", Email: "bob@handywriterz.com", Password: "correct-horse"},
		{Username: "carol", Password: "correct-horse", Provider: models.ProviderAdmin},
	} {
		dto := dto
		_, err := svc.Create(ctx, &dto)
		require.NoError(t, err)
	}

	users, pag, err := svc.List(ctx, pagination.New(1, 10), ListQuery{Provider: "site"})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, int64(2), pag.Total)

	users, _, err = svc.List(ctx, pagination.New(1, 10), ListQuery{Search: "HANDYWRITERZ"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)
}
