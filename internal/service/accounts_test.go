package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-course-market/internal/domain"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "olga@example.com", "secret")

	pair, err := f.accounts.Login(ctx, " OLGA@example.com ", "secret")
	require.NoError(t, err)

	c, err := f.tokens.ValidateAccessToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, c.UID)
	assert.Equal(t, "olga@example.com", c.Email)
	assert.Equal(t, "olga", c.Username)
	assert.Zero(t, c.VendorID)

	_, err = f.accounts.Login(ctx, "olga@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrAuth)
	_, err = f.accounts.Login(ctx, "ghost@example.com", "secret")
	assert.ErrorIs(t, err, domain.ErrAuth)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "pia@example.com", "secret")
	pair, err := f.accounts.Login(ctx, "pia@example.com", "secret")
	require.NoError(t, err)

	next, err := f.accounts.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, next.Access)

	// access token 不能当 refresh 用
	_, err = f.accounts.Refresh(ctx, pair.Access)
	assert.ErrorIs(t, err, domain.ErrAuth)
	_, err = f.accounts.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrAuth)
}

func TestTokens_CarryVendorID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "quinn@example.com", "secret")

	v, err := NewVendors(f.uow, f.vendors).Become(ctx, u.ID, VendorInput{Name: "Quinn Courses"})
	require.NoError(t, err)

	pair, err := f.accounts.Login(ctx, u.Email, "secret")
	require.NoError(t, err)
	c, err := f.tokens.ValidateAccessToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, v.ID, c.VendorID)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "ray@example.com", "secret")

	got, err := f.accounts.Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = f.accounts.Me(context.Background(), 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
