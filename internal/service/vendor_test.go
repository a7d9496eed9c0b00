package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-course-market/internal/domain"
)

func TestVendors_Become(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	vs := NewVendors(f.uow, f.vendors)
	a := f.register(t, "wes@example.com", "pw")
	b := f.register(t, "xia@example.com", "pw")

	v1, err := vs.Become(ctx, a.ID, VendorInput{Name: "Crème Brûlée Academy", Mobile: "123"})
	require.NoError(t, err)
	assert.Equal(t, "creme-brulee-academy", v1.Slug)
	assert.False(t, v1.Active)

	v2, err := vs.Become(ctx, b.ID, VendorInput{Name: "Creme Brulee Academy"})
	require.NoError(t, err)
	assert.Regexp(t, `^creme-brulee-academy-[0-9a-f]{6}$`, v2.Slug)

	_, err = vs.Become(ctx, a.ID, VendorInput{Name: "Again"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = vs.Become(ctx, a.ID, VendorInput{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	vs := NewVendors(f.uow, f.vendors)
	adm := NewAdmin(f.users, f.profiles, vs, nil)

	u := f.register(t, "yan@example.com", "pw")
	f.register(t, "zoe@example.com", "pw")

	users, total, err := adm.ListUsers(ctx, domain.UserQuery{Search: "yan"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, u.ID, users[0].ID)

	_, total, err = adm.ListProfiles(ctx, domain.ProfileQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	from, to := time.Now(), time.Now().Add(-time.Hour)
	_, _, err = adm.ListProfiles(ctx, domain.ProfileQuery{From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrValidation)

	v, err := vs.Become(ctx, u.ID, VendorInput{Name: "Yan Studio"})
	require.NoError(t, err)
	require.NoError(t, adm.SetVendorActive(ctx, v.ID, true))
	got, err := f.vendors.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	require.NoError(t, adm.Ban(ctx, u.ID))
	_, err = f.accounts.Login(ctx, u.Email, "pw")
	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.ErrorIs(t, adm.Ban(ctx, u.ID), domain.ErrNotFound)
}
