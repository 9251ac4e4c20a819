package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/user"
	sqlxrepos "github.com/trezcool/registrar/storage/database/sqlx"
	"github.com/trezcool/registrar/testutil"
)

func TestService(t *testing.T) {
	db := testutil.PrepareDB(t)
	svc := user.NewService(sqlxrepos.NewUserRepository(db))
	ctx := context.Background()

	usr, err := svc.Create(ctx, user.NewUser{Username: "office", Password: "Kp9#vWq2Lm"})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.Active)
	assert.True(t, usr.LastLogin.IsZero())

	t.Run("uniqueness", func(t *testing.T) {
		err := svc.CheckUniqueness(ctx, "office")
		var verr *core.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "username", verr.Fields[0].Field)
		assert.NoError(t, svc.CheckUniqueness(ctx, "office", usr))
		assert.NoError(t, svc.CheckUniqueness(ctx, "other"))
	})

	t.Run("lookups", func(t *testing.T) {
		got, err := svc.GetByUsername(ctx, " OFFICE ")
		require.NoError(t, err)
		assert.Equal(t, usr.ID, got.ID)

		_, err = svc.GetByID(ctx, "lol")
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("authenticate", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", "Kp9#vWq2Lm")
		assert.Equal(t, user.ErrInvalidCredential, err)
		_, err = svc.Authenticate(ctx, "office", "wrong")
		assert.Equal(t, user.ErrInvalidCredential, err)

		got, err := svc.Authenticate(ctx, "Office", "Kp9#vWq2Lm")
		require.NoError(t, err)
		assert.False(t, got.LastLogin.IsZero())
	})

	t.Run("deactivated", func(t *testing.T) {
		testutil.CreateUser(t, sqlxrepos.NewUserRepository(db), "former", "Zx8$mTr4Qa", false)
		_, err := svc.Authenticate(ctx, "former", "Zx8$mTr4Qa")
		assert.Equal(t, user.ErrDeactivated, err)
	})

	t.Run("set password", func(t *testing.T) {
		_, err := svc.SetPassword(ctx, "office", "Zx8$mTr4Qa")
		require.NoError(t, err)
		_, err = svc.Authenticate(ctx, "office", "Kp9#vWq2Lm")
		assert.Equal(t, user.ErrInvalidCredential, err)
		_, err = svc.Authenticate(ctx, "office", "Zx8$mTr4Qa")
		assert.NoError(t, err)
	})
}
