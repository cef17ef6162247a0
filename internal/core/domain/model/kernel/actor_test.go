package kernel_test

import (
	"testing"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Run("should parse known roles case insensitively", func(t *testing.T) {
		cases := map[string]kernel.Role{
			"patient":    kernel.RolePatient,
			"Pharmacist": kernel.RolePharmacist,
			" COURIER ":  kernel.RoleCourier,
			"admin":      kernel.RoleAdmin,
		}
		for input, want := range cases {
			got, err := kernel.ParseRole(input)

			require.NoError(t, err, input)
			assert.Equal(t, want, got)
		}
	})

	t.Run("should refuse system and unknown roles", func(t *testing.T) {
		for _, input := range []string{"system", "unknown", "", "doctor"} {
			_, err := kernel.ParseRole(input)

			assert.ErrorIs(t, err, errs.ErrValidation, input)
		}
	})
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "pharmacist", kernel.RolePharmacist.String())
	assert.Equal(t, "system", kernel.RoleSystem.String())
	assert.Equal(t, "unknown", kernel.Role(42).String())
}

func TestNewActor(t *testing.T) {
	t.Run("should create actor", func(t *testing.T) {
		id := kernel.NewUUID()

		a, err := kernel.NewActor(id, kernel.RoleCourier)

		require.NoError(t, err)
		assert.True(t, a.ID().IsEqual(id))
		assert.True(t, a.Is(kernel.RoleCourier))
		assert.NoError(t, a.Validate())
	})

	t.Run("should require id", func(t *testing.T) {
		_, err := kernel.NewActor(kernel.UUID{}, kernel.RolePatient)

		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("should require valid role", func(t *testing.T) {
		_, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleUnknown)

		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestSystemActor(t *testing.T) {
	a := kernel.SystemActor()

	assert.True(t, a.Is(kernel.RoleSystem))
	assert.True(t, a.ID().IsZero())
	assert.NoError(t, a.Validate())
	assert.Equal(t, "system", a.String())
}
