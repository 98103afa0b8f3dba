package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidClassCode(t *testing.T) {
	t.Parallel()

	valid := []string{"00000", "99999", "01234", "00005"}
	for _, code := range valid {
		require.True(t, ValidClassCode(code), "code %q", code)
	}

	invalid := []string{"", "0000", "000000", "0000a", "0000 ", "-0005", "００００５"}
	for _, code := range invalid {
		require.False(t, ValidClassCode(code), "code %q", code)
	}
}

func TestIsAdminCode(t *testing.T) {
	t.Parallel()

	admin := []string{"00005", "00006", "00007", "00008", "00009", "90005", "99999"}
	for _, code := range admin {
		require.True(t, IsAdminCode(code), "code %q", code)
	}

	notAdmin := []string{"00000", "00004", "99990", "50000", "0009"}
	for _, code := range notAdmin {
		require.False(t, IsAdminCode(code), "code %q", code)
	}
}

func TestIsSuperAdminCode(t *testing.T) {
	t.Parallel()

	require.True(t, IsSuperAdminCode("00009"))
	require.True(t, IsSuperAdminCode("99999"))

	for _, code := range []string{"00005", "00008", "90000", "00000"} {
		require.False(t, IsSuperAdminCode(code), "code %q", code)
	}
}

func TestRoleForClassCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, RoleAdmin, RoleForClassCode("00005"))
	require.Equal(t, RoleAdmin, RoleForClassCode(SuperAdminClassCode))
	require.Equal(t, RoleUser, RoleForClassCode(DefaultClassCode))
	require.Equal(t, RoleUser, RoleForClassCode("00004"))
	require.Equal(t, RoleUser, RoleForClassCode("bogus"))
}
