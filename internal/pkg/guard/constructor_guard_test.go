package guard_test

import (
	"errors"
	"testing"

	"roadside/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed guard passes validation", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		require.NoError(t, g.Validate(errors.New("should not be returned")))
	})

	t.Run("zero value guard fails with supplied error", func(t *testing.T) {
		var g guard.ConstructorGuard
		errNotConstructed := errors.New("thing must be created via NewThing")

		err := g.Validate(errNotConstructed)
		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero value guard falls back to default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}
