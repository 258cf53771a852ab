package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUserStartsInMainMenu(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)

	u.SetState(StateAwaitingXray)
	require.Equal(t, StateAwaitingXray, u.State)
}
