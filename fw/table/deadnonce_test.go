package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	enc "github.com/ndnfw/planes/std/encoding"
)

func TestDeadNonceListHasAndExpires(t *testing.T) {
	dnl := NewDeadNonceList(time.Second)
	name, _ := enc.NameFromStr("/a/b")
	now := time.Now()

	require.False(t, dnl.Has(name, 7, now))
	dnl.Add(name, 7, now)
	require.True(t, dnl.Has(name, 7, now))
	require.False(t, dnl.Has(name, 8, now))

	require.False(t, dnl.Has(name, 7, now.Add(2*time.Second)))
	require.Equal(t, 0, dnl.Size())
}
