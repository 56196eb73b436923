package shard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WanisC/arc-en-ciel/password"
)

func mustPassword(t *testing.T, s string) password.Password {
	t.Helper()
	p, err := password.New(s)
	require.NoError(t, err)
	return p
}

func TestWriterReaderRoundTrip(t *testing.T) {
	dir := t.TempDir()

	w, err := CreateWriter(dir, 0)
	require.NoError(t, err)
	require.NoError(t, w.Append(mustPassword(t, "0000000"), mustPassword(t, "1111111")))
	require.NoError(t, w.Append(mustPassword(t, "0000001"), mustPassword(t, "2222222")))
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())

	r, err := OpenReader(dir, 0, 2*7+1)
	require.NoError(t, err)
	defer r.Close()

	window, n, err := r.ReadWindow(0, 7)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, mustPassword(t, "0000000"), window[mustPassword(t, "1111111")])
	require.Equal(t, mustPassword(t, "0000001"), window[mustPassword(t, "2222222")])
}

func TestReadWindowAtEOF(t *testing.T) {
	dir := t.TempDir()
	w, err := CreateWriter(dir, 0)
	require.NoError(t, err)
	require.NoError(t, w.Append(mustPassword(t, "00"), mustPassword(t, "11")))
	require.NoError(t, w.Close())

	r, err := OpenReader(dir, 0, 2*2+1)
	require.NoError(t, err)
	defer r.Close()

	_, n, err := r.ReadWindow(int64(WindowRecords*(2*2+1)), 2)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestMemoryRoundTripSortsByAlphabetOrder(t *testing.T) {
	dir := t.TempDir()

	m, err := CreateMemory(dir)
	require.NoError(t, err)
	require.NoError(t, m.WriteLine(mustPassword(t, "*1")))
	require.NoError(t, m.WriteLine(mustPassword(t, "01")))
	require.NoError(t, m.WriteLine(mustPassword(t, "!1")))
	require.NoError(t, m.Close())

	loaded, ok, err := LoadMemory(dir)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []password.Password{
		mustPassword(t, "01"),
		mustPassword(t, "!1"),
		mustPassword(t, "*1"),
	}, loaded)
}

func TestLoadMemoryMissingFile(t *testing.T) {
	dir := t.TempDir()
	loaded, ok, err := LoadMemory(dir)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, loaded)
}
