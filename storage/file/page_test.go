package file_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/simpledb-go/storage/file"
)

func TestPage_IntRoundTrip(t *testing.T) {
	p := file.NewPage(400)
	require.NoError(t, p.SetInt(80, 1))
	got, err := p.GetInt(80)
	require.NoError(t, err)
	require.EqualValues(t, 1, got)
}

func TestPage_StringRoundTrip(t *testing.T) {
	p := file.NewPage(400)
	require.NoError(t, p.SetString(40, "one"))
	got, err := p.GetString(40)
	require.NoError(t, err)
	require.Equal(t, "one", got)
}

func TestPage_MaxLength(t *testing.T) {
	require.Equal(t, 4+9, file.MaxLength(9))
}

func TestPage_SetIntOutOfBounds(t *testing.T) {
	p := file.NewPage(400)
	err := p.SetInt(397, 1)
	require.Error(t, err)
}

func TestPage_SetBytesOutOfBounds(t *testing.T) {
	p := file.NewPage(8)
	err := p.SetBytes(0, []byte("too long for this page"))
	require.Error(t, err)
}

func TestPage_NewPageIsZeroFilled(t *testing.T) {
	p := file.NewPage(16)
	for _, b := range p.Contents() {
		require.EqualValues(t, 0, b)
	}
}

func TestPage_BytesRoundTripByteForByte(t *testing.T) {
	p := file.NewPage(32)
	want := []byte("exact bytes")
	require.NoError(t, p.SetBytes(0, want))

	got, err := p.GetBytes(0)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("byte round trip mismatch (-want +got):\n%s", diff)
	}
}
