package fix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	frameOne = "8=FIX.4.4\x019=12\x0135=0\x0134=1\x0110=123\x01"
	frameTwo = "8=FIX.4.4\x019=12\x0135=0\x0134=2\x0110=124\x01"
)

func TestReassembler_CompleteFrame(t *testing.T) {
	r := NewReassembler()

	frame, ok := r.Feed([]byte(frameOne))
	require.True(t, ok)
	assert.Equal(t, frameOne, string(frame))
	assert.Equal(t, 0, r.Pending())
}

func TestReassembler_BackToBackFrames(t *testing.T) {
	r := NewReassembler()

	// One feed carrying two whole messages yields the first; the remainder is
	// exactly the second message's bytes and surfaces on the next call.
	frame, ok := r.Feed([]byte(frameOne + frameTwo))
	require.True(t, ok)
	assert.Equal(t, frameOne, string(frame))
	assert.Equal(t, len(frameTwo), r.Pending())

	frame, ok = r.Feed(nil)
	require.True(t, ok)
	assert.Equal(t, frameTwo, string(frame))
	assert.Equal(t, 0, r.Pending())
}

func TestReassembler_PartialFrameRetained(t *testing.T) {
	r := NewReassembler()

	// Truncated mid-trailer: the marker is present but its delimiter is not,
	// so nothing is complete and the buffer is kept verbatim.
	partial := frameOne[:len(frameOne)-4]
	_, ok := r.Feed([]byte(partial))
	require.False(t, ok)
	assert.Equal(t, len(partial), r.Pending())

	_, ok = r.Feed([]byte("12"))
	require.False(t, ok)

	frame, ok := r.Feed([]byte{'3', SOH})
	require.True(t, ok)
	assert.Equal(t, frameOne, string(frame))
	assert.Equal(t, 0, r.Pending())
}

func TestReassembler_DripFeed(t *testing.T) {
	r := NewReassembler()

	var got []byte
	for i := 0; i < len(frameOne); i++ {
		frame, ok := r.Feed([]byte{frameOne[i]})
		if ok {
			got = frame
		}
	}

	require.NotNil(t, got)
	assert.Equal(t, frameOne, string(got))
	assert.Equal(t, 0, r.Pending())
}

func TestReassembler_NoMarker(t *testing.T) {
	r := NewReassembler()

	_, ok := r.Feed([]byte("8=FIX.4.4\x019=5\x0135=0\x01"))
	require.False(t, ok)
	assert.Equal(t, len("8=FIX.4.4\x019=5\x0135=0\x01"), r.Pending())
}

func TestReassembler_OneFramePerFeed(t *testing.T) {
	r := NewReassembler()

	// Three messages in one chunk drain one Feed at a time.
	_, ok := r.Feed([]byte(frameOne + frameTwo + frameOne))
	require.True(t, ok)

	_, ok = r.Feed(nil)
	require.True(t, ok)

	frame, ok := r.Feed(nil)
	require.True(t, ok)
	assert.Equal(t, frameOne, string(frame))
	assert.Equal(t, 0, r.Pending())
}
