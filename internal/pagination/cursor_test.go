package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeCursor_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 15, 10, 30, 0, 123456000, time.UTC)

	encoded := EncodeCursor("doc-42", ts)
	require.NotEmpty(t, encoded)

	cursor, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, "doc-42", cursor.LastID)
	assert.True(t, ts.Equal(cursor.Timestamp))
}

func TestEncodeCursor_NonUTCTimestampNormalized(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2026, 3, 15, 11, 30, 0, 0, loc)

	cursor, err := DecodeCursor(EncodeCursor("doc-1", ts))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cursor.Timestamp.Location())
	assert.True(t, ts.Equal(cursor.Timestamp))
}

func TestEncodeCursor_EmptyID(t *testing.T) {
	assert.Empty(t, EncodeCursor("", time.Now()))
}

func TestDecodeCursor_Empty(t *testing.T) {
	cursor, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	cases := map[string]string{
		"not base64":    "!!!",
		"no separator":  base64.StdEncoding.EncodeToString([]byte("noseparator")),
		"empty id":      base64.StdEncoding.EncodeToString([]byte("|2026-03-15T10:30:00Z")),
		"bad timestamp": base64.StdEncoding.EncodeToString([]byte("doc-1|not-a-time")),
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCursor(input)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}
