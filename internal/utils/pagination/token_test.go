package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursor(t *testing.T) {
	createdAt := time.Date(2026, 3, 12, 9, 15, 30, 123456789, time.UTC)
	requestID := "6f1c2d3e-aaaa-bbbb-cccc-0123456789ab"

	token := EncodeCursor(createdAt, requestID)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedTime, decodedID, err := DecodeCursor(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, createdAt, decodedTime, "Creation time should match after decode")
	assert.Equal(t, requestID, decodedID, "Request ID should match after decode")

	// IDs containing the separator survive the round trip intact.
	withPipe := EncodeCursor(createdAt, "id|with|pipes")
	_, decodedPipeID, err := DecodeCursor(withPipe)
	assert.NoError(t, err)
	assert.Equal(t, "id|with|pipes", decodedPipeID, "Separator in the ID portion should be preserved")
}

func TestDecodeCursorError(t *testing.T) {
	_, _, err := DecodeCursor("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	// Valid base64 but no separator.
	_, _, err = DecodeCursor("bm9zZXBhcmF0b3I=")
	assert.Error(t, err, "Should return an error for a token without a separator")
	assert.Contains(t, err.Error(), "split")

	// Separator present but the time portion is garbage.
	_, _, err = DecodeCursor("bm90YXRpbWV8c29tZS1pZA==")
	assert.Error(t, err, "Should return an error for an unparseable time")
	assert.Contains(t, err.Error(), "time parse")
}
