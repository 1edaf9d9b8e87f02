package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeCursor creates a base64 encoded continuation token from a document's
// creation time and ID. Listing queries order by (created_at DESC, id) so the
// pair uniquely positions the next page.
func EncodeCursor(createdAt time.Time, requestID string) string {
	cursor := fmt.Sprintf("%s|%s", createdAt.Format(timeFormat), requestID)
	return base64.StdEncoding.EncodeToString([]byte(cursor))
}

// DecodeCursor parses a continuation token back into its creation time and ID.
func DecodeCursor(token string) (time.Time, string, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("invalid pagination token (split)")
	}
	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token (time parse): %w", err)
	}
	return createdAt, parts[1], nil
}
