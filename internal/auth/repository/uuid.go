package repository

import "github.com/google/uuid"

// parseUUID parses a CHAR(36) column value back into a uuid.UUID.
func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
