package models

import "github.com/google/uuid"

// ensureID assigns a random identifier when the row has none yet. Postgres
// would fill gen_random_uuid() on its own, but setting it client side keeps
// the value available before commit and works on sqlite.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
