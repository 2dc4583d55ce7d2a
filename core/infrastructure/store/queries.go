package store

// Selection queries
const (
	queryGetSelection = `SELECT interface1, interface2 FROM selection WHERE id = 1`

	queryUpsertSelection = `
		INSERT INTO selection (id, interface1, interface2, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			interface1 = excluded.interface1,
			interface2 = excluded.interface2,
			updated_at = CURRENT_TIMESTAMP`
)
