package models

// ModelsToAutoMigrate returns every model the server migrates, in
// dependency order.
func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&Document{},
		&Asset{},
	}
}
