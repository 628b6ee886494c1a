package models

// All lists every model in dependency order, for AutoMigrate in tests and
// local SQLite runs.
func All() []any {
	return []any{
		&Category{},
		&Product{},
		&Coupon{},
		&Order{},
		&OrderItem{},
		&SiteConfig{},
		&Announcement{},
		&OutboxEvent{},
	}
}
