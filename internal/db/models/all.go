package models

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&UserProfile{},
		&Credential{},
		&Group{},
		&GroupMember{},
		&Project{},
		&Task{},
		&Document{},
	}
}
