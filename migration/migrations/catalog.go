// Package migrations holds the ordered schema catalog of the blog database.
//
// The post to author foreign key FK_author is declared inside the post table
// by the first migration rather than added by a later step, because SQLite
// cannot add a foreign key to an existing table with ALTER TABLE.
package migrations

import "github.com/stokaro/inkwell/migration/migrator"

// Table and object names shared by the migrations and the persistence layer.
const (
	TableAuthor  = "author"
	TablePost    = "post"
	TableTag     = "tag"
	TablePostTag = "post_tag"

	TypeGender = "gender"
)

// GenderValues are the store spellings of the author gender enum.
var GenderValues = []string{"female", "male", "unknown"}

// All returns every migration in catalog order.
func All() []*migrator.Migration {
	return []*migrator.Migration{
		createAuthorAndPost(),
		addTags(),
	}
}

// Provider returns a provider over All.
func Provider() *migrator.RegisteredMigrationProvider {
	return migrator.NewRegisteredMigrationProvider(All()...)
}
