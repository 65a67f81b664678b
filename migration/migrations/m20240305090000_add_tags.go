package migrations

import (
	"github.com/stokaro/inkwell/core/ast"
	"github.com/stokaro/inkwell/migration/migrator"
)

func addTags() *migrator.Migration {
	tag := ast.NewCreateTable(TableTag).
		AddColumn(ast.NewColumn("id", ast.TypeBigInt).SetPrimary().SetAutoIncrement()).
		AddColumn(ast.NewColumn("name", ast.TypeString).SetNotNull()).
		AddColumn(ast.NewColumn("description", ast.TypeString))

	postTag := ast.NewCreateTable(TablePostTag).
		AddColumn(ast.NewColumn("post_id", ast.TypeBigInt).SetNotNull()).
		AddColumn(ast.NewColumn("tag_id", ast.TypeBigInt).SetNotNull()).
		AddConstraint(ast.NewPrimaryKeyConstraint("post_id", "tag_id")).
		AddConstraint(ast.NewForeignKeyConstraint("FK_post_tag_post", "post_id", &ast.ForeignKeyRef{
			Table:  TablePost,
			Column: "id",
		})).
		AddConstraint(ast.NewForeignKeyConstraint("FK_post_tag_tag", "tag_id", &ast.ForeignKeyRef{
			Table:  TableTag,
			Column: "id",
		}))

	return &migrator.Migration{
		Version:     20240305090000,
		Description: "add_tags",
		Up: migrator.NodesFunc(
			ast.NewIndex("UQ_author_name", TableAuthor, "name").SetUnique(),
			tag,
			postTag,
		),
		Down: migrator.NodesFunc(
			ast.NewDropTable(TablePostTag),
			ast.NewDropTable(TableTag),
			ast.NewDropIndex("UQ_author_name", TableAuthor),
		),
	}
}
