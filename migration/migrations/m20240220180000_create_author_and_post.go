package migrations

import (
	"github.com/stokaro/inkwell/core/ast"
	"github.com/stokaro/inkwell/migration/migrator"
)

func createAuthorAndPost() *migrator.Migration {
	gender := ast.NewEnum(TypeGender, GenderValues...)

	author := ast.NewCreateTable(TableAuthor).
		AddColumn(ast.NewColumn("id", ast.TypeBigInt).SetPrimary().SetAutoIncrement()).
		AddColumn(ast.NewColumn("name", ast.TypeString).SetNotNull()).
		AddColumn(ast.NewEnumColumn("gender", gender).SetNotNull())

	post := ast.NewCreateTable(TablePost).
		AddColumn(ast.NewColumn("id", ast.TypeBigInt).SetPrimary().SetAutoIncrement()).
		AddColumn(ast.NewColumn("title", ast.TypeString).SetNotNull()).
		AddColumn(ast.NewColumn("text", ast.TypeText).SetNotNull()).
		AddColumn(ast.NewColumn("author_id", ast.TypeBigInt).SetNotNull()).
		AddConstraint(ast.NewForeignKeyConstraint("FK_author", "author_id", &ast.ForeignKeyRef{
			Table:  TableAuthor,
			Column: "id",
		}))

	return &migrator.Migration{
		Version:     20240220180000,
		Description: "create_author_and_post",
		Up: migrator.NodesFunc(
			gender,
			author,
			post,
			ast.NewIndex("IDX_author_id", TablePost, "author_id"),
		),
		Down: migrator.NodesFunc(
			ast.NewDropTable(TablePost),
			ast.NewDropTable(TableAuthor),
			ast.NewDropType(TypeGender),
		),
	}
}
