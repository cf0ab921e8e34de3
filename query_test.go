package tablestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchFilteredOperators(t *testing.T) {
	for _, op := range []Operator{OpEq, OpLt, OpGt} {
		t.Run(string(op), func(t *testing.T) {
			stmt, err := mysqlBuilder().fetchFiltered(Where("age", op, 18), nil, 0)
			require.NoError(t, err)
			assert.Equal(t, "SELECT * FROM `users` WHERE `age` "+string(op)+" ?", stmt.SQL)
			assert.Equal(t, []any{int64(18)}, stmt.Args)
		})
	}
}

func TestFetchFilteredDefaultsToEquality(t *testing.T) {
	stmt, err := mysqlBuilder().fetchFiltered(Where("name", "", "Ann"), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` WHERE `name` = ?", stmt.SQL)
	assert.Equal(t, []any{"Ann"}, stmt.Args)
}

func TestFetchFilteredOrderAndLimit(t *testing.T) {
	assert := assert.New(t)

	opt := makeQueryOption([]QueryOption{WithOrderBy("name", true), WithLimit(10)})
	stmt, err := mysqlBuilder().fetchFiltered(Where("age", OpGt, 18), opt.Sorter, opt.Limit)
	require.NoError(t, err)
	assert.Equal("SELECT * FROM `users` WHERE `age` > ? ORDER BY `name` ASC LIMIT ?", stmt.SQL)
	assert.Equal([]any{int64(18), 10}, stmt.Args)

	opt = makeQueryOption([]QueryOption{WithOrderBy("name", false)})
	stmt, err = mysqlBuilder().fetchFiltered(Where("age", OpGt, 18), opt.Sorter, opt.Limit)
	require.NoError(t, err)
	assert.Equal("SELECT * FROM `users` WHERE `age` > ? ORDER BY `name` DESC", stmt.SQL)

	opt = makeQueryOption([]QueryOption{WithSorter("-age", "+name")})
	stmt, err = mysqlBuilder().fetchFiltered(Eq("age", 18), opt.Sorter, opt.Limit)
	require.NoError(t, err)
	assert.Equal("SELECT * FROM `users` WHERE `age` = ? ORDER BY `age` DESC, `name` ASC", stmt.SQL)
}

func TestUnknownOperatorRejected(t *testing.T) {
	for _, op := range []Operator{"!=", "<=", "LIKE", "= 1 OR 1"} {
		_, err := mysqlBuilder().fetchFiltered(Where("age", op, 18), nil, 0)
		assert.ErrorIs(t, err, ErrUnknownOperator, "op %q", op)

		_, err = mysqlBuilder().delete(Where("age", op, 18))
		assert.ErrorIs(t, err, ErrUnknownOperator, "op %q", op)
	}
}

func TestIdentifiersAreQuoted(t *testing.T) {
	tests := []struct {
		ident string
		want  string
	}{
		{ident: "name", want: "`name`"},
		{ident: "na`me", want: "`na``me`"},
		{ident: "shop.users", want: "`shop`.`users`"},
		{ident: "*", want: "*"},
		{ident: "users.*", want: "`users`.*"},
		{ident: "`; DROP TABLE users; --", want: "```; DROP TABLE users; --`"},
	}

	for _, tt := range tests {
		got, err := quoteIdent(mysqlDialect{}, tt.ident)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"", "  ", "a..b", "users."} {
		_, err := quoteIdent(mysqlDialect{}, bad)
		assert.ErrorIs(t, err, ErrEmptyIdentifier, "ident %q", bad)
	}
}

func TestEmptyTableNameRejected(t *testing.T) {
	_, err := builder{d: mysqlDialect{}}.preview(nil, 100)
	assert.ErrorIs(t, err, ErrEmptyIdentifier)
}

func TestPreviewStatement(t *testing.T) {
	stmt, err := mysqlBuilder().preview(nil, 100)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` LIMIT ?", stmt.SQL)
	assert.Equal(t, []any{100}, stmt.Args)

	stmt, err = mysqlBuilder().preview([]string{"name", "age"}, 5)
	require.NoError(t, err)
	assert.Equal(t, "SELECT `name`, `age` FROM `users` LIMIT ?", stmt.SQL)
	assert.Equal(t, []any{5}, stmt.Args)

	stmt, err = mysqlBuilder().preview(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users`", stmt.SQL)
	assert.Empty(t, stmt.Args)
}

func TestUpdateStatement(t *testing.T) {
	stmt, err := mysqlBuilder().update("age", 31, Eq("name", "Ann"))
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `users` SET `age` = ? WHERE `name` = ?", stmt.SQL)
	assert.Equal(t, []any{int64(31), "Ann"}, stmt.Args)

	_, err = mysqlBuilder().update("", 31, Eq("name", "Ann"))
	assert.ErrorIs(t, err, ErrEmptyIdentifier)

	_, err = mysqlBuilder().update("age", struct{}{}, Eq("name", "Ann"))
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestDeleteStatement(t *testing.T) {
	stmt, err := mysqlBuilder().delete(Where("age", OpLt, 18))
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `users` WHERE `age` < ?", stmt.SQL)
	assert.Equal(t, []any{int64(18)}, stmt.Args)
}

func TestInsertStatement(t *testing.T) {
	assert := assert.New(t)
	cols := []Column{{Name: "name", Type: "varchar(255)"}, {Name: "age", Type: "int(11)"}}

	stmt, err := mysqlBuilder().insert(cols, []Record{{"name": "Ann", "age": 30}})
	require.NoError(t, err)
	assert.Equal("INSERT INTO `users` (`name`, `age`) VALUES (?, ?)", stmt.SQL)
	assert.Equal([]any{"Ann", int64(30)}, stmt.Args)

	stmt, err = mysqlBuilder().insert(cols, []Record{
		{"age": 30, "name": "Ann"},
		{"name": "Bob"},
		{"AGE": "45", "extra": "ignored"},
	})
	require.NoError(t, err)
	assert.Equal("INSERT INTO `users` (`name`, `age`) VALUES (?, ?), (?, ?), (?, ?)", stmt.SQL)
	assert.Equal([]any{"Ann", int64(30), "Bob", nil, nil, "45"}, stmt.Args)
}

func TestInsertStatementErrors(t *testing.T) {
	cols := []Column{{Name: "name", Type: "varchar(255)"}, {Name: "age", Type: "int(11)"}}

	_, err := mysqlBuilder().insert(cols, nil)
	assert.ErrorIs(t, err, ErrEmptyList)

	_, err = mysqlBuilder().insert(nil, []Record{{"name": "Ann"}})
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = mysqlBuilder().insert(cols, []Record{{"name": "Ann", "age": "thirty"}})
	assert.ErrorIs(t, err, ErrValueMismatch)

	_, err = mysqlBuilder().insert(cols, []Record{{"name": "Ann", "age": []byte{1, 2}}})
	assert.ErrorIs(t, err, ErrValueMismatch)

	_, err = mysqlBuilder().insert(cols, []Record{{"name": map[string]int{}}})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestMostRecentStatement(t *testing.T) {
	stmt, err := mysqlBuilder().mostRecent("id", nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` ORDER BY `id` DESC LIMIT ?", stmt.SQL)
	assert.Equal(t, []any{1}, stmt.Args)

	filter := Eq("name", "Ann")
	stmt, err = mysqlBuilder().mostRecent("created_at", &filter, 3)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` WHERE `name` = ? ORDER BY `created_at` DESC LIMIT ?", stmt.SQL)
	assert.Equal(t, []any{"Ann", 3}, stmt.Args)

	_, err = mysqlBuilder().mostRecent("", nil, 1)
	assert.ErrorIs(t, err, ErrEmptyIdentifier)
}

func TestJoinStatement(t *testing.T) {
	stmt, err := mysqlBuilder().join([]string{"users.name", "orders.total"}, LeftJoin, "orders", "id", "user_id", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "SELECT `users`.`name`, `orders`.`total` FROM `users` LEFT JOIN `orders` ON `users`.`id` = `orders`.`user_id`", stmt.SQL)
	assert.Empty(t, stmt.Args)

	tests := []struct {
		kind JoinKind
		want string
	}{
		{kind: RightJoin, want: "RIGHT JOIN"},
		{kind: InnerJoin, want: "INNER JOIN"},
		{kind: OuterJoin, want: "FULL OUTER JOIN"},
		{kind: "inner", want: "INNER JOIN"},
	}
	for _, tt := range tests {
		stmt, err := mysqlBuilder().join(nil, tt.kind, "orders", "id", "orders.user_id", []string{"-orders.total"}, 5)
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM `users` "+tt.want+" `orders` ON `users`.`id` = `orders`.`user_id` ORDER BY `orders`.`total` DESC LIMIT ?", stmt.SQL)
		assert.Equal(t, []any{5}, stmt.Args)
	}
}

func TestJoinKindErrors(t *testing.T) {
	_, err := mysqlBuilder().join([]string{"name"}, "", "orders", "id", "user_id", nil, 0)
	assert.ErrorIs(t, err, ErrNoJoinType)

	_, err = mysqlBuilder().join([]string{"name"}, "BOGUS", "orders", "id", "user_id", nil, 0)
	assert.ErrorIs(t, err, ErrUnknownJoinType)

	_, err = mysqlBuilder().join([]string{"name"}, LeftJoin, "", "id", "user_id", nil, 0)
	assert.ErrorIs(t, err, ErrEmptyIdentifier)

	_, err = mysqlBuilder().join([]string{"name"}, LeftJoin, "orders", "", "user_id", nil, 0)
	assert.ErrorIs(t, err, ErrEmptyIdentifier)
}

func TestPostgresStatements(t *testing.T) {
	assert := assert.New(t)

	stmt, err := postgresBuilder().fetchFiltered(Where("age", OpGt, 18), []string{"+name"}, 10)
	require.NoError(t, err)
	assert.Equal(`SELECT * FROM "users" WHERE "age" > $1 ORDER BY "name" ASC LIMIT $2`, stmt.SQL)
	assert.Equal([]any{int64(18), 10}, stmt.Args)

	cols := []Column{{Name: "name", Type: "text"}, {Name: "age", Type: "integer"}}
	stmt, err = postgresBuilder().insert(cols, []Record{{"name": "Ann", "age": 30}, {"name": "Bob", "age": 17}})
	require.NoError(t, err)
	assert.Equal(`INSERT INTO "users" ("name", "age") VALUES ($1, $2), ($3, $4)`, stmt.SQL)
	assert.Equal([]any{"Ann", int64(30), "Bob", int64(17)}, stmt.Args)

	stmt, err = postgresBuilder().columns()
	require.NoError(t, err)
	assert.Equal("SELECT column_name, data_type, is_nullable, column_default, is_identity "+
		"FROM information_schema.columns WHERE table_name = $1 AND table_schema = current_schema() ORDER BY ordinal_position", stmt.SQL)
	assert.Equal([]any{"users"}, stmt.Args)

	stmt, err = builder{d: postgresDialect{}, table: "shop.users"}.columns()
	require.NoError(t, err)
	assert.Contains(stmt.SQL, "table_name = $1 AND table_schema = $2")
	assert.Equal([]any{"users", "shop"}, stmt.Args)
}

func TestQuestionMarkInIdentifierIsNotAPlaceholder(t *testing.T) {
	cols := []Column{{Name: "why?", Type: "text"}, {Name: "age", Type: "integer"}}
	recs := []Record{{"why?": "because", "age": 30}, {"why?": "no"}}

	stmt, err := postgresBuilder().fetchFiltered(Where("why?", OpEq, 1), []string{"-why?"}, 5)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "why?" = $1 ORDER BY "why?" DESC LIMIT $2`, stmt.SQL)
	assert.Equal(t, []any{int64(1), 5}, stmt.Args)

	stmt, err = postgresBuilder().update("why?", "x", Eq("age", 30))
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "why?" = $1 WHERE "age" = $2`, stmt.SQL)

	stmt, err = postgresBuilder().insert(cols, recs)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("why?", "age") VALUES ($1, $2), ($3, $4)`, stmt.SQL)
	assert.Equal(t, []any{"because", int64(30), "no", nil}, stmt.Args)

	stmt, err = mysqlBuilder().insert(cols, recs)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `users` (`why?`, `age`) VALUES (?, ?), (?, ?)", stmt.SQL)
	assert.Equal(t, []any{"because", int64(30), "no", nil}, stmt.Args)

	stmt, err = mysqlBuilder().delete(Where("why?", OpLt, 2))
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `users` WHERE `why?` < ?", stmt.SQL)
	assert.Equal(t, []any{int64(2)}, stmt.Args)

	stmt, err = builder{d: mysqlDialect{}, table: "what?"}.columns()
	require.NoError(t, err)
	assert.Equal(t, "SHOW COLUMNS FROM `what?`", stmt.SQL)
}
