package sqlfmt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func format(t *testing.T, sql string) []string {
	t.Helper()
	out, err := New().Format(sql, "spark", "spark", true)
	require.NoError(t, err)
	return out
}

func TestFormat_SimpleSelect(t *testing.T) {
	out := format(t, "select * from t")

	require.Len(t, out, 1)
	assert.Equal(t, "SELECT\n  *\nFROM t", out[0])
}

func TestFormat_SelectList(t *testing.T) {
	out := format(t, "select a, b, c from t")

	require.Len(t, out, 1)
	assert.Equal(t, "SELECT\n  a,\n  b,\n  c\nFROM t", out[0])
}

func TestFormat_WhereWithBooleans(t *testing.T) {
	out := format(t, "select a from t where x = 1 and y = 2 or z = 3")

	require.Len(t, out, 1)
	assert.Equal(t, "SELECT\n  a\nFROM t\nWHERE x = 1\n  AND y = 2\n  OR z = 3", out[0])
}

func TestFormat_GroupOrderLimit(t *testing.T) {
	out := format(t, "select a from t group by a, b order by a desc limit 10")

	require.Len(t, out, 1)
	assert.Equal(t, "SELECT\n  a\nFROM t\nGROUP BY a, b\nORDER BY a DESC\nLIMIT 10", out[0])
}

func TestFormat_Joins(t *testing.T) {
	out := format(t, "select a from t join u on t.id = u.id left outer join v on u.id = v.id")

	require.Len(t, out, 1)
	assert.Equal(t,
		"SELECT\n  a\nFROM t\nJOIN u ON t.id = u.id\nLEFT OUTER JOIN v ON u.id = v.id",
		out[0])
}

func TestFormat_FunctionCallsBindParens(t *testing.T) {
	out := format(t, "select count(*), upper(name) from t where id in (1, 2)")

	require.Len(t, out, 1)
	assert.Equal(t,
		"SELECT\n  count(*),\n  upper(name)\nFROM t\nWHERE id IN (1, 2)",
		out[0])
}

func TestFormat_SubqueryStaysInline(t *testing.T) {
	out := format(t, "with x as (select 1) select * from x")

	require.Len(t, out, 1)
	assert.Equal(t, "WITH x AS (SELECT 1)\nSELECT\n  *\nFROM x", out[0])
}

func TestFormat_UppercasesKeywordsOnly(t *testing.T) {
	out := format(t, "select Name from Users where active = true")

	require.Len(t, out, 1)
	assert.Equal(t, "SELECT\n  Name\nFROM Users\nWHERE active = TRUE", out[0])
}

func TestFormat_StringLiteralsVerbatim(t *testing.T) {
	out := format(t, "select 'It''s Fine' from t where x like '%SELECT%'")

	require.Len(t, out, 1)
	assert.Equal(t, "SELECT\n  'It''s Fine'\nFROM t\nWHERE x LIKE '%SELECT%'", out[0])
}

func TestFormat_CommentsDropped(t *testing.T) {
	out := format(t, "select 1 -- trailing\nfrom t /* block */ where x = 1")

	require.Len(t, out, 1)
	assert.Equal(t, "SELECT\n  1\nFROM t\nWHERE x = 1", out[0])
}

func TestFormat_MultipleStatements(t *testing.T) {
	out := format(t, "select 1; select 2;")

	require.Len(t, out, 2)
	assert.Equal(t, "SELECT\n  1", out[0])
	assert.Equal(t, "SELECT\n  2", out[1])
}

func TestFormat_EmptyInput(t *testing.T) {
	out, err := New().Format("   \n\t  ", "spark", "spark", true)

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFormat_Compact(t *testing.T) {
	out, err := New().Format("select a, b from t where x = 1", "spark", "spark", false)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "SELECT a, b FROM t WHERE x = 1", out[0])
}

func TestFormat_Idempotent(t *testing.T) {
	inputs := []string{
		"select a, b from t where x = 1 and y = 2",
		"select count(*) from t group by a order by a",
		"with x as (select 1) select * from x",
		"insert into t values (1, 2)",
	}
	for _, input := range inputs {
		first := format(t, input)
		require.Len(t, first, 1)
		second := format(t, first[0])
		require.Len(t, second, 1)
		assert.Equal(t, first[0], second[0], "idempotence for %q", input)
	}
}

func TestFormat_ParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a statement", "not valid sql (("},
		{"unmatched open paren", "select from t where ("},
		{"unmatched close paren", "select a) from t"},
		{"unterminated string", "select 'oops from t"},
		{"unterminated block comment", "select 1 /* oops"},
		{"bare expression", "1 + 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Format(tt.input, "spark", "spark", true)
			require.Error(t, err)
			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr), "expected *ParseError, got %T", err)
		})
	}
}

func TestFormat_MaskedPlaceholdersAreIdentifiers(t *testing.T) {
	out := format(t, "select * from __MASK_0__ where id > __MASK_1__")

	require.Len(t, out, 1)
	assert.Equal(t, "SELECT\n  *\nFROM __MASK_0__\nWHERE id > __MASK_1__", out[0])
}

func TestFormat_SparkStatements(t *testing.T) {
	out := format(t, "cache table t")

	require.Len(t, out, 1)
	assert.Equal(t, "CACHE TABLE t", out[0])
}

func TestFormat_UnknownDialectFallsBack(t *testing.T) {
	out, err := New().Format("select 1", "mystery", "mystery", true)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "SELECT\n  1", out[0])
}

func TestDialectRegistry(t *testing.T) {
	for _, name := range []string{"ansi", "spark", "spark2", "databricks"} {
		d, ok := Get(name)
		require.True(t, ok, "dialect %s registered", name)
		assert.True(t, d.StatementStart("select"))
		assert.True(t, d.Keyword("from"))
	}

	assert.Contains(t, List(), "spark")
	assert.Equal(t, "ansi", Lookup("unknown").Name)
}
