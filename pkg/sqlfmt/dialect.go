package sqlfmt

import (
	"sort"
	"strings"
	"sync"
)

// Dialect carries the keyword tables the lexer-driven printer needs.
// Keywords drive uppercasing and clause placement; starters gate which
// words may open a statement.
type Dialect struct {
	Name     string
	keywords map[string]struct{}
	starters map[string]struct{}
}

// Keyword reports whether word (any case) is a reserved keyword.
func (d *Dialect) Keyword(word string) bool {
	_, ok := d.keywords[strings.ToUpper(word)]
	return ok
}

// StatementStart reports whether word may begin a statement.
func (d *Dialect) StatementStart(word string) bool {
	_, ok := d.starters[strings.ToUpper(word)]
	return ok
}

var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Dialect)
)

// Register adds a dialect to the global registry.
func Register(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.Name)] = d
}

// Get returns a dialect by name.
func Get(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// Lookup returns the named dialect, falling back to ansi for unknown
// names. Unrecognized dialects are accepted, not rejected.
func Lookup(name string) *Dialect {
	if d, ok := Get(name); ok {
		return d
	}
	d, _ := Get("ansi")
	return d
}

// List returns all registered dialect names, sorted.
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var ansiKeywords = []string{
	"SELECT", "DISTINCT", "ALL", "FROM", "WHERE", "GROUP", "BY", "HAVING",
	"ORDER", "LIMIT", "OFFSET", "JOIN", "INNER", "LEFT", "RIGHT", "FULL",
	"OUTER", "CROSS", "ON", "USING", "AS", "AND", "OR", "NOT", "IN", "IS",
	"NULL", "LIKE", "BETWEEN", "CASE", "WHEN", "THEN", "ELSE", "END",
	"UNION", "INTERSECT", "EXCEPT", "WITH", "INSERT", "INTO", "VALUES",
	"UPDATE", "SET", "DELETE", "CREATE", "TABLE", "VIEW", "DROP", "ALTER",
	"TRUNCATE", "EXISTS", "ASC", "DESC", "OVER", "PARTITION", "IF",
	"REPLACE", "TEMPORARY", "SHOW", "DESCRIBE", "EXPLAIN", "USE", "TRUE",
	"FALSE", "GRANT", "REVOKE", "MERGE",
}

var ansiStarters = []string{
	"SELECT", "WITH", "INSERT", "UPDATE", "DELETE", "MERGE", "CREATE",
	"DROP", "ALTER", "TRUNCATE", "SHOW", "DESCRIBE", "DESC", "EXPLAIN",
	"USE", "SET", "VALUES", "GRANT", "REVOKE",
}

var sparkKeywords = append([]string{
	"LATERAL", "QUALIFY", "CLUSTER", "DISTRIBUTE", "SORT", "CACHE",
	"UNCACHE", "REFRESH", "TBLPROPERTIES", "PARTITIONED", "OVERWRITE",
}, ansiKeywords...)

var sparkStarters = append([]string{
	"CACHE", "UNCACHE", "REFRESH", "ANALYZE", "MSCK", "OPTIMIZE",
	"VACUUM", "CALL",
}, ansiStarters...)

func newDialect(name string, keywords, starters []string) *Dialect {
	return &Dialect{
		Name:     name,
		keywords: wordSet(keywords...),
		starters: wordSet(starters...),
	}
}

func init() {
	Register(newDialect("ansi", ansiKeywords, ansiStarters))
	// Spark and its relatives share one keyword surface.
	Register(newDialect("spark", sparkKeywords, sparkStarters))
	Register(newDialect("spark2", sparkKeywords, sparkStarters))
	Register(newDialect("databricks", sparkKeywords, sparkStarters))
}
