package parse

import (
	"github.com/cmkfmt/cmkfmt/internal/cmds"
	"github.com/cmkfmt/cmkfmt/internal/lint"
)

// Context carries the external collaborators through the parse stack: the
// command grammar database and the diagnostic sink. The parser only queries
// the database and only appends to the sink.
type Context struct {
	DB   *cmds.DB
	Lint *lint.Sink
}

// NewContext builds a parse context. A nil db selects the builtin grammar
// database; a nil sink discards diagnostics.
func NewContext(db *cmds.DB, sink *lint.Sink) *Context {
	if db == nil {
		db = cmds.Default()
	}
	return &Context{DB: db, Lint: sink}
}
