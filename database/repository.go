package database

import (
	"strings"
)

// Repository is the record store used by the UI and the report renderer.
// Every method runs in its own transaction scope; SavePatientRecord is the
// only call that spans more than one entity.
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// DB returns the store the repository was built on.
func (r *Repository) DB() *DB {
	return r.db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term as a literal substring.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
