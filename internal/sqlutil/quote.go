// Package sqlutil provides SQL helpers for building MySQL statements.
package sqlutil

import (
	"regexp"
	"strings"
)

// QuoteIdentifier quotes a MySQL identifier with backticks, doubling any
// embedded backticks. Example: "knownGene" -> "`knownGene`".
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QualifiedName quotes a database-qualified table name: `hg38`.`knownGene`.
func QualifiedName(db, table string) string {
	return QuoteIdentifier(db) + "." + QuoteIdentifier(table)
}

// validIdentifierRegex restricts names to what UCSC assemblies and tables use.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier checks if a name only contains alphanumerics and underscores.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}

// ValidateIdentifier returns an *InvalidIdentifierError for names that
// IsValidIdentifier rejects.
func ValidateIdentifier(name string) error {
	if !IsValidIdentifier(name) {
		return &InvalidIdentifierError{Name: name}
	}
	return nil
}
