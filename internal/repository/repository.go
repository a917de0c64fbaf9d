// Package repository contains data access abstractions. Implementations live
// in subpackages (postgres) and hold no business logic; lookups that match
// nothing return sql.ErrNoRows and callers translate it.
package repository
