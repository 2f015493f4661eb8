package models

import "github.com/google/uuid"

// Alias maps a mail alias name to one destination user. Several rows with
// the same name form a group alias.
type Alias struct {
	Name        string    `json:"alias_name" form:"alias_name"`
	Destination uuid.UUID `json:"destination" form:"destination"`
}

// AliasGroup is every destination of one alias name, in insertion order.
type AliasGroup struct {
	Name         string      `json:"alias_name"`
	Destinations []uuid.UUID `json:"destinations"`
}
