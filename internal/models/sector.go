package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type Sector struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Spaces []Space `gorm:"foreignKey:SectorID;constraint:OnDelete:CASCADE" json:"spaces,omitempty"`
}

// Acronym returns the upper-cased first letter of every word in the name.
func (s Sector) Acronym() string {
	var b strings.Builder
	for _, word := range strings.Fields(s.Name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
