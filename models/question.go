package models

import (
	"gorm.io/datatypes"
)

// Question belongs to exactly one Test. Choices are kept as a JSON array so a
// choice may contain any character.
type Question struct {
	ID           uint                        `json:"id" gorm:"primaryKey"`
	TestID       uint                        `json:"test_id" gorm:"not null;index"`
	Position     int                         `json:"position" gorm:"not null"`
	Text         string                      `json:"text" gorm:"type:text;not null"`
	Choices      datatypes.JSONSlice[string] `json:"choices" gorm:"not null"`
	CorrectIndex int                         `json:"correct_index" gorm:"not null"`
}

// Choice returns the text of the choice at index i, or false when i is out of range.
func (q Question) Choice(i int) (string, bool) {
	if i < 0 || i >= len(q.Choices) {
		return "", false
	}
	return q.Choices[i], true
}
