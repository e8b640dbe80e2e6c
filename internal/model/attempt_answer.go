package model

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// AttemptAnswer is a draft answer saved during an attempt so a reloaded
// client can pick up where it left off. Drafts are discarded once the
// attempt is submitted.
type AttemptAnswer struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	StudentID    uint           `json:"student_id" gorm:"not null;uniqueIndex:idx_draft_answer,priority:1"`
	AssignmentID uint           `json:"assignment_id" gorm:"not null;uniqueIndex:idx_draft_answer,priority:2"`
	QuestionID   uint           `json:"question_id" gorm:"not null;uniqueIndex:idx_draft_answer,priority:3"`
	Answer       string         `json:"answer" gorm:"type:text"`
	// SelectedOptions holds choice selections as a comma separated id list.
	SelectedOptions string         `json:"selected_options,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *AttemptAnswer) SelectedOptionIDs() []uint {
	if a.SelectedOptions == "" {
		return nil
	}
	parts := strings.Split(a.SelectedOptions, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(v))
	}
	return ids
}

func (a *AttemptAnswer) SetSelectedOptionIDs(ids []uint) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	a.SelectedOptions = strings.Join(parts, ",")
}
