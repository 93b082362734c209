package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/scitech-butterfly/aasira/core/course"
	"github.com/scitech-butterfly/aasira/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	uname, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.New().String(),
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// Modules returns a small fixed course: two quizzed modules and a final one
// without a quiz.
func Modules() []course.Module {
	return []course.Module{
		{
			ID:            1,
			SequenceIndex: 0,
			Title:         "Digital Basics",
			Content:       "How to stay safe online.",
			Quiz: []course.Question{
				{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
				{Prompt: "Capital of DRC?", Options: []string{"Goma", "Kinshasa"}, CorrectAnswer: "Kinshasa"},
			},
		},
		{
			ID:            2,
			SequenceIndex: 1,
			Title:         "Financial Literacy",
			Content:       "Budgets and savings.",
			Quiz: []course.Question{
				{Prompt: "1+1?", Options: []string{"2", "11"}, CorrectAnswer: "2"},
			},
		},
		{
			ID:            3,
			SequenceIndex: 2,
			Title:         "Wrap Up",
			Content:       "No quiz here.",
		},
	}
}
