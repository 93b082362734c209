package contentsvc

import (
	"context"
	"testing"
)

var sampleContent = []byte(`
modules:
  - id: 10
    title: Digital Basics
    content: How to stay safe online.
    links:
      - title: Staying Safe
        url: https://example.org/safety
    quiz:
      - question: 2+2?
        options: ["3", "4"]
        correctAnswer: "4"
  - id: 20
    title: Financial Literacy
    content: Budgets and savings.
glossary:
  - term: Budget
    definition: A plan for money.
`)

func TestNewFileProvider(t *testing.T) {
	ctx := context.Background()

	p, err := newFileProvider(sampleContent)
	if err != nil {
		t.Fatalf("newFileProvider() error = %v", err)
	}

	modules, err := p.Modules(ctx)
	if err != nil {
		t.Fatalf("Modules() error = %v", err)
	}
	if len(modules) != 2 {
		t.Fatalf("len(modules) = %d, want 2", len(modules))
	}

	// sequence follows file order, regardless of IDs
	if modules[0].ID != 10 || modules[0].SequenceIndex != 0 {
		t.Errorf("modules[0] = ID %d, seq %d", modules[0].ID, modules[0].SequenceIndex)
	}
	if modules[1].ID != 20 || modules[1].SequenceIndex != 1 {
		t.Errorf("modules[1] = ID %d, seq %d", modules[1].ID, modules[1].SequenceIndex)
	}

	quiz := modules[0].Quiz
	if len(quiz) != 1 {
		t.Fatalf("len(quiz) = %d, want 1", len(quiz))
	}
	if quiz[0].Prompt != "2+2?" || quiz[0].CorrectAnswer != "4" {
		t.Errorf("quiz[0] = %+v", quiz[0])
	}
	if len(modules[0].Links) != 1 || modules[0].Links[0].URL != "https://example.org/safety" {
		t.Errorf("links = %+v", modules[0].Links)
	}

	terms, err := p.Terms(ctx)
	if err != nil {
		t.Fatalf("Terms() error = %v", err)
	}
	if len(terms) != 1 || terms[0].Term != "Budget" {
		t.Errorf("terms = %+v", terms)
	}
}

func TestNewFileProviderRejections(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "duplicate module ids",
			data: []byte("modules:\n  - id: 1\n    title: A\n  - id: 1\n    title: B\n"),
		},
		{
			name: "malformed yaml",
			data: []byte("modules: [lol"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newFileProvider(tt.data); err == nil {
				t.Error("newFileProvider() error = nil, want error")
			}
		})
	}
}

func TestProviderReturnsCopies(t *testing.T) {
	ctx := context.Background()

	p, err := newFileProvider(sampleContent)
	if err != nil {
		t.Fatalf("newFileProvider() error = %v", err)
	}

	modules, _ := p.Modules(ctx)
	modules[0].Title = "mutated"

	again, _ := p.Modules(ctx)
	if again[0].Title == "mutated" {
		t.Error("Modules() exposes internal state")
	}
}
