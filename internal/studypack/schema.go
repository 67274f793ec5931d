package studypack

import "github.com/abhisek/studypack/internal/llm"

func quizItemDefinition(letters bool) map[string]any {
	answer := map[string]any{
		"type":        "string",
		"description": "Letter of the correct option",
	}
	if letters {
		answer["enum"] = []any{"A", "B", "C", "D"}
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string", "minLength": 1},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 4,
				"maxItems": 4,
			},
			"correctAnswer": answer,
			"explanation":   map[string]any{"type": "string"},
		},
		"required":             []any{"question", "options", "correctAnswer", "explanation"},
		"additionalProperties": false,
	}
}

var flashcardItemDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"front": map[string]any{"type": "string", "minLength": 1},
		"back":  map[string]any{"type": "string", "minLength": 1},
	},
	"required":             []any{"front", "back"},
	"additionalProperties": false,
}

// quizArraySchema validates the extracted quiz array. Answer letters are
// checked per question so one bad letter drops one question, not the quiz.
var quizArraySchema = &llm.Schema{
	Name: "quiz-question-array",
	Definition: map[string]any{
		"type":     "array",
		"items":    quizItemDefinition(false),
		"minItems": 1,
	},
}

var flashcardArraySchema = &llm.Schema{
	Name: "flashcard-array",
	Definition: map[string]any{
		"type":     "array",
		"items":    flashcardItemDefinition,
		"minItems": 1,
	},
}

// QuizSchema is sent to providers in structured mode. The array is wrapped
// in an object because not every provider accepts a top-level array.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "Multiple-choice questions about a learning material",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": quizItemDefinition(true),
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// FlashcardSchema is sent to providers in structured mode.
var FlashcardSchema = &llm.Schema{
	Name:        "flashcards",
	Description: "Study flashcards about a learning material",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"flashcards": map[string]any{
				"type":  "array",
				"items": flashcardItemDefinition,
			},
		},
		"required":             []any{"flashcards"},
		"additionalProperties": false,
	},
}
