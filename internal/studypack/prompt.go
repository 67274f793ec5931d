package studypack

import (
	"fmt"
	"strings"
)

const summarySystemPrompt = `You are an expert educational content summarizer.`

const quizSystemPrompt = `You are an expert educator creating quiz questions.`

const flashcardSystemPrompt = `You are an expert at creating effective study flashcards.`

func buildSummaryMessage(content, notes string) string {
	var b strings.Builder

	b.WriteString(`Given the following learning material, create a comprehensive but concise summary (2-3 paragraphs) that:
- Captures the main concepts and key points
- Is written in clear, student-friendly language
- Highlights the most important takeaways
- Helps students understand the core ideas quickly
`)
	writeNotes(&b, notes)
	writeMaterial(&b, content)
	b.WriteString("\nSummary:\n")

	return b.String()
}

func buildQuizMessage(content, notes string, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Generate exactly %d multiple-choice questions based on the following learning material.

For each question, provide:
1. A clear, specific question
2. Four answer options (A, B, C, D)
3. The correct answer (as a letter: A, B, C, or D)
4. A brief explanation of why that answer is correct

Format your response as a JSON array with this exact structure:
[
  {
    "question": "Question text here?",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswer": "A",
    "explanation": "Explanation here"
  }
]
`, count)
	writeNotes(&b, notes)
	writeMaterial(&b, content)
	fmt.Fprintf(&b, "\nGenerate %d high-quality quiz questions in JSON format:\n", count)

	return b.String()
}

func buildFlashcardMessage(content, notes string, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Based on the following learning material, create exactly %d flashcards that help students memorize and understand key concepts.

Each flashcard should have:
- Front: A clear question or prompt
- Back: A concise, informative answer (2-3 sentences max)

Format your response as a JSON array with this exact structure:
[
  {
    "front": "Question or term to define?",
    "back": "Clear, concise answer or definition."
  }
]
`, count)
	writeNotes(&b, notes)
	writeMaterial(&b, content)
	fmt.Fprintf(&b, "\nGenerate %d high-quality flashcards in JSON format:\n", count)

	return b.String()
}

func writeNotes(b *strings.Builder, notes string) {
	if notes = strings.TrimSpace(notes); notes == "" {
		return
	}
	fmt.Fprintf(b, "\nInstructor notes (apply these when writing):\n%s\n", notes)
}

func writeMaterial(b *strings.Builder, content string) {
	b.WriteString("\nLearning Material:\n")
	b.WriteString(content)
	b.WriteString("\n")
}
