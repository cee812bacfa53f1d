package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"

	"planpractice/config"
	"planpractice/database"
	"planpractice/models"
)

// Imports a question bank CSV into an existing quiz. Expected headers:
// quizId, question, answer1..answer4, correctIndex (1-based).
// Usage: go run scripts/importQuestionBank.go QuestionBank.csv
func main() {
	config.LoadConfig()
	database.ConnectDb()

	path := "QuestionBank.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	db := database.Database.Db

	inserted := 0
	skipped := 0

	for i, row := range records[1:] {
		if i%100 == 0 {
			log.Printf("Processing row %d...", i+1)
		}

		quizID := parseInt(getField(row, headerIndex, "quizId"))
		content := getField(row, headerIndex, "question")
		correctIndex := parseInt(getField(row, headerIndex, "correctIndex"))

		if quizID == 0 || content == "" {
			skipped++
			continue
		}

		var quiz models.Quiz
		if err := db.Where("id = ?", quizID).First(&quiz).Error; err != nil {
			log.Printf("Quiz %d not found, skipping row %d", quizID, i+1)
			skipped++
			continue
		}

		question := models.Question{
			QuizID:  uint(quizID),
			Content: content,
		}
		for n := 1; n <= 4; n++ {
			answer := getField(row, headerIndex, "answer"+strconv.Itoa(n))
			if answer == "" {
				continue
			}
			question.Answers = append(question.Answers, models.Answer{
				Content:   answer,
				IsCorrect: n == correctIndex,
			})
		}

		if len(question.Answers) < 2 {
			log.Printf("Row %d has fewer than 2 answers, skipping", i+1)
			skipped++
			continue
		}

		if err := db.Create(&question).Error; err != nil {
			log.Printf("Error inserting question for quiz %d: %v", quizID, err)
			continue
		}
		inserted++
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", inserted)
	log.Printf("Skipped: %d", skipped)
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
