// Package testutil holds helpers shared by the package tests: an isolated
// in-memory database per test, catalog and roster fixtures, and request helpers.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/vnkhanh/pesquisa-clima/config"
	"github.com/vnkhanh/pesquisa-clima/models"
)

// TestSecret signs session cookies in tests.
var TestSecret = []byte("test-session-secret")

var dbSeq atomic.Int64

// SetupTestDB opens a fresh migrated sqlite database private to t.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, dbSeq.Add(1))

	db, err := config.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// RatingOptions are the choices of the eight numeric questions, worst first.
var RatingOptions = []models.Option{
	{Label: "Péssimo", Value: "1"},
	{Label: "Ruim", Value: "2"},
	{Label: "Regular", Value: "3"},
	{Label: "Bom", Value: "4"},
	{Label: "Ótimo", Value: "5"},
}

// SeedCatalog creates the ten-question catalog: eight 1..5 ratings, one yes/no
// question and one free-text question.
func SeedCatalog(t *testing.T, db *gorm.DB) []models.Question {
	t.Helper()

	questions := make([]models.Question, 0, 10)
	for i := 1; i <= 8; i++ {
		q := models.Question{Text: fmt.Sprintf("Pergunta %d", i), OrderIndex: i}
		for j, o := range RatingOptions {
			q.Options = append(q.Options, models.Option{Label: o.Label, Value: o.Value, OrderIndex: j + 1})
		}
		questions = append(questions, q)
	}
	questions = append(questions,
		models.Question{Text: "Você recomendaria a empresa?", OrderIndex: 9, Options: []models.Option{
			{Label: "Sim", Value: "Sim", OrderIndex: 1},
			{Label: "Não", Value: "Não", OrderIndex: 2},
		}},
		models.Question{Text: "Comentários", OrderIndex: 10},
	)

	if err := db.Create(&questions).Error; err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}
	return questions
}

// CreateRespondent adds an employee who has not answered yet.
func CreateRespondent(t *testing.T, db *gorm.DB, cpf, birthDate string) models.Respondent {
	t.Helper()

	r := models.Respondent{Identifier: cpf, BirthDate: birthDate}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("Failed to create respondent: %v", err)
	}
	return r
}

func CreateAdmin(t *testing.T, db *gorm.DB, username, password string) models.Admin {
	t.Helper()

	a := models.Admin{Username: username, Password: password}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("Failed to create admin: %v", err)
	}
	return a
}

// ValidAnswers returns a complete submission with every rating set to rating.
func ValidAnswers(rating string) []string {
	answers := make([]string, 10)
	for i := 0; i < 8; i++ {
		answers[i] = rating
	}
	answers[8] = "Sim"
	answers[9] = "Tudo certo"
	return answers
}

// FormRequest builds a urlencoded POST request.
func FormRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// AnswerForm maps answers onto the resposta1..N form fields.
func AnswerForm(answers []string) url.Values {
	form := url.Values{}
	for i, a := range answers {
		form.Set(fmt.Sprintf("resposta%d", i+1), a)
	}
	return form
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertRedirect checks for a 303 pointing at location.
func AssertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	AssertStatus(t, w, http.StatusSeeOther)
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %q, got %q", location, got)
	}
}

// Cookie returns the named cookie set by the response, or nil.
func Cookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
