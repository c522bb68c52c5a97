package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/pesquisa-clima/models"
)

// SurveyService owns the respondent side of the survey: login and the one-time submission.
type SurveyService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSurveyService(db *gorm.DB) *SurveyService {
	return &SurveyService{db: db, now: time.Now}
}

// Authenticate finds the respondent matching identifier and birthdate and checks that
// they may still answer.
func (s *SurveyService) Authenticate(ctx context.Context, identifier, birthDate string) (*models.Respondent, error) {
	identifier = strings.TrimSpace(identifier)
	birthDate = strings.TrimSpace(birthDate)

	if identifier == "" || !isDigits(identifier) {
		return nil, &ValidationError{Message: "Use somente números no campo CPF."}
	}
	if birthDate == "" {
		return nil, &ValidationError{Message: "Informe a data de nascimento."}
	}

	var r models.Respondent
	err := s.db.WithContext(ctx).
		Where("cpf = ? AND data_nascimento = ?", identifier, birthDate).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotEligibleError{Reason: ReasonNotFound}
	}
	if err != nil {
		return nil, storageErr("find respondent", err)
	}
	if r.Completed {
		return nil, &NotEligibleError{Reason: ReasonAlreadyResponded}
	}
	return &r, nil
}

// Respondent loads one respondent by primary key.
func (s *SurveyService) Respondent(ctx context.Context, id uint) (*models.Respondent, error) {
	var r models.Respondent
	err := s.db.WithContext(ctx).First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotEligibleError{Reason: ReasonNotFound}
	}
	if err != nil {
		return nil, storageErr("load respondent", err)
	}
	return &r, nil
}

// Submit records the ten answers of a respondent and marks them as completed.
// Both writes happen in one transaction; the completion flag is flipped with a
// conditional update so that concurrent submissions for the same respondent
// cannot both insert a response.
func (s *SurveyService) Submit(ctx context.Context, respondentID uint, answers []string) (*models.Response, error) {
	if err := validateAnswers(answers); err != nil {
		return nil, err
	}

	var resp models.Response
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&models.Question{}).
			Order("order_index ASC, id ASC").
			Pluck("id", &questionIDs).Error; err != nil {
			return storageErr("load catalog", err)
		}
		if len(questionIDs) != SlotCount {
			return storageErr("load catalog", fmt.Errorf("catalog has %d questions, want %d", len(questionIDs), SlotCount))
		}

		now := s.now()
		res := tx.Model(&models.Respondent{}).
			Where("id = ? AND respondeu = ?", respondentID, false).
			Updates(map[string]interface{}{"respondeu": true, "respondido_em": now})
		if res.Error != nil {
			return storageErr("mark respondent", res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Respondent{}).Where("id = ?", respondentID).Count(&count).Error; err != nil {
				return storageErr("load respondent", err)
			}
			if count == 0 {
				return &NotEligibleError{Reason: ReasonNotFound}
			}
			return &NotEligibleError{Reason: ReasonAlreadyResponded}
		}

		resp = models.Response{RespondentID: respondentID, SubmittedAt: now}
		if err := tx.Omit(clause.Associations).Create(&resp).Error; err != nil {
			return storageErr("insert response", err)
		}

		rows := make([]models.ResponseAnswer, SlotCount)
		for i, qid := range questionIDs {
			rows[i] = models.ResponseAnswer{
				ResponseID: resp.ID,
				QuestionID: qid,
				Answer:     strings.TrimSpace(answers[i]),
			}
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return storageErr("insert answers", err)
		}
		resp.Answers = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func validateAnswers(answers []string) error {
	var missing []int
	for i := 0; i < SlotCount; i++ {
		if i >= len(answers) || strings.TrimSpace(answers[i]) == "" {
			missing = append(missing, i+1)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Message: "Por favor, responda todas as perguntas.", Slots: missing}
	}
	if len(answers) != SlotCount {
		return &ValidationError{Message: fmt.Sprintf("Esperadas %d respostas, recebidas %d.", SlotCount, len(answers))}
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
