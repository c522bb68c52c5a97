package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/pesquisa-clima/charts"
	"github.com/vnkhanh/pesquisa-clima/models"
)

// ChartRetention is how long rendered charts stay fetchable after a dashboard load.
const ChartRetention = time.Hour

// Average is the mean of one numeric slot. Valid is false when the slot had no
// numeric values; templates render that as 0.
type Average struct {
	Value float64
	Valid bool
}

type OptionTally struct {
	Label string
	Value string
	Count int
}

type ChartData struct {
	QuestionID   uint
	QuestionText string
	Tallies      []OptionTally
}

type ResponseRow struct {
	ID          uint
	SubmittedAt time.Time
	Answers     [SlotCount]string
}

type Report struct {
	Questions            []models.Question
	Averages             [NumericSlots]Average
	Charts               []ChartData
	Rows                 []ResponseRow
	TotalRespondents     int64
	CompletedRespondents int64
}

// ChartRef points at a persisted chart image.
type ChartRef struct {
	ID           string
	QuestionID   uint
	QuestionText string
}

type ReportService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db, now: time.Now}
}

// Report aggregates every stored response: per-slot averages, per-option tallies in
// catalog order and the raw rows, most recent first.
func (s *ReportService) Report(ctx context.Context) (*Report, error) {
	db := s.db.WithContext(ctx)

	questions, err := loadQuestions(db)
	if err != nil {
		return nil, err
	}

	var responses []models.Response
	if err := db.
		Preload("Answers").
		Order("data_resposta DESC, id DESC").
		Find(&responses).Error; err != nil {
		return nil, storageErr("load responses", err)
	}

	slotOf := make(map[uint]int, len(questions))
	for i, q := range questions {
		if i < SlotCount {
			slotOf[q.ID] = i
		}
	}

	rep := &Report{Questions: questions, Rows: make([]ResponseRow, 0, len(responses))}
	for _, r := range responses {
		row := ResponseRow{ID: r.ID, SubmittedAt: r.SubmittedAt}
		for _, a := range r.Answers {
			if slot, ok := slotOf[a.QuestionID]; ok {
				row.Answers[slot] = a.Answer
			}
		}
		rep.Rows = append(rep.Rows, row)
	}
	rep.Averages = slotAverages(rep.Rows)

	counts, err := s.answerCounts(db)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		if len(q.Options) == 0 {
			continue
		}
		cd := ChartData{QuestionID: q.ID, QuestionText: q.Text, Tallies: make([]OptionTally, 0, len(q.Options))}
		for _, o := range q.Options {
			cd.Tallies = append(cd.Tallies, OptionTally{
				Label: o.Label,
				Value: o.Value,
				Count: counts[answerKey{QuestionID: q.ID, Answer: o.Value}],
			})
		}
		rep.Charts = append(rep.Charts, cd)
	}

	if err := db.Model(&models.Respondent{}).Count(&rep.TotalRespondents).Error; err != nil {
		return nil, storageErr("count respondents", err)
	}
	if err := db.Model(&models.Respondent{}).Where("respondeu = ?", true).Count(&rep.CompletedRespondents).Error; err != nil {
		return nil, storageErr("count respondents", err)
	}
	return rep, nil
}

type answerKey struct {
	QuestionID uint
	Answer     string
}

func (s *ReportService) answerCounts(db *gorm.DB) (map[answerKey]int, error) {
	var rows []struct {
		QuestionID uint
		Answer     string
		Count      int
	}
	if err := db.Model(&models.ResponseAnswer{}).
		Select("question_id, answer, COUNT(*) AS count").
		Group("question_id, answer").
		Scan(&rows).Error; err != nil {
		return nil, storageErr("count answers", err)
	}
	out := make(map[answerKey]int, len(rows))
	for _, r := range rows {
		out[answerKey{QuestionID: r.QuestionID, Answer: r.Answer}] = r.Count
	}
	return out, nil
}

// slotAverages computes the mean of each numeric slot. Values that do not parse as a
// number are left out of that slot's mean.
func slotAverages(rows []ResponseRow) [NumericSlots]Average {
	var out [NumericSlots]Average
	for slot := 0; slot < NumericSlots; slot++ {
		var sum float64
		var n int
		for _, r := range rows {
			v, err := strconv.ParseFloat(strings.TrimSpace(r.Answers[slot]), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			sum += v
			n++
		}
		if n > 0 {
			out[slot] = Average{Value: math.Round(sum/float64(n)*100) / 100, Valid: true}
		}
	}
	return out
}

// Publish renders one pie chart per chart entry, stores them under a fresh generation
// id and drops charts older than ChartRetention.
func (s *ReportService) Publish(ctx context.Context, rep *Report) ([]ChartRef, error) {
	generation := uuid.NewString()
	records := make([]models.ReportChart, 0, len(rep.Charts))
	refs := make([]ChartRef, 0, len(rep.Charts))

	for _, cd := range rep.Charts {
		labels := make([]string, len(cd.Tallies))
		counts := make([]int, len(cd.Tallies))
		for i, t := range cd.Tallies {
			labels[i] = t.Label
			counts[i] = t.Count
		}
		png, err := charts.RenderPie(labels, counts)
		if err != nil {
			return nil, fmt.Errorf("render chart for question %d: %w", cd.QuestionID, err)
		}
		rec := models.ReportChart{
			ID:           uuid.NewString(),
			GenerationID: generation,
			QuestionID:   cd.QuestionID,
			QuestionText: cd.QuestionText,
			PNG:          png,
		}
		records = append(records, rec)
		refs = append(refs, ChartRef{ID: rec.ID, QuestionID: rec.QuestionID, QuestionText: rec.QuestionText})
	}

	cutoff := s.now().Add(-ChartRetention)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("created_at < ?", cutoff).Delete(&models.ReportChart{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return nil, storageErr("store charts", err)
	}
	return refs, nil
}

// Chart returns the PNG bytes of a stored chart.
func (s *ReportService) Chart(ctx context.Context, id string) ([]byte, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrChartNotFound
	}
	var rec models.ReportChart
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChartNotFound
	}
	if err != nil {
		return nil, storageErr("load chart", err)
	}
	return rec.PNG, nil
}
