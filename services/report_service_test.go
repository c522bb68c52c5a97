package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vnkhanh/pesquisa-clima/models"
	"github.com/vnkhanh/pesquisa-clima/testutil"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestReportEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedCatalog(t, db)
	testutil.CreateRespondent(t, db, "1", "1990-01-01")

	rep, err := NewReportService(db).Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(rep.Rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rep.Rows))
	}
	for i, a := range rep.Averages {
		if a.Valid || a.Value != 0 {
			t.Errorf("Slot %d: expected empty average, got %+v", i+1, a)
		}
	}
	// eight rating questions plus the yes/no question
	if len(rep.Charts) != 9 {
		t.Fatalf("Expected 9 charts, got %d", len(rep.Charts))
	}
	for _, cd := range rep.Charts {
		for _, tally := range cd.Tallies {
			if tally.Count != 0 {
				t.Errorf("Question %d option %q: expected 0, got %d", cd.QuestionID, tally.Label, tally.Count)
			}
		}
	}
	if rep.TotalRespondents != 1 || rep.CompletedRespondents != 0 {
		t.Errorf("Expected 1 respondent / 0 completed, got %d / %d", rep.TotalRespondents, rep.CompletedRespondents)
	}
}

func TestReportAveragesTalliesAndOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedCatalog(t, db)

	svc := NewSurveyService(db)
	base := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	ratings := []string{"4", "5", "3"}
	var ids []uint
	for i, rating := range ratings {
		r := testutil.CreateRespondent(t, db, string(rune('1'+i)), "1990-01-01")
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }

		answers := testutil.ValidAnswers(rating)
		if i == 1 {
			answers[8] = "Não"
		}
		resp, err := svc.Submit(context.Background(), r.ID, answers)
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		ids = append(ids, resp.ID)
	}

	rep, err := NewReportService(db).Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	for i, a := range rep.Averages {
		if !a.Valid || a.Value != 4.0 {
			t.Errorf("Slot %d: expected average 4.00, got %+v", i+1, a)
		}
	}

	if len(rep.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rep.Rows))
	}
	for i, want := range []uint{ids[2], ids[1], ids[0]} {
		if rep.Rows[i].ID != want {
			t.Errorf("Row %d: expected response %d, got %d", i, want, rep.Rows[i].ID)
		}
	}
	if rep.Rows[0].Answers[0] != "3" || rep.Rows[0].Answers[9] != "Tudo certo" {
		t.Errorf("Unexpected newest row answers: %v", rep.Rows[0].Answers)
	}

	first := rep.Charts[0]
	wantCounts := []int{0, 0, 1, 1, 1}
	for i, tally := range first.Tallies {
		if tally.Label != testutil.RatingOptions[i].Label || tally.Count != wantCounts[i] {
			t.Errorf("Option %d: got %s=%d, want %s=%d", i, tally.Label, tally.Count, testutil.RatingOptions[i].Label, wantCounts[i])
		}
	}

	yesNo := rep.Charts[8]
	if yesNo.Tallies[0].Label != "Sim" || yesNo.Tallies[0].Count != 2 ||
		yesNo.Tallies[1].Label != "Não" || yesNo.Tallies[1].Count != 1 {
		t.Errorf("Unexpected yes/no tallies: %+v", yesNo.Tallies)
	}

	if rep.CompletedRespondents != 3 {
		t.Errorf("Expected 3 completed respondents, got %d", rep.CompletedRespondents)
	}
}

func TestSlotAveragesSkipNonNumeric(t *testing.T) {
	row := func(v string) ResponseRow {
		var r ResponseRow
		for i := 0; i < NumericSlots; i++ {
			r.Answers[i] = v
		}
		return r
	}

	tests := []struct {
		name   string
		values []string
		want   Average
	}{
		{"no rows", nil, Average{}},
		{"integers", []string{"4", "5", "3"}, Average{Value: 4, Valid: true}},
		{"rounds to two places", []string{"1", "2", "2"}, Average{Value: 1.67, Valid: true}},
		{"ignores text", []string{"5", "Bom", "3"}, Average{Value: 4, Valid: true}},
		{"only text", []string{"Sim", "Não"}, Average{}},
		{"ignores NaN", []string{"NaN", "2"}, Average{Value: 2, Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []ResponseRow
			for _, v := range tt.values {
				rows = append(rows, row(v))
			}
			got := slotAverages(rows)
			for slot, a := range got {
				if a != tt.want {
					t.Errorf("Slot %d: got %+v, want %+v", slot+1, a, tt.want)
				}
			}
		})
	}
}

func TestPublishAndChart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedCatalog(t, db)
	svc := NewReportService(db)
	ctx := context.Background()

	rep, err := svc.Report(ctx)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	refs, err := svc.Publish(ctx, rep)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(refs) != len(rep.Charts) {
		t.Fatalf("Expected %d chart refs, got %d", len(rep.Charts), len(refs))
	}
	for i, ref := range refs {
		if ref.QuestionID != rep.Charts[i].QuestionID {
			t.Errorf("Ref %d: expected question %d, got %d", i, rep.Charts[i].QuestionID, ref.QuestionID)
		}
	}

	png, err := svc.Chart(ctx, refs[0].ID)
	if err != nil {
		t.Fatalf("Chart: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("Expected PNG bytes")
	}

	for _, id := range []string{"not-a-uuid", "4f1c2a8e-3b7d-4c55-9e61-0a2b3c4d5e6f"} {
		if _, err := svc.Chart(ctx, id); !errors.Is(err, ErrChartNotFound) {
			t.Errorf("Chart(%q): expected ErrChartNotFound, got %v", id, err)
		}
	}
}

func TestPublishPrunesExpiredCharts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedCatalog(t, db)
	svc := NewReportService(db)
	ctx := context.Background()

	rep, err := svc.Report(ctx)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	old, err := svc.Publish(ctx, rep)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(ChartRetention + time.Minute) }
	fresh, err := svc.Publish(ctx, rep)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if _, err := svc.Chart(ctx, old[0].ID); !errors.Is(err, ErrChartNotFound) {
		t.Errorf("Expected expired chart to be gone, got %v", err)
	}
	if _, err := svc.Chart(ctx, fresh[0].ID); err != nil {
		t.Errorf("Expected fresh chart to be stored: %v", err)
	}

	var count int64
	db.Model(&models.ReportChart{}).Count(&count)
	if count != int64(len(fresh)) {
		t.Errorf("Expected %d stored charts, got %d", len(fresh), count)
	}
}
