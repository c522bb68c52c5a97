// Package seed loads the respondent roster, admin accounts and question
// catalog from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vnkhanh/pesquisa-clima/models"
	"github.com/vnkhanh/pesquisa-clima/services"
)

type File struct {
	Admins      []AdminEntry      `yaml:"admins"`
	Respondents []RespondentEntry `yaml:"respondents"`
	Questions   []QuestionEntry   `yaml:"questions"`
}

type AdminEntry struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type RespondentEntry struct {
	CPF       string `yaml:"cpf"`
	BirthDate string `yaml:"birthdate"`
}

type QuestionEntry struct {
	Text    string        `yaml:"text"`
	Options []OptionEntry `yaml:"options"`
}

type OptionEntry struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// ErrCatalogLocked is returned by ApplyStrict when the file changes the catalog after
// responses were recorded.
var ErrCatalogLocked = errors.New("seed: catalog cannot change after responses were recorded")

func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	for i, a := range f.Admins {
		if strings.TrimSpace(a.Username) == "" || a.Password == "" {
			return fmt.Errorf("seed: admin #%d needs username and password", i+1)
		}
	}
	for i, r := range f.Respondents {
		cpf := strings.TrimSpace(r.CPF)
		if cpf == "" || strings.Trim(cpf, "0123456789") != "" {
			return fmt.Errorf("seed: respondent #%d has a non-numeric cpf %q", i+1, r.CPF)
		}
		if strings.TrimSpace(r.BirthDate) == "" {
			return fmt.Errorf("seed: respondent %s has no birthdate", cpf)
		}
	}
	if len(f.Questions) > 0 && len(f.Questions) != services.SlotCount {
		return fmt.Errorf("seed: catalog must have %d questions, got %d", services.SlotCount, len(f.Questions))
	}
	for i, q := range f.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("seed: question #%d has no text", i+1)
		}
	}
	return nil
}

// Apply upserts admins and respondents by their unique key and replaces the
// catalog while no responses exist. Once responses exist a differing catalog is
// left in place with a warning. A respondent's completion flag is never touched.
func Apply(ctx context.Context, db *gorm.DB, f *File) error {
	return apply(ctx, db, f, false)
}

// ApplyStrict is Apply, except that a catalog change after responses were recorded
// fails with ErrCatalogLocked and nothing is written.
func ApplyStrict(ctx context.Context, db *gorm.DB, f *File) error {
	return apply(ctx, db, f, true)
}

func apply(ctx context.Context, db *gorm.DB, f *File, strict bool) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range f.Admins {
			admin := models.Admin{Username: strings.TrimSpace(a.Username), Password: a.Password}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "username"}},
				DoUpdates: clause.AssignmentColumns([]string{"password"}),
			}).Create(&admin).Error
			if err != nil {
				return fmt.Errorf("upsert admin %s: %w", admin.Username, err)
			}
		}

		for _, r := range f.Respondents {
			resp := models.Respondent{Identifier: strings.TrimSpace(r.CPF), BirthDate: strings.TrimSpace(r.BirthDate)}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "cpf"}},
				DoUpdates: clause.AssignmentColumns([]string{"data_nascimento"}),
			}).Create(&resp).Error
			if err != nil {
				return fmt.Errorf("upsert respondent %s: %w", resp.Identifier, err)
			}
		}

		if len(f.Questions) == 0 {
			return nil
		}

		var responses int64
		if err := tx.Model(&models.Response{}).Count(&responses).Error; err != nil {
			return fmt.Errorf("count responses: %w", err)
		}
		if responses == 0 {
			return replaceCatalog(tx, f.Questions)
		}

		same, err := catalogMatches(tx, f.Questions)
		if err != nil {
			return err
		}
		switch {
		case same:
			return nil
		case strict:
			return ErrCatalogLocked
		default:
			log.Printf("Warning: seed catalog differs from the stored one; keeping the stored catalog because %d responses exist", responses)
			return nil
		}
	})
}

// catalogMatches reports whether the stored catalog has the same questions and
// options, in order, as entries.
func catalogMatches(tx *gorm.DB, entries []QuestionEntry) (bool, error) {
	var stored []models.Question
	err := tx.
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC, id ASC") }).
		Order("order_index ASC, id ASC").
		Find(&stored).Error
	if err != nil {
		return false, fmt.Errorf("load catalog: %w", err)
	}
	if len(stored) != len(entries) {
		return false, nil
	}
	for i, e := range entries {
		q := stored[i]
		if q.Text != strings.TrimSpace(e.Text) || len(q.Options) != len(e.Options) {
			return false, nil
		}
		for j, o := range e.Options {
			if q.Options[j].Label != o.Label || q.Options[j].Value != o.Value {
				return false, nil
			}
		}
	}
	return true, nil
}

func replaceCatalog(tx *gorm.DB, entries []QuestionEntry) error {
	all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := all.Delete(&models.Option{}).Error; err != nil {
		return fmt.Errorf("clear options: %w", err)
	}
	if err := all.Delete(&models.Question{}).Error; err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}

	for i, e := range entries {
		q := models.Question{Text: strings.TrimSpace(e.Text), OrderIndex: i + 1}
		for j, o := range e.Options {
			q.Options = append(q.Options, models.Option{Label: o.Label, Value: o.Value, OrderIndex: j + 1})
		}
		if err := tx.Create(&q).Error; err != nil {
			return fmt.Errorf("create question %d: %w", i+1, err)
		}
	}
	return nil
}
