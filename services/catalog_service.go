package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/vnkhanh/pesquisa-clima/models"
)

const (
	// SlotCount is the number of answers every submission carries.
	SlotCount = 10
	// NumericSlots is how many leading slots hold numeric ratings.
	NumericSlots = 8
)

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// Questions returns the catalog in display order with options preloaded.
func (s *CatalogService) Questions(ctx context.Context) ([]models.Question, error) {
	return loadQuestions(s.db.WithContext(ctx))
}

func loadQuestions(db *gorm.DB) ([]models.Question, error) {
	var questions []models.Question
	err := db.
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC, id ASC") }).
		Order("order_index ASC, id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, storageErr("load catalog", err)
	}
	return questions, nil
}
