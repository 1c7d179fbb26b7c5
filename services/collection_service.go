package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"minicms/models"

	"gorm.io/gorm"
)

type CollectionService struct {
	db *gorm.DB
}

func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{db: db}
}

type CreateCollectionRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
}

func (s *CollectionService) ListCollections(ctx context.Context) ([]models.Collection, error) {
	var collections []models.Collection
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&collections).Error
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return collections, nil
}

func (s *CollectionService) GetCollection(ctx context.Context, collectionID uint) (*models.Collection, error) {
	var collection models.Collection
	err := s.db.WithContext(ctx).
		Preload("Articles", func(db *gorm.DB) *gorm.DB {
			return db.Order("articles.created_at DESC")
		}).
		First(&collection, collectionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("collection", collectionID)
	}
	if err != nil {
		return nil, fmt.Errorf("get collection %d: %w", collectionID, err)
	}
	return &collection, nil
}

func (s *CollectionService) CreateCollection(ctx context.Context, req *CreateCollectionRequest) (*models.Collection, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	collection := models.Collection{
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.db.WithContext(ctx).Create(&collection).Error; err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &collection, nil
}
