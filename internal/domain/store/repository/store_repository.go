package repository

import (
	"coupon_day/internal/domain/store/model"

	"gorm.io/gorm"
)

type StoreRepository interface {
	GetByID(id string) (*model.Store, error)
	GetByIDs(ids []string) ([]model.Store, error)
	// GetCandidates 추천 후보 조회: ACTIVE + 다른 카테고리 + 제외 목록 밖
	GetCandidates(excludeIDs []string, excludeCategoryID string, limit int) ([]model.Store, error)
	Update(store *model.Store) error
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) GetByID(id string) (*model.Store, error) {
	var store model.Store
	if err := r.db.Preload("Category").First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) GetByIDs(ids []string) ([]model.Store, error) {
	var stores []model.Store
	if len(ids) == 0 {
		return stores, nil
	}
	err := r.db.Preload("Category").Where("id IN ?", ids).Find(&stores).Error
	return stores, err
}

func (r *storeRepository) GetCandidates(excludeIDs []string, excludeCategoryID string, limit int) ([]model.Store, error) {
	var stores []model.Store
	q := r.db.Preload("Category").
		Where("status = ?", model.StoreStatusActive).
		Where("category_id <> ?", excludeCategoryID)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	err := q.Limit(limit).Find(&stores).Error
	return stores, err
}

func (r *storeRepository) Update(store *model.Store) error {
	return r.db.Save(store).Error
}
