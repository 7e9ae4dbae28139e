package repository

import (
	"time"

	"coupon_day/internal/domain/mealtoken/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MealTokenRepository interface {
	Create(token *model.MealToken) error
	GetByCode(code string) (*model.MealToken, error)
	GetByID(id string) (*model.MealToken, error)
	CountByPartnership(partnershipID string) (int64, error)
	// MarkExpired 지연 만료 반영. 멱등 (이미 EXPIRED 면 no-op)
	MarkExpired(id string) error
	// CountSelectedToday 해당 쿠폰이 오늘 선택된 횟수 (일일 한도 검사용)
	CountSelectedToday(crossCouponID string, now time.Time) (int64, error)
	// Select 행 잠금 트랜잭션으로 상태 재확인 후 SELECTED 전이
	Select(id string, update func(t *model.MealToken) error) (*model.MealToken, error)
	// Redeem 토큰 REDEEMED 전이와 쿠폰 통계 증분을 단일 트랜잭션으로 수행
	Redeem(id string, redeemedAt time.Time, incrementStats func(tx *gorm.DB) error) error
	// GetByCustomer 고객 토큰 목록 (만료 일괄 반영 포함)
	GetByCustomer(customerID string, status string, limit, offset int) ([]model.MealToken, int64, error)
	GetCustomerToken(customerID, tokenID string) (*model.MealToken, error)
	// ExpireOverdue 고객의 기한 경과 토큰 일괄 EXPIRED 처리
	ExpireOverdue(customerID string, now time.Time) error
}

type mealTokenRepository struct {
	db *gorm.DB
}

func NewMealTokenRepository(db *gorm.DB) MealTokenRepository {
	return &mealTokenRepository{db: db}
}

func (r *mealTokenRepository) Create(token *model.MealToken) error {
	return r.db.Create(token).Error
}

func (r *mealTokenRepository) GetByCode(code string) (*model.MealToken, error) {
	var token model.MealToken
	err := r.db.Preload("SelectedCrossCoupon").
		First(&token, "token_code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *mealTokenRepository) GetByID(id string) (*model.MealToken, error) {
	var token model.MealToken
	err := r.db.Preload("SelectedCrossCoupon").
		First(&token, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *mealTokenRepository) CountByPartnership(partnershipID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.MealToken{}).
		Where("partnership_id = ?", partnershipID).
		Count(&count).Error
	return count, err
}

func (r *mealTokenRepository) MarkExpired(id string) error {
	return r.db.Model(&model.MealToken{}).
		Where("id = ? AND status IN ?", id, []string{model.StatusIssued, model.StatusSelected}).
		Update("status", model.StatusExpired).Error
}

func (r *mealTokenRepository) CountSelectedToday(crossCouponID string, now time.Time) (int64, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var count int64
	err := r.db.Model(&model.MealToken{}).
		Where("selected_cross_coupon_id = ? AND selected_at >= ?", crossCouponID, startOfDay).
		Count(&count).Error
	return count, err
}

// Select 동시 선택 경쟁을 막기 위해 FOR UPDATE 잠금 후 상태를 재확인한다
func (r *mealTokenRepository) Select(id string, update func(t *model.MealToken) error) (*model.MealToken, error) {
	var result *model.MealToken
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var token model.MealToken
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&token, "id = ?", id).Error; err != nil {
			return err
		}

		if err := update(&token); err != nil {
			return err
		}

		if err := tx.Save(&token).Error; err != nil {
			return err
		}
		result = &token
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Redeem 토큰 사용 처리와 통계 증분은 부분 실패가 없어야 한다
func (r *mealTokenRepository) Redeem(id string, redeemedAt time.Time, incrementStats func(tx *gorm.DB) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.MealToken{}).
			Where("id = ? AND status = ? AND redeemed_at IS NULL", id, model.StatusSelected).
			Updates(map[string]interface{}{
				"status":      model.StatusRedeemed,
				"redeemed_at": redeemedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return incrementStats(tx)
	})
}

func (r *mealTokenRepository) GetByCustomer(customerID string, status string, limit, offset int) ([]model.MealToken, int64, error) {
	q := r.db.Model(&model.MealToken{}).Where("customer_id = ?", customerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tokens []model.MealToken
	err := q.Preload("SelectedCrossCoupon").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&tokens).Error
	return tokens, total, err
}

func (r *mealTokenRepository) GetCustomerToken(customerID, tokenID string) (*model.MealToken, error) {
	var token model.MealToken
	err := r.db.Preload("SelectedCrossCoupon").
		First(&token, "id = ? AND customer_id = ?", tokenID, customerID).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *mealTokenRepository) ExpireOverdue(customerID string, now time.Time) error {
	return r.db.Model(&model.MealToken{}).
		Where("customer_id = ? AND status IN ? AND expires_at < ?",
			customerID, []string{model.StatusIssued, model.StatusSelected}, now).
		Update("status", model.StatusExpired).Error
}
