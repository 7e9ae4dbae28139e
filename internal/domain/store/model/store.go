package model

import (
	baseModel "coupon_day/pkg/model"
)

// 매장 상태
const (
	StoreStatusActive   = "ACTIVE"
	StoreStatusInactive = "INACTIVE"
)

// Store 매장 모델. 외부 상인 계정이 소유하며 식별자는 불변
type Store struct {
	baseModel.BaseModel
	Name       string  `gorm:"type:varchar(100);not null" json:"name"`
	OwnerID    string  `gorm:"type:uuid;index" json:"ownerId"`
	CategoryID string  `gorm:"type:uuid;index" json:"categoryId"`
	Address    string  `gorm:"type:varchar(255)" json:"address"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Status     string  `gorm:"type:varchar(20);default:'ACTIVE';index" json:"status"`

	// 연관
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// Category 매장 카테고리
type Category struct {
	baseModel.BaseModel
	Name string `gorm:"type:varchar(50);unique;not null" json:"name"`
	Icon string `gorm:"type:varchar(100)" json:"icon,omitempty"`
}

// StoreSummary 파트너십 응답 등에 포함되는 매장 요약
type StoreSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Address  string `json:"address,omitempty"`
}

// Summary 매장 요약 변환
func (s *Store) Summary() StoreSummary {
	sum := StoreSummary{
		ID:      s.ID,
		Name:    s.Name,
		Address: s.Address,
	}
	if s.Category != nil {
		sum.Category = s.Category.Name
	}
	return sum
}

// CategoryName 카테고리가 없으면 빈 문자열 (전환율 테이블에서 기본값 처리)
func (s *Store) CategoryName() string {
	if s.Category == nil {
		return ""
	}
	return s.Category.Name
}
