package repository

import (
	"time"

	"coupon_day/internal/domain/partnership/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PartnershipRepository interface {
	Create(p *model.Partnership) error
	GetByID(id string) (*model.Partnership, error)
	// GetActivePair 종료되지 않은 제휴를 양방향으로 조회 (중복 요청 차단용)
	GetActivePair(storeA, storeB string) (*model.Partnership, error)
	// GetByStore 매장이 당사자인 제휴 전체 (상태 필터 옵션)
	GetByStore(storeID string, status string) ([]model.Partnership, error)
	// GetPartneredStoreIDs 매장과 이미 제휴(상태 무관)된 상대 매장 ID 집합
	GetPartneredStoreIDs(storeID string) ([]string, error)
	GetActiveIDs() ([]string, error)
	// Respond 트랜잭션 + 행 잠금으로 PENDING 상태 검사와 갱신을 원자적으로 수행
	Respond(id string, update func(p *model.Partnership) error) error
}

type partnershipRepository struct {
	db *gorm.DB
}

func NewPartnershipRepository(db *gorm.DB) PartnershipRepository {
	return &partnershipRepository{db: db}
}

func (r *partnershipRepository) Create(p *model.Partnership) error {
	if p.RequestedAt.IsZero() {
		p.RequestedAt = time.Now()
	}
	return r.db.Create(p).Error
}

func (r *partnershipRepository) GetByID(id string) (*model.Partnership, error) {
	var p model.Partnership
	err := r.db.
		Preload("DistributorStore").Preload("DistributorStore.Category").
		Preload("ProviderStore").Preload("ProviderStore.Category").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *partnershipRepository) GetActivePair(storeA, storeB string) (*model.Partnership, error) {
	var p model.Partnership
	err := r.db.
		Where("status <> ?", model.StatusTerminated).
		Where("(distributor_store_id = ? AND provider_store_id = ?) OR (distributor_store_id = ? AND provider_store_id = ?)",
			storeA, storeB, storeB, storeA).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *partnershipRepository) GetByStore(storeID string, status string) ([]model.Partnership, error) {
	var list []model.Partnership
	q := r.db.
		Preload("DistributorStore").Preload("DistributorStore.Category").
		Preload("ProviderStore").Preload("ProviderStore.Category").
		Where("distributor_store_id = ? OR provider_store_id = ?", storeID, storeID).
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *partnershipRepository) GetPartneredStoreIDs(storeID string) ([]string, error) {
	var pairs []model.Partnership
	err := r.db.
		Select("distributor_store_id", "provider_store_id").
		Where("distributor_store_id = ? OR provider_store_id = ?", storeID, storeID).
		Find(&pairs).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	ids := make([]string, 0, len(pairs))
	for _, p := range pairs {
		for _, id := range []string{p.DistributorStoreID, p.ProviderStoreID} {
			if id == storeID {
				continue
			}
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func (r *partnershipRepository) GetActiveIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&model.Partnership{}).
		Where("status = ?", model.StatusActive).
		Pluck("id", &ids).Error
	return ids, err
}

// Respond 동시 응답 경쟁을 막기 위해 SELECT ... FOR UPDATE 로 행을 잠근 뒤
// 검증/갱신을 한 트랜잭션에서 수행한다
func (r *partnershipRepository) Respond(id string, update func(p *model.Partnership) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var p model.Partnership
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "id = ?", id).Error; err != nil {
			return err
		}

		if err := update(&p); err != nil {
			return err
		}

		return tx.Save(&p).Error
	})
}
