package handler

import (
	"errors"
	"time"

	pRepo "coupon_day/internal/domain/partnership/repository"
	"coupon_day/internal/domain/settlement/repository"
	"coupon_day/internal/domain/settlement/service"
	"coupon_day/internal/pkg/middleware"
	"coupon_day/pkg/apperr"
	"coupon_day/pkg/response"
	"coupon_day/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SettlementHandler struct {
	service      service.SettlementService
	repo         repository.SettlementRepository
	partnerships pRepo.PartnershipRepository
}

func NewSettlementHandler(
	s service.SettlementService,
	repo repository.SettlementRepository,
	partnerships pRepo.PartnershipRepository,
) *SettlementHandler {
	return &SettlementHandler{service: s, repo: repo, partnerships: partnerships}
}

type periodQuery struct {
	Year  int `form:"year" binding:"required,min=2000,max=9999"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// 정산 조회/생성은 파트너십 당사자만 가능
func (h *SettlementHandler) authorizeParty(c *gin.Context, partnershipID string) bool {
	storeID := middleware.GetStoreID(c)

	partnership, err := h.partnerships.GetByID(partnershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.FromError(c, apperr.NotFound("파트너십을 찾을 수 없습니다"))
		} else {
			response.FromError(c, err)
		}
		return false
	}
	if !partnership.IsParty(storeID) {
		response.FromError(c, apperr.Forbidden("파트너십 당사자만 조회할 수 있습니다"))
		return false
	}
	return true
}

// CalculateSettlement 정산 미리보기 (저장 없음)
// @Summary 정산 계산
// @Tags Settlement
// @Produce json
// @Param id path string true "Partnership ID"
// @Param year query int true "연도"
// @Param month query int true "월"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /partnerships/{id}/settlements/preview [get]
func (h *SettlementHandler) CalculateSettlement(c *gin.Context) {
	partnershipID := c.Param("id")

	var q periodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, response.ErrInvalidParam, "정산 기간이 올바르지 않습니다")
		return
	}
	if !h.authorizeParty(c, partnershipID) {
		return
	}

	summary, err := h.service.CalculateSettlement(partnershipID, q.Year, q.Month)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, summary)
}

// GetOrCreateSettlement 월 정산 조회/생성 (멱등)
// @Summary 정산 생성
// @Tags Settlement
// @Accept json
// @Produce json
// @Param id path string true "Partnership ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /partnerships/{id}/settlements [post]
func (h *SettlementHandler) GetOrCreateSettlement(c *gin.Context) {
	partnershipID := c.Param("id")

	var req struct {
		Year  int `json:"year" binding:"required,min=2000,max=9999"`
		Month int `json:"month" binding:"required,min=1,max=12"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidParam, "정산 기간이 올바르지 않습니다")
		return
	}
	if !h.authorizeParty(c, partnershipID) {
		return
	}

	settlement, created, err := h.service.GetOrCreateSettlement(partnershipID, req.Year, req.Month)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{
		"settlement": settlement,
		"created":    created,
	})
}

// GetMySettlements 내 매장의 정산 목록
// @Summary 정산 목록
// @Tags Settlement
// @Produce json
// @Param year query int false "연도 필터"
// @Param partnershipId query string false "파트너십 필터"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /settlements [get]
func (h *SettlementHandler) GetMySettlements(c *gin.Context) {
	storeID := middleware.GetStoreID(c)

	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Fail(c, response.ErrInvalidParam, "페이지 파라미터가 올바르지 않습니다")
		return
	}
	offset, limit := page.GetPageOffset()
	// 월 단위 목록이므로 기본 1년치
	if c.Query("limit") == "" {
		limit = 12
	}

	opts := repository.ListOptions{
		PartnershipID: c.Query("partnershipId"),
		Limit:         limit,
		Offset:        offset,
	}
	var yq struct {
		Year *int `form:"year" binding:"omitempty,min=2000,max=9999"`
	}
	if err := c.ShouldBindQuery(&yq); err != nil {
		response.Fail(c, response.ErrInvalidParam, "연도 필터가 올바르지 않습니다")
		return
	}
	opts.Year = yq.Year

	settlements, total, err := h.service.GetStoreSettlements(storeID, opts)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, utils.PageResult{
		List:  settlements,
		Total: total,
		Page:  page.Page,
		Limit: limit,
	})
}

type updateStatusRequest struct {
	Status string     `json:"status" binding:"required,oneof=PENDING CONFIRMED PAID"`
	PaidAt *time.Time `json:"paidAt"`
}

// UpdateSettlementStatus 정산 상태 변경 (PENDING→CONFIRMED→PAID)
// @Summary 정산 상태 변경
// @Tags Settlement
// @Accept json
// @Produce json
// @Param id path string true "Settlement ID"
// @Param request body updateStatusRequest true "상태 변경 요청"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /settlements/{id}/status [put]
func (h *SettlementHandler) UpdateSettlementStatus(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	settlementID := c.Param("id")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidParam, "요청 형식이 올바르지 않습니다")
		return
	}

	// 당사자 검증
	existing, err := h.repo.GetByID(settlementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.FromError(c, apperr.NotFound("정산 정보를 찾을 수 없습니다"))
		} else {
			response.FromError(c, err)
		}
		return
	}
	if existing.Partnership == nil || !existing.Partnership.IsParty(storeID) {
		response.FromError(c, apperr.Forbidden("파트너십 당사자만 변경할 수 있습니다"))
		return
	}

	settlement, err := h.service.UpdateSettlementStatus(settlementID, req.Status, req.PaidAt)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, settlement)
}
