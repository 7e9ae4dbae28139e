package handler

import (
	"coupon_day/internal/domain/partnership/scoring"
	"coupon_day/internal/domain/partnership/service"
	"coupon_day/internal/pkg/middleware"
	"coupon_day/pkg/response"

	"github.com/gin-gonic/gin"
)

type PartnershipHandler struct {
	matching service.MatchingService
	service  service.PartnershipService
}

func NewPartnershipHandler(matching service.MatchingService, s service.PartnershipService) *PartnershipHandler {
	return &PartnershipHandler{matching: matching, service: s}
}

type recommendationQuery struct {
	Role  string `form:"role" binding:"omitempty,oneof=distributor provider"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`

	// 가중치 오버라이드. 넷 다 주어진 경우에만 적용하며 합이 100 이어야 한다
	WeightCategory *int `form:"weightCategory" binding:"omitempty,min=0,max=100"`
	WeightDistance *int `form:"weightDistance" binding:"omitempty,min=0,max=100"`
	WeightPrice    *int `form:"weightPrice" binding:"omitempty,min=0,max=100"`
	WeightPeak     *int `form:"weightPeak" binding:"omitempty,min=0,max=100"`
}

// GetRecommendations 제휴 후보 추천 목록
// @Summary 파트너 추천
// @Tags Partnership
// @Produce json
// @Param role query string false "distributor | provider"
// @Param limit query int false "최대 추천 수"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /partnerships/recommendations [get]
func (h *PartnershipHandler) GetRecommendations(c *gin.Context) {
	storeID := middleware.GetStoreID(c)

	var q recommendationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, response.ErrInvalidParam, "요청 파라미터가 올바르지 않습니다")
		return
	}

	var weights *scoring.Weights
	if q.WeightCategory != nil && q.WeightDistance != nil && q.WeightPrice != nil && q.WeightPeak != nil {
		weights = &scoring.Weights{
			CategoryTransition: *q.WeightCategory,
			Distance:           *q.WeightDistance,
			PriceSimilarity:    *q.WeightPrice,
			PeakTimeAlignment:  *q.WeightPeak,
		}
	}

	recommendations, err := h.matching.GetRecommendations(storeID, q.Role, q.Limit, weights)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{
		"recommendations": recommendations,
		"total":           len(recommendations),
	})
}

type requestPartnershipRequest struct {
	TargetStoreID string `json:"targetStoreId" binding:"required,uuid"`
}

// RequestPartnership 제휴 요청 생성
// @Summary 파트너십 요청
// @Tags Partnership
// @Accept json
// @Produce json
// @Param request body requestPartnershipRequest true "요청"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /partnerships [post]
func (h *PartnershipHandler) RequestPartnership(c *gin.Context) {
	storeID := middleware.GetStoreID(c)

	var req requestPartnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidParam, "요청 형식이 올바르지 않습니다")
		return
	}

	partnership, err := h.service.RequestPartnership(storeID, req.TargetStoreID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, partnership)
}

type respondRequest struct {
	Accept bool `json:"accept"`
}

// RespondToPartnership 받은 제휴 요청에 응답 (수락/거절)
// @Summary 파트너십 응답
// @Tags Partnership
// @Accept json
// @Produce json
// @Param id path string true "Partnership ID"
// @Param request body respondRequest true "응답"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /partnerships/{id}/respond [post]
func (h *PartnershipHandler) RespondToPartnership(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	partnershipID := c.Param("id")

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidParam, "요청 형식이 올바르지 않습니다")
		return
	}

	partnership, err := h.service.RespondToPartnership(partnershipID, storeID, req.Accept)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, partnership)
}

// GetPartnerships 내 매장의 제휴 목록 (활성 쿠폰/발급 토큰 수 포함)
// @Summary 파트너십 목록
// @Tags Partnership
// @Produce json
// @Param status query string false "상태 필터"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /partnerships [get]
func (h *PartnershipHandler) GetPartnerships(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	status := c.Query("status")

	partnerships, err := h.service.GetPartnerships(storeID, status)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{
		"partnerships": partnerships,
		"total":        len(partnerships),
	})
}
