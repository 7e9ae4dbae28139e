package handler

import (
	"coupon_day/internal/domain/crosscoupon/service"
	"coupon_day/internal/pkg/middleware"
	"coupon_day/pkg/response"

	"github.com/gin-gonic/gin"
)

type CrossCouponHandler struct {
	service service.CrossCouponService
}

func NewCrossCouponHandler(s service.CrossCouponService) *CrossCouponHandler {
	return &CrossCouponHandler{service: s}
}

type createRequest struct {
	PartnershipID      string  `json:"partnershipId" binding:"required,uuid"`
	Name               string  `json:"name" binding:"required,max=100"`
	Description        string  `json:"description" binding:"max=500"`
	DiscountType       string  `json:"discountType" binding:"required,oneof=FIXED PERCENTAGE"`
	DiscountValue      int     `json:"discountValue" binding:"required,min=1"`
	RedemptionWindow   string  `json:"redemptionWindow" binding:"omitempty,oneof=same_day next_day within_week"`
	AvailableTimeStart *string `json:"availableTimeStart" binding:"omitempty,len=5"`
	AvailableTimeEnd   *string `json:"availableTimeEnd" binding:"omitempty,len=5"`
	DailyLimit         *int    `json:"dailyLimit" binding:"omitempty,min=1"`
}

// CreateCrossCoupon 크로스 쿠폰 생성 (provider 매장)
// @Summary 크로스 쿠폰 생성
// @Tags CrossCoupon
// @Accept json
// @Produce json
// @Param request body createRequest true "생성 요청"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /cross-coupons [post]
func (h *CrossCouponHandler) CreateCrossCoupon(c *gin.Context) {
	storeID := middleware.GetStoreID(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidParam, "요청 형식이 올바르지 않습니다")
		return
	}

	coupon, err := h.service.CreateCrossCoupon(storeID, service.CreateInput{
		PartnershipID:      req.PartnershipID,
		Name:               req.Name,
		Description:        req.Description,
		DiscountType:       req.DiscountType,
		DiscountValue:      req.DiscountValue,
		RedemptionWindow:   req.RedemptionWindow,
		AvailableTimeStart: req.AvailableTimeStart,
		AvailableTimeEnd:   req.AvailableTimeEnd,
		DailyLimit:         req.DailyLimit,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, coupon)
}

// GetCrossCoupons 내 매장이 걸린 크로스 쿠폰 목록
// @Summary 크로스 쿠폰 목록
// @Tags CrossCoupon
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /cross-coupons [get]
func (h *CrossCouponHandler) GetCrossCoupons(c *gin.Context) {
	storeID := middleware.GetStoreID(c)

	coupons, err := h.service.GetCrossCoupons(storeID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{
		"coupons": coupons,
		"total":   len(coupons),
	})
}

type updateRequest struct {
	Name               *string `json:"name" binding:"omitempty,max=100"`
	Description        *string `json:"description" binding:"omitempty,max=500"`
	DiscountType       *string `json:"discountType" binding:"omitempty,oneof=FIXED PERCENTAGE"`
	DiscountValue      *int    `json:"discountValue" binding:"omitempty,min=1"`
	RedemptionWindow   *string `json:"redemptionWindow" binding:"omitempty,oneof=same_day next_day within_week"`
	AvailableTimeStart *string `json:"availableTimeStart" binding:"omitempty,len=5"`
	AvailableTimeEnd   *string `json:"availableTimeEnd" binding:"omitempty,len=5"`
	DailyLimit         *int    `json:"dailyLimit" binding:"omitempty,min=1"`
	IsActive           *bool   `json:"isActive"`
}

// UpdateCrossCoupon 크로스 쿠폰 수정 (제공 매장 본인만)
// @Summary 크로스 쿠폰 수정
// @Tags CrossCoupon
// @Accept json
// @Produce json
// @Param id path string true "Cross Coupon ID"
// @Param request body updateRequest true "수정 요청"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /cross-coupons/{id} [put]
func (h *CrossCouponHandler) UpdateCrossCoupon(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	couponID := c.Param("id")

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidParam, "요청 형식이 올바르지 않습니다")
		return
	}

	coupon, err := h.service.UpdateCrossCoupon(storeID, couponID, service.UpdateInput{
		Name:               req.Name,
		Description:        req.Description,
		DiscountType:       req.DiscountType,
		DiscountValue:      req.DiscountValue,
		RedemptionWindow:   req.RedemptionWindow,
		AvailableTimeStart: req.AvailableTimeStart,
		AvailableTimeEnd:   req.AvailableTimeEnd,
		DailyLimit:         req.DailyLimit,
		IsActive:           req.IsActive,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, coupon)
}

// DeleteCrossCoupon 크로스 쿠폰 비활성화
// @Summary 크로스 쿠폰 삭제
// @Tags CrossCoupon
// @Produce json
// @Param id path string true "Cross Coupon ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /cross-coupons/{id} [delete]
func (h *CrossCouponHandler) DeleteCrossCoupon(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	couponID := c.Param("id")

	if err := h.service.DeleteCrossCoupon(storeID, couponID); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{"success": true})
}

// GetStoreSummary 매장 단위 쿠폰 성과 요약
// @Summary 매장 쿠폰 성과 요약
// @Tags CrossCoupon
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /cross-coupons/summary [get]
func (h *CrossCouponHandler) GetStoreSummary(c *gin.Context) {
	storeID := middleware.GetStoreID(c)

	summary, err := h.service.GetStoreSummary(storeID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, summary)
}

// GetCrossCouponStats 크로스 쿠폰 성과 분석
// @Summary 크로스 쿠폰 통계
// @Tags CrossCoupon
// @Produce json
// @Param id path string true "Cross Coupon ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /cross-coupons/{id}/stats [get]
func (h *CrossCouponHandler) GetCrossCouponStats(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	couponID := c.Param("id")

	stats, err := h.service.GetCrossCouponStats(storeID, couponID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, stats)
}
