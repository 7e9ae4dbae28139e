package handler

import (
	"coupon_day/internal/domain/mealtoken/service"
	"coupon_day/internal/pkg/middleware"
	"coupon_day/pkg/response"
	"coupon_day/pkg/utils"

	"github.com/gin-gonic/gin"
)

type MealTokenHandler struct {
	service service.MealTokenService
}

func NewMealTokenHandler(s service.MealTokenService) *MealTokenHandler {
	return &MealTokenHandler{service: s}
}

type issueRequest struct {
	PartnershipID string  `json:"partnershipId" binding:"required,uuid"`
	CustomerID    *string `json:"customerId" binding:"omitempty,uuid"`
}

// IssueMealToken 식사 토큰 발급 (distributor 매장)
// @Summary 식사 토큰 발급
// @Tags MealToken
// @Accept json
// @Produce json
// @Param request body issueRequest true "발급 요청"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /meal-tokens [post]
func (h *MealTokenHandler) IssueMealToken(c *gin.Context) {
	storeID := middleware.GetStoreID(c)

	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidParam, "요청 형식이 올바르지 않습니다")
		return
	}

	result, err := h.service.IssueMealToken(storeID, service.IssueInput{
		PartnershipID: req.PartnershipID,
		CustomerID:    req.CustomerID,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

// GetAvailableCoupons 토큰으로 선택 가능한 쿠폰 목록
// @Summary 선택 가능 쿠폰 조회
// @Tags MealToken
// @Produce json
// @Param code path string true "토큰 코드"
// @Success 200 {object} response.Response
// @Router /meal-tokens/{code}/coupons [get]
func (h *MealTokenHandler) GetAvailableCoupons(c *gin.Context) {
	code := c.Param("code")

	coupons, err := h.service.GetAvailableCoupons(code)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, gin.H{
		"coupons": coupons,
		"total":   len(coupons),
	})
}

// GetToken 토큰 상태 조회 (고객용 공개 화면)
// @Summary 토큰 조회
// @Tags MealToken
// @Produce json
// @Param code path string true "토큰 코드"
// @Success 200 {object} response.Response
// @Router /meal-tokens/{code} [get]
func (h *MealTokenHandler) GetToken(c *gin.Context) {
	code := c.Param("code")

	token, err := h.service.GetTokenByCode(code)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, token)
}

type selectRequest struct {
	CrossCouponID string `json:"crossCouponId" binding:"required,uuid"`
}

// SelectCoupon 토큰에 크로스 쿠폰 선택 (비로그인 허용)
// @Summary 쿠폰 선택
// @Tags MealToken
// @Accept json
// @Produce json
// @Param code path string true "토큰 코드"
// @Param request body selectRequest true "선택 요청"
// @Success 200 {object} response.Response
// @Router /meal-tokens/{code}/select [post]
func (h *MealTokenHandler) SelectCoupon(c *gin.Context) {
	code := c.Param("code")

	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidParam, "요청 형식이 올바르지 않습니다")
		return
	}

	// 로그인한 고객이면 토큰에 귀속시킨다
	var customerID *string
	if id := middleware.GetCustomerID(c); id != "" {
		customerID = &id
	}

	result, err := h.service.SelectCoupon(code, req.CrossCouponID, customerID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

type verifyRequest struct {
	TokenCode   string `json:"tokenCode" binding:"required,len=8"`
	OrderAmount *int   `json:"orderAmount" binding:"omitempty,min=0"`
}

// VerifyAndUseToken 매장에서 토큰 검증 및 사용 처리 (provider 매장)
// @Summary 토큰 사용 처리
// @Tags MealToken
// @Accept json
// @Produce json
// @Param request body verifyRequest true "사용 요청"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /meal-tokens/verify [post]
func (h *MealTokenHandler) VerifyAndUseToken(c *gin.Context) {
	storeID := middleware.GetStoreID(c)

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidParam, "요청 형식이 올바르지 않습니다")
		return
	}

	result, err := h.service.VerifyAndUseToken(storeID, req.TokenCode, req.OrderAmount)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, result)
}

// GetMyTokens 고객 본인 토큰 목록
// @Summary 내 토큰 목록
// @Tags MealToken
// @Produce json
// @Param status query string false "상태 필터"
// @Param page query int false "페이지"
// @Param limit query int false "페이지 크기"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /customers/me/meal-tokens [get]
func (h *MealTokenHandler) GetMyTokens(c *gin.Context) {
	customerID := middleware.GetCustomerID(c)
	status := c.Query("status")

	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Fail(c, response.ErrInvalidParam, "페이지 파라미터가 올바르지 않습니다")
		return
	}
	offset, limit := page.GetPageOffset()

	tokens, total, err := h.service.GetCustomerTokens(customerID, service.CustomerTokensOptions{
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, utils.PageResult{
		List:  tokens,
		Total: total,
		Page:  page.Page,
		Limit: limit,
	})
}

// GetMyToken 고객 본인 토큰 단건 조회
// @Summary 내 토큰 조회
// @Tags MealToken
// @Produce json
// @Param id path string true "토큰 ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /customers/me/meal-tokens/{id} [get]
func (h *MealTokenHandler) GetMyToken(c *gin.Context) {
	customerID := middleware.GetCustomerID(c)
	tokenID := c.Param("id")

	token, err := h.service.GetCustomerTokenByID(customerID, tokenID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, token)
}
