package handler

import (
	"errors"
	"net/http"

	"coupon_day/internal/domain/store/repository"
	"coupon_day/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StoreHandler struct {
	repo repository.StoreRepository
}

func NewStoreHandler(repo repository.StoreRepository) *StoreHandler {
	return &StoreHandler{repo: repo}
}

// GetStore 매장 공개 정보 조회
// @Summary 매장 정보 조회
// @Tags Store
// @Produce json
// @Param id path string true "Store ID"
// @Success 200 {object} response.Response
// @Router /stores/{id} [get]
func (h *StoreHandler) GetStore(c *gin.Context) {
	id := c.Param("id")

	store, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrNotFound, "매장을 찾을 수 없습니다")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, store)
}
