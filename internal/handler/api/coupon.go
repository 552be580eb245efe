package api

import (
	"errors"
	"net/http"

	reqdto "coupon-engine/internal/handler/dto/request"
	resdto "coupon-engine/internal/handler/dto/response"
	"coupon-engine/internal/handler/httperr"
	"coupon-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	couponQueries queries.CouponQueries
}

func NewCouponHandler(couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponQueries: couponQueries,
	}
}

// @Summary Quote a coupon against a cart
// @Description Advisory validation: computes what applying the coupon would discount right now. No counters are touched; business rejections come back as 200 with valid=false.
// @Tags coupons
// @Accept json
// @Produce json
// @Param request body reqdto.QuoteCouponRequest true "Coupon code and cart items"
// @Success 200 {object} resdto.QuoteCouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /coupons/quote [post]
func (h *CouponHandler) Quote(c *gin.Context) {
	var req reqdto.QuoteCouponRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.BadRequest(c, bindErr, "Invalid request format")
		return
	}

	view, err := h.couponQueries.Quote(c.Request.Context(), req.ToParams())
	if err != nil {
		if errors.Is(err, queries.ErrNoResolvableItems) {
			httperr.BadRequest(c, err, "No cart items could be resolved")
			return
		}
		httperr.Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromQuoteView(view))
}

// @Summary List active coupons
// @Description Publicly visible coupons currently in a redeemable state. Usage ledgers and internal counters are never exposed.
// @Tags coupons
// @Produce json
// @Success 200 {array} resdto.ActiveCouponResponse
// @Failure 500 {object} httperr.Response
// @Router /coupons [get]
func (h *CouponHandler) ListActive(c *gin.Context) {
	views, err := h.couponQueries.ListActive(c.Request.Context())
	if err != nil {
		httperr.Internal(c, err)
		return
	}

	response := make([]*resdto.ActiveCouponResponse, len(views))
	for i, view := range views {
		response[i] = resdto.FromActiveCouponView(view)
	}

	c.JSON(http.StatusOK, response)
}
