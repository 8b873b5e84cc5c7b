package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"plantshop/internal/cart"
	"plantshop/internal/domain"
)

type cartItemDTO struct {
	ProductID string   `json:"productId"`
	Title     string   `json:"title"`
	Price     string   `json:"price"`
	Images    []string `json:"images"`
	Quantity  int      `json:"quantity"`
}

type cartViewDTO struct {
	Items    []cartItemDTO `json:"items"`
	Subtotal string        `json:"subtotal"`
	Discount string        `json:"discount"`
	Shipping string        `json:"shipping"`
	Total    string        `json:"total"`
	Coupon   string        `json:"coupon,omitempty"`
}

func toCartViewDTO(v cart.View) cartViewDTO {
	items := make([]cartItemDTO, 0, len(v.Items))
	for _, item := range v.Items {
		images := item.Images
		if images == nil {
			images = []string{}
		}
		items = append(items, cartItemDTO{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price.StringFixed(2),
			Images:    images,
			Quantity:  item.Quantity,
		})
	}
	return cartViewDTO{
		Items:    items,
		Subtotal: v.Subtotal.StringFixed(2),
		Discount: v.Discount.StringFixed(2),
		Shipping: v.Shipping.StringFixed(2),
		Total:    v.Total.StringFixed(2),
		Coupon:   v.Coupon,
	}
}

// renderCart prices the session cart against the live catalog and writes it.
func (h *handlers) renderCart(c *gin.Context) {
	view, err := sessionCart(c).View(c.Request.Context())
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartViewDTO(view))
}

func (h *handlers) getCart(c *gin.Context) {
	h.renderCart(c)
}

func (h *handlers) addCartItem(c *gin.Context) {
	var in struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
		return
	}
	if err := sessionCart(c).AddItem(c.Request.Context(), in.ProductID); err != nil {
		h.cartError(c, err)
		return
	}
	h.renderCart(c)
}

func (h *handlers) setCartQuantity(c *gin.Context) {
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := sessionCart(c).SetQuantity(c.Request.Context(), c.Param("id"), in.Quantity); err != nil {
		h.cartError(c, err)
		return
	}
	h.renderCart(c)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	if err := sessionCart(c).RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		h.cartError(c, err)
		return
	}
	h.renderCart(c)
}

func (h *handlers) applyCoupon(c *gin.Context) {
	var in struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := sessionCart(c).ApplyCoupon(c.Request.Context(), in.Code); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "coupon code not recognized"})
		return
	}
	h.renderCart(c)
}

func (h *handlers) checkout(c *gin.Context) {
	orderID, err := sessionCart(c).Checkout(c.Request.Context())
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orderId": orderID})
}

func (h *handlers) listLiked(c *gin.Context) {
	products, err := sessionLiked(c).Products(c.Request.Context(), h.deps.Catalog)
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductDTOs(products))
}

func (h *handlers) addLiked(c *gin.Context) {
	if err := sessionLiked(c).Add(c.Request.Context(), c.Param("id")); err != nil {
		h.cartError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) removeLiked(c *gin.Context) {
	if err := sessionLiked(c).Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.cartError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// cartError translates cart engine failures to response statuses.
func (h *handlers) cartError(c *gin.Context, err error) {
	var catalogErr *cart.CatalogError
	var sinkErr *cart.OrderSinkError
	var identityErr *cart.IdentityError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, cart.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, cart.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, cart.ErrInvalidCoupon):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "coupon code not recognized"})
	case errors.As(err, &catalogErr):
		h.logger.Errorf("catalog unreachable: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
	case errors.As(err, &sinkErr):
		h.logger.Errorf("order submission failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "order could not be submitted"})
	case errors.As(err, &identityErr):
		h.logger.Errorf("identity lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		h.logger.Errorf("cart operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
