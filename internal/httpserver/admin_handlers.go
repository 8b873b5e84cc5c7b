package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"plantshop/internal/domain"
	"plantshop/internal/service/admin"
)

type orderLineDTO struct {
	ProductID string   `json:"productId"`
	Title     string   `json:"title"`
	Price     string   `json:"price"`
	Images    []string `json:"images"`
	Quantity  int      `json:"quantity"`
}

type orderDTO struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Items     []orderLineDTO `json:"items"`
	Total     string         `json:"total"`
	Discount  string         `json:"discount"`
	Shipping  string         `json:"shipping"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}

func toOrderDTO(o domain.Order) orderDTO {
	items := make([]orderLineDTO, 0, len(o.Items))
	for _, line := range o.Items {
		images := line.Images
		if images == nil {
			images = []string{}
		}
		items = append(items, orderLineDTO{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price.StringFixed(2),
			Images:    images,
			Quantity:  line.Quantity,
		})
	}
	return orderDTO{
		ID:        o.ID,
		UserID:    o.UserID,
		Items:     items,
		Total:     o.Total.StringFixed(2),
		Discount:  o.Discount.StringFixed(2),
		Shipping:  o.Shipping.StringFixed(2),
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}

func (h *handlers) dashboard(c *gin.Context) {
	counts, err := h.deps.Admin.Dashboard(c.Request.Context())
	if err != nil {
		h.logger.Errorf("dashboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *handlers) liveOrderCount(c *gin.Context) {
	if h.deps.Counter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live counter not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": h.deps.Counter.Count()})
}

func (h *handlers) adminListCategories(c *gin.Context) {
	categories, err := h.deps.Admin.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.Errorf("admin list categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

func (h *handlers) adminCreateCategory(c *gin.Context) {
	var in admin.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	category, err := h.deps.Admin.CreateCategory(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *handlers) adminUpdateCategory(c *gin.Context) {
	var in admin.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	category, err := h.deps.Admin.UpdateCategory(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.adminError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *handlers) adminDeleteCategory(c *gin.Context) {
	if err := h.deps.Admin.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.adminError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminListProducts(c *gin.Context) {
	products, err := h.deps.Admin.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.Errorf("admin list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, toProductDTOs(products))
}

func (h *handlers) adminCreateProduct(c *gin.Context) {
	var in admin.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p, err := h.deps.Admin.CreateProduct(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toProductDTO(*p))
}

func (h *handlers) adminUpdateProduct(c *gin.Context) {
	var in admin.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p, err := h.deps.Admin.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.adminError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductDTO(*p))
}

func (h *handlers) adminDeleteProduct(c *gin.Context) {
	if err := h.deps.Admin.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.adminError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminListOrders(c *gin.Context) {
	orders, err := h.deps.Admin.ListOrders(c.Request.Context())
	if err != nil {
		h.logger.Errorf("admin list orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	out := make([]orderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) adminUpdateOrderStatus(c *gin.Context) {
	var in struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.deps.Admin.UpdateOrderStatus(c.Request.Context(), c.Param("id"), in.Status); err != nil {
		h.adminError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminListUsers(c *gin.Context) {
	users, err := h.deps.Admin.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Errorf("admin list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	out := make([]userDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) adminError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
