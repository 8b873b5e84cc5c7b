package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"plantshop/internal/domain"
)

type productDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Images      []string  `json:"images"`
	CategoryID  string    `json:"categoryId,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toProductDTO(p domain.Product) productDTO {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return productDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Images:      images,
		CategoryID:  p.CategoryID,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
}

func toProductDTOs(products []domain.Product) []productDTO {
	out := make([]productDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return out
}

func (h *handlers) listProducts(c *gin.Context) {
	var (
		products []domain.Product
		err      error
	)
	if categoryID := c.Query("category"); categoryID != "" {
		products, err = h.deps.Catalog.ListActiveByCategory(c.Request.Context(), categoryID)
	} else {
		products, err = h.deps.Catalog.ListActive(c.Request.Context())
	}
	if err != nil {
		h.logger.Errorf("list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, toProductDTOs(products))
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.Catalog.GetActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Errorf("get product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, toProductDTO(*p))
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.deps.Catalog.Categories(c.Request.Context())
	if err != nil {
		h.logger.Errorf("list categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	c.JSON(http.StatusOK, categories)
}
