package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RegisterCatalogRoutes exposes the public category and service listings
func RegisterCatalogRoutes(rg *gin.RouterGroup, api *API) {
	rg.GET("/categories", api.listCategories)
	rg.GET("/services", api.listServices)
}

func (api *API) listCategories(c *gin.Context) {
	categories, err := api.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// listServices accepts an optional ?category_id= filter
func (api *API) listServices(c *gin.Context) {
	var categoryID *uint
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid category_id",
				"message": "category_id must be a positive integer",
			})
			return
		}
		v := uint(id)
		categoryID = &v
	}

	list, err := api.Catalog.ListServices(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": list})
}
