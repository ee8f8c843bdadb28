package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"service-connect-server/middleware"
	"service-connect-server/models"
)

// RegisterAdminRoutes wires moderation and catalog management
func RegisterAdminRoutes(rg *gin.RouterGroup, api *API) {
	rg.GET("/users", api.adminListUsers)

	workers := rg.Group("/workers")
	{
		workers.GET("", api.adminListWorkers)
		workers.PATCH("/:id/status", api.adminSetWorkerStatus)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", api.listCategories)
		categories.POST("", api.adminCreateCategory)
		categories.DELETE("/:id", api.adminDeleteCategory)
	}

	services := rg.Group("/services")
	{
		services.GET("", api.listServices)
		services.POST("", api.adminCreateService)
	}

	rg.GET("/requests", api.adminListRequests)

	admins := rg.Group("/admins")
	{
		admins.GET("", api.adminListAdmins)
		admins.POST("", api.adminCreateAdmin)
		admins.DELETE("/:id", api.adminDeleteAdmin)
	}
}

func (api *API) adminListUsers(c *gin.Context) {
	users, err := api.Users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// adminListWorkers accepts an optional ?status= filter
func (api *API) adminListWorkers(c *gin.Context) {
	var status *models.WorkerStatus
	if raw := c.Query("status"); raw != "" {
		s := models.WorkerStatus(raw)
		switch s {
		case models.WorkerStatusPending, models.WorkerStatusApproved, models.WorkerStatusRejected:
			status = &s
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid status",
				"message": "status must be one of pending, approved, rejected",
			})
			return
		}
	}

	workers, err := api.Workers.ListWorkers(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workers": workers})
}

func (api *API) adminSetWorkerStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.WorkerStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	worker, err := api.Workers.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Worker status updated",
		"worker":  worker,
	})
}

func (api *API) adminCreateCategory(c *gin.Context) {
	var req models.CategoryCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := api.Catalog.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (api *API) adminDeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := api.Catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

func (api *API) adminCreateService(c *gin.Context) {
	var req models.ServiceCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	service, err := api.Catalog.CreateService(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"service": service})
}

// adminListRequests accepts an optional ?status= filter
func (api *API) adminListRequests(c *gin.Context) {
	var status *models.RequestStatus
	if raw := c.Query("status"); raw != "" {
		s, err := models.ParseRequestStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid status",
				"message": err.Error(),
			})
			return
		}
		status = &s
	}

	requests, err := api.Requests.ListAllRequests(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (api *API) adminListAdmins(c *gin.Context) {
	admins, err := api.Admins.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

func (api *API) adminCreateAdmin(c *gin.Context) {
	var req models.AdminCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	admin, err := api.Admins.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"admin": admin})
}

func (api *API) adminDeleteAdmin(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := api.Admins.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted"})
}
