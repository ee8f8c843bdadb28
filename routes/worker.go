package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"service-connect-server/middleware"
	"service-connect-server/models"
)

// RegisterWorkerRoutes wires the worker's profile, feed and quoting endpoints
func RegisterWorkerRoutes(rg *gin.RouterGroup, api *API) {
	profile := rg.Group("/profile")
	{
		profile.GET("", api.getWorkerProfile)
		profile.PUT("", api.updateWorkerProfile)
		profile.POST("/photo", api.uploadWorkerPhoto)
	}

	requests := rg.Group("/requests")
	{
		requests.GET("/open", api.listOpenRequests)
		requests.GET("", api.listAssignedRequests)
		requests.PUT("/:id/quote", api.submitQuote)
		requests.PATCH("/:id/status", api.advanceStatus)
	}
}

func (api *API) getWorkerProfile(c *gin.Context) {
	worker, err := api.Workers.Get(c.Request.Context(), middleware.CurrentActor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"worker": worker})
}

func (api *API) updateWorkerProfile(c *gin.Context) {
	var req models.WorkerProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	worker, err := api.Workers.UpdateProfile(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated",
		"worker":  worker,
	})
}

// uploadWorkerPhoto expects a multipart form with a "photo" file field
func (api *API) uploadWorkerPhoto(c *gin.Context) {
	header, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "No photo uploaded",
			"message": "Send the image in the \"photo\" form field",
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		log.Printf("❌ Failed to open uploaded photo: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Unreadable upload",
			"message": err.Error(),
		})
		return
	}
	defer file.Close()

	worker, err := api.Media.UploadProfilePhoto(c.Request.Context(), middleware.CurrentActor(c), header.Filename, header.Size, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile photo updated",
		"worker":  worker,
	})
}

func (api *API) listOpenRequests(c *gin.Context) {
	requests, err := api.Matching.ListOpenRequestsForWorker(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (api *API) listAssignedRequests(c *gin.Context) {
	requests, err := api.Requests.ListAssignedRequests(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// submitQuote creates the caller's quote, or revises it when one exists
func (api *API) submitQuote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.QuoteSubmit
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := api.Quotes.SubmitOrUpdateQuote(c.Request.Context(), middleware.CurrentActor(c), id, req.Price, req.Comments)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (api *API) advanceStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.StatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	request, err := api.Requests.AdvanceStatus(c.Request.Context(), middleware.CurrentActor(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated",
		"request": request,
	})
}
