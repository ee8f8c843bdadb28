package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"service-connect-server/middleware"
	"service-connect-server/models"
	"service-connect-server/types"
)

// RegisterRequestRoutes wires the customer side of the request lifecycle.
// GET /requests/:id is open to every role; the service decides visibility.
func RegisterRequestRoutes(rg *gin.RouterGroup, api *API) {
	userOnly := middleware.RequireRole(types.RoleUser)

	requests := rg.Group("/requests")
	{
		requests.POST("", userOnly, api.createRequest)
		requests.GET("", userOnly, api.listMyRequests)
		requests.GET("/:id", api.getRequest)
		requests.GET("/:id/quotes", userOnly, api.listQuotes)
		requests.POST("/:id/quotes/:quote_id/accept", userOnly, api.acceptQuote)
	}
}

// RegisterAddressRoutes wires the saved-location CRUD of a user
func RegisterAddressRoutes(rg *gin.RouterGroup, api *API) {
	rg.GET("", api.listAddresses)
	rg.POST("", api.createAddress)
	rg.PUT("/:id", api.updateAddress)
	rg.DELETE("/:id", api.deleteAddress)
}

func (api *API) createRequest(c *gin.Context) {
	var req models.RequestCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor := middleware.CurrentActor(c)
	request, err := api.Requests.CreateRequest(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Printf("📝 Request %d created by %s", request.ID, actor)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Service request created",
		"request": request,
	})
}

func (api *API) listMyRequests(c *gin.Context) {
	requests, err := api.Requests.ListRequestsForUser(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (api *API) getRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	request, err := api.Requests.GetRequest(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}

func (api *API) listQuotes(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	quotes, err := api.Quotes.ListQuotesForRequest(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

func (api *API) acceptQuote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	quoteID, ok := paramID(c, "quote_id")
	if !ok {
		return
	}

	request, err := api.Requests.AcceptQuote(c.Request.Context(), middleware.CurrentActor(c), id, quoteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Quote accepted",
		"request": request,
	})
}

func (api *API) listAddresses(c *gin.Context) {
	locations, err := api.Users.ListLocations(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": locations})
}

func (api *API) createAddress(c *gin.Context) {
	var req models.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	location, err := api.Users.CreateLocation(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"address": location})
}

func (api *API) updateAddress(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	location, err := api.Users.UpdateLocation(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": location})
}

func (api *API) deleteAddress(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := api.Users.DeleteLocation(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}
