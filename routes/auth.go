package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"service-connect-server/models"
	"service-connect-server/types"
)

// RegisterAuthRoutes wires signup, login and logout for every actor kind
func RegisterAuthRoutes(rg *gin.RouterGroup, api *API) {
	rg.POST("/users/signup", api.userSignUp)
	rg.POST("/users/login", api.userLogin)
	rg.POST("/workers/signup", api.workerSignUp)
	rg.POST("/workers/login", api.workerLogin)
	rg.POST("/admins/login", api.adminLogin)
	rg.POST("/logout", api.logout)
}

func (api *API) userSignUp(c *gin.Context) {
	var req models.UserSignUp
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := api.Users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := api.JWT.GenerateToken(types.Actor{ID: user.ID, Role: types.RoleUser})
	if err != nil {
		respondError(c, err)
		return
	}

	log.Printf("✅ User registered: %s (id %d)", user.Email, user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
		"token":   api.bearer(token),
	})
}

func (api *API) userLogin(c *gin.Context) {
	var req models.UserLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := api.Users.Authenticate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := api.JWT.GenerateToken(types.Actor{ID: user.ID, Role: types.RoleUser})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
		"token":   api.bearer(token),
	})
}

func (api *API) workerSignUp(c *gin.Context) {
	var req models.WorkerSignUp
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	worker, err := api.Workers.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Printf("✅ Worker registered: %s (id %d), awaiting approval", worker.Username, worker.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration received, an administrator will review your account",
		"worker":  worker,
	})
}

func (api *API) workerLogin(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	worker, err := api.Workers.Authenticate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if !api.startSession(c, types.Actor{ID: worker.ID, Role: types.RoleWorker}) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"worker":  worker,
	})
}

func (api *API) adminLogin(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	admin, err := api.Admins.Authenticate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if !api.startSession(c, types.Actor{ID: admin.ID, Role: types.RoleAdmin}) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"admin":   admin,
	})
}

func (api *API) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(api.Config.Session.CookieName, "", -1, "/", "", api.Config.Session.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// startSession signs a token for actor and stores it in the HttpOnly session
// cookie. It answers the request itself on failure.
func (api *API) startSession(c *gin.Context, actor types.Actor) bool {
	token, err := api.JWT.GenerateToken(actor)
	if err != nil {
		respondError(c, err)
		return false
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		api.Config.Session.CookieName,
		token,
		int(api.JWT.Expiry().Seconds()),
		"/",
		"",
		api.Config.Session.Secure,
		true,
	)
	log.Printf("🔐 Session started for %s", actor)
	return true
}

func (api *API) bearer(token string) gin.H {
	return gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(api.JWT.Expiry().Seconds()),
	}
}
