package User

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the account endpoints. rg is expected to be /api/auth.
func RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login/", loginHandler)
	rg.POST("/logout/", logoutHandler)
	rg.POST("/register/", registerHandler)

	users := rg.Group("/users")
	{
		users.POST("/login/", loginHandler)
		users.POST("/logout/", logoutHandler)

		protected := users.Group("")
		protected.Use(AuthMiddleware())
		{
			protected.GET("/", getAllUsersHandler)
			protected.GET("/me/", meHandler)
			protected.PUT("/update_profile/", updateProfileHandler)
			protected.PATCH("/update_profile/", updateProfileHandler)
			protected.GET("/:id/", getUserHandler)

			admin := protected.Group("")
			admin.Use(RequireRoles(Admin))
			{
				admin.POST("/", createUserHandler)
				admin.PUT("/:id/", updateUserHandler)
				admin.PATCH("/:id/", updateUserHandler)
				admin.DELETE("/:id/", deleteUserHandler)
			}
		}
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrInvalidRole), errors.Is(err, ErrInvalidImage):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return uint(id), true
}

func loginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := GetUserService().Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		default:
			respondError(c, err)
		}
		return
	}

	token, err := GenerateJWT(user)
	if err != nil {
		respondError(c, err)
		return
	}

	cookie := token
	if settings.Sessions != nil {
		sessionID, err := settings.Sessions.Create(c.Request.Context(), user.ID, settings.TokenTTL)
		if err != nil {
			respondError(c, err)
			return
		}
		cookie = sessionID
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(settings.CookieName, cookie, int(settings.TokenTTL.Seconds()), "/", "", settings.CookieSecure, true)

	c.JSON(http.StatusOK, LoginResponse{
		User:    *user,
		Message: "Login successful",
		Token:   token,
	})
}

func logoutHandler(c *gin.Context) {
	if cookie, err := c.Cookie(settings.CookieName); err == nil && cookie != "" && settings.Sessions != nil {
		if err := settings.Sessions.Delete(c.Request.Context(), cookie); err != nil {
			_ = c.Error(err)
		}
	}
	c.SetCookie(settings.CookieName, "", -1, "/", "", settings.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func registerHandler(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Role = Employee

	user, err := GetUserService().CreateUser(req)
	if err != nil {
		respondError(c, err)
		return
	}
	hooks.UserCreated(user)

	c.JSON(http.StatusCreated, user)
}

func meHandler(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func updateProfileHandler(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := GetUserService().UpdateProfile(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func getAllUsersHandler(c *gin.Context) {
	users, err := GetUserService().GetAllUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func getUserHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := GetUserService().GetUserByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func createUserHandler(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := GetUserService().CreateUser(req)
	if err != nil {
		respondError(c, err)
		return
	}
	hooks.UserCreated(user)

	c.JSON(http.StatusCreated, user)
}

func updateUserHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := GetUserService().UpdateUser(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func deleteUserHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := GetUserService().DeleteUser(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
