package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"calcapi/internal/auth"
	"calcapi/internal/config"
	"calcapi/internal/handler"
	"calcapi/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	calcHandler *handler.CalculationHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/token", authHandler.Token)
	e.POST("/auth/refresh", authHandler.Refresh)

	// Secured routes: echo-jwt checks signature and expiry against the access
	// secret, LoadUser resolves the subject and rejects inactive users.
	secured := e.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(jwt.RegisteredClaims)
		},
	}), auth.LoadUser(userRepo))

	// Profile routes
	secured.GET("/users/me", userHandler.Me)
	secured.PUT("/users/me", userHandler.UpdateMe)
	secured.PUT("/users/me/password", userHandler.UpdatePassword)
	secured.DELETE("/users/me", userHandler.DeleteMe)

	// Calculation routes
	secured.POST("/calculations", calcHandler.Create)
	secured.GET("/calculations", calcHandler.List)
	secured.GET("/calculations/:id", calcHandler.Get)
	secured.PUT("/calculations/:id", calcHandler.Update)
	secured.DELETE("/calculations/:id", calcHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
