package pkg

import (
	"fmt"

	"pereval/internal/app/config"
	"pereval/internal/app/handler"
	"pereval/internal/app/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Application struct {
	Config         *config.Config
	Router         *gin.Engine
	Handler        *handler.Handler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewApp(c *config.Config, r *gin.Engine, h *handler.Handler, am *middleware.AuthMiddleware) *Application {
	return &Application{
		Config:         c,
		Router:         r,
		Handler:        h,
		AuthMiddleware: am,
	}
}

// Setup регистрирует статику, документацию и маршруты API
func (a *Application) Setup() {
	a.Handler.RegisterStatic(a.Router)
	a.Handler.RegisterRoutes(a.Router, a.AuthMiddleware)
	a.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (a *Application) RunApp() {
	logrus.Info("Server start up")

	a.Setup()

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	logrus.Infof("Starting server on %s", serverAddress)

	if err := a.Router.Run(serverAddress); err != nil {
		logrus.Fatal(err)
	}

	logrus.Info("Server down")
}
