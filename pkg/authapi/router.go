package authapi

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "katydid-common-auth/pkg/authapi/docs"
	"katydid-common-auth/pkg/authsvc"
	"katydid-common-auth/pkg/products"
)

// NewRouter 组装认证服务的路由
//
//	@title			Huellitas Alegres Auth API
//	@version		1.0
//	@description	宠物商店的用户注册与登录服务
//	@BasePath		/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func NewRouter(svc *authsvc.Service, catalog *products.Service, log *zap.Logger, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), AccessLog(log))

	h := NewHandler(svc, log)
	ph := NewProductHandler(catalog, log)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)

			authed := auth.Group("", RequireSession(svc.Sessions()))
			{
				authed.POST("/logout", h.Logout)
				authed.GET("/session", h.Session)
			}
		}

		// 商品目录是登录后的落地页，整组路由都在会话校验之后
		productos := api.Group("/productos", RequireSession(svc.Sessions()))
		{
			productos.GET("", ph.List)
			productos.POST("", ph.Create)
			productos.PUT("/:id", ph.Update)
			productos.DELETE("/:id", ph.Delete)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}
