package router

import (
	"crew-hub/internal/adapter/notification"
	"crew-hub/internal/api/handler"
	"crew-hub/internal/api/middleware"
	"crew-hub/internal/core/availability"
	"crew-hub/internal/core/roster"
	"crew-hub/internal/pkg/auth"
	"crew-hub/internal/pkg/config"
	"crew-hub/internal/repository"
	"crew-hub/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Setup 设置路由
func Setup(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger API 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 获取数据库连接
	db := cfg.DB.(*gorm.DB)

	// 初始化Repository
	userRepo := repository.NewUserRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	crewRepo := repository.NewCrewRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	archivedChatRepo := repository.NewArchivedChatRepository(db)
	requestRepo := repository.NewWorkerRequestRepository(db)
	incidentRepo := repository.NewIncidentRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// 初始化核心组件
	resolver := availability.NewResolver(assignmentRepo)
	synchronizer := roster.NewSynchronizer(db, &cfg.Roster)
	archiver := roster.NewArchiver(db, &cfg.Roster)
	gate := roster.NewAccessGate(db)
	external := notification.FromConfig(cfg.Notification.Enabled,
		cfg.Notification.Provider, cfg.Notification.LarkWebhook, logger)

	// 初始化Service
	ldapService := service.NewLDAPService(&cfg.Auth.LDAP)
	authService := service.NewAuthService(&cfg.Auth, userRepo, ldapService)
	userService := service.NewUserService(userRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	workerService := service.NewWorkerService(workerRepo, userRepo, assignmentRepo, conversationRepo,
		resolver, synchronizer, archiver)
	crewService := service.NewCrewService(crewRepo, assignmentRepo, workerRepo, conversationRepo,
		resolver, synchronizer, archiver, notificationService)
	projectService := service.NewProjectService(projectRepo, crewRepo, workerRepo, assignmentRepo,
		requestRepo, incidentRepo, conversationRepo, resolver, archiver, notificationService)
	conversationService := service.NewConversationService(conversationRepo, archivedChatRepo,
		userRepo, archiver, gate)
	requestService := service.NewWorkerRequestService(requestRepo, crewRepo, conversationRepo,
		userRepo, notificationService, external)
	incidentService := service.NewIncidentService(incidentRepo, crewRepo, projectRepo,
		conversationRepo, userRepo, notificationService, external)
	resourceService := service.NewResourceService(resourceRepo, crewRepo)

	// 初始化Handler
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	workerHandler := handler.NewWorkerHandler(workerService)
	crewHandler := handler.NewCrewHandler(crewService)
	projectHandler := handler.NewProjectHandler(projectService)
	conversationHandler := handler.NewConversationHandler(conversationService)
	requestHandler := handler.NewRequestHandler(requestService)
	incidentHandler := handler.NewIncidentHandler(incidentService)
	resourceHandler := handler.NewResourceHandler(resourceService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证相关(无需token)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		// 需要认证的路由
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(userRepo))
		{
			// 认证信息
			authed.GET("/auth/me", authHandler.GetMe)
			authed.GET("/auth/verify", authHandler.Verify)
			authed.PUT("/auth/password", authHandler.ChangePassword)

			// 用户管理
			authed.GET("/users/search", userHandler.Search)
			authed.GET("/users/:id", userHandler.GetByID)
			authed.PUT("/users/:id/roles", middleware.RequirePermission(auth.PermResourceManage), userHandler.UpdateRoles)

			// 工人档案管理
			workerGroup := authed.Group("/workers")
			{
				workerGroup.POST("", middleware.RequirePermission(auth.PermWorkerCreate), workerHandler.Create)
				workerGroup.GET("", workerHandler.List)
				workerGroup.GET("/:id", workerHandler.GetByID)
				workerGroup.PUT("/:id", middleware.RequirePermission(auth.PermWorkerUpdate), workerHandler.Update)
				workerGroup.PUT("/:id/status", middleware.RequirePermission(auth.PermWorkerState), workerHandler.SetStatus)
				workerGroup.DELETE("/:id", middleware.RequirePermission(auth.PermWorkerState), workerHandler.Deactivate)

				// 技能/证书/履历(工人的附属资源)
				workerGroup.POST("/:id/skills", middleware.RequirePermission(auth.PermWorkerUpdate), workerHandler.AddSkill)
				workerGroup.GET("/:id/skills", workerHandler.ListSkills)
				workerGroup.DELETE("/:id/skills/:item_id", middleware.RequirePermission(auth.PermWorkerUpdate), workerHandler.DeleteSkill)
				workerGroup.POST("/:id/certifications", middleware.RequirePermission(auth.PermWorkerUpdate), workerHandler.AddCertification)
				workerGroup.GET("/:id/certifications", workerHandler.ListCertifications)
				workerGroup.DELETE("/:id/certifications/:item_id", middleware.RequirePermission(auth.PermWorkerUpdate), workerHandler.DeleteCertification)
				workerGroup.POST("/:id/experiences", middleware.RequirePermission(auth.PermWorkerUpdate), workerHandler.AddExperience)
				workerGroup.GET("/:id/experiences", workerHandler.ListExperiences)
				workerGroup.DELETE("/:id/experiences/:item_id", middleware.RequirePermission(auth.PermWorkerUpdate), workerHandler.DeleteExperience)
			}

			// 班组管理
			crewGroup := authed.Group("/crews")
			{
				crewGroup.POST("", middleware.RequirePermission(auth.PermCrewCreate), crewHandler.Create)
				crewGroup.GET("", crewHandler.List)
				crewGroup.GET("/eligible-workers", crewHandler.EligibleWorkers)
				crewGroup.GET("/:id", crewHandler.GetByID)
				crewGroup.PUT("/:id", middleware.RequirePermission(auth.PermCrewUpdate), crewHandler.Update)
				crewGroup.DELETE("/:id", middleware.RequirePermission(auth.PermCrewDissolve), crewHandler.Dissolve)
				crewGroup.POST("/:id/assignments", middleware.RequirePermission(auth.PermCrewUpdate), crewHandler.BatchAssign)
				crewGroup.DELETE("/:id/assignments/:item_id", middleware.RequirePermission(auth.PermCrewUpdate), crewHandler.RemoveMember)
			}

			// 班组角色字典
			authed.GET("/roles", crewHandler.ListRoles)
			authed.POST("/roles", middleware.RequirePermission(auth.PermCrewUpdate), crewHandler.CreateRole)

			// 项目管理
			projectGroup := authed.Group("/projects")
			{
				projectGroup.POST("", middleware.RequirePermission(auth.PermProjectCreate), projectHandler.Create)
				projectGroup.GET("", projectHandler.List)
				projectGroup.GET("/:id", projectHandler.GetByID)
				projectGroup.PUT("/:id", middleware.RequirePermission(auth.PermProjectUpdate), projectHandler.Update)
				projectGroup.POST("/:id/crews", middleware.RequirePermission(auth.PermProjectUpdate), projectHandler.AssignCrew)
				projectGroup.DELETE("/:id/crews/:item_id", middleware.RequirePermission(auth.PermProjectUpdate), projectHandler.ReleaseCrew)
				projectGroup.POST("/:id/finalize", middleware.RequirePermission(auth.PermProjectFinalize), projectHandler.Finalize)
			}

			// 总览面板
			authed.GET("/panel", projectHandler.Panel)

			// 会话与消息
			conversationGroup := authed.Group("/conversations")
			{
				conversationGroup.GET("", conversationHandler.List)
				conversationGroup.POST("/private", conversationHandler.OpenPrivate)
				conversationGroup.GET("/:id", conversationHandler.GetByID)
				conversationGroup.POST("/:id/messages", conversationHandler.SendMessage)
				conversationGroup.GET("/:id/messages", conversationHandler.ListMessages)
				conversationGroup.POST("/:id/read", conversationHandler.MarkRead)
				conversationGroup.POST("/:id/archive", middleware.RequirePermission(auth.PermChatArchive), conversationHandler.Archive)
			}

			// 归档会话快照
			authed.GET("/archived-chats", middleware.RequirePermission(auth.PermChatViewArchive), conversationHandler.ListArchived)
			authed.GET("/archived-chats/:id", middleware.RequirePermission(auth.PermChatViewArchive), conversationHandler.GetArchived)

			// 工人申请
			requestGroup := authed.Group("/requests")
			{
				requestGroup.POST("", requestHandler.Create)
				requestGroup.GET("", requestHandler.List)
				requestGroup.GET("/:id", requestHandler.GetByID)
				requestGroup.POST("/:id/resolve", middleware.RequirePermission(auth.PermRequestResolve), requestHandler.Resolve)
			}

			// 事故上报
			incidentGroup := authed.Group("/incidents")
			{
				incidentGroup.POST("", incidentHandler.Create)
				incidentGroup.GET("", incidentHandler.List)
				incidentGroup.GET("/:id", incidentHandler.GetByID)
				incidentGroup.POST("/:id/ack", middleware.RequirePermission(auth.PermIncidentAck), incidentHandler.Acknowledge)
			}

			// 资源管理
			resourceGroup := authed.Group("/resources")
			{
				resourceGroup.POST("", middleware.RequirePermission(auth.PermResourceManage), resourceHandler.Create)
				resourceGroup.GET("", resourceHandler.List)
				resourceGroup.GET("/:id", resourceHandler.GetByID)
				resourceGroup.PUT("/:id", middleware.RequirePermission(auth.PermResourceManage), resourceHandler.Update)
				resourceGroup.DELETE("/:id", middleware.RequirePermission(auth.PermResourceManage), resourceHandler.Delete)
			}

			// 站内通知
			notificationGroup := authed.Group("/notifications")
			{
				notificationGroup.GET("", notificationHandler.List)
				notificationGroup.GET("/unread-count", notificationHandler.CountUnread)
				notificationGroup.POST("/read-all", notificationHandler.MarkAllRead)
				notificationGroup.POST("/:id/read", notificationHandler.MarkRead)
			}
		}
	}

	return r
}
