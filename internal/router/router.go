package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/uutiset/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件，承载无 IP 客户端的回退会话令牌
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("uutiset_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 采集与评论 API
	apiGroup := r.Group("/api")
	{
		engage := apiGroup.Group("/engage")
		{
			engage.POST("/view", api.CollectView)
			engage.POST("/read", api.CollectReadTime)
			engage.GET("/trending", api.GetTrending)
			engage.GET("/posts/:id/stats", api.GetPostStats)
		}

		apiGroup.POST("/posts/:id/comments", api.CreateComment)
		apiGroup.GET("/posts/:id/comments", api.ListComments)
		// 扁平路由：目标文章由请求体的 postId 指定。
		apiGroup.POST("/comments", api.CreateComment)
	}

	return r
}
