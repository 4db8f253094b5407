package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/admin"
	"github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/auth"
	"github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/feedback"
	"github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/order"
	"github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/payment"
	"github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/post"
	"github.com/visionmax01/rentoora-backend-rental/app/echoServer/controller/ticket"
	"github.com/visionmax01/rentoora-backend-rental/model"
)

type C struct {
	Auth      *auth.Controller
	Post      *post.Controller
	Order     *order.Controller
	Payment   *payment.Controller
	Ticket    *ticket.Controller
	Feedback  *feedback.Controller
	Admin     *admin.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public
	e.POST("/auth/register", c.Auth.Register)
	e.POST("/auth/login", c.Auth.Login)
	e.POST("/auth/send-otp", c.Auth.SendOTP)
	e.POST("/auth/verify-otp", c.Auth.VerifyOTP)
	e.POST("/auth/reset-password", c.Auth.ResetPassword)

	e.GET("/order/display-posts", c.Post.ListAll)
	e.GET("/order/post/:id", c.Post.Detail)

	e.POST("/feadback/sendFeadback", c.Feedback.Create)
	e.POST("/feadback/checkFeedback", c.Feedback.Check)

	jwtMW := echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(c.JWTSecret),
		TokenLookup: "header:Authorization",
	})

	// Claims land in the context once per request; handlers read the
	// plain user_id / role keys.
	claimsMW := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tok, ok := ctx.Get("user").(*jwt.Token)
			if !ok || tok == nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			sub, ok := claims["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", int64(sub))
			if email, ok := claims["email"].(string); ok {
				ctx.Set("email", email)
			}
			if role, ok := claims["role"].(float64); ok {
				ctx.Set("role", int16(role))
			}
			return next(ctx)
		}
	}

	authed := e.Group("", jwtMW, claimsMW)

	// Account
	authed.GET("/auth/me", c.Auth.Me)
	authed.PUT("/auth/update-details", c.Auth.UpdateDetails)
	authed.PUT("/auth/update-profile-pic", c.Auth.UpdateProfilePhoto)
	authed.PUT("/auth/change-password", c.Auth.ChangePassword)

	// Posts
	authed.POST("/api/post", c.Post.Create)
	authed.GET("/api/post", c.Post.ListMine)
	authed.PUT("/api/posts/:id", c.Post.Update)
	authed.DELETE("/api/posts/:id", c.Post.Delete)

	// Orders
	authed.POST("/order/create", c.Order.Create)
	authed.PUT("/order/orders/:orderId/cancel", c.Order.Cancel)
	authed.PUT("/order/orders/:orderId/accept", c.Order.Accept)
	authed.PUT("/order/orders/:orderId/reject", c.Order.Reject)
	authed.GET("/order/user-orders", c.Order.MyOrders)
	authed.GET("/order/my-booked-orders", c.Order.ReceivedOrders)

	// Payments
	authed.POST("/payment/khalti/verify", c.Payment.VerifyKhalti)
	authed.GET("/payment/history", c.Payment.History)

	// Support tickets
	authed.POST("/txt/create", c.Ticket.Create)
	authed.GET("/txt/my-tickets", c.Ticket.ListMine)
	authed.PUT("/txt/update/:id", c.Ticket.Update)
	authed.DELETE("/txt/delete/:id", c.Ticket.Delete)

	// Admin
	adminOnly := RequireRole(model.RoleAdmin)

	adm := e.Group("/admin", jwtMW, claimsMW, adminOnly)
	adm.GET("/clients", c.Admin.ListClients)
	adm.GET("/recent-users", c.Admin.RecentClients)
	adm.GET("/clients/:accountId", c.Admin.ClientDetail)
	adm.PUT("/clients/:accountId", c.Admin.UpdateClient)
	adm.DELETE("/clients/:accountId", c.Admin.DeleteClient)
	adm.GET("/posts", c.Admin.ListPosts)
	adm.PUT("/posts/:id", c.Admin.UpdatePost)
	adm.DELETE("/posts/:id", c.Admin.DeletePost)

	authed.PUT("/order/posts/:postId/status", c.Admin.SetPostStatus, adminOnly)
	e.GET("/feadback/list", c.Feedback.ListAll, jwtMW, claimsMW, adminOnly)

	count := e.Group("/count", jwtMW, claimsMW, adminOnly)
	count.GET("/posts", c.Admin.CountPosts)
	count.GET("/clients", c.Admin.CountClients)
}
