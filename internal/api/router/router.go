package router

import (
	"fmt"
	"net/http"

	"github.com/RoyceAzure/lab/shop/internal/api"
	m "github.com/RoyceAzure/lab/shop/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func SetupRouter(server *api.Server, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.RecoverMiddleware)

	// API 路由
	r.Route("/api/v1", func(r chi.Router) {
		//商品目錄
		r.Route("/products", func(r chi.Router) {
			r.Get("/", server.ProductHandler.ListActiveProducts)
			r.Get("/search", server.ProductHandler.SearchProducts)
			r.Get("/slug/{slug}", server.ProductHandler.GetProductBySlug)
			r.Get("/{id}", server.ProductHandler.GetProduct)
		})

		//訂單
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", server.OrderHandler.PlaceOrder)
			r.Post("/checkout", server.OrderHandler.DirectCheckout)
			r.Get("/number/{number}", server.OrderHandler.GetOrderByNumber)
			r.Get("/{id}", server.OrderHandler.GetOrder)
			r.Put("/{id}", server.OrderHandler.EditOrder)
			r.Post("/{id}/cancel", server.OrderHandler.CancelOrder)
			r.Delete("/{id}", server.OrderHandler.DeleteOrder)
		})

		//會員
		r.Route("/users", func(r chi.Router) {
			r.Post("/", server.UserHandler.Register)
			r.Get("/{id}", server.UserHandler.GetUser)
			r.Get("/{id}/orders", server.OrderHandler.GetUserOrders)
		})

		//後台管理
		r.Route("/admin", func(r chi.Router) {
			r.Route("/products", func(r chi.Router) {
				r.Get("/", server.ProductHandler.ListProducts)
				r.Post("/", server.ProductHandler.CreateProduct)
				r.Get("/low-stock", server.ProductHandler.GetLowStockProducts)
				r.Put("/{id}", server.ProductHandler.UpdateProduct)
				r.Delete("/{id}", server.ProductHandler.DeleteProduct)
			})
			r.Get("/orders", server.OrderHandler.ListOrders)
		})
	})

	// 在設置完所有路由後打印路由樹
	fmt.Println(chi.Walk(r, func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		fmt.Printf("%s %s\n", method, route)
		return nil
	}))
	return r
}
