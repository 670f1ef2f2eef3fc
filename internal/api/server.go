package api

import "net/http"

// handler以interface注入，避免api與handler互相依賴
type IOrderHandler interface {
	PlaceOrder(w http.ResponseWriter, r *http.Request)
	DirectCheckout(w http.ResponseWriter, r *http.Request)
	EditOrder(w http.ResponseWriter, r *http.Request)
	CancelOrder(w http.ResponseWriter, r *http.Request)
	DeleteOrder(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	GetOrderByNumber(w http.ResponseWriter, r *http.Request)
	GetUserOrders(w http.ResponseWriter, r *http.Request)
	ListOrders(w http.ResponseWriter, r *http.Request)
}

type IProductHandler interface {
	CreateProduct(w http.ResponseWriter, r *http.Request)
	GetProduct(w http.ResponseWriter, r *http.Request)
	GetProductBySlug(w http.ResponseWriter, r *http.Request)
	ListActiveProducts(w http.ResponseWriter, r *http.Request)
	SearchProducts(w http.ResponseWriter, r *http.Request)
	ListProducts(w http.ResponseWriter, r *http.Request)
	UpdateProduct(w http.ResponseWriter, r *http.Request)
	DeleteProduct(w http.ResponseWriter, r *http.Request)
	GetLowStockProducts(w http.ResponseWriter, r *http.Request)
}

type IUserHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
}

// Server 集中持有各handler，供router註冊路由
type Server struct {
	OrderHandler   IOrderHandler
	ProductHandler IProductHandler
	UserHandler    IUserHandler
}

func NewServer(orderHandler IOrderHandler, productHandler IProductHandler, userHandler IUserHandler) *Server {
	return &Server{
		OrderHandler:   orderHandler,
		ProductHandler: productHandler,
		UserHandler:    userHandler,
	}
}
