package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/setuponce/backend/api/handler"
	"github.com/setuponce/backend/domain"
	"github.com/setuponce/backend/internal/metrics"
)

type Handlers struct {
	Health     *apiHandler.HealthHandler
	Account    *apiHandler.AccountHandler
	Business   *apiHandler.BusinessHandler
	Dashboard  *apiHandler.DashboardHandler
	Catalog    *apiHandler.CatalogHandler
	Products   *apiHandler.TabHandler[domain.Product, domain.ProductInput]
	Categories *apiHandler.TabHandler[domain.Category, domain.CategoryInput]
	Attributes *apiHandler.TabHandler[domain.Attribute, domain.AttributeInput]
	Orders     *apiHandler.TabHandler[domain.Order, domain.OrderInput]
	OrderState *apiHandler.OrderHandler
	Chats      *apiHandler.TabHandler[domain.Conversation, domain.ConversationInput]
	Chat       *apiHandler.ChatHandler
}

// tab is the CRUD surface every tenant collection exposes.
type tab interface {
	List(ctx *fasthttp.RequestCtx)
	Create(ctx *fasthttp.RequestCtx)
	Update(ctx *fasthttp.RequestCtx)
	Delete(ctx *fasthttp.RequestCtx)
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, m *metrics.Metrics) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	r.GET("/metrics", m.Handler())

	// protected wraps a handler with auth and per-route metrics.
	protected := func(route string, h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return m.Middleware(route, authMiddleware(h))
	}
	mountTab := func(path string, t tab) {
		r.GET(path, protected(path, t.List))
		r.POST(path, protected(path, t.Create))
		r.PUT(path+"/{id}", protected(path+"/{id}", t.Update))
		r.DELETE(path+"/{id}", protected(path+"/{id}", t.Delete))
	}

	v1 := "/api/v1"

	r.POST(v1+"/auth/signout", protected(v1+"/auth/signout", handlers.Account.SignOut))
	r.GET(v1+"/profile", protected(v1+"/profile", handlers.Account.Profile))

	r.GET(v1+"/business", protected(v1+"/business", handlers.Business.Get))
	r.POST(v1+"/business", protected(v1+"/business", handlers.Business.Create))
	r.PUT(v1+"/business", protected(v1+"/business", handlers.Business.Update))
	r.GET(v1+"/admin/businesses", protected(v1+"/admin/businesses", handlers.Business.ListAll))

	r.GET(v1+"/overview", protected(v1+"/overview", handlers.Dashboard.Overview))
	r.GET(v1+"/notifications", protected(v1+"/notifications", handlers.Dashboard.Notifications))

	mountTab(v1+"/products", handlers.Products)
	r.GET(v1+"/products/lookups", protected(v1+"/products/lookups", handlers.Catalog.Lookups))

	mountTab(v1+"/categories", handlers.Categories)
	r.GET(v1+"/categories/tree", protected(v1+"/categories/tree", handlers.Catalog.CategoryTree))

	mountTab(v1+"/attributes", handlers.Attributes)

	mountTab(v1+"/orders", handlers.Orders)
	r.PATCH(v1+"/orders/{id}/status", protected(v1+"/orders/{id}/status", handlers.OrderState.UpdateStatus))

	mountTab(v1+"/conversations", handlers.Chats)
	r.GET(v1+"/conversations/{id}/messages", protected(v1+"/conversations/{id}/messages", handlers.Chat.Thread))
	r.POST(v1+"/conversations/{id}/messages", protected(v1+"/conversations/{id}/messages", handlers.Chat.Send))

	return r
}
