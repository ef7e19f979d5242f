package storefront

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/storekit/pkg/requestid"
)

// Mountable is anything that exposes an HTTP handler.
type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which tenant-scoped services to mount behind
// the gate. Each service is optional.
type RouterOptions struct {
	// Gate is the tenant resolution and schema binding middleware; see Gate.
	Gate func(http.Handler) http.Handler

	// Tenant-scoped services, all running against the bound schema.
	Shop     Mountable
	Cart     Mountable
	Checkout Mountable
}

// Router assembles the storefront request pipeline: request correlation,
// the routing gate, then the tenant-scoped services.
//
// Example:
//
//	gate := storefront.Gate(resolver, binder, storefront.WithSkipPaths("/health"))
//	r := chi.NewRouter()
//	r.Mount("/", storefront.Router(storefront.RouterOptions{
//	    Gate: gate,
//	    Shop: shopSvc,
//	    Cart: cartSvc,
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	if opts.Gate != nil {
		r.Use(opts.Gate)
	}

	if opts.Shop != nil {
		r.Mount("/", opts.Shop.Handle())
	}
	if opts.Cart != nil {
		r.Mount("/cart", opts.Cart.Handle())
	}
	if opts.Checkout != nil {
		r.Mount("/checkout", opts.Checkout.Handle())
	}

	return r
}
