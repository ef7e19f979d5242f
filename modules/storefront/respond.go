package storefront

import (
	"encoding/json"
	"net/http"
)

// Rejection is the machine-readable reason a request was turned away
// before any schema was bound.
type Rejection struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	status  int
}

var (
	// RejectStoreNotFound is sent when no tenant owns the request.
	RejectStoreNotFound = Rejection{
		Code:    "STORE_NOT_FOUND",
		Message: "No store is configured for this address.",
		status:  http.StatusNotFound,
	}

	// RejectStoreInactive is sent when the owning tenant's status forbids
	// serving the request.
	RejectStoreInactive = Rejection{
		Code:    "STORE_INACTIVE",
		Message: "This store is not accepting requests right now.",
		status:  http.StatusForbidden,
	}
)

// Status returns the HTTP status the rejection maps to.
func (rj Rejection) Status() int { return rj.status }

// RejectHandler writes the rejection response. Replaceable via
// WithRejectHandler for integrators that render storefront error pages.
type RejectHandler func(w http.ResponseWriter, r *http.Request, rejection Rejection)

func defaultRejectHandler(w http.ResponseWriter, _ *http.Request, rejection Rejection) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(rejection.status)
	_ = json.NewEncoder(w).Encode(map[string]Rejection{"error": rejection})
}
