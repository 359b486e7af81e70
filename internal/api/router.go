package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ApiMux struct {
	chi.Router
}

func NewApiRouter() *ApiMux {
	return &ApiMux{
		Router: chi.NewRouter(),
	}
}

// ApiHandleFunc is an http handler that may return an error. Returned
// *ApiError values are written to the client as-is; anything else is
// logged and converted to an opaque 500 so storage errors never leak.
type ApiHandleFunc func(http.ResponseWriter, *http.Request) error

func (h ApiHandleFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	err := h(w, r)

	if err == nil {
		return
	}

	if apiErr, ok := err.(*ApiError); ok {
		if err := WriteJsonResponseWithStatusCode(w, apiErr, apiErr.Code); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		return
	}

	log.Printf("Internal Server Error: %v", err)

	apiErr := NewApiError("Internal Server Error", http.StatusInternalServerError)

	if err := WriteJsonResponseWithStatusCode(w, apiErr, apiErr.Code); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

}

func (a *ApiMux) Get(path string, h ApiHandleFunc) {
	a.Router.Get(path, h.ServeHTTP)
}

func (a *ApiMux) Post(path string, h ApiHandleFunc) {
	a.Router.Post(path, h.ServeHTTP)
}

func (a *ApiMux) Put(path string, h ApiHandleFunc) {
	a.Router.Put(path, h.ServeHTTP)
}

func (a *ApiMux) Delete(path string, h ApiHandleFunc) {
	a.Router.Delete(path, h.ServeHTTP)
}

func (a *ApiMux) Route(path string, f func(r *ApiMux)) {
	a.Router.Route(path, func(r chi.Router) {
		f(&ApiMux{Router: r})
	})
}
