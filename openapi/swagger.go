package openapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SwaggerHandler returns an http.Handler serving the Swagger UI for doc
// under prefix. The document itself is served at prefix + "docs.json".
// doc is validated and rendered once; later changes to it are not served.
//
//	r.Handle("/swagger/*", openapi.SwaggerHandlerMust("/swagger/", doc))
func SwaggerHandler(prefix string, doc *openapi3.T) (http.Handler, error) {
	if err := doc.Validate(context.Background()); err != nil {
		return nil, err
	}
	specJSON, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	ui := httpSwagger.Handler(httpSwagger.URL(prefix + "docs.json"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimPrefix(r.URL.Path, prefix) == "docs.json" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(specJSON)
			return
		}
		ui.ServeHTTP(w, r)
	}), nil
}

// SwaggerHandlerMust is like SwaggerHandler but panics on error.
func SwaggerHandlerMust(prefix string, doc *openapi3.T) http.Handler {
	h, err := SwaggerHandler(prefix, doc)
	if err != nil {
		panic(err)
	}
	return h
}
