package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dvws-go/dvws/internal/http/errors"
	mw "github.com/dvws-go/dvws/internal/http/middlewares"
)

// GraphQLDeps contiene las dependencias del listener GraphQL.
type GraphQLDeps struct {
	Handler http.Handler
	// AuthConfig.Options debería ser Issuer.GraphQLOptions().
	AuthConfig mw.AuthConfig
	CORS       mw.CORSConfig
}

// NewGraphQL arma el handler del listener GraphQL. La identidad del token es
// opcional: sin token válido las operaciones corren con claims vacías.
func NewGraphQL(d GraphQLDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithMetrics("graphql"),
		mw.WithLogging(),
		mw.WithCORS(d.CORS),
		mw.OptionalIdentity(d.AuthConfig),
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})

	r.Handle("/", d.Handler)
	r.Handle("/graphql", d.Handler)
	return r
}
