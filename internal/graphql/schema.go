// Package graphql expone el endpoint GraphQL: consultas de usuarios y
// registro, con la identidad del token como contexto.
package graphql

import (
	"context"
	"errors"
	"time"

	"github.com/graphql-go/graphql"

	dto "github.com/dvws-go/dvws/internal/http/dto/auth"
	mw "github.com/dvws-go/dvws/internal/http/middlewares"
	authsvc "github.com/dvws-go/dvws/internal/http/services/auth"
	"github.com/dvws-go/dvws/internal/observability/logger"
	"github.com/dvws-go/dvws/internal/store"
)

// DefaultSearchLimit acota userSearch cuando el cliente no pasa limit.
const DefaultSearchLimit = 50

// Deps contiene las dependencias del schema.
type Deps struct {
	Users    store.UserRepository
	Register authsvc.RegisterService
	// Debug agrega el error original en "extensions" de cada error.
	Debug bool
}

// resolver agrupa los resolvers con sus dependencias.
type resolver struct {
	deps Deps
}

// NewSchema construye el schema:
//
//	type Query {
//	  me: User
//	  userFindById(id: String!): User
//	  userSearch(username: String!, limit: Int): [User!]!
//	}
//	type Mutation {
//	  userRegister(username: String!, password: String!): User
//	}
func NewSchema(d Deps) (graphql.Schema, error) {
	rs := &resolver{deps: d}

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: userField(func(u dto.UserResponse) any { return u.ID }),
			},
			"username": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: userField(func(u dto.UserResponse) any { return u.Username }),
			},
			"admin": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: userField(func(u dto.UserResponse) any { return u.Admin }),
			},
			"createdAt": &graphql.Field{
				Type: graphql.String,
				Resolve: userField(func(u dto.UserResponse) any {
					if u.CreatedAt.IsZero() {
						return nil
					}
					return u.CreatedAt.UTC().Format(time.RFC3339)
				}),
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:    userType,
				Resolve: rs.me,
			},
			"userFindById": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: rs.userFindByID,
			},
			"userSearch": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: DefaultSearchLimit},
				},
				Resolve: rs.userSearch,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"userRegister": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: rs.userRegister,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

func userField(get func(dto.UserResponse) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		switch u := p.Source.(type) {
		case dto.UserResponse:
			return get(u), nil
		case *dto.UserResponse:
			if u == nil {
				return nil, nil
			}
			return get(*u), nil
		}
		return nil, nil
	}
}

// =================================================================================
// RESOLVERS
// =================================================================================

// me resuelve el usuario del claim "user". Sin identidad devuelve null.
func (rs *resolver) me(p graphql.ResolveParams) (any, error) {
	name := mw.ClaimString(mw.GetClaims(p.Context), "user")
	if name == "" {
		return nil, nil
	}
	u, err := rs.deps.Users.GetByUsername(p.Context, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, rs.fail(p.Context, "me", err)
	}
	return view(u), nil
}

// userFindByID no compara el id pedido con la identidad del token.
func (rs *resolver) userFindByID(p graphql.ResolveParams) (any, error) {
	id, _ := p.Args["id"].(string)
	u, err := rs.deps.Users.GetByID(p.Context, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, rs.fail(p.Context, "userFindById", err)
	}
	return view(u), nil
}

func (rs *resolver) userSearch(p graphql.ResolveParams) (any, error) {
	q, _ := p.Args["username"].(string)
	limit, ok := p.Args["limit"].(int)
	if !ok || limit <= 0 {
		limit = DefaultSearchLimit
	}
	users, err := rs.deps.Users.Search(p.Context, q, limit)
	if err != nil {
		return nil, rs.fail(p.Context, "userSearch", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, view(&users[i]))
	}
	return out, nil
}

func (rs *resolver) userRegister(p graphql.ResolveParams) (any, error) {
	username, _ := p.Args["username"].(string)
	password, _ := p.Args["password"].(string)
	u, err := rs.deps.Register.Register(p.Context, dto.CredentialsRequest{Username: username, Password: password})
	switch {
	case err == nil:
		return *u, nil
	case errors.Is(err, authsvc.ErrUsernameTaken), errors.Is(err, authsvc.ErrMissingFields),
		errors.Is(err, authsvc.ErrInvalidUsername):
		return nil, err
	default:
		return nil, rs.fail(p.Context, "userRegister", err)
	}
}

func view(u *store.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Username: u.Username, Admin: u.Admin, CreatedAt: u.CreatedAt}
}

// =================================================================================
// ERRORES
// =================================================================================

var (
	errUserNotFound = errors.New("user not found")
	errInternal     = errors.New("internal server error")
)

// debugError expone la causa en "extensions" (ver gqlerrors.ExtendedError).
type debugError struct {
	op  string
	err error
}

func (e *debugError) Error() string { return e.err.Error() }
func (e *debugError) Unwrap() error { return e.err }

func (e *debugError) Extensions() map[string]any {
	return map[string]any{
		"code":      "INTERNAL_SERVER_ERROR",
		"operation": e.op,
		"exception": e.err.Error(),
	}
}

// fail loguea un error inesperado. En debug lo devuelve con detalle; si no,
// devuelve un mensaje genérico.
func (rs *resolver) fail(ctx context.Context, op string, err error) error {
	logger.From(ctx).Error("graphql resolver failed",
		logger.Layer("graphql"), logger.Operation(op), logger.Err(err))
	if rs.deps.Debug {
		return &debugError{op: op, err: err}
	}
	return errInternal
}
