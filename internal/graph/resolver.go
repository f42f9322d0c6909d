// Package graph is the GraphQL surface: the schema, the root resolver and the
// type resolvers for users and services.
package graph

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/events"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/models"
)

// UserStore is the user persistence the resolvers need.
type UserStore interface {
	UpsertUser(ctx context.Context, in models.NewUser) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, email string, upd models.ProfileUpdate) (*models.User, error)
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
}

// ServiceStore is the catalog persistence the resolvers need.
type ServiceStore interface {
	Insert(ctx context.Context, svc *models.Service) (*models.Service, error)
	List(ctx context.Context, limit int64) ([]models.Service, error)
	Page(ctx context.Context, page, perPage int64) (*models.ServicePage, error)
	Search(ctx context.Context, term string) ([]models.Service, error)
	GetByID(ctx context.Context, id string) (*models.Service, error)
	Update(ctx context.Context, id string, upd models.ServiceUpdate) (*models.Service, error)
	Delete(ctx context.Context, id string) (*models.Service, error)
}

// Authenticator resolves the caller of the current request.
type Authenticator interface {
	CheckAuth(ctx context.Context) (*models.User, error)
}

// Broker carries service events between instances.
type Broker interface {
	Publish(ctx context.Context, topic events.Topic, svc *models.Service) error
	Subscribe(ctx context.Context, topic events.Topic) (<-chan *models.Service, error)
}

// Resolver is the root resolver. Query, Mutation and Subscription fields are
// all methods on it.
type Resolver struct {
	users    UserStore
	services ServiceStore
	auth     Authenticator
	events   Broker
	log      zerolog.Logger
}

func NewResolver(users UserStore, services ServiceStore, auth Authenticator, broker Broker, log zerolog.Logger) *Resolver {
	return &Resolver{
		users:    users,
		services: services,
		auth:     auth,
		events:   broker,
		log:      log,
	}
}
