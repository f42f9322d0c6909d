package graph

import (
	"context"
	_ "embed"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/graph-gophers/graphql-transport-ws/graphqlws"
	"github.com/rs/zerolog"
)

//go:embed schema.graphql
var schemaSDL string

const maxQueryDepth = 12

// NewSchema parses the schema and binds it to r.
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, r,
		graphql.MaxDepth(maxQueryDepth),
		graphql.Logger(panicLogger{log: r.log}),
	)
}

// NewHandler serves queries and mutations over HTTP POST and subscriptions
// over the graphql-ws websocket protocol on the same path.
func NewHandler(schema *graphql.Schema) http.Handler {
	return graphqlws.NewHandlerFunc(schema, &relay.Handler{Schema: schema})
}

type panicLogger struct {
	log zerolog.Logger
}

func (l panicLogger) LogPanic(_ context.Context, value any) {
	l.log.Error().Interface("panic", value).Msg("graphql resolver panicked")
}
