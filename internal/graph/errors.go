package graph

import (
	qerrors "github.com/graph-gophers/graphql-go/errors"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
)

// gqlError is what resolvers return to the engine; Extensions puts the code
// under extensions.code in the response.
type gqlError struct {
	message string
	code    apperror.Code
}

func (e *gqlError) Error() string { return e.message }

func (e *gqlError) Extensions() map[string]any {
	return map[string]any{"code": string(e.code)}
}

// queryError is the subscription form; the engine only keeps extensions on
// subscription errors that are already query errors.
func (e *gqlError) queryError() *qerrors.QueryError {
	return &qerrors.QueryError{Message: e.message, Extensions: e.Extensions()}
}

// fail converts err for the client. Uncategorised errors are logged and
// replaced by a generic message.
func (r *Resolver) fail(op string, err error) *gqlError {
	code := apperror.CodeOf(err)
	if code == apperror.CodeInternal {
		r.log.Error().Err(err).Str("op", op).Msg("resolver failed")
		return &gqlError{message: "Server Error", code: code}
	}
	return &gqlError{message: err.Error(), code: code}
}
