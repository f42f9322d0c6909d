// Package media uploads image files to the media host and removes them.
package media

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/models"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/store"
)

// uploadAttempts bounds how many consecutive millisecond ids Upload tries
// when the host already holds one.
const uploadAttempts = 5

// ObjectStore is the media host as seen by the gateway.
type ObjectStore interface {
	Upload(ctx context.Context, publicID string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, publicID string) error
}

// Resolver loads the bytes behind a file reference.
type Resolver interface {
	Resolve(ctx context.Context, ref string) ([]byte, string, error)
}

type Gateway struct {
	store ObjectStore
	files Resolver
	now   func() time.Time
}

func NewGateway(store ObjectStore, files Resolver) *Gateway {
	return &Gateway{store: store, files: files, now: time.Now}
}

// Upload stores the referenced file under a public id equal to the current
// Unix time in milliseconds. If that id is taken the next millisecond is
// tried, so concurrent uploads never replace each other.
func (g *Gateway) Upload(ctx context.Context, ref string) (*models.Image, error) {
	data, contentType, err := g.files.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	ms := g.now().UnixMilli()
	for i := int64(0); i < uploadAttempts; i++ {
		publicID := strconv.FormatInt(ms+i, 10)
		url, err := g.store.Upload(ctx, publicID, data, contentType)
		if errors.Is(err, store.ErrObjectExists) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &models.Image{PublicID: publicID, URL: url}, nil
	}
	return nil, fmt.Errorf("upload: no free public id after %d attempts from %d", uploadAttempts, ms)
}

// Remove deletes the asset; a missing asset is NOT_FOUND.
func (g *Gateway) Remove(ctx context.Context, publicID string) error {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return apperror.Validation("public_id", "public_id is required")
	}
	return g.store.Remove(ctx, publicID)
}
