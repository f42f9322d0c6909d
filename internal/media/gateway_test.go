package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/store"
)

type fakeObjects struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) Upload(_ context.Context, id string, data []byte, ct string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, ok := f.objects[id]; ok {
		return "", fmt.Errorf("put %s: %w", id, store.ErrObjectExists)
	}
	f.objects[id] = data
	f.types[id] = ct
	return "http://media.local/bucket/" + id, nil
}

func (f *fakeObjects) Remove(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.objects[id]; !ok {
		return apperror.NotFound("image", id)
	}
	delete(f.objects, id)
	return nil
}

func newTestGateway() (*Gateway, *fakeObjects) {
	objs := newFakeObjects()
	g := NewGateway(objs, NewFetcher(nil))
	g.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return g, objs
}

func TestGatewayUpload(t *testing.T) {
	g, objs := newTestGateway()

	img, err := g.Upload(context.Background(), "data:image/gif;base64,R0lGODlh")
	require.NoError(t, err)
	assert.Equal(t, "1700000000123", img.PublicID)
	assert.Equal(t, "http://media.local/bucket/1700000000123", img.URL)
	assert.Equal(t, "image/gif", objs.types["1700000000123"])
}

func TestGatewayUpload_SameMillisecond(t *testing.T) {
	g, objs := newTestGateway()

	first, err := g.Upload(context.Background(), "data:image/gif;base64,R0lGODlh")
	require.NoError(t, err)
	second, err := g.Upload(context.Background(), "data:image/png;base64,iVBORw0KGgo=")
	require.NoError(t, err)

	assert.Equal(t, "1700000000123", first.PublicID)
	assert.Equal(t, "1700000000124", second.PublicID)
	assert.Len(t, objs.objects, 2)
	assert.Equal(t, "image/gif", objs.types["1700000000123"])
}

func TestGatewayUpload_NoFreeID(t *testing.T) {
	g, objs := newTestGateway()
	for i := int64(0); i < uploadAttempts; i++ {
		objs.objects[strconv.FormatInt(1700000000123+i, 10)] = []byte("x")
	}

	_, err := g.Upload(context.Background(), "data:image/gif;base64,R0lGODlh")
	require.Error(t, err)
	assert.Len(t, objs.objects, uploadAttempts)
}

func TestGatewayUpload_HostFailure(t *testing.T) {
	g, objs := newTestGateway()
	objs.err = errors.New("connection refused")

	_, err := g.Upload(context.Background(), "data:image/gif;base64,R0lGODlh")
	assert.Error(t, err)
}

func TestGatewayRemove(t *testing.T) {
	g, objs := newTestGateway()
	objs.objects["42"] = []byte("x")

	require.NoError(t, g.Remove(context.Background(), "42"))
	assert.Empty(t, objs.objects)

	err := g.Remove(context.Background(), "42")
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))

	err = g.Remove(context.Background(), " ")
	assert.True(t, apperror.Is(err, apperror.CodeBadUserInput))
}

func serve(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func TestHandlerUpload(t *testing.T) {
	g, _ := newTestGateway()
	h := NewHandler(g, zerolog.Nop())

	rec := serve(h.Upload, `{"uploadImageFile":"data:image/gif;base64,R0lGODlh"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"public_id":"1700000000123","url":"http://media.local/bucket/1700000000123"}`, rec.Body.String())
}

func TestHandlerUpload_Errors(t *testing.T) {
	g, objs := newTestGateway()
	h := NewHandler(g, zerolog.Nop())

	rec := serve(h.Upload, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h.Upload, `{"uploadImageFile":"ftp://nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	objs.err = errors.New("bucket unavailable")
	rec = serve(h.Upload, `{"uploadImageFile":"data:image/gif;base64,R0lGODlh"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Server Error","code":"INTERNAL_SERVER_ERROR"}`, rec.Body.String())
}

func TestHandlerRemove(t *testing.T) {
	g, objs := newTestGateway()
	objs.objects["99"] = []byte("x")
	h := NewHandler(g, zerolog.Nop())

	rec := serve(h.Remove, `{"public_id":"99"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"image is removed"}`, rec.Body.String())

	rec = serve(h.Remove, `{"public_id":"99"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"image not found with id 99","code":"NOT_FOUND"}`, rec.Body.String())
}
