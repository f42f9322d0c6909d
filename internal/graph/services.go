package graph

import (
	"context"
	"strings"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/events"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/models"
)

const (
	defaultServiceLimit = 10
	servicesPerPage     = 6
)

type serviceResolver struct {
	s *models.Service
}

func (r *serviceResolver) ID() graphql.ID { return graphql.ID(r.s.ID.Hex()) }
func (r *serviceResolver) Name() string { return r.s.Name }
func (r *serviceResolver) Description() string { return r.s.Description }
func (r *serviceResolver) Price() string { return r.s.Price }
func (r *serviceResolver) CreatedAt() Date { return Date{r.s.CreatedAt} }
func (r *serviceResolver) UpdatedAt() Date { return Date{r.s.UpdatedAt} }

func (r *serviceResolver) Img() *imgResolver {
	if r.s.Img == nil {
		return nil
	}
	return &imgResolver{r.s.Img}
}

type imgResolver struct {
	img *models.Image
}

func (r *imgResolver) PublicID() string { return r.img.PublicID }
func (r *imgResolver) URL() string { return r.img.URL }

type servicePageResolver struct {
	page *models.ServicePage
}

func (r *servicePageResolver) ServicesByPagination() []*serviceResolver {
	return serviceResolvers(r.page.Services)
}

func (r *servicePageResolver) TotalService() int32 { return int32(r.page.Total) }

type deleteResolver struct {
	res models.DeleteResult
}

func (r *deleteResolver) Acknowledged() bool { return r.res.Acknowledged }
func (r *deleteResolver) DeletedCount() int32 { return int32(r.res.DeletedCount) }

func serviceResolvers(services []models.Service) []*serviceResolver {
	out := make([]*serviceResolver, len(services))
	for i := range services {
		out[i] = &serviceResolver{&services[i]}
	}
	return out
}

type imgInput struct {
	PublicID string
	URL      string
}

func (in *imgInput) image() *models.Image {
	if in == nil {
		return nil
	}
	return &models.Image{PublicID: in.PublicID, URL: in.URL}
}

type createServiceInput struct {
	Name        string
	Description string
	Img         *imgInput
	Price       string
}

type updateServiceInput struct {
	Name        *string
	Description *string
	Img         *imgInput
	Price       string
}

// GetAllServicesUnderLimit returns the newest services. A null limit means
// the default of 10; zero means no limit.
func (r *Resolver) GetAllServicesUnderLimit(ctx context.Context, args struct{ Limit *int32 }) ([]*serviceResolver, error) {
	limit := int64(defaultServiceLimit)
	if args.Limit != nil {
		if *args.Limit < 0 {
			return nil, r.fail("getAllServicesUnderLimit", apperror.Validation("limit", "limit must not be negative"))
		}
		limit = int64(*args.Limit)
	}

	services, err := r.services.List(ctx, limit)
	if err != nil {
		return nil, r.fail("getAllServicesUnderLimit", err)
	}
	return serviceResolvers(services), nil
}

func (r *Resolver) GetAllServiceByPage(ctx context.Context, args struct{ Page int32 }) (*servicePageResolver, error) {
	if args.Page < 1 {
		return nil, r.fail("getAllServiceByPage", apperror.Validation("page", "page must be 1 or greater"))
	}

	page, err := r.services.Page(ctx, int64(args.Page), servicesPerPage)
	if err != nil {
		return nil, r.fail("getAllServiceByPage", err)
	}
	return &servicePageResolver{page}, nil
}

func (r *Resolver) GetService(ctx context.Context, args struct{ ServiceID graphql.ID }) (*serviceResolver, error) {
	svc, err := r.services.GetByID(ctx, string(args.ServiceID))
	if err != nil {
		return nil, r.fail("getService", err)
	}
	return &serviceResolver{svc}, nil
}

func (r *Resolver) GetSearchResult(ctx context.Context, args struct{ Search string }) ([]*serviceResolver, error) {
	term := strings.TrimSpace(args.Search)
	if term == "" {
		return []*serviceResolver{}, nil
	}

	services, err := r.services.Search(ctx, term)
	if err != nil {
		return nil, r.fail("getSearchResult", err)
	}
	return serviceResolvers(services), nil
}

func (r *Resolver) CreateNewService(ctx context.Context, args struct{ Input createServiceInput }) (*serviceResolver, error) {
	if _, err := r.requireAdmin(ctx); err != nil {
		return nil, r.fail("createNewService", err)
	}
	in := args.Input
	if strings.TrimSpace(in.Price) == "" {
		return nil, r.fail("createNewService", apperror.Validation("price", "price is required"))
	}

	svc, err := r.services.Insert(ctx, &models.Service{
		Name:        in.Name,
		Description: in.Description,
		Img:         in.Img.image(),
		Price:       in.Price,
	})
	if err != nil {
		return nil, r.fail("createNewService", err)
	}
	r.publish(ctx, events.ServiceAdded, svc)
	return &serviceResolver{svc}, nil
}

func (r *Resolver) UpdateService(ctx context.Context, args struct {
	ServiceID graphql.ID
	Input     updateServiceInput
}) (*serviceResolver, error) {
	if _, err := r.requireAdmin(ctx); err != nil {
		return nil, r.fail("updateService", err)
	}
	in := args.Input
	if strings.TrimSpace(in.Price) == "" {
		return nil, r.fail("updateService", apperror.Validation("price", "price is required"))
	}

	svc, err := r.services.Update(ctx, string(args.ServiceID), models.ServiceUpdate{
		Name:        in.Name,
		Description: in.Description,
		Img:         in.Img.image(),
		Price:       in.Price,
	})
	if err != nil {
		return nil, r.fail("updateService", err)
	}
	r.publish(ctx, events.ServiceUpdated, svc)
	return &serviceResolver{svc}, nil
}

// RemoveService deletes the service. The image stays on the media host.
func (r *Resolver) RemoveService(ctx context.Context, args struct{ ServiceID graphql.ID }) (*deleteResolver, error) {
	if _, err := r.requireAdmin(ctx); err != nil {
		return nil, r.fail("removeService", err)
	}

	removed, err := r.services.Delete(ctx, string(args.ServiceID))
	if err != nil {
		return nil, r.fail("removeService", err)
	}
	if removed == nil {
		return &deleteResolver{models.DeleteResult{Acknowledged: true}}, nil
	}
	r.publish(ctx, events.ServiceRemoved, removed)
	return &deleteResolver{models.DeleteResult{Acknowledged: true, DeletedCount: 1}}, nil
}

// publish runs after the write has committed, so a failure is only logged.
func (r *Resolver) publish(ctx context.Context, topic events.Topic, svc *models.Service) {
	if err := r.events.Publish(ctx, topic, svc); err != nil {
		r.log.Warn().Err(err).Str("topic", string(topic)).Str("service_id", svc.ID.Hex()).Msg("publish failed")
	}
}
