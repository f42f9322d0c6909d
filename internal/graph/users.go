package graph

import (
	"context"
	"net/mail"
	"strings"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/auth"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/models"
)

type userResolver struct {
	u *models.User
}

func (r *userResolver) ID() graphql.ID { return graphql.ID(r.u.ID) }
func (r *userResolver) Email() string { return r.u.Email }
func (r *userResolver) Username() string { return r.u.Username }
func (r *userResolver) Role() string { return string(r.u.Role) }
func (r *userResolver) Name() string { return r.u.Name }
func (r *userResolver) Image() string { return r.u.Image }
func (r *userResolver) Phone() string { return r.u.Phone }
func (r *userResolver) Address() string { return r.u.Address }
func (r *userResolver) CreatedAt() Date { return Date{r.u.CreatedAt} }
func (r *userResolver) UpdatedAt() Date { return Date{r.u.UpdatedAt} }

type createUserInput struct {
	Email   string
	Name    *string
	Image   *string
	Phone   *string
	Address *string
}

type profileInput struct {
	Name    *string
	Image   *string
	Phone   *string
	Address *string
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// CreateNewUser returns the user with the given email, creating it first.
// An existing record is returned unchanged.
func (r *Resolver) CreateNewUser(ctx context.Context, args struct{ Input createUserInput }) (*userResolver, error) {
	email := strings.ToLower(strings.TrimSpace(args.Input.Email))
	if !validEmail(email) {
		return nil, r.fail("createNewUser", apperror.Validation("email", "invalid email address"))
	}

	u, err := r.users.UpsertUser(ctx, models.NewUser{
		Email:   email,
		Name:    deref(args.Input.Name),
		Image:   deref(args.Input.Image),
		Phone:   deref(args.Input.Phone),
		Address: deref(args.Input.Address),
	})
	if err != nil {
		return nil, r.fail("createNewUser", err)
	}
	return &userResolver{u}, nil
}

// ProfileUpdate applies the supplied fields to the caller's own record.
func (r *Resolver) ProfileUpdate(ctx context.Context, args struct{ Input profileInput }) (*userResolver, error) {
	caller, err := r.auth.CheckAuth(ctx)
	if err != nil {
		return nil, r.fail("profileUpdate", err)
	}

	u, err := r.users.UpdateProfile(ctx, caller.Email, models.ProfileUpdate{
		Name:    args.Input.Name,
		Image:   args.Input.Image,
		Phone:   args.Input.Phone,
		Address: args.Input.Address,
	})
	if err != nil {
		return nil, r.fail("profileUpdate", err)
	}
	return &userResolver{u}, nil
}

func (r *Resolver) AllUsersByRole(ctx context.Context) ([]*userResolver, error) {
	if _, err := r.requireAdmin(ctx); err != nil {
		return nil, r.fail("allUsersByRole", err)
	}

	users, err := r.users.ListUsersByRole(ctx, models.RoleUser)
	if err != nil {
		return nil, r.fail("allUsersByRole", err)
	}
	out := make([]*userResolver, len(users))
	for i := range users {
		out[i] = &userResolver{&users[i]}
	}
	return out, nil
}

func (r *Resolver) CurrentUser(ctx context.Context) (*userResolver, error) {
	u, err := r.auth.CheckAuth(ctx)
	if err != nil {
		return nil, r.fail("currentUser", err)
	}
	return &userResolver{u}, nil
}

// GetAdminUser reports whether the caller is an admin. Only admins may ask.
func (r *Resolver) GetAdminUser(ctx context.Context) (bool, error) {
	return r.adminRoleIs(ctx, "getAdminUser", models.RoleAdmin)
}

// GetUser reports whether the caller has the user role. Only admins may ask,
// so a successful answer is always false.
func (r *Resolver) GetUser(ctx context.Context) (bool, error) {
	return r.adminRoleIs(ctx, "getUser", models.RoleUser)
}

func (r *Resolver) IsAdmin(ctx context.Context) (bool, error) {
	return r.roleIs(ctx, "isAdmin", models.RoleAdmin)
}

func (r *Resolver) IsUser(ctx context.Context) (bool, error) {
	return r.roleIs(ctx, "isUser", models.RoleUser)
}

func (r *Resolver) requireAdmin(ctx context.Context) (*models.User, error) {
	caller, err := r.auth.CheckAuth(ctx)
	if err != nil {
		return nil, err
	}
	return auth.AdminAuthCheck(caller)
}

func (r *Resolver) adminRoleIs(ctx context.Context, op string, role models.Role) (bool, error) {
	admin, err := r.requireAdmin(ctx)
	if err != nil {
		return false, r.fail(op, err)
	}
	return r.refetchRoleIs(ctx, op, admin.Email, role)
}

func (r *Resolver) roleIs(ctx context.Context, op string, role models.Role) (bool, error) {
	caller, err := r.auth.CheckAuth(ctx)
	if err != nil {
		return false, r.fail(op, err)
	}
	return r.refetchRoleIs(ctx, op, caller.Email, role)
}

func (r *Resolver) refetchRoleIs(ctx context.Context, op, email string, role models.Role) (bool, error) {
	u, err := r.users.GetUserByEmail(ctx, email)
	if err != nil {
		return false, r.fail(op, err)
	}
	return u.Role == role, nil
}
