package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jhoicas/farmacia-admin/internal/application/ports"
	"github.com/jhoicas/farmacia-admin/internal/domain/entity"
)

var _ ports.UsersAPI = (*Client)(nil)

// ListUsers GET /all-users.
func (c *Client) ListUsers(ctx context.Context, token string) ([]entity.User, error) {
	var out []wireUser
	if err := c.do(ctx, http.MethodGet, "/all-users", nil, &out, UseToken(token)); err != nil {
		return nil, err
	}
	if err := c.check("users", listOf[wireUser]{Items: out}); err != nil {
		return nil, err
	}
	users := make([]entity.User, 0, len(out))
	for _, u := range out {
		users = append(users, u.toEntity())
	}
	return users, nil
}

// CreateAdmin POST /create-admin.
func (c *Client) CreateAdmin(ctx context.Context, token string, in ports.NewAdmin) (*entity.User, error) {
	return c.userRequest(ctx, http.MethodPost, "/create-admin", in, token)
}

// DeleteUser DELETE /delete-user/{id}.
func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/delete-user/"+url.PathEscape(id), nil, nil, UseToken(token))
}

// UpdatePermission PUT /update-permission/{id}.
func (c *Client) UpdatePermission(ctx context.Context, token, id, permission string) (*entity.User, error) {
	in := map[string]string{"permission": permission}
	return c.userRequest(ctx, http.MethodPut, "/update-permission/"+url.PathEscape(id), in, token)
}
