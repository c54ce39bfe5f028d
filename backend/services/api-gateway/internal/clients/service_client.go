package clients

import (
	"context"
)

// UserEmailHeader carries the authenticated caller to internal services.
const UserEmailHeader = "X-User-Email"

// ServiceClient forwards authenticated calls to an internal service
// (vehicles or scheduling) on behalf of a user.
type ServiceClient struct {
	name string
	base *BaseClient
}

// NewServiceClient returns client for the named upstream.
func NewServiceClient(name, baseURL string, httpClient HTTPDoer) *ServiceClient {
	return &ServiceClient{name: name, base: NewBaseClient(baseURL, httpClient)}
}

// Name identifies the upstream in logs and error messages.
func (c *ServiceClient) Name() string {
	return c.name
}

// Forward sends the request with the caller's email attached. path may carry a query string.
func (c *ServiceClient) Forward(ctx context.Context, method, path string, body []byte, email string) (*Response, error) {
	return c.base.Do(ctx, method, path, body, map[string]string{UserEmailHeader: email})
}
