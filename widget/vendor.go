package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/xy-planning-network/gatekeeper"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// A vendor knows where one login provider keeps its endpoints.
type vendor interface {
	endpoint() oauth2.Endpoint
	logoutURL(returnTo string) string
	userInfo(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) (gatekeeper.Profile, error)
}

// auth0 is a tenant of an Auth0 style vendor.
type auth0 struct {
	base     string
	clientID string
}

func (a auth0) endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   a.base + "/authorize",
		TokenURL:  a.base + "/oauth/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

func (a auth0) logoutURL(returnTo string) string {
	q := url.Values{}
	q.Set("client_id", a.clientID)
	if returnTo != "" {
		q.Set("returnTo", returnTo)
	}

	return a.base + "/v2/logout?" + q.Encode()
}

func (a auth0) userInfo(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) (gatekeeper.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+"/userinfo", nil)
	if err != nil {
		return nil, err
	}

	res, err := cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("status %d: %s", res.StatusCode, b)
	}

	p := make(gatekeeper.Profile)
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding: %s", err)
	}

	return p, nil
}

// google signs users in with their Google account.
type google struct {
	apiEndpoint string
}

func (google) endpoint() oauth2.Endpoint { return googleoauth.Endpoint }

// Google keeps no session on behalf of the application, so there is nothing to end.
func (google) logoutURL(returnTo string) string { return returnTo }

func (g google) userInfo(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) (gatekeeper.Profile, error) {
	opts := []option.ClientOption{option.WithTokenSource(cfg.TokenSource(ctx, tok))}
	if g.apiEndpoint != "" {
		opts = append(opts, option.WithEndpoint(g.apiEndpoint))
	}

	svc, err := goauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	b, err := info.MarshalJSON()
	if err != nil {
		return nil, err
	}

	p := make(gatekeeper.Profile)
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}

	if info.Id != "" {
		p["sub"] = info.Id
	}

	return p, nil
}
