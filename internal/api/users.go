package api

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"

	"socialfi/internal/domain"
)

// GetUser fetches the user profile for address.
func (c *Client) GetUser(ctx context.Context, address domain.Address) (domain.UserProfile, error) {
	var out domain.UserProfile
	if err := c.getJSON(ctx, addressPath("/api/users/", address, ""), nil, &out); err != nil {
		return domain.UserProfile{}, err
	}
	return out, nil
}

// HasLinkedTwitter fetches the profile and reports whether it carries a
// truthy twitterId. Only the presence of the identifier matters here, so the
// body is probed rather than decoded.
func (c *Client) HasLinkedTwitter(ctx context.Context, address domain.Address) (bool, error) {
	body, err := c.send(ctx, http.MethodGet, addressPath("/api/users/", address, ""), nil, nil)
	if err != nil {
		return false, err
	}
	return truthy(gjson.GetBytes(body, "twitterId")), nil
}

// GetUserScore fetches the community score and loan eligibility for address.
func (c *Client) GetUserScore(ctx context.Context, address domain.Address) (domain.UserScore, error) {
	var out domain.UserScore
	if err := c.getJSON(ctx, addressPath("/api/users/", address, "/score"), nil, &out); err != nil {
		return domain.UserScore{}, err
	}
	return out, nil
}

// ConnectTwitter links a twitter handle to address.
func (c *Client) ConnectTwitter(
	ctx context.Context,
	address domain.Address,
	conn domain.TwitterConnection,
) (domain.StatusMessage, error) {
	var out domain.StatusMessage
	if err := c.post(ctx, addressPath("/api/users/", address, "/connect-twitter"), conn, &out); err != nil {
		return domain.StatusMessage{}, err
	}
	return out, nil
}

// GetTwitterStats fetches activity stats for the account linked to address.
func (c *Client) GetTwitterStats(ctx context.Context, address domain.Address) (domain.TwitterStats, error) {
	var out domain.TwitterStats
	if err := c.getJSON(ctx, addressPath("/api/users/", address, "/twitter-stats"), nil, &out); err != nil {
		return domain.TwitterStats{}, err
	}
	return out, nil
}

// truthy mirrors how loosely typed clients test a JSON value: null, false,
// 0 and "" are false; everything else present is true.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}
