package vlr

import (
	"context"
	"encoding/json"
	"strconv"
)

type PageQuery struct {
	Limit int
	Page  int
}

func (q PageQuery) params() Params {
	limit, page := q.Limit, q.Page
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page <= 0 {
		page = 1
	}
	return Params{}.
		Add("limit", strconv.Itoa(limit)).
		Add("page", strconv.Itoa(page))
}

type PlayersQuery struct {
	Limit   int
	Page    int
	Country string
}

type TeamsQuery struct {
	Limit  int
	Page   int
	Region string
}

type EventsQuery struct {
	Limit  int
	Page   int
	Status string
	Region string
}

// Players lists players, optionally filtered by country code ("jp").
func (c *Client) Players(ctx context.Context, q PlayersQuery, opts ...CallOption) (json.RawMessage, error) {
	params := PageQuery{Limit: q.Limit, Page: q.Page}.params()
	if q.Country != "" {
		params = params.Add("country", q.Country)
	}
	return c.Get(ctx, "players", params, opts...)
}

func (c *Client) Player(ctx context.Context, id string, opts ...CallOption) (json.RawMessage, error) {
	return c.Get(ctx, "players/"+id, nil, opts...)
}

func (c *Client) Teams(ctx context.Context, q TeamsQuery, opts ...CallOption) (json.RawMessage, error) {
	params := PageQuery{Limit: q.Limit, Page: q.Page}.params()
	if q.Region != "" {
		params = params.Add("region", q.Region)
	}
	return c.Get(ctx, "teams", params, opts...)
}

func (c *Client) Team(ctx context.Context, id string, opts ...CallOption) (json.RawMessage, error) {
	return c.Get(ctx, "teams/"+id, nil, opts...)
}

// Events lists events. Status is one of the API's event states
// ("ongoing", "upcoming", "completed").
func (c *Client) Events(ctx context.Context, q EventsQuery, opts ...CallOption) (json.RawMessage, error) {
	params := PageQuery{Limit: q.Limit, Page: q.Page}.params()
	if q.Status != "" {
		params = params.Add("status", q.Status)
	}
	if q.Region != "" {
		params = params.Add("region", q.Region)
	}
	return c.Get(ctx, "events", params, opts...)
}

func (c *Client) Matches(ctx context.Context, q PageQuery, opts ...CallOption) (json.RawMessage, error) {
	return c.Get(ctx, "matches", q.params(), opts...)
}

func (c *Client) Results(ctx context.Context, q PageQuery, opts ...CallOption) (json.RawMessage, error) {
	return c.Get(ctx, "results", q.params(), opts...)
}
