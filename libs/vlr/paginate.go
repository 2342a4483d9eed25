package vlr

import (
	"context"
	"encoding/json"
)

const CountryJapan = "jp"

// AllPlayers walks the players listing for country page by page until a page
// comes back empty or reports no next page. The pages fetched before a
// failure are returned along with the error.
func (c *Client) AllPlayers(ctx context.Context, country string, opts ...CallOption) ([]Player, error) {
	var players []Player

	for page := 1; ; page++ {
		data, err := c.Players(ctx, PlayersQuery{Limit: DefaultLimit, Page: page, Country: country}, opts...)
		if err != nil {
			return players, err
		}

		res, err := DecodeList[Player]("players", data)
		if err != nil {
			c.logger.WithField("event", "list_players").WithField("page", page).Error(err)
			return players, err
		}

		if len(res.Data) == 0 {
			break
		}
		players = append(players, res.Data...)

		if !res.Pagination.HasNextPage {
			break
		}
	}

	return players, nil
}

// DecodeList decodes one page of a list endpoint.
func DecodeList[T any](endpoint string, data json.RawMessage) (*PaginatedResponse[T], error) {
	var res PaginatedResponse[T]
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Err: err}
	}
	return &res, nil
}

func (c *Client) AllJapanesePlayers(ctx context.Context, opts ...CallOption) ([]Player, error) {
	return c.AllPlayers(ctx, CountryJapan, opts...)
}
