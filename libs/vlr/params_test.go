package vlr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		params   Params
		want     string
	}{
		{
			name:     "no params",
			endpoint: "players/9",
			want:     "players_9_no_params",
		},
		{
			name:     "empty params",
			endpoint: "teams/1001",
			params:   Params{},
			want:     "teams_1001_no_params",
		},
		{
			name:     "caller order kept",
			endpoint: "players",
			params:   Params{}.Add("limit", "100").Add("page", "1").Add("country", "jp"),
			want:     "players_limit=100_page=1_country=jp",
		},
		{
			name:     "order changes key",
			endpoint: "players",
			params:   Params{}.Add("country", "jp").Add("limit", "100").Add("page", "1"),
			want:     "players_country=jp_limit=100_page=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CacheKey(tt.endpoint, tt.params))
		})
	}
}

func TestParams_Encode(t *testing.T) {
	params := Params{}.Add("limit", "100").Add("region", "la-s").Add("q", "a b&c")
	assert.Equal(t, "limit=100&region=la-s&q=a+b%26c", params.Encode())
}

func TestQueryParams(t *testing.T) {
	assert.Equal(t, "limit=100&page=1", PageQuery{}.params().Encode())
	assert.Equal(t, "limit=25&page=3", PageQuery{Limit: 25, Page: 3}.params().Encode())
}
