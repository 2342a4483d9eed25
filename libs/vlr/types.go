package vlr

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type Pagination struct {
	Page          int             `json:"page"`
	Limit         json.RawMessage `json:"limit"`
	TotalElements int             `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
	HasNextPage   bool            `json:"hasNextPage"`
}

type PaginatedResponse[T any] struct {
	Status     string     `json:"status"`
	Size       int        `json:"size"`
	Pagination Pagination `json:"pagination"`
	Data       []T        `json:"data"`
}

type Response[T any] struct {
	Status string `json:"status"`
	Data   *T     `json:"data"`
}

type Player struct {
	Id      string `json:"id"`
	Url     string `json:"url"`
	Name    string `json:"name"`
	TeamTag string `json:"teamTag"`
	Country string `json:"country"`
}

type PlayerDetail struct {
	Info      PlayerInfo    `json:"info"`
	Team      PlayerTeam    `json:"team"`
	Results   []MatchResult `json:"results"`
	PastTeams []PastTeam    `json:"pastTeams"`
	Socials   Socials       `json:"socials"`
}

type PlayerInfo struct {
	Id      string `json:"id"`
	Url     string `json:"url"`
	Img     string `json:"img"`
	User    string `json:"user"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Flag    string `json:"flag"`
}

type PlayerTeam struct {
	Id     string `json:"id"`
	Url    string `json:"url"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Joined string `json:"joined"`
	Tag    string `json:"tag"`
}

type PastTeam struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Joined string `json:"joined"`
	Left   string `json:"left"`
	Tag    string `json:"tag"`
}

type Socials struct {
	Twitter    string `json:"twitter"`
	TwitterUrl string `json:"twitter_url"`
	Twitch     string `json:"twitch"`
}

type MatchResult struct {
	Match MatchRef    `json:"match"`
	Event EventRef    `json:"event"`
	Teams []MatchTeam `json:"teams"`
}

type MatchRef struct {
	Id   string `json:"id"`
	Url  string `json:"url"`
	Date string `json:"date"`
}

type EventRef struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type MatchTeam struct {
	Name   string `json:"name"`
	Tag    string `json:"tag"`
	Logo   string `json:"logo"`
	Points Points `json:"points"`
}

type Team struct {
	Id     string `json:"id"`
	Url    string `json:"url"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Tag    string `json:"tag"`
	Region string `json:"region"`
}

// Points is a map/match score. The API sends it as a string ("13"), a number
// or an empty value depending on the endpoint and match state.
type Points string

func (p *Points) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = Points(s)
		return nil
	}
	*p = Points(b)
	return nil
}

// Int returns the score, or 0 when it is absent or not numeric.
func (p Points) Int() int {
	s := strings.TrimSpace(string(p))
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		return int(f)
	}
	return n
}
