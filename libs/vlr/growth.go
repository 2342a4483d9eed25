package vlr

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const (
	ResultWin  = "W"
	ResultLoss = "L"
	ResultDraw = "D"
)

// GrowthStory is the display-ready summary of one player. Agents and Maps
// are always empty: the API has no per-agent or per-map breakdown, but the
// report keeps the fields so its shape never changes.
type GrowthStory struct {
	Info    GrowthInfo     `json:"info"`
	Matches []MatchSummary `json:"matches"`
	Agents  []interface{}  `json:"agents"`
	Maps    []interface{}  `json:"maps"`
}

type GrowthInfo struct {
	PlayerId    string      `json:"player_id"`
	Name        string      `json:"name"`
	FullName    string      `json:"full_name"`
	Team        string      `json:"team"`
	TeamId      string      `json:"team_id"`
	Country     string      `json:"country"`
	ImageUrl    string      `json:"image_url"`
	Url         string      `json:"url"`
	SocialLinks SocialLinks `json:"social_links"`
	LastUpdated string      `json:"last_updated"`
}

type SocialLinks struct {
	Twitter string `json:"twitter"`
	Twitch  string `json:"twitch"`
}

// MatchSummary is one result seen from the player's side. Date and Stats are
// placeholders; the player endpoint does not expose them.
type MatchSummary struct {
	MatchId      string                 `json:"match_id"`
	Date         string                 `json:"date"`
	Event        string                 `json:"event"`
	EventLogo    string                 `json:"event_logo"`
	Opponent     string                 `json:"opponent"`
	OpponentTag  string                 `json:"opponent_tag"`
	OpponentLogo string                 `json:"opponent_logo"`
	Result       string                 `json:"result"`
	Score        string                 `json:"score"`
	MatchUrl     string                 `json:"match_url"`
	Stats        map[string]interface{} `json:"stats"`
}

// MatchHistory returns the raw results list of a player, empty when the
// player or the list is missing.
func (c *Client) MatchHistory(ctx context.Context, playerID string, opts ...CallOption) ([]MatchResult, error) {
	detail, err := c.playerDetail(ctx, playerID, opts...)
	if err != nil {
		return []MatchResult{}, err
	}
	if detail.Results == nil {
		return []MatchResult{}, nil
	}
	return detail.Results, nil
}

// GrowthStory fetches a player and reshapes it into a GrowthStory.
func (c *Client) GrowthStory(ctx context.Context, playerID string, opts ...CallOption) (*GrowthStory, error) {
	detail, err := c.playerDetail(ctx, playerID, opts...)
	if err != nil {
		c.logger.WithField("event", "growth_story").WithField("player_id", playerID).Warn(err)
		return nil, err
	}
	return buildGrowthStory(playerID, detail, c.now()), nil
}

// JapanesePlayersGrowthStories maps every Japanese player. Players that fail
// to load are skipped.
func (c *Client) JapanesePlayersGrowthStories(ctx context.Context, opts ...CallOption) ([]*GrowthStory, error) {
	players, err := c.AllJapanesePlayers(ctx, opts...)
	if err != nil {
		c.logger.WithField("event", "growth_story_batch").Warn(err)
	}

	stories := make([]*GrowthStory, 0, len(players))
	for _, player := range players {
		if player.Id == "" {
			continue
		}
		story, err := c.GrowthStory(ctx, player.Id, opts...)
		if err != nil {
			if ctx.Err() != nil {
				return stories, ctx.Err()
			}
			continue
		}
		stories = append(stories, story)
	}
	return stories, nil
}

func (c *Client) playerDetail(ctx context.Context, playerID string, opts ...CallOption) (*PlayerDetail, error) {
	data, err := c.Player(ctx, playerID, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPlayerNotFound, playerID, err)
	}

	var res Response[PlayerDetail]
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, &DecodeError{Endpoint: "players/" + playerID, Err: err}
	}
	if res.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return res.Data, nil
}

func buildGrowthStory(playerID string, detail *PlayerDetail, now time.Time) *GrowthStory {
	story := &GrowthStory{
		Info: GrowthInfo{
			PlayerId: playerID,
			Name:     detail.Info.User,
			FullName: detail.Info.Name,
			Team:     detail.Team.Name,
			TeamId:   detail.Team.Id,
			Country:  detail.Info.Country,
			ImageUrl: detail.Info.Img,
			Url:      detail.Info.Url,
			SocialLinks: SocialLinks{
				Twitter: detail.Socials.Twitter,
				Twitch:  detail.Socials.Twitch,
			},
			LastUpdated: now.Format(time.RFC3339Nano),
		},
		Matches: make([]MatchSummary, 0, len(detail.Results)),
		Agents:  []interface{}{},
		Maps:    []interface{}{},
	}

	for _, result := range detail.Results {
		story.Matches = append(story.Matches, summarizeMatch(detail.Team.Name, result))
	}
	return story
}

// summarizeMatch picks the player's side by exact team name. The first
// listed team is the player's unless only the second one matches.
func summarizeMatch(teamName string, result MatchResult) MatchSummary {
	var first, second MatchTeam
	if len(result.Teams) > 0 {
		first = result.Teams[0]
	}
	if len(result.Teams) > 1 {
		second = result.Teams[1]
	}

	own, opponent := first, second
	if first.Name != teamName && second.Name == teamName {
		own, opponent = second, first
	}

	ownScore := own.Points.Int()
	opponentScore := opponent.Points.Int()

	return MatchSummary{
		MatchId:      result.Match.Id,
		Date:         "",
		Event:        result.Event.Name,
		EventLogo:    result.Event.Logo,
		Opponent:     opponent.Name,
		OpponentTag:  opponent.Tag,
		OpponentLogo: opponent.Logo,
		Result:       outcome(ownScore, opponentScore),
		Score:        strconv.Itoa(ownScore) + ":" + strconv.Itoa(opponentScore),
		MatchUrl:     result.Match.Url,
		Stats:        map[string]interface{}{},
	}
}

func outcome(own, opponent int) string {
	switch {
	case own > opponent:
		return ResultWin
	case own < opponent:
		return ResultLoss
	default:
		return ResultDraw
	}
}
