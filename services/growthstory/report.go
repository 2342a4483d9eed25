package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ben-agnew/vlr-growth-story/libs/vlr"
)

// GetPlayerLines renders the numbered "name (ID: id)" listing for the first
// limit players.
func GetPlayerLines(players []vlr.Player, limit int) []string {
	if limit > len(players) {
		limit = len(players)
	}

	lines := make([]string, 0, limit)
	for i, player := range players[:limit] {
		lines = append(lines, strconv.Itoa(i+1)+". "+player.Name+" (ID: "+player.Id+")")
	}
	return lines
}

// GetRecordString summarises a story as "user (country) W-L-D".
func GetRecordString(story *vlr.GrowthStory) string {
	var wins, losses, draws int
	for _, match := range story.Matches {
		switch match.Result {
		case vlr.ResultWin:
			wins++
		case vlr.ResultLoss:
			losses++
		default:
			draws++
		}
	}

	record := []string{strconv.Itoa(wins), strconv.Itoa(losses), strconv.Itoa(draws)}
	return story.Info.Name + " (" + story.Info.Country + ") " + strings.Join(record, "-")
}

// writeStory saves story as {dir}/{player_id}.json and returns the path.
func writeStory(dir string, story *vlr.GrowthStory) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(story); err != nil {
		return "", err
	}

	path := filepath.Join(dir, story.Info.PlayerId+".json")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	return path, nil
}
