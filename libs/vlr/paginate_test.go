package vlr

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playersPage(page, size int, hasNext bool) map[string]interface{} {
	data := make([]map[string]string, 0, size)
	for i := 0; i < size; i++ {
		data = append(data, map[string]string{
			"id":      strconv.Itoa(page*1000 + i),
			"name":    "player" + strconv.Itoa(i),
			"country": "jp",
		})
	}
	return map[string]interface{}{
		"status": "OK",
		"size":   size,
		"pagination": map[string]interface{}{
			"page":        page,
			"limit":       "100",
			"hasNextPage": hasNext,
		},
		"data": data,
	}
}

func TestClient_AllJapanesePlayers(t *testing.T) {
	sizes := map[int]int{1: 100, 2: 100, 3: 42}
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "jp", r.URL.Query().Get("country"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writeJSON(w, playersPage(page, sizes[page], page < 3))
	})
	client := newTestClient(u.server.URL)

	players, err := client.AllJapanesePlayers(context.Background())
	require.NoError(t, err)
	assert.Len(t, players, 242)
	assert.Equal(t, 3, u.Hits())
	assert.Equal(t, "1000", players[0].Id)
	assert.Equal(t, "3041", players[241].Id)
}

func TestClient_AllPlayersStopsOnEmptyPage(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 1 {
			writeJSON(w, playersPage(1, 100, true))
			return
		}
		writeJSON(w, playersPage(page, 0, true))
	})
	client := newTestClient(u.server.URL)

	players, err := client.AllPlayers(context.Background(), "kr")
	require.NoError(t, err)
	assert.Len(t, players, 100)
	assert.Equal(t, 2, u.Hits())
}

func TestClient_AllPlayersMissingPagination(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"status": "OK",
			"data":   []map[string]string{{"id": "1"}, {"id": "2"}},
		})
	})
	client := newTestClient(u.server.URL)

	players, err := client.AllPlayers(context.Background(), "jp")
	require.NoError(t, err)
	assert.Len(t, players, 2)
	assert.Equal(t, 1, u.Hits())
}

func TestClient_AllPlayersKeepsPagesBeforeFailure(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, playersPage(page, 100, true))
	})
	client := newTestClient(u.server.URL)

	players, err := client.AllPlayers(context.Background(), "jp")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Len(t, players, 100)
}
