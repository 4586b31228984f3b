package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinSu11/clutch-call-sub000/internal/models"
)

func testClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Competition: "PL",
		HTTP: HTTPClientConfig{
			Timeout:           5 * time.Second,
			MaxRetries:        0,
			RetryWaitMin:      time.Millisecond,
			RetryWaitMax:      10 * time.Millisecond,
			RateLimit:         1000,
			CircuitBreakerMax: 5,
		},
	}
}

const seasonPayload = `{
	"matches": [
		{
			"id": 1001,
			"utcDate": "2024-08-17T14:00:00Z",
			"matchday": 1,
			"status": "FINISHED",
			"homeTeam": {"name": "Arsenal FC"},
			"awayTeam": {"name": "Chelsea FC"},
			"score": {"winner": "HOME_TEAM", "fullTime": {"home": 2, "away": 1}}
		},
		{
			"id": 1002,
			"utcDate": "2024-08-18T14:00:00Z",
			"matchday": 1,
			"status": "FINISHED",
			"homeTeam": {"name": "Everton FC"},
			"awayTeam": {"name": "Fulham FC"},
			"score": {"winner": null, "fullTime": {"home": null, "away": null}}
		},
		{
			"id": 1003,
			"utcDate": "2025-05-20T14:00:00Z",
			"matchday": 38,
			"status": "SCHEDULED",
			"homeTeam": {"name": "Arsenal FC"},
			"awayTeam": {"name": "Everton FC"},
			"score": {"winner": null, "fullTime": {"home": null, "away": null}}
		}
	]
}`

func TestFetchSeason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Auth-Token"))
		assert.Equal(t, "/competitions/PL/matches", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("season"))
		assert.Equal(t, StatusFinished, r.URL.Query().Get("status"))
		fmt.Fprint(w, seasonPayload)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL), nil)
	defer client.Close()

	matches, err := client.FetchSeason(context.Background(), 2024, StatusFinished)
	require.NoError(t, err)

	// The finished match with null scores is dropped; the scheduled one is
	// kept without a result.
	require.Len(t, matches, 2)

	first := matches[0]
	assert.Equal(t, int64(1001), first.ID)
	assert.Equal(t, "Arsenal FC", first.HomeTeam)
	assert.Equal(t, 2, first.HomeScore)
	assert.Equal(t, models.OutcomeHome, first.Winner)
	assert.True(t, first.Finished)
	assert.Equal(t, models.OutcomeHome, first.Result())

	second := matches[1]
	assert.Equal(t, int64(1003), second.ID)
	assert.False(t, second.Finished)
	assert.Equal(t, models.OutcomeUnknown, second.Result())
}

func TestFetchSeasonNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL), nil)
	defer client.Close()

	matches, err := client.FetchSeason(context.Background(), 2030, StatusFinished)
	assert.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFetchSeasonServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL), nil)
	defer client.Close()

	_, err := client.FetchSeason(context.Background(), 2024, StatusFinished)
	assert.ErrorIs(t, err, models.ErrFeedUnavailable)
}

func TestFetchSeasonUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL), nil)
	defer client.Close()

	_, err := client.FetchSeason(context.Background(), 2024, StatusFinished)
	assert.ErrorIs(t, err, models.ErrFeedUnavailable)
}

func TestFetchSeasonsFailFast(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("season") == "2023" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"matches": []}`)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL), nil)
	defer client.Close()

	_, err := client.FetchSeasons(context.Background(), []int{2022, 2023, 2024}, StatusFinished)
	assert.ErrorIs(t, err, models.ErrFeedUnavailable)
	assert.Equal(t, 2, calls, "fetch must stop at the first failing season")
}

func TestMapWinner(t *testing.T) {
	assert.Equal(t, models.OutcomeHome, mapWinner("HOME_TEAM"))
	assert.Equal(t, models.OutcomeAway, mapWinner("AWAY_TEAM"))
	assert.Equal(t, models.OutcomeDraw, mapWinner("DRAW"))
	assert.Equal(t, models.OutcomeUnknown, mapWinner("SOMETHING_ELSE"))
}
