package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/lottoracle/internal/models"
	"github.com/rewired-gh/lottoracle/internal/rng"
)

func testClient(url string) *Client {
	return NewClient(ClientConfig{
		BaseURL:        url,
		Timeout:        2 * time.Second,
		MaxRetries:     3,
		RetryDelayBase: time.Millisecond,
	})
}

func TestClient_FetchLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{
			"date": "2024-01-16",
			"drawDate": "16 มกราคม 2567",
			"period": "2567-02",
			"results": {
				"firstPrize": "223344",
				"threedigitPrefix": ["222", "333"],
				"threedigitSuffix": ["444", "555"],
				"twodigit": "66"
			}
		}`))
	}))
	defer server.Close()

	draw, err := testClient(server.URL).FetchLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DrawRecord{
		Date:               "2024-01-16",
		PrimaryValue:       "223344",
		ThreeDigitPrefixes: []string{"222", "333"},
		ThreeDigitSuffixes: []string{"444", "555"},
		TwoDigitValue:      "66",
	}, draw)
}

func TestClient_FetchLatestEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchLatest(context.Background())
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestClient_FetchHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history", r.URL.Path)
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("start"))
		assert.Equal(t, "2024-01-31", r.URL.Query().Get("end"))
		w.Write([]byte(`[
			{"date": "2024-01-16", "first_prize": "223344", "3digit_prefix": "222 333", "3digit_suffix": "444 555", "2digit": "66"},
			{"date": "", "first_prize": "000000"},
			{"date": "2024-01-01", "first_prize": "112233", "3digit_prefix": "111 222", "3digit_suffix": "333 444", "2digit": "55"}
		]`))
	}))
	defer server.Close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	draws, err := testClient(server.URL).FetchHistory(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, draws, 2)
	assert.Equal(t, []string{"222", "333"}, draws[0].ThreeDigitPrefixes)
	assert.Equal(t, "2024-01-01", draws[1].Date)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"date": "2024-01-16", "results": {"firstPrize": "223344"}}`))
	}))
	defer server.Close()

	draw, err := testClient(server.URL).FetchLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "223344", draw.PrimaryValue)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchLatest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchLatest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status: 404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testClient(server.URL).FetchLatest(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMock_FetchHistory(t *testing.T) {
	m := NewMock(rng.New(1))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	draws, err := m.FetchHistory(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, draws, 6)
	assert.Equal(t, "2024-03-16", draws[0].Date)
	assert.Equal(t, "2024-01-01", draws[5].Date)
	for _, d := range draws {
		require.NoError(t, d.Validate())
		assert.Len(t, d.PrimaryValue, 6)
		assert.NotEqual(t, byte('0'), d.PrimaryValue[0])
		assert.Len(t, d.TwoDigitValue, 2)
		require.Len(t, d.ThreeDigitPrefixes, 2)
		assert.Len(t, d.ThreeDigitPrefixes[0], 3)
	}
}

func TestMock_EmptyRange(t *testing.T) {
	m := NewMock(rng.New(1))
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	draws, err := m.FetchHistory(context.Background(), day, day.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.NotNil(t, draws)
	assert.Empty(t, draws)
}

func TestMock_FetchLatest(t *testing.T) {
	m := NewMock(rng.NewSequence(0))
	m.now = func() time.Time { return time.Date(2024, 5, 16, 10, 0, 0, 0, time.UTC) }

	draw, err := m.FetchLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-16", draw.Date)
	assert.Equal(t, "100000", draw.PrimaryValue)
	assert.Equal(t, "10", draw.TwoDigitValue)
}

type failing struct{ err error }

func (f failing) Name() string { return "failing" }
func (f failing) FetchLatest(context.Context) (models.DrawRecord, error) {
	return models.DrawRecord{}, f.err
}
func (f failing) FetchHistory(context.Context, time.Time, time.Time) ([]models.DrawRecord, error) {
	return nil, f.err
}

func TestFallback(t *testing.T) {
	boom := errors.New("boom")
	chain := NewFallback(failing{boom}, NewMock(rng.New(2)))
	assert.Equal(t, "fallback(failing,mock)", chain.Name())

	draw, err := chain.FetchLatest(context.Background())
	require.NoError(t, err)
	assert.Len(t, draw.PrimaryValue, 6)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	draws, err := chain.FetchHistory(context.Background(), start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Len(t, draws, 3)
}

func TestFallback_AllFail(t *testing.T) {
	boom := errors.New("boom")
	chain := NewFallback(failing{boom}, failing{boom})

	_, err := chain.FetchLatest(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrNoResult)

	_, err = chain.FetchHistory(context.Background(), time.Now(), time.Now())
	assert.ErrorIs(t, err, boom)
}
