package view

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// menuAPI serves a three-page listing and records the queries it saw.
type menuAPI struct {
	mu      sync.Mutex
	queries []string
	fail    bool
}

func (m *menuAPI) setFail(fail bool) {
	m.mu.Lock()
	m.fail = fail
	m.mu.Unlock()
}

func (m *menuAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/foods/filter", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.queries = append(m.queries, r.URL.RawQuery)
		fail := m.fail
		m.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		w.Write([]byte(`{
			"data": [
				{"food_id": ` + strconv.Itoa(page*10) + `, "food_name": "Dish page ` + strconv.Itoa(page) + `",
				 "price": "10.00 $", "average_rating": 4}
			],
			"meta": {"current_page": ` + strconv.Itoa(page) + `, "last_page": 3, "total": 3}
		}`))
	})
	return mux
}

func (m *menuAPI) lastQuery() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queries) == 0 {
		return ""
	}
	return m.queries[len(m.queries)-1]
}

func (m *menuAPI) requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

func TestMenuStagedFilters(t *testing.T) {
	api := &menuAPI{}
	f := newFixture(t, false, api.handler())
	menu := NewMenu(f.deps, NewRater(f.deps))
	ctx := context.Background()

	require.NoError(t, menu.Render(ctx))
	require.Equal(t, 1, api.requests())

	// Staging filters does not fetch.
	menu.SetCategory("3")
	menu.SetMinPrice("5")
	assert.Equal(t, 1, api.requests())

	require.NoError(t, menu.Apply(ctx))
	assert.Equal(t, 2, api.requests())
	assert.Contains(t, api.lastQuery(), "category_id=3")
	assert.Contains(t, api.lastQuery(), "min_price=5")

	require.NoError(t, menu.Reset(ctx))
	assert.NotContains(t, api.lastQuery(), "category_id")
	assert.NotContains(t, api.lastQuery(), "min_price")
}

func TestMenuApplyResetsToFirstPage(t *testing.T) {
	api := &menuAPI{}
	f := newFixture(t, false, api.handler())
	menu := NewMenu(f.deps, NewRater(f.deps))
	ctx := context.Background()

	require.NoError(t, menu.Render(ctx))
	require.NoError(t, menu.NextPage(ctx))
	assert.Contains(t, api.lastQuery(), "page=2")

	menu.SetCategory("3")
	require.NoError(t, menu.Apply(ctx))
	assert.Contains(t, api.lastQuery(), "page=1")
}

func TestMenuPageBounds(t *testing.T) {
	api := &menuAPI{}
	f := newFixture(t, false, api.handler())
	menu := NewMenu(f.deps, NewRater(f.deps))
	ctx := context.Background()

	require.NoError(t, menu.Render(ctx))
	before := api.requests()

	// Below the first page and past the last page are no-ops.
	require.NoError(t, menu.PrevPage(ctx))
	require.NoError(t, menu.GoToPage(ctx, 0))
	require.NoError(t, menu.GoToPage(ctx, 4))
	assert.Equal(t, before, api.requests())

	require.NoError(t, menu.NextPage(ctx))
	require.NoError(t, menu.NextPage(ctx))
	assert.Contains(t, api.lastQuery(), "page=3")

	require.NoError(t, menu.NextPage(ctx))
	assert.Contains(t, api.lastQuery(), "page=3", "last page is the ceiling")
}

func TestMenuFailedFetchResetsPaging(t *testing.T) {
	api := &menuAPI{}
	f := newFixture(t, false, api.handler())
	menu := NewMenu(f.deps, NewRater(f.deps))
	ctx := context.Background()

	require.NoError(t, menu.Render(ctx))
	require.NoError(t, menu.NextPage(ctx))
	assert.Contains(t, api.lastQuery(), "page=2")

	api.setFail(true)
	require.NoError(t, menu.Render(ctx))

	// The listing is gone, so there is nothing to page through.
	before := api.requests()
	require.NoError(t, menu.NextPage(ctx))
	require.NoError(t, menu.GoToPage(ctx, 3))
	assert.Equal(t, before, api.requests())
}

func TestMenuQuickAddWithoutSession(t *testing.T) {
	api := &menuAPI{}
	f := newFixture(t, false, api.handler())
	menu := NewMenu(f.deps, NewRater(f.deps))
	ctx := context.Background()

	require.NoError(t, menu.Render(ctx))

	err := menu.QuickAdd(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, []string{"/login"}, f.visited)
}

func TestMenuQuickAddOutOfRange(t *testing.T) {
	api := &menuAPI{}
	f := newFixture(t, true, api.handler())
	menu := NewMenu(f.deps, NewRater(f.deps))
	ctx := context.Background()

	require.NoError(t, menu.Render(ctx))
	require.Error(t, menu.QuickAdd(ctx, 0))
	require.Error(t, menu.QuickAdd(ctx, 2))
}
