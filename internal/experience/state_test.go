package experience

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" bike ")
	require.NoError(t, err)
	assert.Equal(t, CategoryBike, c)

	_, err = ParseCategory("surf")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestThemeFor(t *testing.T) {
	assert.Equal(t, "Kayak", ThemeFor(CategorySki).Label)
	assert.Equal(t, CategorySUP, ThemeFor("nope").Key)
	assert.Len(t, Themes(), 3)
}

func TestStateDefaultsAndListeners(t *testing.T) {
	now := time.Date(2026, 3, 24, 9, 0, 0, 0, time.UTC)
	s := NewState(now)

	snap := s.Snapshot()
	assert.Equal(t, CategorySUP, snap.Category)
	assert.Equal(t, "2026-03-24", snap.Date)

	var seen []Selection
	unsubscribe := s.Subscribe(func(sel Selection) { seen = append(seen, sel) })

	require.NoError(t, s.SetCategory(CategoryBike))
	require.NoError(t, s.SetDate("2026-03-30"))
	assert.ErrorIs(t, s.SetCategory("SURF"), ErrUnknownCategory)
	assert.ErrorIs(t, s.SetDate("30/03/2026"), ErrInvalidDate)

	require.Len(t, seen, 2)
	assert.Equal(t, CategoryBike, seen[0].Category)
	assert.Equal(t, "Bisiklet", seen[0].Theme.Label)
	assert.Equal(t, "2026-03-30", seen[1].Date)

	unsubscribe()
	require.NoError(t, s.SetCategory(CategorySki))
	assert.Len(t, seen, 2)
	assert.Equal(t, CategorySki, s.Snapshot().Category)
}

func TestExperienceRoutes(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/experiences"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/experiences/ski", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var theme Theme
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&theme))
	assert.Equal(t, CategorySki, theme.Key)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/experiences/surf", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/experiences/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
