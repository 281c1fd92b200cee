package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLastMonths_CrossesYear(t *testing.T) {
	now := time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC)
	require.Equal(t, []string{"2024-09", "2024-10", "2024-11", "2024-12", "2025-01", "2025-02"}, LastMonths(now, 6, time.UTC))
}

func TestStartOfDayAndDaysBetween(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	// 03:00 UTC on the 10th is still the 9th at -06:00
	early := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
	require.Equal(t, 9, StartOfDay(early, loc).Day())

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, loc)
	require.Equal(t, 8, DaysBetween(from, early, loc))
	require.Equal(t, -8, DaysBetween(early, from, loc))
}

func TestParseDatePtr(t *testing.T) {
	got, err := ParseDatePtr(nil)
	require.NoError(t, err)
	require.Nil(t, got)

	blank := "  "
	got, err = ParseDatePtr(&blank)
	require.NoError(t, err)
	require.Nil(t, got)

	s := "2025-04-01"
	got, err = ParseDatePtr(&s)
	require.NoError(t, err)
	require.Equal(t, "2025-04-01", got.Format(DateLayout))

	bad := "01/04/2025"
	_, err = ParseDatePtr(&bad)
	require.Error(t, err)
}
