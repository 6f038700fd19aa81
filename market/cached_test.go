package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"stocks-tracker-web/cache"
	"stocks-tracker-web/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCached_ServesRepeatsFromStore(t *testing.T) {
	fake := &Fake{
		Quotes: map[string]models.Quote{"AAPL": {Price: models.Float(190)}},
		Closes: map[string][]models.SeriesPoint{"AAPL": {{Time: "Mar 7", Price: 189}, {Time: "Mar 8", Price: 190}}},
	}
	cached := NewCached(fake, cache.NewMemoryStore(time.Minute), time.Minute, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		q, err := cached.Quote(ctx, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, models.Float(190), q.Price)

		points, err := cached.Series(ctx, "AAPL", 7)
		require.NoError(t, err)
		assert.Len(t, points, 2)
	}

	assert.Equal(t, 1, fake.Calls("quote:AAPL"))
	assert.Equal(t, 1, fake.Calls("series:AAPL"))
}

func TestCached_DoesNotCacheFailures(t *testing.T) {
	fake := &Fake{Fail: map[string]error{"TSLA": errors.New("provider down")}}
	cached := NewCached(fake, cache.NewMemoryStore(time.Minute), time.Minute, time.Hour)

	for i := 0; i < 2; i++ {
		_, err := cached.Quote(context.Background(), "TSLA")
		assert.Error(t, err)
	}
	assert.Equal(t, 2, fake.Calls("quote:TSLA"))
}
