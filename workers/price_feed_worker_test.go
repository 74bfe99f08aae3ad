package workers

import (
	"testing"

	"coindrafts-engine/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceFeedClientDisabledWithoutURL(t *testing.T) {
	t.Setenv("PRICE_FEED_URL", "")
	assert.Nil(t, NewPriceFeedClient(nil))
}

func TestNewPriceFeedClientUsesSharedHTTPClient(t *testing.T) {
	t.Setenv("PRICE_FEED_URL", "http://prices.internal:9100")
	t.Setenv("PRICE_FEED_TOKEN", "feed-token")

	client := NewPriceFeedClient(nil)
	require.NotNil(t, client)
	assert.Equal(t, "http://prices.internal:9100", client.BaseURL)
	assert.Equal(t, "feed-token", client.Token)
	assert.Same(t, utils.HTTPClient, client.HTTPClient)
}
