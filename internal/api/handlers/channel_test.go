package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedforge/internal/feed/channels"
	"feedforge/internal/logger"
)

func channelRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewChannelHandler(channels.NewRegistry(), logger.New("error"))
	r := gin.New()
	r.GET("/channels", h.List)
	r.GET("/channels/:name/attributes", h.Attributes)
	return r
}

func TestChannelList(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/channels", nil)
	channelRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			Name          string `json:"name"`
			Taxonomy      string `json:"taxonomy"`
			DefaultFormat string `json:"default_format"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data)

	names := make([]string, 0, len(body.Data))
	for _, c := range body.Data {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "google_shopping")
	assert.Contains(t, names, "heureka")
	assert.Contains(t, names, "custom")
	// list is sorted for stable UIs
	assert.IsIncreasing(t, names)
}

func TestChannelAttributes(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/channels/google_shopping/attributes", nil)
	channelRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Channel    string `json:"channel"`
			Attributes []struct {
				Name     string `json:"name"`
				Required bool   `json:"required"`
				Suggest  string `json:"suggest"`
			} `json:"attributes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "google_shopping", body.Data.Channel)

	found := false
	for _, a := range body.Data.Attributes {
		if a.Name == "g:price" {
			found = true
			assert.True(t, a.Required)
			assert.Equal(t, "price", a.Suggest)
		}
	}
	assert.True(t, found)
}

func TestChannelAttributesUnknownChannelFallsBack(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/channels/ebay/attributes", nil)
	channelRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Channel string `json:"channel"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "custom", body.Data.Channel)
}
