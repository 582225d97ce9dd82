package handlers

import (
	"net/http"
	"sort"

	"feedforge/internal/feed/channels"
	"feedforge/internal/logger"

	"github.com/gin-gonic/gin"
)

// ChannelHandler serves the static channel registry: which marketplaces can
// be targeted and which output attributes each one recognizes.
type ChannelHandler struct {
	registry *channels.Registry
	logger   *logger.Logger
}

func NewChannelHandler(registry *channels.Registry, logger *logger.Logger) *ChannelHandler {
	return &ChannelHandler{
		registry: registry,
		logger:   logger,
	}
}

func (h *ChannelHandler) List(c *gin.Context) {
	names := h.registry.Names()
	sort.Strings(names)

	type channelInfo struct {
		Name          string `json:"name"`
		Taxonomy      string `json:"taxonomy"`
		DefaultFormat string `json:"default_format"`
		AllowParents  bool   `json:"allow_parents"`
	}
	out := make([]channelInfo, 0, len(names))
	for _, name := range names {
		s := h.registry.Lookup(name)
		out = append(out, channelInfo{
			Name:          s.Name,
			Taxonomy:      string(s.Taxonomy),
			DefaultFormat: string(s.DefaultFormat),
			AllowParents:  s.AllowParents,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *ChannelHandler) Attributes(c *gin.Context) {
	name := c.Param("name")
	schema := h.registry.Lookup(name)

	type attrInfo struct {
		Name     string `json:"name"`
		Required bool   `json:"required"`
		Suggest  string `json:"suggest"`
	}
	out := make([]attrInfo, 0, len(schema.Attributes))
	for _, a := range schema.Attributes {
		out = append(out, attrInfo{Name: a.Name, Required: a.Required, Suggest: a.Suggest})
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"channel": schema.Name, "attributes": out}})
}
