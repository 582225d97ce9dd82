package handlers

import (
	"net/http"

	"feedforge/internal/events"
	"feedforge/internal/logger"
	"feedforge/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FeedHandler struct {
	db        *gorm.DB
	logger    *logger.Logger
	publisher *events.Publisher
}

func NewFeedHandler(db *gorm.DB, logger *logger.Logger, publisher *events.Publisher) *FeedHandler {
	return &FeedHandler{
		db:        db,
		logger:    logger,
		publisher: publisher,
	}
}

func (h *FeedHandler) List(c *gin.Context) {
	var feeds []models.Feed
	if err := h.db.Order("created_at DESC").Find(&feeds).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feeds"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": feeds})
}

func (h *FeedHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var feed models.Feed
	err := h.db.
		Preload("Mappings").
		Preload("CategoryMappings").
		Preload("Rules").
		Preload("Filters").
		First(&feed, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": feed})
}

func (h *FeedHandler) Create(c *gin.Context) {
	var feed models.Feed
	if err := c.ShouldBindJSON(&feed); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if feed.Channel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel is required"})
		return
	}

	if err := h.db.Create(&feed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create feed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": feed})
}

func (h *FeedHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var feed models.Feed
	if err := h.db.First(&feed, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feed"})
		return
	}

	if err := c.ShouldBindJSON(&feed); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Save(&feed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": feed})
}

func (h *FeedHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.db.Delete(&models.Feed{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete feed"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// Generate queues a full regeneration of the feed. The worker picks the
// event up and processes batches until the feed is ready.
func (h *FeedHandler) Generate(c *gin.Context) {
	id := c.Param("id")

	var feed models.Feed
	if err := h.db.First(&feed, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feed"})
		return
	}

	if feed.Status == models.FeedStatusProcessing {
		c.JSON(http.StatusConflict, gin.H{"error": "Feed is already processing"})
		return
	}

	updates := map[string]interface{}{"status": models.FeedStatusQueued, "offset": 0, "total": 0}
	if err := h.db.Model(&feed).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue feed"})
		return
	}

	if err := h.publisher.Publish(c.Request.Context(), events.TypeFeedGenerate, feed.ID); err != nil {
		h.logger.Error("Failed to publish generate event for feed %s: %v", feed.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue feed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"data": gin.H{"feed_id": feed.ID, "status": models.FeedStatusQueued}})
}

// Cancel flips the feed's status; the worker notices at the next batch
// boundary and resets progress.
func (h *FeedHandler) Cancel(c *gin.Context) {
	id := c.Param("id")

	var feed models.Feed
	if err := h.db.First(&feed, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feed"})
		return
	}

	if err := h.db.Model(&feed).Update("status", models.FeedStatusCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"feed_id": feed.ID, "status": models.FeedStatusCancelled}})
}

// Download streams the generated feed file.
func (h *FeedHandler) Download(c *gin.Context) {
	id := c.Param("id")

	var feed models.Feed
	if err := h.db.First(&feed, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feed"})
		return
	}

	if feed.FilePath == "" || feed.Status != models.FeedStatusReady {
		c.JSON(http.StatusConflict, gin.H{"error": "Feed has not been generated yet"})
		return
	}

	c.FileAttachment(feed.FilePath, feed.Name+"."+string(feed.FileFormat))
}
