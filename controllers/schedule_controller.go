package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bo_backend_project/models"
	"bo_backend_project/services/scheduleapi"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ScheduleController handles schedule requests
type ScheduleController struct {
	db   *gorm.DB
	feed *scheduleapi.Service
}

// NewScheduleController creates a new schedule controller
func NewScheduleController(db *gorm.DB, feed *scheduleapi.Service) *ScheduleController {
	return &ScheduleController{db: db, feed: feed}
}

// GetSchedules returns schedules with optional date-range and type filters
// GET /api/v1/schedules
func (sc *ScheduleController) GetSchedules(c *gin.Context) {
	query := sc.db.Model(&models.Schedule{})

	if start := c.Query("start_date"); start != "" {
		startDate, err := time.Parse("2006-01-02", start)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("date >= ?", startDate)
	}

	if end := c.Query("end_date"); end != "" {
		endDate, err := time.Parse("2006-01-02", end)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date format, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("date <= ?", endDate)
	}

	if scheduleType := c.Query("type"); scheduleType != "" {
		query = query.Where("type = ?", scheduleType)
	}

	var schedules []models.Schedule
	if err := query.Order("date").Find(&schedules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    schedules,
		"count":   len(schedules),
	})
}

// GetSchedule returns a single schedule
// GET /api/v1/schedules/:id
func (sc *ScheduleController) GetSchedule(c *gin.Context) {
	var schedule models.Schedule
	if err := sc.db.Where("id = ?", c.Param("id")).First(&schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": schedule})
}

type scheduleRequest struct {
	Date    string `json:"date" binding:"required"` // YYYY-MM-DD
	Subject string `json:"subject" binding:"required"`
	Content string `json:"content"`
}

// CreateSchedule creates a manual schedule entry
// POST /api/v1/schedules
func (sc *ScheduleController) CreateSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date and subject are required"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	schedule := models.Schedule{
		Date:    date,
		Subject: req.Subject,
		Content: req.Content,
		Type:    "manual",
	}
	if err := sc.db.Create(&schedule).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": schedule})
}

// UpdateSchedule updates a schedule entry
// PUT /api/v1/schedules/:id
func (sc *ScheduleController) UpdateSchedule(c *gin.Context) {
	var schedule models.Schedule
	if err := sc.db.Where("id = ?", c.Param("id")).First(&schedule).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date and subject are required"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	updates := map[string]interface{}{
		"date":    date,
		"subject": req.Subject,
		"content": req.Content,
	}
	if err := sc.db.Model(&schedule).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": schedule})
}

// DeleteSchedule deletes a schedule entry
// DELETE /api/v1/schedules/:id
func (sc *ScheduleController) DeleteSchedule(c *gin.Context) {
	if err := sc.db.Where("id = ?", c.Param("id")).Delete(&models.Schedule{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete schedule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SyncFromFeed pulls entries from the external schedule feed
// POST /api/v1/schedules/sync-api
func (sc *ScheduleController) SyncFromFeed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	created, err := sc.feed.Sync(ctx)
	if err != nil {
		if errors.Is(err, scheduleapi.ErrNotConfigured) {
			c.JSON(http.StatusConflict, gin.H{"error": "Schedule feed is not configured"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Schedule feed sync failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "created": created})
}
