package controllers

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"bo_backend_project/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BoardController handles board and post requests
type BoardController struct {
	db *gorm.DB
}

// NewBoardController creates a new board controller
func NewBoardController(db *gorm.DB) *BoardController {
	return &BoardController{db: db}
}

// Attachment is file metadata embedded inside a post body
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Attachment markers are stored inline in the post content as
// [attachment:name:url] lines appended by the upload handler.
var attachmentMarker = regexp.MustCompile(`(?m)^\[attachment:([^:\]]+):([^\]]+)\]\s*$`)

// parseAttachedFiles extracts attachment metadata from a post body
func parseAttachedFiles(content string) []Attachment {
	matches := attachmentMarker.FindAllStringSubmatch(content, -1)
	attachments := make([]Attachment, 0, len(matches))
	for _, m := range matches {
		attachments = append(attachments, Attachment{Name: m[1], URL: m[2]})
	}
	return attachments
}

// cleanContent strips attachment markers from a post body
func cleanContent(content string) string {
	return strings.TrimSpace(attachmentMarker.ReplaceAllString(content, ""))
}

// GetBoards returns all boards
// GET /api/v1/boards
func (bc *BoardController) GetBoards(c *gin.Context) {
	var boards []models.Board
	if err := bc.db.Preload("Posts").Order("created_at").Find(&boards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch boards"})
		return
	}

	data := make([]gin.H, 0, len(boards))
	for _, board := range boards {
		data = append(data, gin.H{
			"id":         board.ID,
			"name":       board.Name,
			"type":       board.Type,
			"auth":       board.Auth,
			"created_at": board.CreatedAt,
			"updated_at": board.UpdatedAt,
			"post_count": len(board.Posts),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"count":   len(boards),
	})
}

// GetBoard returns a single board
// GET /api/v1/boards/:id
func (bc *BoardController) GetBoard(c *gin.Context) {
	var board models.Board
	if err := bc.db.Preload("Posts").Where("id = ?", c.Param("id")).First(&board).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch board"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":         board.ID,
			"name":       board.Name,
			"type":       board.Type,
			"auth":       board.Auth,
			"created_at": board.CreatedAt,
			"updated_at": board.UpdatedAt,
			"post_count": len(board.Posts),
		},
	})
}

type boardRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type"`
	Auth string `json:"auth"`
}

// CreateBoard creates a new board
// POST /api/v1/boards
func (bc *BoardController) CreateBoard(c *gin.Context) {
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Board name is required"})
		return
	}

	id, err := models.NextBoardID(bc.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate board id"})
		return
	}

	board := models.Board{ID: id, Name: req.Name, Type: req.Type, Auth: req.Auth}
	if board.Type == "" {
		board.Type = "korean"
	}
	if board.Auth == "" {
		board.Auth = "member"
	}

	if err := bc.db.Create(&board).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": board})
}

// UpdateBoard updates a board's settings
// PUT /api/v1/boards/:id
func (bc *BoardController) UpdateBoard(c *gin.Context) {
	var board models.Board
	if err := bc.db.Where("id = ?", c.Param("id")).First(&board).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Board name is required"})
		return
	}

	updates := map[string]interface{}{"name": req.Name}
	if req.Type != "" {
		updates["type"] = req.Type
	}
	if req.Auth != "" {
		updates["auth"] = req.Auth
	}

	if err := bc.db.Model(&board).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": board})
}

// DeleteBoard deletes a board and its posts
// DELETE /api/v1/boards/:id
func (bc *BoardController) DeleteBoard(c *gin.Context) {
	boardID := c.Param("id")

	if err := bc.db.Where("board_id = ?", boardID).Delete(&models.Post{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete board posts"})
		return
	}
	if err := bc.db.Where("id = ?", boardID).Delete(&models.Board{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete board"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetBoardPosts returns a board's posts with pagination
// GET /api/v1/boards/:id/posts
func (bc *BoardController) GetBoardPosts(c *gin.Context) {
	boardID := c.Param("id")

	var board models.Board
	if err := bc.db.Where("id = ?", boardID).First(&board).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	bc.db.Model(&models.Post{}).Where("board_id = ?", boardID).Count(&total)

	var posts []models.Post
	if err := bc.db.Where("board_id = ?", boardID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	data := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		data = append(data, gin.H{
			"id":          post.ID,
			"board_id":    post.BoardID,
			"title":       post.Title,
			"content":     cleanContent(post.Content),
			"author":      post.Author,
			"views":       post.Views,
			"created_at":  post.CreatedAt,
			"updated_at":  post.UpdatedAt,
			"attachments": parseAttachedFiles(post.Content),
		})
	}

	totalPages := 0
	if total > 0 {
		totalPages = int(total+int64(limit)-1) / limit
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total_count": total,
			"total_pages": totalPages,
		},
	})
}

// GetPost returns a single post, incrementing its view counter
// GET /api/v1/posts/:id
func (bc *BoardController) GetPost(c *gin.Context) {
	var post models.Post
	if err := bc.db.Preload("Board").Where("id = ?", c.Param("id")).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	bc.db.Model(&post).Update("views", post.Views+1)
	post.Views++

	var boardInfo gin.H
	if post.Board != nil {
		boardInfo = gin.H{
			"id":   post.Board.ID,
			"name": post.Board.Name,
			"type": post.Board.Type,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":          post.ID,
			"board_id":    post.BoardID,
			"board":       boardInfo,
			"title":       post.Title,
			"content":     cleanContent(post.Content),
			"author":      post.Author,
			"views":       post.Views,
			"created_at":  post.CreatedAt,
			"updated_at":  post.UpdatedAt,
			"attachments": parseAttachedFiles(post.Content),
		},
	})
}

type postRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// CreatePost creates a post on a board
// POST /api/v1/boards/:id/posts
func (bc *BoardController) CreatePost(c *gin.Context) {
	boardID := c.Param("id")

	var board models.Board
	if err := bc.db.Where("id = ?", boardID).First(&board).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post title is required"})
		return
	}

	post := models.Post{
		BoardID: boardID,
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
	}
	if err := bc.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": post})
}

// UpdatePost updates a post
// PUT /api/v1/posts/:id
func (bc *BoardController) UpdatePost(c *gin.Context) {
	var post models.Post
	if err := bc.db.Where("id = ?", c.Param("id")).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post title is required"})
		return
	}

	updates := map[string]interface{}{
		"title":   req.Title,
		"content": req.Content,
	}
	if req.Author != "" {
		updates["author"] = req.Author
	}

	if err := bc.db.Model(&post).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": post})
}

// DeletePost deletes a post
// DELETE /api/v1/posts/:id
func (bc *BoardController) DeletePost(c *gin.Context) {
	if err := bc.db.Where("id = ?", c.Param("id")).Delete(&models.Post{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
