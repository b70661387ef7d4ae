package Notification

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kigongo-vincent/invai-backend/modules/User"
)

const streamHeartbeat = 25 * time.Second

func RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", listHandler)
	rg.POST("/", createHandler)
	rg.POST("/mark_read/", markReadHandler)
	rg.POST("/mark_unread/", markUnreadHandler)
	rg.POST("/mark_all_read/", markAllReadHandler)
	rg.POST("/bulk_action/", bulkActionHandler)
	rg.GET("/stats/", statsHandler)
	rg.GET("/unread_count/", unreadCountHandler)
	rg.DELETE("/delete_all_read/", deleteAllReadHandler)
	rg.GET("/preferences/", getPreferencesHandler)
	rg.PUT("/preferences/", updatePreferencesHandler)
	rg.PATCH("/preferences/", updatePreferencesHandler)
	rg.GET("/stream/", streamHandler)
	rg.GET("/:id/", getHandler)
	rg.DELETE("/:id/", deleteHandler)
	rg.POST("/:id/mark_read/", markOneHandler(true))
	rg.POST("/:id/mark_unread/", markOneHandler(false))
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
	case errors.Is(err, ErrInvalidType), errors.Is(err, ErrUnknownRecipient):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func currentUser(c *gin.Context) (uint, bool) {
	id, ok := User.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
	}
	return id, ok
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return 0, false
	}
	return uint(id), true
}

func listHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	filter := ListFilter{Type: NotificationType(c.Query("type"))}
	if v, present := c.GetQuery("is_read"); present {
		read := strings.EqualFold(v, "true")
		filter.IsRead = &read
	}
	// an unparsable limit is ignored
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	notifications, err := GetNotificationService().List(userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func createHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// only admins may address other users
	role, _ := c.Get("role")
	if r, _ := role.(User.UserRole); r != User.Admin || req.RecipientID == 0 {
		req.RecipientID = userID
	}

	n, err := GetNotificationService().Create(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func getHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	n, err := GetNotificationService().Get(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func deleteHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	deleted, err := GetNotificationService().Delete([]uint{id}, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if deleted == 0 {
		respondError(c, ErrNotificationNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func markOneHandler(read bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := parseID(c)
		if !ok {
			return
		}
		n, err := GetNotificationService().SetRead(id, userID, read)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, n)
	}
}

func markReadHandler(c *gin.Context) {
	markMany(c, "read", GetNotificationService().MarkRead)
}

func markUnreadHandler(c *gin.Context) {
	markMany(c, "unread", GetNotificationService().MarkUnread)
}

func markMany(c *gin.Context, label string, apply func([]uint, uint) (int64, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notification_ids is required"})
		return
	}
	count, err := apply(req.NotificationIDs, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Marked %d notifications as %s", count, label),
		"updated_count": count,
	})
}

func markAllReadHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	count, err := GetNotificationService().MarkAllRead(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Marked %d notifications as read", count),
		"updated_count": count,
	})
}

func bulkActionHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notification_ids and action are required"})
		return
	}

	count, err := GetNotificationService().BulkAction(req.Action, req.NotificationIDs, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	var message string
	switch req.Action {
	case BulkMarkRead:
		message = fmt.Sprintf("Marked %d notifications as read", count)
	case BulkMarkUnread:
		message = fmt.Sprintf("Marked %d notifications as unread", count)
	case BulkDelete:
		message = fmt.Sprintf("Deleted %d notifications", count)
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "affected_count": count})
}

func statsHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	stats, err := GetNotificationService().Stats(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func unreadCountHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	count, err := GetNotificationService().UnreadCount(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func deleteAllReadHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	count, err := GetNotificationService().DeleteAllRead(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Deleted %d read notifications", count),
		"deleted_count": count,
	})
}

func getPreferencesHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	prefs, err := GetNotificationService().GetOrCreatePreferences(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func updatePreferencesHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prefs, err := GetNotificationService().UpdatePreferences(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func streamHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	broker := GetNotificationService().Broker()
	if broker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notification stream is not available"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	sub := broker.Subscribe(userID)
	defer broker.Unsubscribe(sub)

	fmt.Fprint(c.Writer, "event: connected\ndata: {\"type\":\"connected\"}\n\n")
	c.Writer.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case message, open := <-sub.Channel:
			if !open {
				return
			}
			if _, err := c.Writer.Write(message); err != nil {
				return
			}
			c.Writer.Flush()
		case <-heartbeat.C:
			if _, err := io.WriteString(c.Writer, ": ping\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
