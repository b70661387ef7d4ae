package Notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kigongo-vincent/invai-backend/logger"
	"github.com/kigongo-vincent/invai-backend/metrics"
	"github.com/kigongo-vincent/invai-backend/modules/User"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidType          = fmt.Errorf("notification_type must be one of: %s", joinTypes())
	ErrUnknownRecipient     = errors.New("recipient does not exist")
	ErrInvalidAction        = errors.New("invalid action")
)

func joinTypes() string {
	names := make([]string, len(Types))
	for i, t := range Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

var notificationService *NotificationService

type NotificationService struct {
	db     *gorm.DB
	log    logger.Logger
	broker *Broker
	now    func() time.Time
}

// InitializeService initializes the notification service. broker may be nil
// when no stream is served, e.g. from the management command.
func InitializeService(db *gorm.DB, log logger.Logger, broker *Broker) {
	if log == nil {
		log = logger.NewNoOp()
	}
	notificationService = &NotificationService{
		db:     db,
		log:    log,
		broker: broker,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GetNotificationService returns the initialized notification service
func GetNotificationService() *NotificationService {
	return notificationService
}

func (s *NotificationService) Broker() *Broker {
	return s.broker
}

// visible limits a query to the user's rows that have not expired.
func (s *NotificationService) visible(userID uint) *gorm.DB {
	return s.db.Model(&Notification{}).
		Where("recipient_id = ?", userID).
		Where("(expires_at IS NULL OR expires_at > ?)", s.now())
}

func (s *NotificationService) Create(req CreateNotificationRequest) (*Notification, error) {
	if req.NotificationType == "" {
		req.NotificationType = TypeInfo
	}
	if !req.NotificationType.Valid() {
		return nil, ErrInvalidType
	}

	var recipients int64
	if err := s.db.Model(&User.UserModel{}).Where("id = ?", req.RecipientID).Count(&recipients).Error; err != nil {
		return nil, err
	}
	if recipients == 0 {
		return nil, ErrUnknownRecipient
	}

	now := s.now()
	n := &Notification{
		RecipientID:       req.RecipientID,
		Title:             req.Title,
		Message:           req.Message,
		NotificationType:  req.NotificationType,
		CreatedAt:         now,
		UpdatedAt:         now,
		RelatedObjectID:   req.RelatedObjectID,
		RelatedObjectType: req.RelatedObjectType,
		ActionURL:         req.ActionURL,
		ActionText:        req.ActionText,
	}
	if req.ExpiresAt != nil {
		expires := req.ExpiresAt.UTC()
		n.ExpiresAt = &expires
	}

	if err := s.db.Create(n).Error; err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	n.IsExpired = n.Expired(now)

	metrics.NotificationsCreated.WithLabelValues(string(n.NotificationType)).Inc()
	if s.broker != nil {
		s.broker.Publish(n)
	}
	return n, nil
}

// CreateBulk creates one notification per recipient. Failures are logged and
// skipped so one bad recipient does not block the others.
func (s *NotificationService) CreateBulk(recipientIDs []uint, req CreateNotificationRequest) []*Notification {
	created := make([]*Notification, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		req.RecipientID = id
		n, err := s.Create(req)
		if err != nil {
			s.log.WithError(err).Warn("failed to create notification", logger.Fields{"recipient_id": id})
			continue
		}
		created = append(created, n)
	}
	return created
}

func (s *NotificationService) List(userID uint, filter ListFilter) ([]*Notification, error) {
	q := s.visible(userID)
	if filter.IsRead != nil {
		q = q.Where("is_read = ?", *filter.IsRead)
	}
	if filter.Type != "" {
		q = q.Where("notification_type = ?", filter.Type)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var notifications []*Notification
	if err := q.Order("created_at DESC").Order("id DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *NotificationService) Get(id, userID uint) (*Notification, error) {
	var n Notification
	if err := s.visible(userID).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (s *NotificationService) setRead(userID uint, ids []uint, read bool) (int64, error) {
	q := s.db.Model(&Notification{}).Where("recipient_id = ? AND is_read = ?", userID, !read)
	if ids != nil {
		q = q.Where("id IN ?", ids)
	}
	res := q.Updates(map[string]interface{}{"is_read": read, "updated_at": s.now()})
	return res.RowsAffected, res.Error
}

// MarkRead flags the caller's unread notifications among ids as read.
func (s *NotificationService) MarkRead(ids []uint, userID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.setRead(userID, ids, true)
}

func (s *NotificationService) MarkUnread(ids []uint, userID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.setRead(userID, ids, false)
}

func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	return s.setRead(userID, nil, true)
}

// SetRead updates a single visible notification and returns its new state.
func (s *NotificationService) SetRead(id, userID uint, read bool) (*Notification, error) {
	n, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}
	if n.IsRead != read {
		now := s.now()
		if err := s.db.Model(n).Updates(map[string]interface{}{"is_read": read, "updated_at": now}).Error; err != nil {
			return nil, err
		}
		n.IsRead = read
		n.UpdatedAt = now
	}
	return n, nil
}

func (s *NotificationService) Delete(ids []uint, userID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.Where("recipient_id = ? AND id IN ?", userID, ids).Delete(&Notification{})
	return res.RowsAffected, res.Error
}

func (s *NotificationService) DeleteAllRead(userID uint) (int64, error) {
	res := s.db.Where("recipient_id = ? AND is_read = ?", userID, true).Delete(&Notification{})
	return res.RowsAffected, res.Error
}

// BulkAction applies one of mark_read, mark_unread or delete to ids.
func (s *NotificationService) BulkAction(action BulkAction, ids []uint, userID uint) (int64, error) {
	switch action {
	case BulkMarkRead:
		return s.MarkRead(ids, userID)
	case BulkMarkUnread:
		return s.MarkUnread(ids, userID)
	case BulkDelete:
		return s.Delete(ids, userID)
	}
	return 0, ErrInvalidAction
}

func (s *NotificationService) Stats(userID uint) (*Stats, error) {
	var rows []struct {
		NotificationType NotificationType
		IsRead           bool
		Count            int64
	}
	if err := s.visible(userID).
		Select("notification_type, is_read, COUNT(*) AS count").
		Group("notification_type, is_read").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &Stats{ByType: make(map[NotificationType]int64)}
	for _, r := range rows {
		stats.TotalCount += r.Count
		stats.ByType[r.NotificationType] += r.Count
		if r.IsRead {
			stats.ReadCount += r.Count
		} else {
			stats.UnreadCount += r.Count
		}
	}
	return stats, nil
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.visible(userID).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

// CleanupExpired removes notifications whose expires_at has passed.
// Rows without an expiry are never touched.
func (s *NotificationService) CleanupExpired() (int64, error) {
	res := s.db.Where("expires_at IS NOT NULL AND expires_at < ?", s.now()).Delete(&Notification{})
	if res.Error != nil {
		return 0, res.Error
	}
	metrics.NotificationsCleaned.WithLabelValues("expired").Add(float64(res.RowsAffected))
	return res.RowsAffected, nil
}

// CleanupOldRead removes read notifications last touched more than days ago.
func (s *NotificationService) CleanupOldRead(days int) (int64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("days must be positive, got %d", days)
	}
	cutoff := s.now().AddDate(0, 0, -days)
	res := s.db.Where("is_read = ? AND updated_at < ?", true, cutoff).Delete(&Notification{})
	if res.Error != nil {
		return 0, res.Error
	}
	metrics.NotificationsCleaned.WithLabelValues("read").Add(float64(res.RowsAffected))
	return res.RowsAffected, nil
}

// CleanupByPreferences applies each user's auto_delete_read_after_days.
// A value of zero disables automatic deletion for that user.
func (s *NotificationService) CleanupByPreferences() (int64, error) {
	var prefs []NotificationPreference
	if err := s.db.Where("auto_delete_read_after_days > 0").Find(&prefs).Error; err != nil {
		return 0, err
	}

	var total int64
	now := s.now()
	for _, p := range prefs {
		cutoff := now.AddDate(0, 0, -int(p.AutoDeleteReadAfterDays))
		res := s.db.Where("recipient_id = ? AND is_read = ? AND updated_at < ?", p.UserID, true, cutoff).
			Delete(&Notification{})
		if res.Error != nil {
			return total, fmt.Errorf("cleanup for user %d: %w", p.UserID, res.Error)
		}
		total += res.RowsAffected
	}
	metrics.NotificationsCleaned.WithLabelValues("preference").Add(float64(total))
	return total, nil
}

func (s *NotificationService) GetOrCreatePreferences(userID uint) (*NotificationPreference, error) {
	var prefs NotificationPreference
	err := s.db.Where("user_id = ?", userID).First(&prefs).Error
	if err == nil {
		return &prefs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	prefs = defaultPreferences(userID)
	if err := s.db.Create(&prefs).Error; err != nil {
		// lost a race with a concurrent first request
		var existing NotificationPreference
		if lookupErr := s.db.Where("user_id = ?", userID).First(&existing).Error; lookupErr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("create notification preferences: %w", err)
	}
	return &prefs, nil
}

func (s *NotificationService) UpdatePreferences(userID uint, req UpdatePreferencesRequest) (*NotificationPreference, error) {
	prefs, err := s.GetOrCreatePreferences(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	setBool := func(column string, v *bool) {
		if v != nil {
			updates[column] = *v
		}
	}
	setBool("email_enabled", req.EmailEnabled)
	setBool("email_inventory_low", req.EmailInventoryLow)
	setBool("email_order_status", req.EmailOrderStatus)
	setBool("email_order_high_value", req.EmailOrderHighValue)
	setBool("email_user_action", req.EmailUserAction)
	setBool("email_system", req.EmailSystem)
	setBool("push_enabled", req.PushEnabled)
	setBool("push_inventory_low", req.PushInventoryLow)
	setBool("push_order_status", req.PushOrderStatus)
	setBool("push_order_high_value", req.PushOrderHighValue)
	setBool("push_user_action", req.PushUserAction)
	setBool("push_system", req.PushSystem)
	if req.AutoDeleteReadAfterDays != nil {
		updates["auto_delete_read_after_days"] = *req.AutoDeleteReadAfterDays
	}
	if len(updates) == 0 {
		return prefs, nil
	}

	if err := s.db.Model(prefs).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := s.db.First(prefs, prefs.ID).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}

// ShouldSend reports whether the user accepts in-app notifications of type t.
// Lookup failures fall back to sending.
func (s *NotificationService) ShouldSend(userID uint, t NotificationType) bool {
	prefs, err := s.GetOrCreatePreferences(userID)
	if err != nil {
		s.log.WithError(err).Warn("could not load notification preferences", logger.Fields{"user_id": userID})
		return true
	}
	if !prefs.PushEnabled {
		return false
	}
	switch t {
	case TypeInventoryLow:
		return prefs.PushInventoryLow
	case TypeOrderStatus:
		return prefs.PushOrderStatus
	case TypeOrderHighValue:
		return prefs.PushOrderHighValue
	case TypeUserAction:
		return prefs.PushUserAction
	case TypeSystem:
		return prefs.PushSystem
	}
	return true
}
