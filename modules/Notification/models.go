package Notification

import (
	"time"

	"github.com/kigongo-vincent/invai-backend/modules/User"
)

type NotificationType string

const (
	TypeInfo           NotificationType = "info"
	TypeSuccess        NotificationType = "success"
	TypeWarning        NotificationType = "warning"
	TypeError          NotificationType = "error"
	TypeInventoryLow   NotificationType = "inventory_low"
	TypeOrderStatus    NotificationType = "order_status"
	TypeOrderHighValue NotificationType = "order_high_value"
	TypeUserAction     NotificationType = "user_action"
	TypeSystem         NotificationType = "system"
)

var Types = []NotificationType{
	TypeInfo, TypeSuccess, TypeWarning, TypeError, TypeInventoryLow,
	TypeOrderStatus, TypeOrderHighValue, TypeUserAction, TypeSystem,
}

func (t NotificationType) Valid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

// Notification rows are hard deleted; there is no deleted_at column.
type Notification struct {
	ID                uint             `json:"id" gorm:"primarykey"`
	RecipientID       uint             `json:"-" gorm:"not null;index:idx_notification_recipient_created,priority:1;index:idx_notification_recipient_read,priority:1"`
	Recipient         *User.UserModel  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Title             string           `json:"title" gorm:"not null;size:200"`
	Message           string           `json:"message" gorm:"not null;type:text"`
	NotificationType  NotificationType `json:"notification_type" gorm:"not null;size:20;default:info;index"`
	IsRead            bool             `json:"is_read" gorm:"not null;default:false;index:idx_notification_recipient_read,priority:2"`
	CreatedAt         time.Time        `json:"created_at" gorm:"index:idx_notification_recipient_created,priority:2,sort:desc"`
	UpdatedAt         time.Time        `json:"updated_at"`
	RelatedObjectID   *uint            `json:"related_object_id"`
	RelatedObjectType *string          `json:"related_object_type" gorm:"size:50"`
	ActionURL         *string          `json:"action_url"`
	ActionText        *string          `json:"action_text" gorm:"size:100"`
	ExpiresAt         *time.Time       `json:"expires_at" gorm:"index"`

	IsExpired bool `json:"is_expired" gorm:"-"`
}

// Expired reports whether expires_at is set and already past at now.
func (n *Notification) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}

// NotificationPreference is created lazily, one row per user.
type NotificationPreference struct {
	ID     uint            `json:"-" gorm:"primarykey"`
	UserID uint            `json:"-" gorm:"uniqueIndex;not null"`
	User   *User.UserModel `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	EmailEnabled        bool `json:"email_enabled" gorm:"not null"`
	EmailInventoryLow   bool `json:"email_inventory_low" gorm:"not null"`
	EmailOrderStatus    bool `json:"email_order_status" gorm:"not null"`
	EmailOrderHighValue bool `json:"email_order_high_value" gorm:"not null"`
	EmailUserAction     bool `json:"email_user_action" gorm:"not null"`
	EmailSystem         bool `json:"email_system" gorm:"not null"`

	PushEnabled        bool `json:"push_enabled" gorm:"not null"`
	PushInventoryLow   bool `json:"push_inventory_low" gorm:"not null"`
	PushOrderStatus    bool `json:"push_order_status" gorm:"not null"`
	PushOrderHighValue bool `json:"push_order_high_value" gorm:"not null"`
	PushUserAction     bool `json:"push_user_action" gorm:"not null"`
	PushSystem         bool `json:"push_system" gorm:"not null"`

	AutoDeleteReadAfterDays uint `json:"auto_delete_read_after_days" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const DefaultAutoDeleteDays uint = 30

// defaultPreferences enables everything except email for user actions.
func defaultPreferences(userID uint) NotificationPreference {
	return NotificationPreference{
		UserID:                  userID,
		EmailEnabled:            true,
		EmailInventoryLow:       true,
		EmailOrderStatus:        true,
		EmailOrderHighValue:     true,
		EmailUserAction:         false,
		EmailSystem:             true,
		PushEnabled:             true,
		PushInventoryLow:        true,
		PushOrderStatus:         true,
		PushOrderHighValue:      true,
		PushUserAction:          true,
		PushSystem:              true,
		AutoDeleteReadAfterDays: DefaultAutoDeleteDays,
	}
}

type CreateNotificationRequest struct {
	RecipientID       uint             `json:"recipient"`
	Title             string           `json:"title" binding:"required,max=200"`
	Message           string           `json:"message" binding:"required"`
	NotificationType  NotificationType `json:"notification_type"`
	RelatedObjectID   *uint            `json:"related_object_id"`
	RelatedObjectType *string          `json:"related_object_type" binding:"omitempty,max=50"`
	ActionURL         *string          `json:"action_url"`
	ActionText        *string          `json:"action_text" binding:"omitempty,max=100"`
	ExpiresAt         *time.Time       `json:"expires_at"`
}

type UpdatePreferencesRequest struct {
	EmailEnabled            *bool `json:"email_enabled"`
	EmailInventoryLow       *bool `json:"email_inventory_low"`
	EmailOrderStatus        *bool `json:"email_order_status"`
	EmailOrderHighValue     *bool `json:"email_order_high_value"`
	EmailUserAction         *bool `json:"email_user_action"`
	EmailSystem             *bool `json:"email_system"`
	PushEnabled             *bool `json:"push_enabled"`
	PushInventoryLow        *bool `json:"push_inventory_low"`
	PushOrderStatus         *bool `json:"push_order_status"`
	PushOrderHighValue      *bool `json:"push_order_high_value"`
	PushUserAction          *bool `json:"push_user_action"`
	PushSystem              *bool `json:"push_system"`
	AutoDeleteReadAfterDays *uint `json:"auto_delete_read_after_days"`
}

type ListFilter struct {
	IsRead *bool
	Type   NotificationType
	Limit  int
}

type Stats struct {
	TotalCount  int64                      `json:"total_count"`
	UnreadCount int64                      `json:"unread_count"`
	ReadCount   int64                      `json:"read_count"`
	ByType      map[NotificationType]int64 `json:"by_type"`
}

type IDsRequest struct {
	NotificationIDs []uint `json:"notification_ids" binding:"required,min=1"`
}

type BulkAction string

const (
	BulkMarkRead   BulkAction = "mark_read"
	BulkMarkUnread BulkAction = "mark_unread"
	BulkDelete     BulkAction = "delete"
)

type BulkActionRequest struct {
	NotificationIDs []uint     `json:"notification_ids" binding:"required,min=1"`
	Action          BulkAction `json:"action" binding:"required"`
}
