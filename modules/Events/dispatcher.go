// Package Events turns committed domain writes into user notifications.
//
// The User, Product and Order routers call a Dispatcher after each write.
// Every rule creates its notifications one recipient at a time; a failure is
// logged and counted and never reaches the request that triggered it.
package Events

import (
	"fmt"
	"strings"

	"github.com/kigongo-vincent/invai-backend/logger"
	"github.com/kigongo-vincent/invai-backend/metrics"
	"github.com/kigongo-vincent/invai-backend/modules/Notification"
	"github.com/kigongo-vincent/invai-backend/modules/Order"
	"github.com/kigongo-vincent/invai-backend/modules/Product"
	"github.com/kigongo-vincent/invai-backend/modules/User"
	"github.com/shopspring/decimal"
)

const (
	// a drop below this share of the previous quantity is reported
	decreaseRatio = 0.8
	criticalStock = 5
	// products named in a stock review before "and N more"
	reviewListed = 5
)

var (
	DefaultHighValue  = decimal.NewFromInt(1000)
	DefaultMajorValue = decimal.NewFromInt(5000)
)

type RecipientResolver interface {
	UserIDsByRoles(roles ...User.UserRole) ([]uint, error)
}

type LowStockLister interface {
	BelowMinStock() ([]*Product.Product, error)
}

type Notifier interface {
	Create(req Notification.CreateNotificationRequest) (*Notification.Notification, error)
}

type Thresholds struct {
	HighValue  decimal.Decimal
	MajorValue decimal.Decimal
}

type Dispatcher struct {
	recipients RecipientResolver
	products   LowStockLister
	notifier   Notifier
	log        logger.Logger
	thresholds Thresholds
}

func NewDispatcher(recipients RecipientResolver, products LowStockLister, notifier Notifier, log logger.Logger, thresholds Thresholds) *Dispatcher {
	if log == nil {
		log = logger.NewNoOp()
	}
	if thresholds.HighValue.IsZero() {
		thresholds.HighValue = DefaultHighValue
	}
	if thresholds.MajorValue.IsZero() {
		thresholds.MajorValue = DefaultMajorValue
	}
	return &Dispatcher{
		recipients: recipients,
		products:   products,
		notifier:   notifier,
		log:        log.With(logger.Fields{"component": "events"}),
		thresholds: thresholds,
	}
}

// message is one notification addressed to a set of users.
type message struct {
	rule        string
	title       string
	body        string
	kind        Notification.NotificationType
	relatedID   uint
	relatedType string
	actionURL   string
	actionText  string
}

func (d *Dispatcher) send(m message, userIDs ...uint) {
	for _, id := range userIDs {
		req := Notification.CreateNotificationRequest{
			RecipientID:      id,
			Title:            m.title,
			Message:          m.body,
			NotificationType: m.kind,
		}
		if m.relatedType != "" {
			relatedID, relatedType := m.relatedID, m.relatedType
			req.RelatedObjectID = &relatedID
			req.RelatedObjectType = &relatedType
		}
		if m.actionURL != "" {
			url, text := m.actionURL, m.actionText
			req.ActionURL = &url
			req.ActionText = &text
		}
		if _, err := d.notifier.Create(req); err != nil {
			metrics.HookFailures.WithLabelValues(m.rule).Inc()
			d.log.WithError(err).Error("notification hook failed", logger.Fields{
				"rule":         m.rule,
				"recipient_id": id,
			})
		}
	}
}

func (d *Dispatcher) sendToRoles(m message, roles ...User.UserRole) {
	ids, err := d.recipients.UserIDsByRoles(roles...)
	if err != nil {
		metrics.HookFailures.WithLabelValues(m.rule).Inc()
		d.log.WithError(err).Error("could not resolve notification recipients", logger.Fields{"rule": m.rule})
		return
	}
	d.send(m, ids...)
}

func money(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}

// UserCreated welcomes the user and tells the other admins.
func (d *Dispatcher) UserCreated(u *User.UserModel) {
	greeting := u.FirstName
	if greeting == "" {
		greeting = u.Username
	}
	d.send(message{
		rule:       "user_welcome",
		title:      "Welcome to InvAI! 🎉",
		body:       fmt.Sprintf("Welcome %s! Your inventory management account is ready. Explore the dashboard to get started.", greeting),
		kind:       Notification.TypeSuccess,
		actionURL:  "/dashboard",
		actionText: "Get Started",
	}, u.ID)

	admins, err := d.recipients.UserIDsByRoles(User.Admin)
	if err != nil {
		metrics.HookFailures.WithLabelValues("user_registered").Inc()
		d.log.WithError(err).Error("could not resolve notification recipients", logger.Fields{"rule": "user_registered"})
		return
	}
	others := make([]uint, 0, len(admins))
	for _, id := range admins {
		if id != u.ID {
			others = append(others, id)
		}
	}
	d.send(message{
		rule:       "user_registered",
		title:      "New User Registered",
		body:       fmt.Sprintf("New user '%s' (%s) has joined the system.", u.Username, u.Email),
		kind:       Notification.TypeUserAction,
		actionURL:  "/dashboard/users",
		actionText: "Manage Users",
	}, others...)
}

func (d *Dispatcher) ProductCreated(p *Product.Product) {
	d.sendToRoles(message{
		rule:        "product_created",
		title:       "New Product Added",
		body:        fmt.Sprintf("New product '%s' has been added to inventory with %d units in stock.", p.Name, p.Quantity),
		kind:        Notification.TypeSuccess,
		relatedID:   p.ID,
		relatedType: "product",
		actionURL:   "/dashboard/products",
		actionText:  "View Products",
	}, User.Admin, User.Manager)
}

// ProductUpdated compares quantities before and after the write. The three
// stock rules are evaluated independently and may all fire at once.
func (d *Dispatcher) ProductUpdated(old, updated *Product.Product) {
	if old == nil || updated == nil {
		return
	}
	before, after := old.Quantity, updated.Quantity

	if float64(after) < float64(before)*decreaseRatio {
		d.sendToRoles(message{
			rule:        "stock_decreased",
			title:       "Stock Level Decreased",
			body:        fmt.Sprintf("Stock for '%s' decreased from %d to %d units.", updated.Name, before, after),
			kind:        Notification.TypeWarning,
			relatedID:   updated.ID,
			relatedType: "product",
			actionURL:   "/dashboard/products",
			actionText:  "Check Product",
		}, User.Admin, User.Manager)
	}

	if before >= updated.MinStock && after < updated.MinStock {
		d.sendToRoles(message{
			rule:        "low_stock",
			title:       "Low Stock Alert",
			body:        fmt.Sprintf("'%s' is running low! Current stock: %d, minimum required: %d", updated.Name, after, updated.MinStock),
			kind:        Notification.TypeInventoryLow,
			relatedID:   updated.ID,
			relatedType: "product",
			actionURL:   "/dashboard/products",
			actionText:  "Reorder Now",
		}, User.Admin, User.Manager)
	}

	if after <= criticalStock && before > criticalStock {
		d.sendToRoles(message{
			rule:        "critical_stock",
			title:       "CRITICAL: Stock Almost Empty",
			body:        fmt.Sprintf("URGENT: '%s' has only %d units left! Immediate reordering required.", updated.Name, after),
			kind:        Notification.TypeError,
			relatedID:   updated.ID,
			relatedType: "product",
			actionURL:   "/dashboard/products",
			actionText:  "Emergency Reorder",
		}, User.Admin, User.Manager)
	}
}

func (d *Dispatcher) OrderCreated(o *Order.Order) {
	total := o.Total()
	productName := productName(o)

	d.send(message{
		rule:        "order_placed",
		title:       "Order Placed Successfully",
		body:        fmt.Sprintf("Your order for %dx '%s' has been placed successfully.", o.Quantity, productName),
		kind:        Notification.TypeSuccess,
		relatedID:   o.ID,
		relatedType: "order",
		actionURL:   "/dashboard/orders",
		actionText:  "Track Order",
	}, o.UserID)

	customer := o.CustomerName()
	d.sendToRoles(message{
		rule:        "order_received",
		title:       "New Order Received",
		body:        fmt.Sprintf("New order #%d for %dx '%s' from %s (total %s)", o.ID, o.Quantity, productName, customer, money(total)),
		kind:        Notification.TypeOrderStatus,
		relatedID:   o.ID,
		relatedType: "order",
		actionURL:   "/dashboard/orders",
		actionText:  "Process Order",
	}, User.Admin, User.Manager)

	if total.GreaterThanOrEqual(d.thresholds.HighValue) {
		d.sendToRoles(message{
			rule:        "order_high_value",
			title:       "High-Value Order Received",
			body:        fmt.Sprintf("Order #%d from %s is worth %s (%dx '%s').", o.ID, customer, money(total), o.Quantity, productName),
			kind:        Notification.TypeOrderHighValue,
			relatedID:   o.ID,
			relatedType: "order",
			actionURL:   "/dashboard/orders",
			actionText:  "Review Order",
		}, User.Admin, User.Manager)
	}

	if total.GreaterThanOrEqual(d.thresholds.MajorValue) {
		d.sendToRoles(message{
			rule:        "order_major_value",
			title:       "Major Order Alert",
			body:        fmt.Sprintf("Order #%d is a major order worth %s. Confirm stock and payment before processing.", o.ID, money(total)),
			kind:        Notification.TypeOrderHighValue,
			relatedID:   o.ID,
			relatedType: "order",
			actionURL:   "/dashboard/orders",
			actionText:  "Review Order",
		}, User.Admin)
	}
}

// OrderStatusChanged is a no-op when the status did not actually change.
func (d *Dispatcher) OrderStatusChanged(o *Order.Order, oldStatus Order.Status) {
	if o.Status == oldStatus {
		return
	}
	productName := productName(o)

	d.send(message{
		rule:        "order_status",
		title:       fmt.Sprintf("Order %s", o.Status),
		body:        fmt.Sprintf("Your order #%d for '%s' is now %s.", o.ID, productName, strings.ToLower(string(o.Status))),
		kind:        Notification.TypeOrderStatus,
		relatedID:   o.ID,
		relatedType: "order",
		actionURL:   "/dashboard/orders",
		actionText:  "View Order",
	}, o.UserID)

	switch o.Status {
	case Order.Delivered:
		d.send(message{
			rule:        "order_delivered",
			title:       "Order Delivered! 🎉",
			body:        fmt.Sprintf("Your order #%d for '%s' has been delivered successfully. Thank you for your business!", o.ID, productName),
			kind:        Notification.TypeSuccess,
			relatedID:   o.ID,
			relatedType: "order",
			actionURL:   "/dashboard/orders",
			actionText:  "Leave Review",
		}, o.UserID)

	case Order.Cancelled:
		total := o.Total()
		d.sendToRoles(message{
			rule:        "order_cancelled",
			title:       "Order Cancelled",
			body:        fmt.Sprintf("Order #%d for %dx '%s' from %s was cancelled (was %s).", o.ID, o.Quantity, productName, o.CustomerName(), oldStatus),
			kind:        Notification.TypeWarning,
			relatedID:   o.ID,
			relatedType: "order",
			actionURL:   "/dashboard/orders",
			actionText:  "View Order",
		}, User.Admin, User.Manager)

		if total.GreaterThanOrEqual(d.thresholds.HighValue) {
			d.sendToRoles(message{
				rule:        "order_high_value_cancelled",
				title:       "High-Value Order Cancelled",
				body:        fmt.Sprintf("Order #%d worth %s was cancelled.", o.ID, money(total)),
				kind:        Notification.TypeOrderHighValue,
				relatedID:   o.ID,
				relatedType: "order",
				actionURL:   "/dashboard/orders",
				actionText:  "View Order",
			}, User.Admin, User.Manager)
		}
	}
}

// OrderDeleted works from the snapshot taken before the row was removed.
func (d *Dispatcher) OrderDeleted(s Order.Snapshot) {
	d.sendToRoles(message{
		rule:       "order_deleted",
		title:      "Order Deleted",
		body:       fmt.Sprintf("Order #%d for %dx '%s' from %s (total %s) was deleted.", s.ID, s.Quantity, s.ProductName, s.CustomerName, money(s.Total)),
		kind:       Notification.TypeWarning,
		actionURL:  "/dashboard/orders",
		actionText: "View Orders",
	}, User.Admin, User.Manager)

	if s.Total.GreaterThanOrEqual(d.thresholds.HighValue) {
		d.sendToRoles(message{
			rule:       "order_high_value_deleted",
			title:      "High-Value Order Deleted",
			body:       fmt.Sprintf("High-value order #%d worth %s was deleted.", s.ID, money(s.Total)),
			kind:       Notification.TypeOrderHighValue,
			actionURL:  "/dashboard/orders",
			actionText: "View Orders",
		}, User.Admin, User.Manager)
	}

	if s.Total.GreaterThanOrEqual(d.thresholds.MajorValue) {
		d.sendToRoles(message{
			rule:       "order_critical_deleted",
			title:      "CRITICAL: Major Order Deleted",
			body:       fmt.Sprintf("Order #%d worth %s for %s was deleted. Verify this was intended.", s.ID, money(s.Total), s.CustomerName),
			kind:       Notification.TypeError,
			actionURL:  "/dashboard/orders",
			actionText: "View Orders",
		}, User.Admin)
	}
}

// StockReview sends a digest of every product below its minimum stock and
// returns how many products were listed.
func (d *Dispatcher) StockReview() (int, error) {
	products, err := d.products.BelowMinStock()
	if err != nil {
		return 0, fmt.Errorf("list products below min stock: %w", err)
	}
	if len(products) == 0 {
		return 0, nil
	}

	names := make([]string, 0, reviewListed)
	for i, p := range products {
		if i == reviewListed {
			break
		}
		names = append(names, p.Name)
	}
	more := ""
	if len(products) > reviewListed {
		more = fmt.Sprintf(" and %d more", len(products)-reviewListed)
	}

	d.sendToRoles(message{
		rule:       "stock_review",
		title:      fmt.Sprintf("Weekly Stock Review: %d Items Need Attention", len(products)),
		body:       fmt.Sprintf("Products requiring reorder: %s%s", strings.Join(names, ", "), more),
		kind:       Notification.TypeWarning,
		actionURL:  "/dashboard/products",
		actionText: "Review Inventory",
	}, User.Admin, User.Manager)
	return len(products), nil
}

func productName(o *Order.Order) string {
	if o.Product != nil {
		return o.Product.Name
	}
	return o.ProductName
}
