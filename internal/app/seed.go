package app

import (
	"errors"
	"fmt"

	"github.com/kigongo-vincent/invai-backend/logger"
	"github.com/kigongo-vincent/invai-backend/modules/Order"
	"github.com/kigongo-vincent/invai-backend/modules/Product"
	"github.com/kigongo-vincent/invai-backend/modules/Supplier"
	"github.com/kigongo-vincent/invai-backend/modules/User"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DemoPassword is the password every seeded account gets.
const DemoPassword = "demo123"

type SeedReport struct {
	Users     int
	Suppliers int
	Products  int
	Orders    int
}

type seedUser struct {
	username, first, last string
	role                  User.UserRole
	phone                 string
	portrait              string
}

var seedUsers = []seedUser{
	{"alice", "Alice", "Johnson", User.Admin, "123-456-7890", "women/1"},
	{"bob", "Bob", "Smith", User.Manager, "987-654-3210", "men/2"},
	{"charlie", "Charlie", "Lee", User.Employee, "555-555-5555", "men/3"},
	{"diana", "Diana", "Prince", User.Manager, "222-333-4444", "women/4"},
	{"ethan", "Ethan", "Hunt", User.Employee, "666-777-8888", "men/5"},
}

var seedSuppliers = []Supplier.Supplier{
	{Name: "TechSource Ltd", Contact: "techsource@example.com", Phone: "111-222-3333"},
	{Name: "FurniCo", Contact: "furnico@example.com", Phone: "444-555-6666"},
	{Name: "OfficeMart", Contact: "officemart@example.com", Phone: "777-888-9999"},
}

type seedProduct struct {
	name     string
	category Product.Category
	quantity uint
	price    string
	supplier int
}

var seedProducts = []seedProduct{
	{"Laptop Pro", Product.Electronics, 6, "1200.00", 0},
	{"Office Chair", Product.Furniture, 150, "200.00", 1},
	{"Smartphone X", Product.Electronics, 80, "900.00", 0},
	{"Standing Desk", Product.Furniture, 17, "450.00", 1},
	{"Wireless Headphones", Product.Electronics, 120, "150.00", 0},
	{`LED Monitor 27"`, Product.Electronics, 39, "300.00", 0},
	{"Printer Ink", Product.OfficeSupplies, 96, "35.00", 2},
}

type seedOrder struct {
	product  int
	customer string
	quantity uint
	status   Order.Status
}

var seedOrders = []seedOrder{
	{0, "bob", 2, Order.Shipped},
	{1, "charlie", 5, Order.Delivered},
	{2, "bob", 1, Order.Delivered},
	{4, "diana", 10, Order.Processing},
	{5, "ethan", 3, Order.Pending},
	{3, "charlie", 1, Order.Delivered},
	{6, "ethan", 15, Order.Shipped},
}

// Seed loads the demo data set. Rows that already exist are left alone, so
// running it twice is harmless. Event hooks do not fire for seeded rows.
// The User service must be initialized.
func Seed(db *gorm.DB, log logger.Logger) (*SeedReport, error) {
	report := &SeedReport{}

	users := make(map[string]uint, len(seedUsers))
	for _, su := range seedUsers {
		phone := su.phone
		pic := "https://randomuser.me/api/portraits/" + su.portrait + ".jpg"
		u, err := User.GetUserService().CreateUser(User.CreateUserRequest{
			Username:   su.username,
			Email:      su.username + "@example.com",
			Password:   DemoPassword,
			FirstName:  su.first,
			LastName:   su.last,
			Role:       su.role,
			Phone:      &phone,
			ProfilePic: &pic,
		})
		switch {
		case err == nil:
			report.Users++
			log.Info("created user", logger.Fields{"username": u.Username})
		case errors.Is(err, User.ErrUsernameTaken), errors.Is(err, User.ErrEmailTaken):
			u = &User.UserModel{}
			if err := db.Where("username = ?", su.username).First(u).Error; err != nil {
				return nil, fmt.Errorf("load user %s: %w", su.username, err)
			}
		default:
			return nil, fmt.Errorf("create user %s: %w", su.username, err)
		}
		users[su.username] = u.ID
	}

	suppliers := make([]uint, len(seedSuppliers))
	for i, s := range seedSuppliers {
		row := s
		created, err := firstOrCreate(db, &row, "name = ?", s.Name)
		if err != nil {
			return nil, fmt.Errorf("create supplier %s: %w", s.Name, err)
		}
		if created {
			report.Suppliers++
			log.Info("created supplier", logger.Fields{"name": row.Name})
		}
		suppliers[i] = row.ID
	}

	products := make([]uint, len(seedProducts))
	for i, sp := range seedProducts {
		row := Product.Product{
			Name:       sp.name,
			Category:   sp.category,
			Quantity:   sp.quantity,
			Price:      decimal.RequireFromString(sp.price),
			SupplierID: suppliers[sp.supplier],
			MinStock:   Product.DefaultMinStock,
		}
		created, err := firstOrCreate(db, &row, "name = ?", sp.name)
		if err != nil {
			return nil, fmt.Errorf("create product %s: %w", sp.name, err)
		}
		if created {
			report.Products++
			log.Info("created product", logger.Fields{"name": row.Name})
		}
		products[i] = row.ID
	}

	for _, so := range seedOrders {
		row := Order.Order{
			ProductID: products[so.product],
			UserID:    users[so.customer],
			Quantity:  so.quantity,
			Status:    so.status,
		}
		created, err := firstOrCreate(db, &row, "product_id = ? AND user_id = ? AND quantity = ?",
			row.ProductID, row.UserID, row.Quantity)
		if err != nil {
			return nil, fmt.Errorf("create order: %w", err)
		}
		if created {
			report.Orders++
		}
	}

	log.Info("seed completed", logger.Fields{
		"users":     report.Users,
		"suppliers": report.Suppliers,
		"products":  report.Products,
		"orders":    report.Orders,
	})
	return report, nil
}

// firstOrCreate loads the first row matching query into row, or inserts row
// when there is none. It reports whether an insert happened.
func firstOrCreate[T any](db *gorm.DB, row *T, query string, args ...interface{}) (bool, error) {
	var existing T
	err := db.Where(query, args...).First(&existing).Error
	switch {
	case err == nil:
		*row = existing
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return true, db.Create(row).Error
	default:
		return false, err
	}
}
