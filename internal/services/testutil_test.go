package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"orderdesk/internal/domain"
	"orderdesk/internal/repos"
	"orderdesk/internal/services"
)

// memdb opens an in-memory database with the production schema. A single
// connection keeps every query on the same :memory: instance.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	if err := repos.EnsureSchema(db); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedStore loads the fixture rows the flow tests share.
func seedStore(t *testing.T, db *sqlx.DB) {
	t.Helper()
	db.MustExec(`INSERT INTO suppliers(id,name,email,reliability) VALUES
	  (1,'TechDistributor Inc','orders@techdist.com',4.5)`)
	db.MustExec(`INSERT INTO products(id,name,price,quantity,category,weight,supplier_id) VALUES
	  (1,'Laptop Pro 15',999.99,15,'Electronics',2.5,1),
	  (2,'Mechanical Keyboard',39.99,50,'Electronics',0.5,1),
	  (3,'Desk Lamp',10.00,6,'Accessories',1.0,1)`)
	db.MustExec(`INSERT INTO customers(id,name,email,phone,tier,loyalty_points,address) VALUES
	  (1,'Alice Smith','alice@email.com','555-0101','gold',0,'123 Main St, CA 94102'),
	  (2,'Eve Wilson','eve@email.com','555-0105','standard',0,'654 Maple Dr'),
	  (3,'Charlie Brown','charlie@email.com','555-0103','standard',500,'789 Pine Rd, TX 75001'),
	  (4,'Mallory Kane','mallory@email.com','555-0666','suspended',0,'1 Nowhere Ln')`)
	db.MustExec(`INSERT INTO promotions(id,code,discount_percent,min_purchase,valid_until,category) VALUES
	  (1,'SAVE15',15,100,?, 'Electronics'),
	  (2,'EXPIRED10',10,0,?, 'all')`,
		domain.FormatTime(time.Now().Add(24*time.Hour)),
		domain.FormatTime(time.Now().Add(-24*time.Hour)))
}

// recorder captures notifications for assertions.
type recorder struct {
	mu   sync.Mutex
	sent []string // "recipient|message"
}

func (r *recorder) Notify(recipient, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, recipient+"|"+message)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type fixture struct {
	db        *sqlx.DB
	products  *repos.ProductRepo
	customers *repos.CustomerRepo
	orders    *repos.OrderRepo
	promos    *repos.PromotionRepo
	invLog    *repos.InventoryLogRepo
	notifier  *recorder
	orderSvc  *services.OrderService
	invSvc    *services.InventoryService
	reports   *services.ReportingService
	marketing *services.MarketingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memdb(t)
	seedStore(t, db)

	f := &fixture{
		db:        db,
		products:  repos.NewProductRepo(db),
		customers: repos.NewCustomerRepo(db),
		orders:    repos.NewOrderRepo(db),
		promos:    repos.NewPromotionRepo(db),
		invLog:    repos.NewInventoryLogRepo(db),
		notifier:  &recorder{},
	}
	supRepo := repos.NewSupplierRepo(db)
	shipRepo := repos.NewShipmentRepo(db)
	f.orderSvc = services.NewOrderService(f.products, f.customers, supRepo, f.promos,
		f.orders, shipRepo, f.invLog, services.NewPricingService(), f.notifier)
	f.invSvc = services.NewInventoryService(f.products, f.invLog)
	f.reports = services.NewReportingService(f.customers, f.orders, f.products)
	f.marketing = services.NewMarketingService(f.customers, f.orders, f.notifier)
	return f
}

func cardPayment(amount float64) domain.PaymentInfo {
	return domain.PaymentInfo{
		Method:     domain.PayCreditCard,
		Valid:      true,
		CardNumber: "4111111111111111",
		Amount:     amount,
	}
}

func stockOf(t *testing.T, f *fixture, productID int64) int {
	t.Helper()
	p, err := f.products.Get(productID)
	if err != nil {
		t.Fatal(err)
	}
	return p.Quantity
}

func pointsOf(t *testing.T, f *fixture, customerID int64) int {
	t.Helper()
	c, err := f.customers.Get(customerID)
	if err != nil {
		t.Fatal(err)
	}
	return c.LoyaltyPoints
}
