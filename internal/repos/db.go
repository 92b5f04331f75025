package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a second pooled connection to a :memory:
	// DSN would also get its own empty database.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (suppliers/products/customers/promotions)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates all tables. Exported so tests can build the same
// schema on an in-memory database.
func EnsureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Suppliers
CREATE TABLE IF NOT EXISTS suppliers(
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  reliability NUMERIC NOT NULL DEFAULT 0
);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  category TEXT NOT NULL,
  weight NUMERIC NOT NULL DEFAULT 0,
  supplier_id INTEGER REFERENCES suppliers(id),
  discount_eligible INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_supplier ON products(supplier_id);

-- Customers
CREATE TABLE IF NOT EXISTS customers(
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT,
  tier TEXT NOT NULL DEFAULT 'standard'
    CHECK (tier IN ('standard','bronze','silver','gold','suspended')),
  loyalty_points INTEGER NOT NULL DEFAULT 0 CHECK (loyalty_points >= 0),
  address TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Promotions
CREATE TABLE IF NOT EXISTS promotions(
  id INTEGER PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  discount_percent NUMERIC NOT NULL CHECK (discount_percent >= 0 AND discount_percent <= 100),
  min_purchase NUMERIC NOT NULL DEFAULT 0 CHECK (min_purchase >= 0),
  valid_until TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT 'all',
  used_count INTEGER NOT NULL DEFAULT 0
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY,
  customer_id INTEGER NOT NULL REFERENCES customers(id),
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','shipped','delivered','cancelled')),
  total NUMERIC NOT NULL CHECK (total >= 0),
  shipping_cost NUMERIC NOT NULL DEFAULT 0,
  tracking_number TEXT NOT NULL DEFAULT '',
  payment_method TEXT NOT NULL DEFAULT 'credit_card',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_customer   ON orders(customer_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES products(id),
  qty INTEGER NOT NULL CHECK (qty >= 1),
  unit_price NUMERIC NOT NULL,
  discount_applied NUMERIC NOT NULL DEFAULT 0,
  PRIMARY KEY (order_id, product_id)
);

-- Shipments
CREATE TABLE IF NOT EXISTS shipments(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL REFERENCES orders(id),
  tracking_number TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_shipments_order ON shipments(order_id);

-- Inventory change log
CREATE TABLE IF NOT EXISTS inventory_logs(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL,
  quantity_change INTEGER NOT NULL,
  reason TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_inventory_logs_product ON inventory_logs(product_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo suppliers/products/customers/promotions")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO suppliers(id,name,email,reliability) VALUES
	  (1,'TechDistributor Inc','orders@techdist.com',4.5),
	  (2,'ElectroSupply Co','sales@electro.com',4.2),
	  (3,'GadgetWholesale','info@gadgetwholesale.com',4.8)`)

	tx.MustExec(`INSERT INTO products(id,name,price,quantity,category,weight,supplier_id) VALUES
	  (1,'Laptop Pro 15',999.99,15,'Electronics',2.5,1),
	  (2,'Wireless Mouse',29.99,50,'Electronics',0.2,2),
	  (3,'Mechanical Keyboard',79.99,30,'Electronics',1.0,2),
	  (4,'4K Monitor',299.99,20,'Electronics',5.0,1),
	  (5,'USB-C Hub',49.99,40,'Electronics',0.3,3),
	  (6,'Laptop Bag',39.99,25,'Accessories',0.8,3),
	  (7,'Desk Lamp',34.99,35,'Accessories',1.2,3),
	  (8,'Ergonomic Chair',299.99,10,'Furniture',15.0,1),
	  (9,'Standing Desk',499.99,8,'Furniture',25.0,1),
	  (10,'Webcam HD',79.99,45,'Electronics',0.4,2)`)

	tx.MustExec(`INSERT INTO customers(id,name,email,phone,tier,address) VALUES
	  (101,'Alice Smith','alice@email.com','555-0101','gold','123 Main St, CA 94102'),
	  (102,'Bob Jones','bob@email.com','555-0102','silver','456 Oak Ave, NY 10001'),
	  (103,'Charlie Brown','charlie@email.com','555-0103','standard','789 Pine Rd, TX 75001'),
	  (104,'Diana Prince','diana@email.com','555-0104','bronze','321 Elm St, CA 90210'),
	  (105,'Eve Wilson','eve@email.com','555-0105','standard','654 Maple Dr, NY 10002')`)

	tx.MustExec(`INSERT INTO promotions(id,code,discount_percent,min_purchase,valid_until,category) VALUES
	  (1,'SAVE15',15,100,strftime('%Y-%m-%dT%H:%M:%SZ','now','+30 days'),'Electronics'),
	  (2,'WELCOME10',10,0,strftime('%Y-%m-%dT%H:%M:%SZ','now','+60 days'),'all')`)

	// Initial stock entries mirror the product quantities above.
	tx.MustExec(`INSERT INTO inventory_logs(product_id,quantity_change,reason)
	  SELECT id, quantity, 'initial_stock' FROM products`)

	return tx.Commit()
}
