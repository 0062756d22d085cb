package main

import "database/sql"

// schemaStatements bootstraps the tables on startup so a fresh database
// is usable without a separate migration step.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name_fr TEXT NOT NULL DEFAULT '',
		name_ar TEXT NOT NULL DEFAULT '',
		name_en TEXT NOT NULL DEFAULT '',
		image TEXT,
		sort_order INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		sku TEXT NOT NULL UNIQUE,
		name_fr TEXT NOT NULL DEFAULT '',
		name_ar TEXT NOT NULL DEFAULT '',
		name_en TEXT NOT NULL DEFAULT '',
		description_fr TEXT,
		description_ar TEXT,
		description_en TEXT,
		brand TEXT,
		image TEXT,
		price NUMERIC(12,2) NOT NULL DEFAULT 0,
		stock INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		category_id INT REFERENCES categories(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id SERIAL PRIMARY KEY,
		user_id INT,
		session_id TEXT,
		product_id INT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL CHECK (quantity > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (user_id IS NOT NULL OR session_id IS NOT NULL)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS cart_items_user_product ON cart_items (user_id, product_id) WHERE user_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS cart_items_session_product ON cart_items (session_id, product_id) WHERE session_id IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		user_id INT,
		customer_email TEXT,
		order_number TEXT UNIQUE,
		status TEXT NOT NULL DEFAULT 'pending',
		payment_status TEXT NOT NULL DEFAULT 'pending',
		payment_method TEXT NOT NULL,
		currency TEXT NOT NULL,
		subtotal NUMERIC(12,2) NOT NULL DEFAULT 0,
		tax NUMERIC(12,2) NOT NULL DEFAULT 0,
		shipping NUMERIC(12,2) NOT NULL DEFAULT 0,
		discount NUMERIC(12,2) NOT NULL DEFAULT 0,
		total NUMERIC(12,2) NOT NULL DEFAULT 0,
		shipping_address JSONB NOT NULL,
		billing_address JSONB,
		notes TEXT,
		shipped_at TIMESTAMPTZ,
		delivered_at TIMESTAMPTZ,
		cancelled_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(id),
		product_id INT REFERENCES products(id),
		quantity INT NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12,2) NOT NULL,
		product_snapshot JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(id),
		method TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		amount NUMERIC(12,2) NOT NULL,
		currency TEXT NOT NULL,
		transaction_id TEXT,
		gateway_response JSONB,
		refund_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		processed_at TIMESTAMPTZ,
		failed_at TIMESTAMPTZ,
		cancelled_at TIMESTAMPTZ,
		refunded_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS delivery_zones (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		cities TEXT[] NOT NULL DEFAULT '{}',
		shipping_cost NUMERIC(12,2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS warehouse_stocks (
		id SERIAL PRIMARY KEY,
		warehouse TEXT NOT NULL,
		product_id INT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		reserved INT NOT NULL DEFAULT 0 CHECK (reserved >= 0 AND reserved <= quantity),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (warehouse, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id SERIAL PRIMARY KEY,
		product_id INT NOT NULL REFERENCES products(id),
		user_id INT NOT NULL,
		rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL,
		label TEXT NOT NULL,
		recipient TEXT NOT NULL,
		line TEXT NOT NULL,
		city TEXT NOT NULL,
		postal_code TEXT,
		country TEXT NOT NULL,
		phone TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS banners (
		id SERIAL PRIMARY KEY,
		image TEXT NOT NULL,
		link TEXT,
		alt_fr TEXT,
		alt_ar TEXT,
		alt_en TEXT,
		sort_order INT NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
}

func ensureSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
