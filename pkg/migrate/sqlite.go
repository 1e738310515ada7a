package migrate

import (
	"fmt"

	"gorm.io/gorm"
)

// ApplySQLiteSchema creates the clinic tables on a sqlite connection. Goose
// migrations target Postgres only; this mirrors them for local runs and tests.
func ApplySQLiteSchema(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	for _, stmt := range sqliteSchema {
		if err := conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  city TEXT,
  state TEXT,
  zip_code TEXT,
  country TEXT NOT NULL,
  role TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  email_verified INTEGER NOT NULL DEFAULT 0,
  profile_image_url TEXT,
  date_of_birth DATE,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  short_description TEXT,
  category TEXT NOT NULL,
  brand TEXT,
  price TEXT NOT NULL,
  discount_price TEXT,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  sku TEXT UNIQUE,
  weight TEXT,
  dimensions TEXT,
  age_range TEXT,
  pet_type TEXT,
  ingredients TEXT,
  usage_instructions TEXT,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  rating TEXT NOT NULL DEFAULT '0',
  total_reviews INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS veterinarians (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone_number TEXT,
  license_number TEXT NOT NULL UNIQUE,
  specialization TEXT NOT NULL,
  years_of_experience INTEGER NOT NULL DEFAULT 0,
  education TEXT,
  bio TEXT,
  consultation_fee TEXT NOT NULL,
  available_from TEXT NOT NULL,
  available_to TEXT NOT NULL,
  working_days TEXT NOT NULL,
  is_available INTEGER NOT NULL DEFAULT 1,
  rating TEXT NOT NULL DEFAULT '0',
  total_reviews INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS appointments (
  id TEXT PRIMARY KEY,
  veterinarian_id TEXT NOT NULL,
  user_id TEXT,
  client_name TEXT NOT NULL,
  client_email TEXT NOT NULL,
  client_phone TEXT,
  pet_name TEXT NOT NULL,
  pet_type TEXT NOT NULL,
  pet_age TEXT,
  appointment_date DATE NOT NULL,
  appointment_time TEXT NOT NULL,
  reason_for_visit TEXT NOT NULL,
  additional_notes TEXT,
  status TEXT NOT NULL,
  appointment_rating INTEGER,
  doctor_rating INTEGER,
  review_comment TEXT,
  review_created_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS appointments_vet_slot_active_uq
  ON appointments (veterinarian_id, appointment_date, appointment_time)
  WHERE status <> 'CANCELLED';`,
	`CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL,
  total_amount TEXT NOT NULL DEFAULT '0',
  discount_amount TEXT NOT NULL DEFAULT '0',
  tax_amount TEXT NOT NULL DEFAULT '0',
  final_amount TEXT NOT NULL DEFAULT '0',
  coupon_code TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS carts_user_active_uq ON carts (user_id) WHERE status = 'ACTIVE';`,
	`CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  total_price TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`,
	`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  order_number TEXT NOT NULL UNIQUE,
  subtotal TEXT NOT NULL,
  tax_amount TEXT NOT NULL,
  shipping_cost TEXT NOT NULL,
  total_amount TEXT NOT NULL,
  status TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL,
  shipping_full_name TEXT NOT NULL,
  shipping_email TEXT NOT NULL,
  shipping_phone TEXT NOT NULL,
  shipping_address TEXT NOT NULL,
  shipping_city TEXT NOT NULL,
  shipping_state TEXT,
  shipping_zip_code TEXT NOT NULL,
  shipping_country TEXT NOT NULL,
  tracking_number TEXT,
  carrier_name TEXT,
  order_date DATETIME NOT NULL,
  confirmed_date DATETIME,
  shipped_date DATETIME,
  delivered_date DATETIME,
  cancelled_date DATETIME,
  cancellation_reason TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  total_price TEXT NOT NULL,
  product_name TEXT NOT NULL,
  product_description TEXT,
  product_image_url TEXT,
  created_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS testimonials (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  appointment_id TEXT,
  customer_name TEXT NOT NULL,
  customer_email TEXT,
  customer_image_url TEXT,
  rating INTEGER NOT NULL,
  title TEXT,
  content TEXT NOT NULL,
  pet_name TEXT,
  pet_type TEXT,
  service_type TEXT,
  is_approved INTEGER NOT NULL DEFAULT 0,
  is_featured INTEGER NOT NULL DEFAULT 0,
  approved_by TEXT,
  approved_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`,
	`CREATE TABLE IF NOT EXISTS outbox_dlq (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload_json TEXT NOT NULL,
  error_reason TEXT NOT NULL,
  error_message TEXT,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  failed_at DATETIME,
  created_at DATETIME
);`,
}
