package repositories

import (
	"context"
	"database/sql"
)

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS trips (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	route_from VARCHAR(100) NOT NULL DEFAULT '',
	route_to VARCHAR(100) NOT NULL DEFAULT '',
	departure_date DATE NOT NULL,
	departure_time VARCHAR(5) NOT NULL,
	total_seats INT UNSIGNED NOT NULL,
	available_seats INT UNSIGNED NOT NULL,
	price BIGINT NOT NULL DEFAULT 0,
	seat_layout VARCHAR(10) NOT NULL DEFAULT '3x2',
	status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_departure (departure_date, status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trip_id BIGINT NOT NULL,
	user_id BIGINT NULL,
	booking_reference VARCHAR(20) NOT NULL,
	ticket_price BIGINT NOT NULL,
	platform_fee BIGINT NOT NULL DEFAULT 0,
	total_amount BIGINT NOT NULL,
	total_passengers INT UNSIGNED NOT NULL DEFAULT 1,
	selected_seats JSON NULL,
	booking_status VARCHAR(20) NOT NULL DEFAULT 'pending',
	payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
	contact_email VARCHAR(255) NOT NULL DEFAULT '',
	contact_phone VARCHAR(20) NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	cancelled_at TIMESTAMP NULL,
	cancellation_reason VARCHAR(255) NULL,
	UNIQUE KEY uniq_reference (booking_reference),
	KEY idx_trip_status (trip_id, booking_status),
	CONSTRAINT fk_booking_trip FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS seats (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trip_id BIGINT NOT NULL,
	seat_number VARCHAR(5) NOT NULL,
	seat_row INT NOT NULL,
	position VARCHAR(20) NOT NULL,
	is_available TINYINT(1) NOT NULL DEFAULT 1,
	booking_id BIGINT NULL,
	passenger_name VARCHAR(255) NULL,
	reserved_until DATETIME NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_trip_seat (trip_id, seat_number),
	KEY idx_trip_available (trip_id, is_available),
	CONSTRAINT fk_seat_trip FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE,
	CONSTRAINT fk_seat_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE SET NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS passengers (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	phone VARCHAR(20) NOT NULL DEFAULT '',
	id_type VARCHAR(20) NOT NULL DEFAULT '',
	id_number VARCHAR(50) NOT NULL DEFAULT '',
	age_category VARCHAR(10) NOT NULL DEFAULT 'adult',
	seat_number VARCHAR(10) NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_booking (booking_id),
	CONSTRAINT fk_passenger_booking FOREIGN KEY (booking_id) REFERENCES bookings(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
}

// EnsureSchema creates the core tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
