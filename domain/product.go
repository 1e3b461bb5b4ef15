package domain

import (
	"time"
)

// CREATE TABLE public.products (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     title           TEXT NOT NULL,
//     description     TEXT,
//     price           NUMERIC NOT NULL,
//     stock_quantity  INTEGER NOT NULL DEFAULT 0,
//     is_active       BOOLEAN DEFAULT TRUE,
//     image           TEXT,
//     category_id     BIGINT REFERENCES categories(id),
//     created_at      TIMESTAMPTZ DEFAULT NOW(),
//     updated_at      TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"column:title;not null" json:"title"`
	Description   string    `gorm:"column:description;type:text" json:"description"`
	Price         float64   `gorm:"column:price;type:numeric;not null" json:"price"`
	StockQuantity int       `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	IsActive      bool      `gorm:"column:is_active;default:true" json:"is_active"`
	Image         string    `gorm:"column:image" json:"image,omitempty"`
	CategoryID    uint      `gorm:"column:category_id;not null" json:"category_id"`
	Category      *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
