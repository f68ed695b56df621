package models

import "time"

// Order status values. Any string is accepted by the status update endpoint;
// these are the ones the storefront actually uses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

type Admin struct {
	AdminID      string    `json:"adminid" bson:"adminid"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

type User struct {
	UserID       string    `json:"userid" bson:"userid"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone" bson:"phone"`
	Address      string    `json:"address" bson:"address"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

type Category struct {
	CategoryID  string    `json:"categoryid" bson:"categoryid"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Order       int       `json:"order" bson:"order"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type Product struct {
	ProductID   string    `json:"productid" bson:"productid"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	CategoryID  string    `json:"category_id" bson:"category_id"`
	Price       float64   `json:"price" bson:"price"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Order       int       `json:"order" bson:"order"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// OrderItem is a price snapshot taken at order creation; it never changes when
// the product's live price does.
type OrderItem struct {
	ProductID   string  `json:"product_id" bson:"product_id"`
	ProductName string  `json:"product_name" bson:"product_name"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Price       float64 `json:"price" bson:"price"`
	Total       float64 `json:"total" bson:"total"`
}

type Order struct {
	OrderID     string      `json:"orderid" bson:"orderid"`
	UserID      string      `json:"user_id" bson:"user_id"`
	UserName    string      `json:"user_name" bson:"user_name"`
	UserEmail   string      `json:"user_email" bson:"user_email"`
	UserPhone   string      `json:"user_phone" bson:"user_phone"`
	UserAddress string      `json:"user_address" bson:"user_address"`
	Items       []OrderItem `json:"items" bson:"items"`
	TotalAmount float64     `json:"total_amount" bson:"total_amount"`
	Status      string      `json:"status" bson:"status"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}

type Content struct {
	ContentID string    `json:"contentid" bson:"contentid"`
	Page      string    `json:"page" bson:"page"`
	Section   string    `json:"section" bson:"section"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	LogoURL   string    `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
	Order     int       `json:"order" bson:"order"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type ContactInfo struct {
	CompanyName        string    `json:"company_name" bson:"company_name"`
	CompanyDescription string    `json:"company_description" bson:"company_description"`
	Email              string    `json:"email" bson:"email"`
	Phone              string    `json:"phone" bson:"phone"`
	Address            string    `json:"address" bson:"address"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updated_at"`
}

type Recipe struct {
	RecipeID    string    `json:"recipeid" bson:"recipeid"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	PDFURL      string    `json:"pdf_url,omitempty" bson:"pdf_url,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

type SystemSetting struct {
	Key         string    `json:"key" bson:"key"`
	Value       float64   `json:"value" bson:"value"`
	Description string    `json:"description" bson:"description"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
