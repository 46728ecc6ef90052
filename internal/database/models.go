package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the bun model for the users table.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                 uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name               string     `bun:"name,notnull"`
	Email              string     `bun:"email,notnull,unique"`
	PasswordHash       string     `bun:"password_hash,notnull"`
	Role               string     `bun:"role,notnull,default:'USER'"`
	IsVerified         bool       `bun:"is_verified,notnull,default:false"`
	VerificationToken  *string    `bun:"verification_token"`
	VerificationSentAt *time.Time `bun:"verification_sent_at"`
	FCMToken           *string    `bun:"fcm_token"`
	CreatedAt          time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt          time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// Category is the bun model for the categories table.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID        uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name      string     `bun:"name,notnull"`
	CreatedAt time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
	Products  []*Product `bun:"rel:has-many,join:id=category_id"`
}

// Product is the bun model for the products table.
// Price is stored in the smallest currency unit; quantity is the stock count.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	Price       int64     `bun:"price,notnull"`
	Quantity    int       `bun:"quantity,notnull"`
	Image       string    `bun:"image"`
	CategoryID  uuid.UUID `bun:"category_id,notnull,type:uuid"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	Category *Category `bun:"rel:belongs-to,join:category_id=id"`
}

// Order is the bun model for the orders table.
// The primary key is the gateway-compatible order id (ORDER-<ms>-<frag>),
// not a uuid, because the payment gateway echoes it back in notifications.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID              string    `bun:"id,pk"`
	UserID          uuid.UUID `bun:"user_id,notnull,type:uuid"`
	ShippingName    string    `bun:"shipping_name,notnull"`
	ShippingEmail   string    `bun:"shipping_email,notnull"`
	ShippingAddress string    `bun:"shipping_address,notnull"`
	ShippingCity    string    `bun:"shipping_city,notnull"`
	ShippingZip     string    `bun:"shipping_zip,notnull"`
	ShippingPhone   string    `bun:"shipping_phone,notnull"`
	ShippingNotes   string    `bun:"shipping_notes"`
	TotalAmount     int64     `bun:"total_amount,notnull"`
	PaymentStatus   string    `bun:"payment_status,notnull,default:'PENDING'"`
	SnapToken       string    `bun:"snap_token"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	User  *User        `bun:"rel:belongs-to,join:user_id=id"`
	Items []*OrderItem `bun:"rel:has-many,join:id=order_id"`
}

// OrderItem is the bun model for the order_items table.
// Price is the unit price snapshotted at order-creation time.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	OrderID   string    `bun:"order_id,notnull"`
	ProductID uuid.UUID `bun:"product_id,notnull,type:uuid"`
	Quantity  int       `bun:"quantity,notnull"`
	Price     int64     `bun:"price,notnull"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id"`
}
