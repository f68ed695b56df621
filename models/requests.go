package models

// Request payloads, validated at the API boundary.

type AdminLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CategoryCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ProductCreate struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CategoryID  string  `json:"category_id"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

type ProductUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	CategoryID  *string  `json:"category_id"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
}

type ReorderItem struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

type ReorderRequest struct {
	Items []ReorderItem `json:"items"`
}

type UserInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type OrderCreate struct {
	UserInfo UserInfo           `json:"user_info"`
	Items    []OrderItemRequest `json:"items"`
}

type OrderStatusUpdate struct {
	Status string `json:"status"`
}

// OrderEdit replaces an order's item list. The customer variant carries
// credentials in the body; the admin variant relies on the bearer token.
type OrderEdit struct {
	Items    []OrderItemRequest `json:"items"`
	UserInfo *UserInfo          `json:"user_info"`
	Email    string             `json:"email"`
	Password string             `json:"password"`
}

type StockValidationItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type StockValidationRequest struct {
	Items []StockValidationItem `json:"items"`
}

type InvalidStockItem struct {
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name,omitempty"`
	RequestedQuantity int    `json:"requested_quantity"`
	AvailableQuantity int    `json:"available_quantity"`
	Error             string `json:"error"`
}

type StockValidationResponse struct {
	Valid        bool               `json:"valid"`
	Message      string             `json:"message"`
	InvalidItems []InvalidStockItem `json:"invalid_items"`
}

type ContentCreate struct {
	Page    string `json:"page"`
	Section string `json:"section"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

type ContentUpdate struct {
	Page    *string `json:"page"`
	Section *string `json:"section"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Order   *int    `json:"order"`
}

type ContactInfoUpdate struct {
	CompanyName        *string `json:"company_name"`
	CompanyDescription *string `json:"company_description"`
	Email              *string `json:"email"`
	Phone              *string `json:"phone"`
	Address            *string `json:"address"`
}

type RecipeCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type RecipeUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type SystemSettingUpdate struct {
	Value       float64 `json:"value"`
	Description *string `json:"description"`
}
