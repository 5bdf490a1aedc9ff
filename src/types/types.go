package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}

func (a *JSONB) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		*a = nil
		return nil
	}
	return errors.New("unsupported source type for JSONB")
}

type Status string

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_ACTIVE    BookingStatus = "active"
	BOOKING_COMPLETED BookingStatus = "completed"
	BOOKING_CANCELED  BookingStatus = "canceled"
)

type VehicleStatus string

const (
	VEHICLE_ACTIVE      VehicleStatus = "active"
	VEHICLE_MAINTENANCE VehicleStatus = "maintenance"
	VEHICLE_ARCHIVED    VehicleStatus = "archived"
)

type PaymentStatus string

const (
	PAYMENT_PENDING  PaymentStatus = "pending"
	PAYMENT_PAID     PaymentStatus = "paid"
	PAYMENT_FAILED   PaymentStatus = "failed"
	PAYMENT_CANCELED PaymentStatus = "canceled"
)

type InvoiceStatus string

const (
	INVOICE_ISSUED InvoiceStatus = "issued"
	INVOICE_PAID   InvoiceStatus = "paid"
	INVOICE_VOID   InvoiceStatus = "void"
)

type CustomerStatus string

const (
	CUSTOMER_ACTIVE  CustomerStatus = "active"
	CUSTOMER_BLOCKED CustomerStatus = "blocked"
)

const (
	ROLE_OWNER string = "owner"
	ROLE_ADMIN string = "admin"
	ROLE_STAFF string = "staff"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type RegisterRequestBody struct {
	CompanyName string `json:"company_name" binding:"required"`
	Country     string `json:"country"`
	Currency    string `json:"currency"`
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateCustomerRequestBody struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	LicenseNo string `json:"license_no"`
}

type UpdateCustomerRequestBody struct {
	FirstName *string         `json:"first_name"`
	LastName  *string         `json:"last_name"`
	Email     *string         `json:"email" binding:"omitempty,email"`
	Phone     *string         `json:"phone"`
	LicenseNo *string         `json:"license_no"`
	Status    *CustomerStatus `json:"status" binding:"omitempty,oneof=active blocked"`
}

type CreateVehicleRequestBody struct {
	Plate          string  `json:"plate" binding:"required"`
	VIN            string  `json:"vin"`
	Make           string  `json:"make" binding:"required"`
	Model          string  `json:"model" binding:"required"`
	Year           uint    `json:"year" binding:"omitempty,gte=1950"`
	Odometer       uint    `json:"odometer"`
	PricingGroupID *uint   `json:"pricing_group_id"`
	LocationID     *uint   `json:"location_id"`
	Notes          *string `json:"notes"`
}

type UpdateVehicleRequestBody struct {
	Plate          *string        `json:"plate"`
	VIN            *string        `json:"vin"`
	Make           *string        `json:"make"`
	Model          *string        `json:"model"`
	Year           *uint          `json:"year"`
	Odometer       *uint          `json:"odometer"`
	Status         *VehicleStatus `json:"status" binding:"omitempty,oneof=active maintenance archived"`
	PricingGroupID *uint          `json:"pricing_group_id"`
	LocationID     *uint          `json:"location_id"`
	Notes          *string        `json:"notes"`
}

type CreateBookingRequestBody struct {
	CustomerID       uint    `json:"customer_id" binding:"required"`
	VehicleIDs       []uint  `json:"vehicle_ids" binding:"required,min=1"`
	StartDate        string  `json:"start_date" binding:"required,rentaldate"`
	EndDate          string  `json:"end_date" binding:"required,gtdate=StartDate"`
	PickupLocationID *uint   `json:"pickup_location_id"`
	ReturnLocationID *uint   `json:"return_location_id"`
	ExtraIDs         []uint  `json:"extra_ids"`
	Notes            *string `json:"notes"`
}

type QuoteRequestBody struct {
	VehicleIDs []uint `json:"vehicle_ids" binding:"required,min=1"`
	StartDate  string `json:"start_date" binding:"required,rentaldate"`
	EndDate    string `json:"end_date" binding:"required,gtdate=StartDate"`
	ExtraIDs   []uint `json:"extra_ids"`
}

type UpdateBookingRequestBody struct {
	StartDate        *string `json:"start_date" binding:"omitempty,rentaldate"`
	EndDate          *string `json:"end_date"`
	PickupLocationID *uint   `json:"pickup_location_id"`
	ReturnLocationID *uint   `json:"return_location_id"`
	Notes            *string `json:"notes"`
}

type CreateSeasonRequestBody struct {
	Name       string  `json:"name" binding:"required"`
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    string  `json:"end_date" binding:"required,gtdate=StartDate"`
	Multiplier float64 `json:"multiplier" binding:"required,gt=0"`
}

type CreateExtraRequestBody struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	PerDay      bool    `json:"per_day"`
}

type CreatePricingGroupRequestBody struct {
	Name      string  `json:"name" binding:"required"`
	DailyRate float64 `json:"daily_rate" binding:"required,gt=0"`
}

type CreateLocationRequestBody struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type SignContractRequestBody struct {
	SignedBy string `json:"signed_by" binding:"required"`
}

type CheckoutRequestBody struct {
	BookingID  uint   `json:"booking_id" binding:"required"`
	SuccessURL string `json:"success_url" binding:"required,url"`
	CancelURL  string `json:"cancel_url" binding:"required,url"`
}

type SendInvoiceRequestBody struct {
	To []string `json:"to" binding:"required,min=1,dive,email"`
}

type UpsertSettingRequestBody struct {
	SettingKey   string `json:"setting_key" binding:"required"`
	Group        string `json:"group" binding:"required"`
	SettingValue JSONB  `json:"setting_value" binding:"required"`
}

type AdminCommandRequestBody struct {
	DryRun bool   `json:"dry_run"`
	Before string `json:"before"`
}

type QuoteBreakdown struct {
	Days       uint            `json:"days"`
	Currency   string          `json:"currency"`
	Vehicles   []VehicleCharge `json:"vehicles"`
	ExtrasCost float64         `json:"extras_cost"`
	Total      float64         `json:"total"`
}

type VehicleCharge struct {
	VehicleID uint    `json:"vehicle_id"`
	DailyRate float64 `json:"daily_rate"`
	Amount    float64 `json:"amount"`
}
