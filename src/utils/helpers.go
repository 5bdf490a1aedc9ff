package utils

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/template"
	"time"

	"vrms/src/config"
	"vrms/src/lib"
	"vrms/src/models"
	"vrms/src/models/scopes"
	"vrms/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// Error taxonomy. Handlers translate every failure into one of these at the
// boundary; the client sees {"error": string} with the mapped status.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrImmutable       = errors.New("record is immutable")
)

func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrTenantNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrImmutable),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HTTPError writes the mapped status with the stable error body shape.
func HTTPError(ctx *gin.Context, err error) {
	status := StatusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Unexpected error on %s: %s\n", ctx.FullPath(), msg)
		msg = "unexpected error"
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		msg = ErrNotFound.Error()
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		msg = ErrConflict.Error()
	}
	ctx.JSON(status, gin.H{"error": msg})
}

// TenantID returns the tenant scope set by the auth middleware.
func TenantID(ctx *gin.Context) uuid.UUID {
	id, err := uuid.Parse(ctx.GetString("tenant_id"))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateSessionToken issues the session JWT and registers its jti in redis.
// The redis entry is the session record: once it is gone the token is dead.
func GenerateSessionToken(user *models.User) (string, error) {
	jti := uuid.NewString()
	now := time.Now()
	claims := &types.Claims{
		Email:    user.Email,
		Role:     user.Role,
		TenantID: user.TenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(user.ID)),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.SESSION_TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtKey)
	if err != nil {
		return "", err
	}
	rd := lib.GetRedisClient()
	if err := rd.Set(context.Background(), fmt.Sprintf("session:%s", jti), user.ID, config.SESSION_TTL).Err(); err != nil {
		return "", err
	}
	return signed, nil
}

func RevokeSession(jti string) error {
	rd := lib.GetRedisClient()
	return rd.Del(context.Background(), fmt.Sprintf("session:%s", jti)).Err()
}

// NewTenantSlug derives a unique slug for a new tenant.
func NewTenantSlug(tx *gorm.DB, name string) (string, error) {
	base := slug.Make(name)
	candidate := base
	for i := 0; ; i++ {
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i+1)
		}
		var count int64
		if err := tx.
			Model(&models.Tenant{}).
			Where("slug = ?", candidate).
			Count(&count).
			Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
}

// RentalDays counts charged days; any started day counts in full.
func RentalDays(start, end time.Time) uint {
	hours := end.Sub(start).Hours()
	days := uint(math.Ceil(hours / 24))
	if days < 1 {
		days = 1
	}
	return days
}

func ParseRentalDate(value string) (time.Time, error) {
	d, err := time.Parse(config.DATE_PARSE_FORMAT, value)
	if err != nil {
		d, err = time.Parse(config.TIME_PARSE_FORMAT, value)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrValidation, value)
	}
	return d, nil
}

func seasonMultiplier(seasons []models.Season, day time.Time) float64 {
	mult := 1.0
	for _, s := range seasons {
		if !day.Before(s.StartDate) && !day.After(s.EndDate) && s.Multiplier > mult {
			mult = s.Multiplier
		}
	}
	return mult
}

// QuoteBooking prices a rental: per-vehicle daily rate from the pricing
// group, scaled per day by the best-matching season, plus extras.
func QuoteBooking(tx *gorm.DB, tenant *models.Tenant, vehicleIDs []uint, start, end time.Time, extraIDs []uint) (*types.QuoteBreakdown, error) {
	var vehicles []models.Vehicle
	if err := tx.
		Model(&models.Vehicle{}).
		Scopes(scopes.ForTenant(tenant.ID), scopes.WithIDs(vehicleIDs...)).
		Preload("PricingGroup").
		Find(&vehicles).
		Error; err != nil {
		return nil, err
	}
	if len(vehicles) != len(vehicleIDs) {
		return nil, fmt.Errorf("%w: one or more vehicles do not exist", ErrNotFound)
	}

	var seasons []models.Season
	if err := tx.
		Model(&models.Season{}).
		Scopes(scopes.ForTenant(tenant.ID)).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Find(&seasons).
		Error; err != nil {
		return nil, err
	}

	days := RentalDays(start, end)
	quote := types.QuoteBreakdown{
		Days:     days,
		Currency: tenant.Currency,
	}
	for _, v := range vehicles {
		if v.Status != types.VEHICLE_ACTIVE {
			return nil, fmt.Errorf("%w: vehicle %d is not available for rental", ErrValidation, v.ID)
		}
		if v.PricingGroup == nil {
			return nil, fmt.Errorf("%w: vehicle %d has no pricing group", ErrValidation, v.ID)
		}
		rate := v.PricingGroup.DailyRate
		amount := 0.0
		for d := uint(0); d < days; d++ {
			day := start.Add(time.Duration(d) * 24 * time.Hour)
			amount += rate * seasonMultiplier(seasons, day)
		}
		quote.Vehicles = append(quote.Vehicles, types.VehicleCharge{
			VehicleID: v.ID,
			DailyRate: rate,
			Amount:    amount,
		})
		quote.Total += amount
	}

	if len(extraIDs) > 0 {
		var extras []models.Extra
		if err := tx.
			Model(&models.Extra{}).
			Scopes(scopes.ForTenant(tenant.ID), scopes.WithIDs(extraIDs...)).
			Find(&extras).
			Error; err != nil {
			return nil, err
		}
		if len(extras) != len(extraIDs) {
			return nil, fmt.Errorf("%w: one or more extras do not exist", ErrNotFound)
		}
		for _, e := range extras {
			if e.PerDay {
				quote.ExtrasCost += e.Price * float64(days)
			} else {
				quote.ExtrasCost += e.Price
			}
		}
		quote.Total += quote.ExtrasCost
	}

	return &quote, nil
}

// CreateBookingWithVehicles persists the booking and its join rows inside the
// caller's transaction. The join rows snapshot the daily rate in effect.
func CreateBookingWithVehicles(tx *gorm.DB, tenant *models.Tenant, body *types.CreateBookingRequestBody) (*models.Booking, error) {
	start, err := ParseRentalDate(body.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseRentalDate(body.EndDate)
	if err != nil {
		return nil, err
	}

	var customerCount int64
	if err := tx.
		Model(&models.Customer{}).
		Scopes(scopes.ForTenant(tenant.ID), scopes.WithID(body.CustomerID)).
		Count(&customerCount).
		Error; err != nil {
		return nil, err
	}
	if customerCount == 0 {
		return nil, fmt.Errorf("%w: customer %d does not exist", ErrNotFound, body.CustomerID)
	}

	quote, err := QuoteBooking(tx, tenant, body.VehicleIDs, start, end, body.ExtraIDs)
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		TenantID:         tenant.ID,
		CustomerID:       body.CustomerID,
		Status:           types.BOOKING_PENDING,
		StartDate:        start,
		EndDate:          end,
		PickupLocationID: body.PickupLocationID,
		ReturnLocationID: body.ReturnLocationID,
		Subtotal:         quote.Total - quote.ExtrasCost,
		ExtrasTotal:      quote.ExtrasCost,
		Total:            quote.Total,
		Currency:         quote.Currency,
		Notes:            body.Notes,
	}
	if err := tx.Create(&booking).Error; err != nil {
		return nil, err
	}
	for _, charge := range quote.Vehicles {
		bv := models.BookingVehicle{
			TenantID:  tenant.ID,
			BookingID: booking.ID,
			VehicleID: charge.VehicleID,
			DailyRate: charge.DailyRate,
		}
		if err := tx.Create(&bv).Error; err != nil {
			return nil, err
		}
		booking.BookingVehicles = append(booking.BookingVehicles, bv)
	}
	return &booking, nil
}

const contractTemplate = `RENTAL CONTRACT {{.Number}}
{{.TenantName}}

Customer: {{.CustomerName}}
Period: {{.StartDate}} to {{.EndDate}} ({{.Days}} days)

Vehicles:
{{- range .Vehicles}}
  - {{.Make}} {{.Model}} ({{.Plate}})
{{- end}}

Total: {{printf "%.2f" .Total}} {{.Currency}}

The renter agrees to return all vehicles with the same fuel level and in the
same condition as at pickup. Late returns are charged per started day.
`

type contractData struct {
	Number       string
	TenantName   string
	CustomerName string
	StartDate    string
	EndDate      string
	Days         uint
	Vehicles     []models.Vehicle
	Total        float64
	Currency     string
}

// RenderContract produces the contract text for a booking. The booking must
// have Customer and BookingVehicles.Vehicle preloaded.
func RenderContract(tenant *models.Tenant, booking *models.Booking, version uint) (string, error) {
	tmpl, err := template.New("contract").Parse(contractTemplate)
	if err != nil {
		return "", err
	}
	data := contractData{
		Number:     fmt.Sprintf("C-%d-v%d", booking.ID, version),
		TenantName: tenant.Name,
		StartDate:  booking.StartDate.Format(config.DATE_PARSE_FORMAT),
		EndDate:    booking.EndDate.Format(config.DATE_PARSE_FORMAT),
		Days:       RentalDays(booking.StartDate, booking.EndDate),
		Total:      booking.Total,
		Currency:   booking.Currency,
	}
	if booking.Customer != nil {
		data.CustomerName = strings.TrimSpace(fmt.Sprintf("%s %s", booking.Customer.FirstName, booking.Customer.LastName))
	}
	for _, bv := range booking.BookingVehicles {
		if bv.Vehicle != nil {
			data.Vehicles = append(data.Vehicles, *bv.Vehicle)
		}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NextContractVersion returns 1 + the highest version stored for the booking.
func NextContractVersion(tx *gorm.DB, tenantID uuid.UUID, bookingID uint) (uint, error) {
	var max sql.NullInt64
	err := tx.
		Model(&models.Contract{}).
		Scopes(scopes.ForTenant(tenantID)).
		Where("booking_id = ?", bookingID).
		Select("MAX(version)").
		Scan(&max).
		Error
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 1, nil
	}
	return uint(max.Int64) + 1, nil
}

// NextInvoiceNumber produces the per-tenant sequential invoice number.
func NextInvoiceNumber(tx *gorm.DB, tenantID uuid.UUID) (string, error) {
	var count int64
	if err := tx.
		Model(&models.Invoice{}).
		Scopes(scopes.ForTenant(tenantID)).
		Count(&count).
		Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%d-%04d", time.Now().Year(), count+1), nil
}
