package main

import (
	"fmt"
	"net/http"

	"vrms/src/db"
	"vrms/src/middlewares"
	"vrms/src/models"
	"vrms/src/models/scopes"
	"vrms/src/types"
	"vrms/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			q := db.
				Model(&models.Booking{}).
				Scopes(scopes.ForTenant(tenantId))
			if status := ctx.Query("status"); status != "" {
				q = q.Scopes(scopes.WithStatus(status))
			}
			bookings := []models.Booking{}
			if err := q.
				Preload("Customer").
				Preload("BookingVehicles").
				Preload("BookingVehicles.Vehicle").
				Order("created_at desc").
				Limit(100).
				Find(&bookings).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
				Preload("Customer").
				Preload("BookingVehicles").
				Preload("BookingVehicles.Vehicle").
				Preload("Payments").
				Preload("PickupLocation").
				Preload("ReturnLocation").
				First(&booking).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		GET("/bookings/:id/vehicles", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			// Join rows carry their own id plus the explicit vehicle_id; the
			// response exposes both so callers never confuse the two.
			rows := []models.BookingVehicle{}
			if err := db.
				Model(&models.BookingVehicle{}).
				Scopes(scopes.ForTenant(tenantId)).
				Where("booking_id = ?", params.ID).
				Preload("Vehicle").
				Find(&rows).
				Error; err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": rows, "count": len(rows)})
		}).
		POST("/bookings/quote", func(ctx *gin.Context) {
			var body types.QuoteRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenant := middlewares.CurrentTenant(ctx)
			if tenant == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrTenantNotFound.Error()})
				return
			}
			start, err := utils.ParseRentalDate(body.StartDate)
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			end, err := utils.ParseRentalDate(body.EndDate)
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			db := db.GetDb()
			quote, err := utils.QuoteBooking(db, tenant, body.VehicleIDs, start, end, body.ExtraIDs)
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": quote})
		}).
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenant := middlewares.CurrentTenant(ctx)
			if tenant == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrTenantNotFound.Error()})
				return
			}
			db := db.GetDb()
			var booking *models.Booking
			err := db.Transaction(func(tx *gorm.DB) error {
				b, err := utils.CreateBookingWithVehicles(tx, tenant, &body)
				if err != nil {
					return err
				}
				booking = b
				return nil
			})
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		PUT("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenant := middlewares.CurrentTenant(ctx)
			if tenant == nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": utils.ErrTenantNotFound.Error()})
				return
			}
			db := db.GetDb()
			var booking models.Booking
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Model(&models.Booking{}).
					Scopes(scopes.ForTenant(tenant.ID), scopes.WithID(params.ID)).
					Preload("BookingVehicles").
					First(&booking).
					Error; err != nil {
					return err
				}
				if booking.Status == types.BOOKING_COMPLETED || booking.Status == types.BOOKING_CANCELED {
					return fmt.Errorf("%w: booking is %s", utils.ErrConflict, booking.Status)
				}
				updates := map[string]any{}
				if body.PickupLocationID != nil {
					updates["pickup_location_id"] = *body.PickupLocationID
				}
				if body.ReturnLocationID != nil {
					updates["return_location_id"] = *body.ReturnLocationID
				}
				if body.Notes != nil {
					updates["notes"] = *body.Notes
				}
				if body.StartDate != nil || body.EndDate != nil {
					start, end := booking.StartDate, booking.EndDate
					var err error
					if body.StartDate != nil {
						if start, err = utils.ParseRentalDate(*body.StartDate); err != nil {
							return err
						}
					}
					if body.EndDate != nil {
						if end, err = utils.ParseRentalDate(*body.EndDate); err != nil {
							return err
						}
					}
					if !end.After(start) {
						return fmt.Errorf("%w: end date must be after start date", utils.ErrValidation)
					}
					vehicleIds := make([]uint, 0, len(booking.BookingVehicles))
					for _, bv := range booking.BookingVehicles {
						vehicleIds = append(vehicleIds, bv.VehicleID)
					}
					quote, err := utils.QuoteBooking(tx, tenant, vehicleIds, start, end, nil)
					if err != nil {
						return err
					}
					updates["start_date"] = start
					updates["end_date"] = end
					updates["subtotal"] = quote.Total
					updates["total"] = quote.Total + booking.ExtrasTotal
				}
				if len(updates) == 0 {
					return nil
				}
				return tx.
					Model(&booking).
					Updates(updates).
					Error
			})
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var booking models.Booking
				if err := tx.
					Model(&models.Booking{}).
					Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
					First(&booking).
					Error; err != nil {
					return err
				}
				if booking.Status == types.BOOKING_COMPLETED {
					return fmt.Errorf("%w: completed bookings cannot be canceled", utils.ErrConflict)
				}
				if err := tx.
					Model(&models.Booking{}).
					Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
					Update("status", types.BOOKING_CANCELED).
					Error; err != nil {
					return err
				}
				if err := tx.
					Model(&models.Payment{}).
					Scopes(scopes.ForTenant(tenantId)).
					Where("booking_id = ?", params.ID).
					Where("status = ?", types.PAYMENT_PENDING).
					Update("status", types.PAYMENT_CANCELED).
					Error; err != nil {
					return err
				}
				return nil
			})
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenantId := utils.TenantID(ctx)
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var booking models.Booking
				if err := tx.
					Model(&models.Booking{}).
					Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
					First(&booking).
					Error; err != nil {
					return err
				}
				var signed int64
				if err := tx.
					Model(&models.Contract{}).
					Scopes(scopes.ForTenant(tenantId)).
					Where("booking_id = ?", params.ID).
					Where("signed_at IS NOT NULL").
					Count(&signed).
					Error; err != nil {
					return err
				}
				if signed > 0 {
					return fmt.Errorf("%w: booking has a signed contract", utils.ErrImmutable)
				}
				if err := tx.
					Scopes(scopes.ForTenant(tenantId)).
					Where("booking_id = ?", params.ID).
					Delete(&models.Contract{}).
					Error; err != nil {
					return err
				}
				if err := tx.
					Scopes(scopes.ForTenant(tenantId)).
					Where("booking_id = ?", params.ID).
					Delete(&models.BookingVehicle{}).
					Error; err != nil {
					return err
				}
				if err := tx.
					Scopes(scopes.ForTenant(tenantId)).
					Where("booking_id = ?", params.ID).
					Delete(&models.Payment{}).
					Error; err != nil {
					return err
				}
				return tx.
					Scopes(scopes.ForTenant(tenantId), scopes.WithID(params.ID)).
					Delete(&models.Booking{}).
					Error
			})
			if err != nil {
				utils.HTTPError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
