package main

import (
	"fmt"
	"time"

	"vrms/src/config"
	"vrms/src/models"
	"vrms/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

type fleet struct {
	Customer models.Customer
	Group    models.PricingGroup
	Vehicle  models.Vehicle
}

// seedFleet creates a customer, a pricing group and one active vehicle for
// the tenant, straight through the DB.
func (s *TestSuite) seedFleet(tenant *models.Tenant, plate string, rate float64) fleet {
	f := fleet{
		Customer: models.Customer{TenantID: tenant.ID, FirstName: "Renter", LastName: plate, Status: types.CUSTOMER_ACTIVE},
		Group:    models.PricingGroup{TenantID: tenant.ID, Name: "group-" + plate, DailyRate: rate},
	}
	assert.Nil(s.T(), s.DB.Create(&f.Customer).Error)
	assert.Nil(s.T(), s.DB.Create(&f.Group).Error)
	f.Vehicle = models.Vehicle{
		TenantID:       tenant.ID,
		Plate:          plate,
		Make:           "VW",
		Model:          "Golf",
		Status:         types.VEHICLE_ACTIVE,
		PricingGroupID: &f.Group.ID,
	}
	assert.Nil(s.T(), s.DB.Create(&f.Vehicle).Error)
	return f
}

// rentalWindow returns a future start/end pair n days apart.
func rentalWindow(days int) (string, string) {
	start := time.Now().AddDate(0, 2, 0)
	end := start.AddDate(0, 0, days)
	return start.Format(config.DATE_PARSE_FORMAT), end.Format(config.DATE_PARSE_FORMAT)
}

func (s *TestSuite) TestBookingQuote() {
	router := s.newRouter()
	f := s.seedFleet(s.Tenant1, "Q-1001", 50)
	start, end := rentalWindow(2)

	s.Run("two days at the base rate", func() {
		w := s.request(router, "POST", "/api/v1/bookings/quote", types.QuoteRequestBody{
			VehicleIDs: []uint{f.Vehicle.ID},
			StartDate:  start,
			EndDate:    end,
		}, s.Owner1)
		assert.Equal(s.T(), 200, w.Code)
		res := w.Body.String()
		assert.Equal(s.T(), int64(2), gjson.Get(res, "data.days").Int())
		assert.Equal(s.T(), float64(100), gjson.Get(res, "data.total").Float())
	})

	s.Run("season multiplier scales covered days", func() {
		season := models.Season{
			TenantID:   s.Tenant1.ID,
			Name:       "high season",
			StartDate:  time.Now().AddDate(0, 1, 0),
			EndDate:    time.Now().AddDate(0, 4, 0),
			Multiplier: 1.5,
		}
		assert.Nil(s.T(), s.DB.Create(&season).Error)
		defer s.DB.Unscoped().Delete(&season)

		w := s.request(router, "POST", "/api/v1/bookings/quote", types.QuoteRequestBody{
			VehicleIDs: []uint{f.Vehicle.ID},
			StartDate:  start,
			EndDate:    end,
		}, s.Owner1)
		assert.Equal(s.T(), 200, w.Code)
		assert.Equal(s.T(), float64(150), gjson.Get(w.Body.String(), "data.total").Float())
	})

	s.Run("extras are added per day or flat", func() {
		perDay := models.Extra{TenantID: s.Tenant1.ID, Name: "child seat", Price: 10, PerDay: true}
		flat := models.Extra{TenantID: s.Tenant1.ID, Name: "cleaning", Price: 15}
		assert.Nil(s.T(), s.DB.Create(&perDay).Error)
		assert.Nil(s.T(), s.DB.Create(&flat).Error)

		w := s.request(router, "POST", "/api/v1/bookings/quote", types.QuoteRequestBody{
			VehicleIDs: []uint{f.Vehicle.ID},
			StartDate:  start,
			EndDate:    end,
			ExtraIDs:   []uint{perDay.ID, flat.ID},
		}, s.Owner1)
		assert.Equal(s.T(), 200, w.Code)
		res := w.Body.String()
		assert.Equal(s.T(), float64(35), gjson.Get(res, "data.extras_cost").Float())
		assert.Equal(s.T(), float64(135), gjson.Get(res, "data.total").Float())
	})

	s.Run("vehicle in maintenance cannot be quoted", func() {
		assert.Nil(s.T(), s.DB.Model(&f.Vehicle).Update("status", types.VEHICLE_MAINTENANCE).Error)
		defer s.DB.Model(&f.Vehicle).Update("status", types.VEHICLE_ACTIVE)

		w := s.request(router, "POST", "/api/v1/bookings/quote", types.QuoteRequestBody{
			VehicleIDs: []uint{f.Vehicle.ID},
			StartDate:  start,
			EndDate:    end,
		}, s.Owner1)
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("unknown vehicle is 404", func() {
		w := s.request(router, "POST", "/api/v1/bookings/quote", types.QuoteRequestBody{
			VehicleIDs: []uint{999999},
			StartDate:  start,
			EndDate:    end,
		}, s.Owner1)
		assert.Equal(s.T(), 404, w.Code)
	})
}

func (s *TestSuite) TestBookingCreate() {
	router := s.newRouter()
	f := s.seedFleet(s.Tenant1, "B-2001", 40)
	start, end := rentalWindow(3)

	w := s.request(router, "POST", "/api/v1/bookings", types.CreateBookingRequestBody{
		CustomerID: f.Customer.ID,
		VehicleIDs: []uint{f.Vehicle.ID},
		StartDate:  start,
		EndDate:    end,
	}, s.Owner1)
	assert.Equal(s.T(), 201, w.Code)
	res := w.Body.String()
	bookingId := gjson.Get(res, "data.id").Uint()
	assert.Equal(s.T(), "pending", gjson.Get(res, "data.status").String())
	assert.Equal(s.T(), float64(120), gjson.Get(res, "data.total").Float())

	s.Run("join rows expose their own id and the vehicle id", func() {
		w := s.request(router, "GET", fmt.Sprintf("/api/v1/bookings/%d/vehicles", bookingId), nil, s.Owner1)
		assert.Equal(s.T(), 200, w.Code)
		res := w.Body.String()
		assert.Equal(s.T(), int64(1), gjson.Get(res, "count").Int())
		assert.Equal(s.T(), f.Vehicle.ID, uint(gjson.Get(res, "data.0.vehicle_id").Uint()))
		assert.NotEqual(s.T(), gjson.Get(res, "data.0.id").Uint(), uint64(0))
		assert.Equal(s.T(), float64(40), gjson.Get(res, "data.0.daily_rate").Float())
	})

	s.Run("dates in the past are rejected", func() {
		w := s.request(router, "POST", "/api/v1/bookings", types.CreateBookingRequestBody{
			CustomerID: f.Customer.ID,
			VehicleIDs: []uint{f.Vehicle.ID},
			StartDate:  "2020-01-01",
			EndDate:    "2020-01-03",
		}, s.Owner1)
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("end before start is rejected", func() {
		w := s.request(router, "POST", "/api/v1/bookings", types.CreateBookingRequestBody{
			CustomerID: f.Customer.ID,
			VehicleIDs: []uint{f.Vehicle.ID},
			StartDate:  end,
			EndDate:    start,
		}, s.Owner1)
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("another tenant's customer cannot be booked", func() {
		other := s.seedFleet(s.Tenant2, "B-2002", 40)
		w := s.request(router, "POST", "/api/v1/bookings", types.CreateBookingRequestBody{
			CustomerID: other.Customer.ID,
			VehicleIDs: []uint{f.Vehicle.ID},
			StartDate:  start,
			EndDate:    end,
		}, s.Owner1)
		assert.Equal(s.T(), 404, w.Code)
	})
}

func (s *TestSuite) TestBookingDelete() {
	router := s.newRouter()
	f := s.seedFleet(s.Tenant1, "B-2101", 40)
	start, end := rentalWindow(2)

	w := s.request(router, "POST", "/api/v1/bookings", types.CreateBookingRequestBody{
		CustomerID: f.Customer.ID,
		VehicleIDs: []uint{f.Vehicle.ID},
		StartDate:  start,
		EndDate:    end,
	}, s.Owner1)
	assert.Equal(s.T(), 201, w.Code)
	bookingId := gjson.Get(w.Body.String(), "data.id").Uint()

	payment := models.Payment{
		TenantID:  s.Tenant1.ID,
		BookingID: uint(bookingId),
		Amount:    80,
		Currency:  "EUR",
		Status:    types.PAYMENT_PENDING,
	}
	assert.Nil(s.T(), s.DB.Create(&payment).Error)

	w = s.request(router, "DELETE", fmt.Sprintf("/api/v1/bookings/%d", bookingId), nil, s.Owner1)
	assert.Equal(s.T(), 204, w.Code)

	var count int64
	assert.Nil(s.T(), s.DB.Model(&models.Booking{}).Where("id = ?", bookingId).Count(&count).Error)
	assert.Equal(s.T(), int64(0), count)
	assert.Nil(s.T(), s.DB.Model(&models.BookingVehicle{}).Where("booking_id = ?", bookingId).Count(&count).Error)
	assert.Equal(s.T(), int64(0), count)
	assert.Nil(s.T(), s.DB.Model(&models.Payment{}).Where("id = ?", payment.ID).Count(&count).Error)
	assert.Equal(s.T(), int64(0), count, "payments must not outlive their booking")
}

func (s *TestSuite) TestBookingCancel() {
	router := s.newRouter()
	f := s.seedFleet(s.Tenant1, "C-3001", 30)
	start, end := rentalWindow(2)

	w := s.request(router, "POST", "/api/v1/bookings", types.CreateBookingRequestBody{
		CustomerID: f.Customer.ID,
		VehicleIDs: []uint{f.Vehicle.ID},
		StartDate:  start,
		EndDate:    end,
	}, s.Owner1)
	assert.Equal(s.T(), 201, w.Code)
	bookingId := uint(gjson.Get(w.Body.String(), "data.id").Uint())

	payment := models.Payment{
		TenantID:  s.Tenant1.ID,
		BookingID: bookingId,
		Amount:    60,
		Currency:  "EUR",
		Status:    types.PAYMENT_PENDING,
	}
	assert.Nil(s.T(), s.DB.Create(&payment).Error)

	w = s.request(router, "PUT", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingId), nil, s.Owner1)
	assert.Equal(s.T(), 204, w.Code)

	var booking models.Booking
	assert.Nil(s.T(), s.DB.First(&booking, bookingId).Error)
	assert.Equal(s.T(), types.BOOKING_CANCELED, booking.Status)

	assert.Nil(s.T(), s.DB.First(&payment, payment.ID).Error)
	assert.Equal(s.T(), types.PAYMENT_CANCELED, payment.Status)

	s.Run("completed bookings cannot be canceled", func() {
		assert.Nil(s.T(), s.DB.Model(&booking).Update("status", types.BOOKING_COMPLETED).Error)
		w := s.request(router, "PUT", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingId), nil, s.Owner1)
		assert.Equal(s.T(), 409, w.Code)
	})
}

func (s *TestSuite) TestBookingReprice() {
	router := s.newRouter()
	f := s.seedFleet(s.Tenant1, "R-4001", 25)
	start, end := rentalWindow(2)

	w := s.request(router, "POST", "/api/v1/bookings", types.CreateBookingRequestBody{
		CustomerID: f.Customer.ID,
		VehicleIDs: []uint{f.Vehicle.ID},
		StartDate:  start,
		EndDate:    end,
	}, s.Owner1)
	assert.Equal(s.T(), 201, w.Code)
	bookingId := gjson.Get(w.Body.String(), "data.id").Uint()
	assert.Equal(s.T(), float64(50), gjson.Get(w.Body.String(), "data.total").Float())

	_, newEnd := rentalWindow(4)
	w = s.request(router, "PUT", fmt.Sprintf("/api/v1/bookings/%d", bookingId), types.UpdateBookingRequestBody{
		EndDate: &newEnd,
	}, s.Owner1)
	assert.Equal(s.T(), 200, w.Code)

	var booking models.Booking
	assert.Nil(s.T(), s.DB.First(&booking, bookingId).Error)
	assert.Equal(s.T(), float64(100), booking.Total)
}

func (s *TestSuite) TestBookingInvoice() {
	router := s.newRouter()
	f := s.seedFleet(s.Tenant1, "I-5001", 20)
	start, end := rentalWindow(2)

	w := s.request(router, "POST", "/api/v1/bookings", types.CreateBookingRequestBody{
		CustomerID: f.Customer.ID,
		VehicleIDs: []uint{f.Vehicle.ID},
		StartDate:  start,
		EndDate:    end,
	}, s.Owner1)
	assert.Equal(s.T(), 201, w.Code)
	bookingId := gjson.Get(w.Body.String(), "data.id").Uint()

	w = s.request(router, "POST", fmt.Sprintf("/api/v1/bookings/%d/invoices", bookingId), nil, s.Owner1)
	assert.Equal(s.T(), 201, w.Code)
	res := w.Body.String()
	invoiceId := gjson.Get(res, "data.id").Uint()
	assert.Contains(s.T(), gjson.Get(res, "data.number").String(), "INV-")
	assert.Equal(s.T(), float64(40), gjson.Get(res, "data.amount").Float())

	s.Run("voiding an issued invoice", func() {
		w := s.request(router, "PUT", fmt.Sprintf("/api/v1/invoices/%d/void", invoiceId), nil, s.Owner1)
		assert.Equal(s.T(), 204, w.Code)

		var invoice models.Invoice
		assert.Nil(s.T(), s.DB.First(&invoice, invoiceId).Error)
		assert.Equal(s.T(), types.INVOICE_VOID, invoice.Status)
	})

	s.Run("canceled bookings cannot be invoiced", func() {
		w := s.request(router, "PUT", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingId), nil, s.Owner1)
		assert.Equal(s.T(), 204, w.Code)

		w = s.request(router, "POST", fmt.Sprintf("/api/v1/bookings/%d/invoices", bookingId), nil, s.Owner1)
		assert.Equal(s.T(), 409, w.Code)
	})
}
