package main

import (
	"fmt"

	"vrms/src/models"
	"vrms/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func (s *TestSuite) TestContractVersioning() {
	router := s.newRouter()
	f := s.seedFleet(s.Tenant1, "K-6001", 35)
	start, end := rentalWindow(2)

	w := s.request(router, "POST", "/api/v1/bookings", types.CreateBookingRequestBody{
		CustomerID: f.Customer.ID,
		VehicleIDs: []uint{f.Vehicle.ID},
		StartDate:  start,
		EndDate:    end,
	}, s.Owner1)
	assert.Equal(s.T(), 201, w.Code)
	bookingId := gjson.Get(w.Body.String(), "data.id").Uint()

	w = s.request(router, "POST", fmt.Sprintf("/api/v1/bookings/%d/contracts", bookingId), nil, s.Owner1)
	assert.Equal(s.T(), 201, w.Code)
	res := w.Body.String()
	assert.Equal(s.T(), int64(1), gjson.Get(res, "data.version").Int())
	assert.Contains(s.T(), gjson.Get(res, "data.body").String(), "RENTAL CONTRACT")
	assert.Contains(s.T(), gjson.Get(res, "data.body").String(), "K-6001")

	s.Run("regenerating an unsigned contract bumps the version", func() {
		w := s.request(router, "POST", fmt.Sprintf("/api/v1/bookings/%d/contracts", bookingId), nil, s.Owner1)
		assert.Equal(s.T(), 201, w.Code)
		assert.Equal(s.T(), int64(2), gjson.Get(w.Body.String(), "data.version").Int())
	})

	s.Run("history is newest first", func() {
		w := s.request(router, "GET", fmt.Sprintf("/api/v1/bookings/%d/contracts", bookingId), nil, s.Owner1)
		assert.Equal(s.T(), 200, w.Code)
		res := w.Body.String()
		assert.Equal(s.T(), int64(2), gjson.Get(res, "count").Int())
		assert.Equal(s.T(), int64(2), gjson.Get(res, "data.0.version").Int())
		assert.Equal(s.T(), int64(1), gjson.Get(res, "data.1.version").Int())
	})
}

func (s *TestSuite) TestContractSigningLocksTheRecord() {
	router := s.newRouter()
	f := s.seedFleet(s.Tenant1, "K-7001", 35)
	start, end := rentalWindow(2)

	w := s.request(router, "POST", "/api/v1/bookings", types.CreateBookingRequestBody{
		CustomerID: f.Customer.ID,
		VehicleIDs: []uint{f.Vehicle.ID},
		StartDate:  start,
		EndDate:    end,
	}, s.Owner1)
	assert.Equal(s.T(), 201, w.Code)
	bookingId := gjson.Get(w.Body.String(), "data.id").Uint()

	w = s.request(router, "POST", fmt.Sprintf("/api/v1/bookings/%d/contracts", bookingId), nil, s.Owner1)
	assert.Equal(s.T(), 201, w.Code)
	contractId := gjson.Get(w.Body.String(), "data.id").Uint()

	w = s.request(router, "POST", fmt.Sprintf("/api/v1/contracts/%d/sign", contractId), types.SignContractRequestBody{
		SignedBy: "Renter K-7001",
	}, s.Owner1)
	assert.Equal(s.T(), 200, w.Code)
	assert.NotEmpty(s.T(), gjson.Get(w.Body.String(), "data.signed_at").String())

	s.Run("signing twice conflicts", func() {
		w := s.request(router, "POST", fmt.Sprintf("/api/v1/contracts/%d/sign", contractId), types.SignContractRequestBody{
			SignedBy: "Someone Else",
		}, s.Owner1)
		assert.Equal(s.T(), 409, w.Code)
	})

	s.Run("regenerating after signing conflicts", func() {
		w := s.request(router, "POST", fmt.Sprintf("/api/v1/bookings/%d/contracts", bookingId), nil, s.Owner1)
		assert.Equal(s.T(), 409, w.Code)
	})

	s.Run("a signed contract cannot be deleted and stays intact", func() {
		w := s.request(router, "DELETE", fmt.Sprintf("/api/v1/contracts/%d", contractId), nil, s.Owner1)
		assert.Equal(s.T(), 409, w.Code)

		var contract models.Contract
		assert.Nil(s.T(), s.DB.First(&contract, contractId).Error)
		assert.True(s.T(), contract.Signed())
		assert.Equal(s.T(), "Renter K-7001", contract.SignedBy)
	})

	s.Run("the booking behind a signed contract cannot be deleted", func() {
		w := s.request(router, "DELETE", fmt.Sprintf("/api/v1/bookings/%d", bookingId), nil, s.Owner1)
		assert.Equal(s.T(), 409, w.Code)

		var booking models.Booking
		assert.Nil(s.T(), s.DB.First(&booking, bookingId).Error)
	})
}

func (s *TestSuite) TestContractDeleteUnsigned() {
	router := s.newRouter()
	f := s.seedFleet(s.Tenant1, "K-8001", 35)
	start, end := rentalWindow(2)

	w := s.request(router, "POST", "/api/v1/bookings", types.CreateBookingRequestBody{
		CustomerID: f.Customer.ID,
		VehicleIDs: []uint{f.Vehicle.ID},
		StartDate:  start,
		EndDate:    end,
	}, s.Owner1)
	assert.Equal(s.T(), 201, w.Code)
	bookingId := gjson.Get(w.Body.String(), "data.id").Uint()

	w = s.request(router, "POST", fmt.Sprintf("/api/v1/bookings/%d/contracts", bookingId), nil, s.Owner1)
	assert.Equal(s.T(), 201, w.Code)
	contractId := gjson.Get(w.Body.String(), "data.id").Uint()

	w = s.request(router, "DELETE", fmt.Sprintf("/api/v1/contracts/%d", contractId), nil, s.Owner1)
	assert.Equal(s.T(), 204, w.Code)

	w = s.request(router, "GET", fmt.Sprintf("/api/v1/contracts/%d", contractId), nil, s.Owner1)
	assert.Equal(s.T(), 404, w.Code)
}
