package handlers

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvellino/dinespot/internal/models"
)

func TestReservationQRSignatureRoundTrip(t *testing.T) {
	reservation := &models.Reservation{
		ID:            uuid.New(),
		RestaurantID:  uuid.New(),
		CustomerEmail: "jane@example.com",
	}
	secret := "test-secret"

	signature := reservationSignature(reservation, secret)
	qrData := "reservation:" + reservation.ID.String() +
		";restaurant:" + reservation.RestaurantID.String() +
		";signature:" + signature

	extractedID, err := extractReservationIDFromQRData(qrData)
	require.NoError(t, err)
	assert.Equal(t, reservation.ID, extractedID)

	assert.True(t, validateReservationQRSignature(reservation, qrData, secret))
}

func TestReservationQRSignatureTampered(t *testing.T) {
	reservation := &models.Reservation{
		ID:            uuid.New(),
		RestaurantID:  uuid.New(),
		CustomerEmail: "jane@example.com",
	}
	secret := "test-secret"

	signature := reservationSignature(reservation, secret)
	qrData := "reservation:" + reservation.ID.String() +
		";restaurant:" + reservation.RestaurantID.String() +
		";signature:" + signature

	// Signature from a different secret fails.
	assert.False(t, validateReservationQRSignature(reservation, qrData, "other-secret"))

	// A reservation with a different email fails against the same payload.
	forged := &models.Reservation{
		ID:            reservation.ID,
		RestaurantID:  reservation.RestaurantID,
		CustomerEmail: "mallory@example.com",
	}
	assert.False(t, validateReservationQRSignature(forged, qrData, secret))

	// Flipping a signature character fails.
	tampered := qrData[:len(qrData)-1]
	if strings.HasSuffix(qrData, "a") {
		tampered += "b"
	} else {
		tampered += "a"
	}
	assert.False(t, validateReservationQRSignature(reservation, tampered, secret))
}

func TestExtractReservationIDFromQRDataFormat(t *testing.T) {
	_, err := extractReservationIDFromQRData("garbage")
	assert.Error(t, err)

	_, err = extractReservationIDFromQRData("reservation:not-a-uuid;restaurant:x;signature:y")
	assert.Error(t, err)

	_, err = extractReservationIDFromQRData("booking:123;restaurant:x;signature:y")
	assert.Error(t, err)
}
