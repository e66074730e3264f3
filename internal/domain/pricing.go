package domain

// TotalPrice computes the charge for a stay: nightly rate times whole nights
// in the half-open range [checkIn, checkOut). Pure and deterministic.
func TotalPrice(nightlyRate Money, checkIn, checkOut Date) (Money, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0, ErrInvalidInput
	}
	nights := checkIn.DaysUntil(checkOut)
	if nights <= 0 {
		return 0, ErrInvalidInput
	}
	return nightlyRate.MulNights(nights), nil
}
