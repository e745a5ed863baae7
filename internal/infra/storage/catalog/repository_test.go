package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

func TestErrorsUnwrapToDomain(t *testing.T) {
	assert.ErrorIs(t, ErrPatientNotFound, domain.ErrPatientNotFound)
	assert.ErrorIs(t, ErrTherapistNotFound, domain.ErrTherapistNotFound)
	assert.ErrorIs(t, ErrTimeBlockNotFound, domain.ErrTimeBlockNotFound)
}
