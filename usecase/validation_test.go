package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/setuponce/backend/domain"
)

type lineInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type sampleInput struct {
	Name  string      `json:"name" validate:"required,max=5"`
	Kind  string      `json:"kind" validate:"omitempty,oneof=a b"`
	Lines []lineInput `json:"lines" validate:"required,min=1,dive"`
}

func TestValidateReportsJSONFieldPaths(t *testing.T) {
	err := Validate(sampleInput{
		Name:  "too long name",
		Kind:  "c",
		Lines: []lineInput{{ProductID: "", Quantity: 0}},
	})
	require.Error(t, err)

	var dErr *domain.Error
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, domain.ErrCodeInvalid, dErr.Code)
	assert.Equal(t, "must be at most 5 characters", dErr.Fields["name"])
	assert.Equal(t, "must be one of: a b", dErr.Fields["kind"])
	assert.Equal(t, "is required", dErr.Fields["lines[0].product_id"])
	assert.Equal(t, "must be 1 or greater", dErr.Fields["lines[0].quantity"])
}

func TestValidateAcceptsValidInput(t *testing.T) {
	err := Validate(sampleInput{Name: "ok", Lines: []lineInput{{ProductID: "p1", Quantity: 2}}})
	assert.NoError(t, err)
}

func TestValidateRejectsBlankNames(t *testing.T) {
	err := Validate(domain.CategoryInput{Name: "   "})
	require.Error(t, err)

	var dErr *domain.Error
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, "must not be blank", dErr.Fields["name"])
}
