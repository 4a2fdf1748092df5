package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/resell-valuator/pkg/types"
)

// ValuationProblem is the error body for a failed valuation. It extends the
// standard problem document with the failure kind and the offending field so
// clients can branch without parsing messages.
type ValuationProblem struct {
	huma.ErrorModel
	Kind  domain.ErrorKind `json:"kind"            doc:"Failure classification" example:"unknown_label"`
	Field string           `json:"field,omitempty" doc:"Input field at fault"   example:"brand"`
}

// valuationError maps a valuation failure onto an HTTP status: caller
// mistakes are 422, an unusable model is 503, everything else is 500.
func valuationError(err error) error {
	ve := domain.NewValuationError(err)

	status := http.StatusInternalServerError
	switch {
	case ve.BadInput():
		status = http.StatusUnprocessableEntity
	case ve.Kind == domain.KindSchemaMismatch, ve.Kind == domain.KindModelUnavailable:
		status = http.StatusServiceUnavailable
	}

	p := &ValuationProblem{
		ErrorModel: huma.ErrorModel{
			Title:  http.StatusText(status),
			Status: status,
			Detail: ve.Message,
		},
		Kind:  ve.Kind,
		Field: ve.Field,
	}
	if ve.Field != "" {
		p.Errors = []*huma.ErrorDetail{{
			Message:  ve.Message,
			Location: "body." + ve.Field,
		}}
	}
	return p
}
