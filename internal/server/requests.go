package server

import (
	"github.com/go-playground/validator/v10"

	"jobfinder/internal/job"
)

var validate = validator.New()

type searchRequest struct {
	Query     string            `json:"query" validate:"required"`
	Locations []string          `json:"locations"`
	Filters   map[string]string `json:"filters"`
	Limit     int               `json:"limit" validate:"gte=0,lte=100"`
}

type filtersRequest struct {
	Filters map[string]string `json:"filters"`
}

type saveJobRequest struct {
	Job    job.Job `json:"job"`
	Status string  `json:"status"`
	Notes  string  `json:"notes"`
}
